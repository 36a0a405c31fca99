package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	imgcolor "image/color"
	"image/png"
	"math"

	"artprep/pkg/cfg"
	"artprep/pkg/color"
	"artprep/pkg/geometry"
	"artprep/pkg/logging"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	MediaTypePNG = "image/png"
	MediaTypeSVG = "image/svg+xml"
)

// Bitmap is a rendered artwork. When rendering failed, Fallback is set and
// Data holds the original document instead of pixels.
type Bitmap struct {
	Data      []byte
	MediaType string
	Width     int
	Height    int
	Fallback  bool
}

// DataURI returns the bitmap as a base64 data URI.
func (b Bitmap) DataURI() string {
	return "data:" + b.MediaType + ";base64," + base64.StdEncoding.EncodeToString(b.Data)
}

// Dimensions fits the viewport's aspect ratio into a maxDim square: the
// longer axis is maxDim, the shorter one is scaled and rounded. A missing
// or degenerate viewport renders square.
func Dimensions(vp geometry.Viewport, maxDim int) (int, int) {
	aspect := vp.AspectRatio()
	if aspect >= 1 {
		return maxDim, max(1, int(math.Round(float64(maxDim)/aspect)))
	}
	return max(1, int(math.Round(float64(maxDim)*aspect))), maxDim
}

// RenderTransparent renders the document with the longer axis at
// th.BitmapMaxDimension and makes its opaque near-white pixels
// transparent, so the artwork can be laid over a photograph. On failure
// or timeout the original document is returned as the fallback.
func RenderTransparent(ctx context.Context, r Rasterizer, svg []byte, vp geometry.Viewport, th cfg.Thresholds) Bitmap {
	w, h := Dimensions(vp, th.BitmapMaxDimension)
	var encoded bytes.Buffer
	err := Do(ctx, r, Job{SVG: svg, Viewport: vp}, w, h, imgcolor.Transparent, th.RasterTimeout.Std(),
		func(img *image.RGBA) error {
			out := image.NewNRGBA(img.Bounds())
			draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
			PunchNearWhite(out, th.TransparentAlpha, th.TransparentChannel)
			return png.Encode(&encoded, out)
		})
	if err != nil {
		logging.Named("bitmap").Warn("falling back to vector artwork", zap.Error(err))
		return Bitmap{Data: svg, MediaType: MediaTypeSVG, Width: w, Height: h, Fallback: true}
	}
	return Bitmap{Data: encoded.Bytes(), MediaType: MediaTypePNG, Width: w, Height: h}
}

// PunchNearWhite clears the alpha of every pixel that is mostly opaque
// and near white.
func PunchNearWhite(img *image.NRGBA, alphaMin, channelMin uint8) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			off := img.PixOffset(x, y)
			px := imgcolor.NRGBA{R: img.Pix[off], G: img.Pix[off+1], B: img.Pix[off+2], A: img.Pix[off+3]}
			if color.IsOpaqueNearWhite(px, alphaMin, channelMin) {
				img.Pix[off+3] = 0
			}
		}
	}
}
