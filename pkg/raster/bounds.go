package raster

import (
	"context"
	"image"
	imgcolor "image/color"

	"artprep/pkg/cfg"
	"artprep/pkg/color"
	"artprep/pkg/geometry"
	"artprep/pkg/logging"

	"go.uber.org/zap"
)

// FindBounds renders the document onto a white square sample grid and
// returns the bounding box of every sample that isn't near white, in
// document units. It reports false when nothing was drawn, the box has no
// extent, or rendering failed or timed out.
func FindBounds(ctx context.Context, r Rasterizer, svg []byte, vp geometry.Viewport, th cfg.Thresholds) (geometry.Rectangle, bool) {
	log := logging.Named("bounds")
	if !vp.Valid() {
		return geometry.Rectangle{}, false
	}
	edge := th.SampleEdge
	scaleX := float64(edge) / vp.Width
	scaleY := float64(edge) / vp.Height

	var box image.Rectangle
	found := false
	err := Do(ctx, r, Job{SVG: svg, Viewport: vp}, edge, edge, imgcolor.White, th.RasterTimeout.Std(),
		func(img *image.RGBA) error {
			box, found = contentBox(img, th.ContentChannel)
			return nil
		})
	if err != nil {
		log.Debug("bounds unavailable", zap.Error(err))
		return geometry.Rectangle{}, false
	}
	if !found {
		log.Debug("no content samples")
		return geometry.Rectangle{}, false
	}

	return geometry.Rectangle{
		Min: geometry.Point{X: vp.X + float64(box.Min.X)/scaleX, Y: vp.Y + float64(box.Min.Y)/scaleY},
		Max: geometry.Point{X: vp.X + float64(box.Max.X)/scaleX, Y: vp.Y + float64(box.Max.Y)/scaleY},
	}, true
}

// contentBox scans for content samples. The returned box spans whole
// samples; a box whose first and last samples coincide on either axis is
// treated as empty.
func contentBox(img *image.RGBA, threshold uint8) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			off := img.PixOffset(x, y)
			px := imgcolor.RGBA{R: img.Pix[off], G: img.Pix[off+1], B: img.Pix[off+2], A: img.Pix[off+3]}
			if !color.IsContent(px, threshold) {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX || maxX == minX || maxY == minY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
