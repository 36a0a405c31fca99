// Package vectorize traces uploaded bitmap logos into filled vector
// outlines that the artwork pipeline can consume.
package vectorize

import (
	"encoding/xml"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"artprep/pkg/artwork"
	"artprep/pkg/cfg"
	"artprep/pkg/geometry"
	"artprep/pkg/logging"
	"artprep/pkg/svgpath"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/xerrors"
)

var ErrNoInk = xerrors.New("image has no ink to trace")

type Options struct {
	Threshold uint8
	// MinArea drops contours enclosing fewer square pixels.
	MinArea   float64
	Padding   int
	Tolerance float64

	// Blur is the Gaussian sigma applied before thresholding; it smooths
	// scanning noise and jagged edges.
	Blur   float64
	// Invert flips ink and paper on top of the dark-background detection.
	Invert bool

	// TargetWidth and TargetHeight scale the output, in millimetres. With
	// both set the aspect ratio is kept and the result fits inside them.
	// Zero keeps pixel units.
	TargetWidth  float64
	TargetHeight float64
}

func DefaultOptions() Options {
	return OptionsFrom(cfg.Default)
}

// OptionsFrom takes the tracing settings from th, with no target size.
func OptionsFrom(th cfg.Thresholds) Options {
	return Options{
		Threshold: th.VectorizeThreshold,
		MinArea:   th.VectorizeMinArea,
		Padding:   th.VectorizePadding,
		Tolerance: th.SimplifyTolerance,
		Blur:      th.VectorizeBlur,
	}
}

type Result struct {
	SVG      []byte
	Width    float64
	Height   float64
	Shapes   int
	Inverted bool
}

// Decode reads any of the supported bitmap formats.
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, xerrors.Errorf("decoding image: %w", err)
	}
	logging.Named("vectorize").Debug("decoded image", zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

// Vectorize blurs and thresholds the image, crops it to the ink, traces the ink
// outlines and returns them as an artwork document with one even-odd
// filled path per shape.
func Vectorize(img image.Image, opts Options) (Result, error) {
	log := logging.Named("vectorize")
	gray := Grayscale(img)
	if opts.Blur > 0 {
		gray = Blur(gray, opts.Blur)
	}
	mask, inverted := Threshold(gray, opts.Threshold, opts.Invert)
	crop, ok := mask.InkBounds(opts.Padding)
	if !ok {
		return Result{}, ErrNoInk
	}
	mask = mask.Crop(crop)

	var contours []geometry.Polyline
	for _, c := range TraceContours(mask) {
		if c.Area() < opts.MinArea {
			continue
		}
		simplified := append(c, c[0]).Simplify(opts.Tolerance)
		// drop the repeated start point
		simplified = simplified[:len(simplified)-1]
		if len(simplified) >= 3 {
			contours = append(contours, simplified)
		}
	}
	shapes := GroupContours(contours)
	log.Debug("traced", zap.Int("contours", len(contours)), zap.Int("shapes", len(shapes)),
		zap.Bool("inverted", inverted))
	if len(shapes) == 0 {
		return Result{}, ErrNoInk
	}

	scaleX, scaleY, outW, outH := outputScale(float64(mask.Width), float64(mask.Height), opts)
	doc, err := document(shapes, scaleX, scaleY, outW, outH)
	if err != nil {
		return Result{}, err
	}
	return Result{SVG: doc, Width: outW, Height: outH, Shapes: len(shapes), Inverted: inverted}, nil
}

func outputScale(w, h float64, opts Options) (scaleX, scaleY, outW, outH float64) {
	scale := 1.0
	switch {
	case opts.TargetWidth > 0 && opts.TargetHeight > 0:
		scale = min(opts.TargetWidth/w, opts.TargetHeight/h)
	case opts.TargetHeight > 0:
		scale = opts.TargetHeight / h
	case opts.TargetWidth > 0:
		scale = opts.TargetWidth / w
	}
	return scale, scale, w * scale, h * scale
}

func subPath(c geometry.Polyline, scaleX, scaleY float64) *svgpath.SubPath {
	path := &svgpath.SubPath{X: c[0].X * scaleX, Y: c[0].Y * scaleY}
	for _, p := range c[1:] {
		path.DrawTo = append(path.DrawTo, &svgpath.DrawTo{
			Command: svgpath.LineTo,
			X:       p.X * scaleX,
			Y:       p.Y * scaleY,
		})
	}
	path.DrawTo = append(path.DrawTo, &svgpath.DrawTo{Command: svgpath.ClosePath, X: path.X, Y: path.Y})
	return path
}

func document(shapes []Shape, scaleX, scaleY, outW, outH float64) ([]byte, error) {
	w, h := svgpath.FormatFixed(outW), svgpath.FormatFixed(outH)
	root := &artwork.Node{XMLName: xml.Name{Local: "svg"}}
	root.SetAttr("viewBox", strings.Join([]string{"0", "0", w, h}, " "))
	root.SetAttr("width", w)
	root.SetAttr("height", h)
	for _, shape := range shapes {
		paths := []*svgpath.SubPath{subPath(shape.Outer, scaleX, scaleY)}
		for _, hole := range shape.Holes {
			paths = append(paths, subPath(hole, scaleX, scaleY))
		}
		node := &artwork.Node{XMLName: xml.Name{Local: "path"}}
		node.SetAttr("d", svgpath.ToStringFixed(paths))
		node.SetAttr("fill", "black")
		node.SetAttr("fill-rule", "evenodd")
		root.Children = append(root.Children, node)
	}
	out, err := root.Marshal()
	if err != nil {
		return nil, xerrors.Errorf("writing outlines: %w", err)
	}
	return out, nil
}
