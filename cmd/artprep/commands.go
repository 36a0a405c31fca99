package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"artprep/pkg/artwork"
	"artprep/pkg/cfg"
	"artprep/pkg/geometry"
	"artprep/pkg/glyph"
	"artprep/pkg/homography"
	"artprep/pkg/logging"
	"artprep/pkg/raster"
	"artprep/pkg/vectorize"

	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/xerrors"
)

func runSanitize(ctx context.Context, th cfg.Thresholds, args []string) error {
	fs := flag.NewFlagSet("sanitize", flag.ExitOnError)
	out := fs.String("o", "", "output file")
	loose := fs.Bool("no-tighten", false, "keep the declared viewBox")
	fs.Parse(args)

	data, err := readInput(fs)
	if err != nil {
		return err
	}
	opts := []artwork.Option{artwork.WithThresholds(th)}
	if *loose {
		opts = append(opts, artwork.WithoutTightening())
	}
	res := artwork.Sanitize(ctx, data, opts...)
	logging.Named("cli").Info("sanitized", zap.Float64("width", res.Width), zap.Float64("height", res.Height))
	return writeOutput(*out, res.Content)
}

func runRecolor(ctx context.Context, th cfg.Thresholds, args []string) error {
	fs := flag.NewFlagSet("recolor", flag.ExitOnError)
	color := fs.String("color", "#000000", "fill applied to every painted shape")
	out := fs.String("o", "", "output file")
	fs.Parse(args)

	data, err := readInput(fs)
	if err != nil {
		return err
	}
	return writeOutput(*out, artwork.Recolor(data, *color))
}

func runRasterize(ctx context.Context, th cfg.Thresholds, args []string) error {
	fs := flag.NewFlagSet("rasterize", flag.ExitOnError)
	maxDim := fs.Int("max", th.BitmapMaxDimension, "longest side of the bitmap in pixels")
	out := fs.String("o", "", "output file")
	uri := fs.Bool("data-uri", false, "print a data URI instead of the raw bitmap")
	fs.Parse(args)

	data, err := readInput(fs)
	if err != nil {
		return err
	}
	th.BitmapMaxDimension = *maxDim
	bitmap := artwork.ToBitmap(ctx, data, artwork.WithThresholds(th))
	logging.Named("cli").Info("rasterized",
		zap.String("type", bitmap.MediaType),
		zap.Int("width", bitmap.Width),
		zap.Int("height", bitmap.Height),
		zap.Bool("fallback", bitmap.Fallback))
	if *uri {
		return writeOutput(*out, []byte(bitmap.DataURI()+"\n"))
	}
	return writeOutput(*out, bitmap.Data)
}

func runBounds(ctx context.Context, th cfg.Thresholds, args []string) error {
	fs := flag.NewFlagSet("bounds", flag.ExitOnError)
	fs.Parse(args)

	data, err := readInput(fs)
	if err != nil {
		return err
	}
	root, err := artwork.Parse(data)
	if err != nil {
		return err
	}
	vp := root.Viewport(th.DefaultExtent)
	svg, err := root.Marshal()
	if err != nil {
		return err
	}
	box, ok := raster.FindBounds(ctx, raster.OKSVG{}, svg, vp, th)
	if !ok {
		return xerrors.New("no visible content")
	}
	fmt.Printf("%g %g %g %g\n", box.Min.X, box.Min.Y, box.Width(), box.Height())
	return nil
}

func runHomography(ctx context.Context, th cfg.Thresholds, args []string) error {
	fs := flag.NewFlagSet("homography", flag.ExitOnError)
	src := fs.String("src", "", "four source corners: x,y x,y x,y x,y")
	dst := fs.String("dst", "", "four destination corners")
	point := fs.String("point", "", "point to project: x,y")
	fs.Parse(args)

	from, err := parseQuad(*src)
	if err != nil {
		return err
	}
	to, err := parseQuad(*dst)
	if err != nil {
		return err
	}
	if homography.Degenerate(from) || homography.Degenerate(to) {
		logging.Named("cli").Warn("three corners are collinear, the matrix is meaningless")
	}
	m := homography.SolveEpsilon(from, to, th.PivotEpsilon)
	for row := 0; row < 3; row++ {
		fmt.Printf("%12.6g %12.6g %12.6g\n", m[row*3], m[row*3+1], m[row*3+2])
	}
	if *point == "" {
		return nil
	}
	p, err := parsePoint(*point)
	if err != nil {
		return err
	}
	q, err := homography.Project(m, p)
	if err != nil {
		return err
	}
	fmt.Printf("%g,%g -> %g,%g\n", p.X, p.Y, q.X, q.Y)
	return nil
}

func runPlane(ctx context.Context, th cfg.Thresholds, args []string) error {
	fs := flag.NewFlagSet("plane", flag.ExitOnError)
	quad := fs.String("quad", "", "corners in image pixels, clockwise from top-left")
	size := fs.String("size", "", "image size: w,h")
	fs.Parse(args)

	corners, err := parseQuad(*quad)
	if err != nil {
		return err
	}
	dims, err := parsePoint(*size)
	if err != nil {
		return err
	}
	plane, err := homography.PlaneFromQuad(corners, dims.X, dims.Y)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(plane, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput("", append(out, '\n'))
}

func runWarp(ctx context.Context, th cfg.Thresholds, args []string) error {
	fs := flag.NewFlagSet("warp", flag.ExitOnError)
	width := fs.Float64("width", 0, "artwork width")
	height := fs.Float64("height", 0, "artwork height")
	quad := fs.String("quad", "", "target corners, clockwise from top-left")
	out := fs.String("o", "", "output file")
	fs.Parse(args)

	corners, err := parseQuad(*quad)
	if err != nil {
		return err
	}
	data, err := readInput(fs)
	if err != nil {
		return err
	}
	root, err := artwork.Parse(data)
	if err != nil {
		return err
	}
	w, h := *width, *height
	if w <= 0 || h <= 0 {
		vp := root.Viewport(th.DefaultExtent)
		w, h = vp.Width, vp.Height
	}
	m := homography.RectToQuad(w, h, corners)

	var walkErr error
	root.Walk(func(n *artwork.Node) bool {
		d, ok := n.Attr("d")
		if !ok || n.Name() != "path" || walkErr != nil {
			return walkErr == nil
		}
		warped, err := homography.WarpPath(m, d)
		if err != nil {
			walkErr = err
			return false
		}
		n.SetAttr("d", warped)
		return true
	})
	if walkErr != nil {
		return walkErr
	}
	svg, err := root.Marshal()
	if err != nil {
		return err
	}
	return writeOutput(*out, svg)
}

func runText(ctx context.Context, th cfg.Thresholds, args []string) error {
	fs := flag.NewFlagSet("text", flag.ExitOnError)
	fontPath := fs.String("font", "", "TrueType or OpenType font; Go Regular when empty")
	height := fs.Float64("height", 100, "letter height")
	spacing := fs.Float64("spacing", th.LetterSpacing, "gap between letters")
	proof := fs.String("proof", "", "also write a PNG proof to this file")
	out := fs.String("o", "", "output file")
	fs.Parse(args)

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		return xerrors.New("no text given")
	}
	var f *sfnt.Font
	var err error
	if *fontPath == "" {
		f, err = glyph.Register("goregular", goregular.TTF)
	} else {
		f, err = glyph.Load(*fontPath)
	}
	if err != nil {
		return err
	}

	line, err := glyph.Layout(f, text, *height, *spacing)
	if err != nil {
		return err
	}
	if *proof != "" {
		var buf bytes.Buffer
		if err := glyph.RenderProof(line, 200, &buf); err != nil {
			return err
		}
		if err := os.WriteFile(*proof, buf.Bytes(), 0o644); err != nil {
			return xerrors.Errorf("writing proof: %w", err)
		}
	}
	svg, err := line.SVG()
	if err != nil {
		return err
	}
	return writeOutput(*out, svg)
}

func runVectorize(ctx context.Context, th cfg.Thresholds, args []string) error {
	opts := vectorize.OptionsFrom(th)
	fs := flag.NewFlagSet("vectorize", flag.ExitOnError)
	threshold := fs.Int("threshold", int(opts.Threshold), "luma at or below which a pixel is ink")
	fs.Float64Var(&opts.MinArea, "min-area", opts.MinArea, "smallest contour kept, in square pixels")
	fs.Float64Var(&opts.Blur, "blur", opts.Blur, "Gaussian sigma applied before thresholding, 0 to disable")
	fs.BoolVar(&opts.Invert, "invert", false, "swap ink and paper")
	fs.Float64Var(&opts.TargetWidth, "width", 0, "output width in mm")
	fs.Float64Var(&opts.TargetHeight, "height", 0, "output height in mm")
	out := fs.String("o", "", "output file")
	fs.Parse(args)

	if *threshold < 0 || *threshold > 255 {
		return xerrors.Errorf("threshold %d out of range [0,255]", *threshold)
	}
	opts.Threshold = uint8(*threshold)

	data, err := readInput(fs)
	if err != nil {
		return err
	}
	img, err := vectorize.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	res, err := vectorize.Vectorize(img, opts)
	if err != nil {
		return err
	}
	logging.Named("cli").Info("vectorized",
		zap.Int("shapes", res.Shapes),
		zap.Bool("inverted", res.Inverted),
		zap.Float64("width", res.Width),
		zap.Float64("height", res.Height))
	return writeOutput(*out, res.SVG)
}

func parseNumbers(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	nums := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, xerrors.Errorf("parsing %q: %w", s, err)
		}
		nums[i] = v
	}
	return nums, nil
}

func parsePoint(s string) (geometry.Point, error) {
	nums, err := parseNumbers(s)
	if err != nil {
		return geometry.Point{}, err
	}
	if len(nums) != 2 {
		return geometry.Point{}, xerrors.Errorf("%q: want x,y", s)
	}
	return geometry.Point{X: nums[0], Y: nums[1]}, nil
}

func parseQuad(s string) ([4]geometry.Point, error) {
	var quad [4]geometry.Point
	nums, err := parseNumbers(s)
	if err != nil {
		return quad, err
	}
	if len(nums) != 8 {
		return quad, xerrors.Errorf("%q: want four x,y corners", s)
	}
	for i := range quad {
		quad[i] = geometry.Point{X: nums[2*i], Y: nums[2*i+1]}
	}
	return quad, nil
}
