package vectorize_test

import (
	"bytes"
	"errors"
	"image"
	imgcolor "image/color"
	"image/png"
	"strings"
	"testing"
	"unicode/utf8"

	"artprep/pkg/artwork"
	"artprep/pkg/color"
	"artprep/pkg/geometry"
	"artprep/pkg/vectorize"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/draw"
)

func makeMask(rows ...string) *vectorize.Mask {
	m := vectorize.Mask{
		Width:  utf8.RuneCountInString(rows[0]),
		Height: len(rows),
	}
	m.Data = make([]color.Color, m.Width*m.Height)
	i := 0
	for _, row := range rows {
		for _, ch := range row {
			if ch == '◻' {
				m.Data[i] = color.White
			} else if ch == '◼' {
				m.Data[i] = color.Black
			}
			i++
		}
	}
	return &m
}

// grayImage is a w by h white image with the given rectangles painted in.
func grayImage(w, h int, paint imgcolor.Gray, rects ...image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	for _, r := range rects {
		draw.Draw(img, r, image.NewUniform(paint), image.Point{}, draw.Src)
	}
	return img
}

type runRecorder struct {
	y    int
	runs [][3]int
}

func (r *runRecorder) AddRun(x1, x2 int) {
	r.runs = append(r.runs, [3]int{r.y, x1, x2})
}

func (r *runRecorder) NextY() {
	r.y++
}

func TestFindHorizontalRuns(t *testing.T) {
	var rec runRecorder
	vectorize.FindHorizontalRuns(makeMask(
		"◻◻◻◻◼◼◼◼",
		"◻◼◼◻◻◻◻◻",
		"◻◻◻◻◻◻◻◻",
		"◼◻◼◼◻◻◻◼",
	), &rec)

	want := [][3]int{
		{0, 4, 8},
		{1, 1, 3},
		{3, 0, 1},
		{3, 2, 4},
		{3, 7, 8},
	}
	if diff := cmp.Diff(want, rec.runs); diff != "" {
		t.Errorf("runs (-want +got):\n%s", diff)
	}
}

func TestInkBounds(t *testing.T) {
	m := makeMask(
		"◻◻◻◻◻◻",
		"◻◻◼◻◻◻",
		"◻◻◼◼◻◻",
		"◻◻◻◻◻◻",
	)
	got, ok := m.InkBounds(0)
	if !ok {
		t.Fatal("InkBounds reported a blank mask")
	}
	if want := image.Rect(2, 1, 4, 3); got != want {
		t.Errorf("InkBounds(0) = %v, want %v", got, want)
	}

	got, _ = m.InkBounds(5)
	if want := m.Bounds(); got != want {
		t.Errorf("InkBounds(5) = %v, want clipped to %v", got, want)
	}

	if _, ok := makeMask("◻◻", "◻◻").InkBounds(1); ok {
		t.Error("InkBounds of a blank mask reported ink")
	}
}

func TestThreshold(t *testing.T) {
	img := grayImage(6, 6, imgcolor.Gray{Y: 40}, image.Rect(2, 2, 4, 4))
	mask, inverted := vectorize.Threshold(img, 128, false)
	if inverted {
		t.Error("light background reported as inverted")
	}
	want := makeMask(
		"◻◻◻◻◻◻",
		"◻◻◻◻◻◻",
		"◻◻◼◼◻◻",
		"◻◻◼◼◻◻",
		"◻◻◻◻◻◻",
		"◻◻◻◻◻◻",
	)
	if diff := cmp.Diff(want, mask); diff != "" {
		t.Errorf("mask (-want +got):\n%s", diff)
	}
}

func TestThresholdDarkBackground(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 6, 6))
	draw.Draw(img, image.Rect(1, 2, 5, 4), image.White, image.Point{}, draw.Src)

	mask, inverted := vectorize.Threshold(img, 128, false)
	if !inverted {
		t.Fatal("dark background not inverted")
	}
	want := makeMask(
		"◻◻◻◻◻◻",
		"◻◻◻◻◻◻",
		"◻◼◼◼◼◻",
		"◻◼◼◼◼◻",
		"◻◻◻◻◻◻",
		"◻◻◻◻◻◻",
	)
	if diff := cmp.Diff(want, mask); diff != "" {
		t.Errorf("mask (-want +got):\n%s", diff)
	}
}

func TestThresholdTransparentIsPaper(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, imgcolor.NRGBA{A: 0xff})
	mask, inverted := vectorize.Threshold(vectorize.Grayscale(img), 128, false)
	if inverted {
		t.Error("transparent border reported as inverted")
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if ink := x == 1 && y == 1; mask.Ink(x, y) != ink {
				t.Errorf("Ink(%d, %d) = %v, want %v", x, y, !ink, ink)
			}
		}
	}
}

func TestThresholdInvert(t *testing.T) {
	light := grayImage(4, 4, imgcolor.Gray{}, image.Rect(1, 1, 3, 3))
	mask, inverted := vectorize.Threshold(light, 128, true)
	if !inverted {
		t.Error("invert ignored on a light background")
	}
	want := makeMask(
		"◼◼◼◼",
		"◼◻◻◼",
		"◼◻◻◼",
		"◼◼◼◼",
	)
	if diff := cmp.Diff(want, mask); diff != "" {
		t.Errorf("inverted mask (-want +got):\n%s", diff)
	}

	// invert cancels the automatic flip of a dark background
	dark := image.NewGray(image.Rect(0, 0, 4, 4))
	draw.Draw(dark, image.Rect(1, 1, 3, 3), image.White, image.Point{}, draw.Src)
	mask, inverted = vectorize.Threshold(dark, 128, true)
	if inverted {
		t.Error("invert did not cancel dark background detection")
	}
	if diff := cmp.Diff(want, mask); diff != "" {
		t.Errorf("mask (-want +got):\n%s", diff)
	}
}

func TestBlur(t *testing.T) {
	img := grayImage(9, 9, imgcolor.Gray{}, image.Rect(4, 4, 5, 5))

	same := vectorize.Blur(img, 0)
	if diff := cmp.Diff(img.Pix, same.Pix); diff != "" {
		t.Errorf("zero sigma changed pixels (-want +got):\n%s", diff)
	}

	blurred := vectorize.Blur(img, 1)
	centre := blurred.GrayAt(4, 4).Y
	if centre <= 128 {
		t.Errorf("blurred dot centre = %d, want it lighter than the threshold", centre)
	}
	for _, p := range []image.Point{{3, 4}, {5, 4}, {4, 3}, {4, 5}} {
		if v := blurred.GrayAt(p.X, p.Y).Y; v >= 255 || v <= centre {
			t.Errorf("neighbour %v = %d, want between centre %d and white", p, v, centre)
		}
	}
	if a, b := blurred.GrayAt(3, 4).Y, blurred.GrayAt(5, 4).Y; a != b {
		t.Errorf("blur not symmetric: %d vs %d", a, b)
	}
	if v := blurred.GrayAt(0, 0).Y; v != 255 {
		t.Errorf("far corner = %d, want untouched white", v)
	}

	flat := vectorize.Blur(grayImage(5, 5, imgcolor.Gray{}), 2)
	for i, v := range flat.Pix {
		if v != 255 {
			t.Fatalf("uniform image changed at %d: %d", i, v)
		}
	}
}

func TestCrop(t *testing.T) {
	m := makeMask(
		"◻◻◻◻",
		"◻◼◻◻",
		"◻◼◼◻",
	)
	want := makeMask(
		"◼◻",
		"◼◼",
	)
	if diff := cmp.Diff(want, m.Crop(image.Rect(1, 1, 3, 3))); diff != "" {
		t.Errorf("Crop (-want +got):\n%s", diff)
	}
}

func TestTraceSquare(t *testing.T) {
	contours := vectorize.TraceContours(makeMask(
		"◻◻◻◻◻",
		"◻◼◼◼◻",
		"◻◼◼◼◻",
		"◻◼◼◼◻",
		"◻◻◻◻◻",
	))
	want := []geometry.Polyline{{
		{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1},
		{X: 3, Y: 2}, {X: 3, Y: 3}, {X: 2, Y: 3},
		{X: 1, Y: 3}, {X: 1, Y: 2},
	}}
	if diff := cmp.Diff(want, contours); diff != "" {
		t.Errorf("contours (-want +got):\n%s", diff)
	}
}

func TestTraceIgnoresSinglePixels(t *testing.T) {
	contours := vectorize.TraceContours(makeMask(
		"◻◻◻",
		"◻◼◻",
		"◻◻◻",
	))
	if len(contours) != 0 {
		t.Errorf("got %d contours for a lone pixel, want 0", len(contours))
	}
}

func TestGroupRing(t *testing.T) {
	contours := vectorize.TraceContours(makeMask(
		"◼◼◼◼◼",
		"◼◼◼◼◼",
		"◼◼◻◼◼",
		"◼◼◼◼◼",
		"◼◼◼◼◼",
	))
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want outer edge and hole rim", len(contours))
	}
	if got := len(contours[0]); got != 16 {
		t.Errorf("outer contour has %d points, want 16", got)
	}
	wantHole := geometry.Polyline{{X: 3, Y: 2}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 3}}
	if diff := cmp.Diff(wantHole, contours[1]); diff != "" {
		t.Errorf("hole rim (-want +got):\n%s", diff)
	}

	shapes := vectorize.GroupContours(contours)
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(shapes))
	}
	if len(shapes[0].Holes) != 1 {
		t.Errorf("got %d holes, want 1", len(shapes[0].Holes))
	}
}

func TestGroupSeparateShapes(t *testing.T) {
	contours := vectorize.TraceContours(makeMask(
		"◼◼◻◻◼◼",
		"◼◼◻◻◼◼",
		"◻◻◻◻◻◻",
	))
	shapes := vectorize.GroupContours(contours)
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(shapes))
	}
	for i, s := range shapes {
		if len(s.Holes) != 0 {
			t.Errorf("shape %d has %d holes, want none", i, len(s.Holes))
		}
	}
}

func ringImage() *image.Gray {
	img := grayImage(20, 20, imgcolor.Gray{}, image.Rect(5, 5, 15, 15))
	draw.Draw(img, image.Rect(8, 8, 12, 12), image.White, image.Point{}, draw.Src)
	return img
}

func ringOptions() vectorize.Options {
	return vectorize.Options{
		Threshold: 128,
		MinArea:   1,
		Padding:   2,
		Tolerance: 0.5,
	}
}

func TestVectorizeRing(t *testing.T) {
	res, err := vectorize.Vectorize(ringImage(), ringOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 14 || res.Height != 14 {
		t.Errorf("size = %vx%v, want 14x14", res.Width, res.Height)
	}
	if res.Shapes != 1 || res.Inverted {
		t.Errorf("Shapes = %d, Inverted = %v; want 1, false", res.Shapes, res.Inverted)
	}

	root, err := artwork.Parse(res.SVG)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if got, _ := root.Attr("viewBox"); got != "0 0 14.00 14.00" {
		t.Errorf("viewBox = %q", got)
	}
	if len(root.Children) != 1 {
		t.Fatalf("got %d paths, want 1", len(root.Children))
	}
	path := root.Children[0]
	if rule, _ := path.Attr("fill-rule"); rule != "evenodd" {
		t.Errorf("fill-rule = %q, want evenodd", rule)
	}
	d, _ := path.Attr("d")
	if strings.Count(d, "M") != 2 || strings.Count(d, "Z") != 2 {
		t.Errorf("path %q should hold the outline and the hole as closed sub paths", d)
	}
}

func TestVectorizeTargetSize(t *testing.T) {
	opts := ringOptions()
	opts.TargetWidth = 28
	res, err := vectorize.Vectorize(ringImage(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 28 || res.Height != 28 {
		t.Errorf("size = %vx%v, want 28x28", res.Width, res.Height)
	}

	opts.TargetHeight = 7
	res, err = vectorize.Vectorize(ringImage(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 7 || res.Height != 7 {
		t.Errorf("size = %vx%v, want the smaller fit 7x7", res.Width, res.Height)
	}
}

func TestVectorizeBlank(t *testing.T) {
	_, err := vectorize.Vectorize(grayImage(8, 8, imgcolor.Gray{}), vectorize.DefaultOptions())
	if !errors.Is(err, vectorize.ErrNoInk) {
		t.Errorf("err = %v, want ErrNoInk", err)
	}
}

func TestVectorizeDropsSpecks(t *testing.T) {
	img := grayImage(20, 20, imgcolor.Gray{}, image.Rect(5, 5, 7, 7))
	opts := ringOptions()
	opts.MinArea = 50
	_, err := vectorize.Vectorize(img, opts)
	if !errors.Is(err, vectorize.ErrNoInk) {
		t.Errorf("err = %v, want ErrNoInk once the speck is filtered", err)
	}
}

func TestVectorizeBlurSmoothsSpecks(t *testing.T) {
	img := grayImage(20, 20, imgcolor.Gray{}, image.Rect(9, 9, 11, 11))
	opts := ringOptions()
	opts.MinArea = 0.5

	res, err := vectorize.Vectorize(img, opts)
	if err != nil {
		t.Fatalf("sharp speck: %v", err)
	}
	if res.Shapes != 1 {
		t.Errorf("sharp speck traced to %d shapes, want 1", res.Shapes)
	}

	opts.Blur = 1
	if _, err := vectorize.Vectorize(img, opts); !errors.Is(err, vectorize.ErrNoInk) {
		t.Errorf("blurred speck: err = %v, want ErrNoInk", err)
	}

	// the ring is large enough to survive the blur
	opts = ringOptions()
	opts.Blur = 1
	res, err = vectorize.Vectorize(ringImage(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Shapes != 1 {
		t.Errorf("blurred ring traced to %d shapes, want 1", res.Shapes)
	}
}

func TestVectorizeInvert(t *testing.T) {
	opts := ringOptions()
	opts.Invert = true
	res, err := vectorize.Vectorize(ringImage(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Inverted {
		t.Error("Result.Inverted not set")
	}
	// paper becomes ink: the whole image minus the ring
	if res.Width != 20 || res.Height != 20 {
		t.Errorf("size = %vx%v, want the full 20x20 image", res.Width, res.Height)
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, ringImage()); err != nil {
		t.Fatal(err)
	}
	img, err := vectorize.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 20, 20) {
		t.Errorf("bounds = %v", got)
	}

	if _, err := vectorize.Decode(strings.NewReader("not an image")); err == nil {
		t.Error("Decode accepted garbage")
	}
}
