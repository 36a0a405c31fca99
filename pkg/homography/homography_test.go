package homography_test

import (
	"errors"
	"math"
	"testing"

	"artprep/pkg/geometry"
	"artprep/pkg/homography"
	"artprep/pkg/svgpath"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func pt(x, y float64) geometry.Point {
	return geometry.Point{X: x, Y: y}
}

func TestSolveIdentity(t *testing.T) {
	for _, quad := range [][4]geometry.Point{
		{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)},
		{pt(12, 7), pt(410, 33), pt(380, 290), pt(25, 260)},
		{pt(-5, -5), pt(5, -6), pt(7, 8), pt(-4, 3)},
	} {
		got := homography.Solve(quad, quad)
		if diff := cmp.Diff(homography.Identity(), got, cmpopts.EquateApprox(0, 1e-7)); diff != "" {
			t.Errorf("Solve(%v, same) (-want +got):\n%s", quad, diff)
		}
	}
}

func TestSolveTranslation(t *testing.T) {
	src := [4]geometry.Point{pt(0, 0), pt(100, 0), pt(100, 50), pt(0, 50)}
	const dx, dy = 17.5, -3
	var dst [4]geometry.Point
	for i, p := range src {
		dst[i] = p.Add(pt(dx, dy))
	}
	m := homography.Solve(src, dst)
	for _, in := range []geometry.Point{pt(0, 0), pt(50, 25), pt(-300, 1000), pt(1e4, -7)} {
		got := homography.Apply(m, in)
		want := in.Add(pt(dx, dy))
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(1e-9, 1e-9)); diff != "" {
			t.Errorf("Apply(%v) (-want +got):\n%s", in, diff)
		}
	}
}

func TestSolvePerspective(t *testing.T) {
	src := [4]geometry.Point{pt(0, 0), pt(200, 0), pt(200, 100), pt(0, 100)}
	dst := [4]geometry.Point{pt(30, 40), pt(260, 20), pt(250, 180), pt(45, 150)}
	m := homography.Solve(src, dst)
	if m[8] != 1 {
		t.Errorf("h33 = %v, want 1", m[8])
	}
	for i := range src {
		got := homography.Apply(m, src[i])
		if diff := cmp.Diff(dst[i], got, cmpopts.EquateApprox(0, 1e-7)); diff != "" {
			t.Errorf("corner %d (-want +got):\n%s", i, diff)
		}
	}

	inv, err := m.Invert()
	if err != nil {
		t.Fatal(err)
	}
	probe := pt(123, 45)
	back := homography.Apply(inv, homography.Apply(m, probe))
	if diff := cmp.Diff(probe, back, cmpopts.EquateApprox(0, 1e-7)); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	// inv·m is the identity up to scale.
	prod := inv.Multiply(m)
	for i := range prod {
		prod[i] /= prod[8]
	}
	if diff := cmp.Diff(homography.Identity(), prod, cmpopts.EquateApprox(0, 1e-7)); diff != "" {
		t.Errorf("inverse product (-want +got):\n%s", diff)
	}
}

func TestDegenerate(t *testing.T) {
	if homography.Degenerate([4]geometry.Point{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}) {
		t.Error("unit square reported degenerate")
	}
	if !homography.Degenerate([4]geometry.Point{pt(0, 0), pt(1, 1), pt(2, 2), pt(0, 1)}) {
		t.Error("three collinear points not reported")
	}
	if !homography.Degenerate([4]geometry.Point{}) {
		t.Error("coincident points not reported")
	}
}

func TestSolveDegenerateDoesNotPanic(t *testing.T) {
	var zero [4]geometry.Point
	m := homography.Solve(zero, zero)
	if m[8] != 1 {
		t.Errorf("h33 = %v, want 1", m[8])
	}
}

func TestProjectAtInfinity(t *testing.T) {
	m := homography.Matrix{1, 0, 0, 0, 1, 0, 1, 0, 0}
	if _, err := homography.Project(m, pt(0, 5)); !errors.Is(err, homography.ErrAtInfinity) {
		t.Errorf("got %v, want ErrAtInfinity", err)
	}
	if _, err := (homography.Matrix{}).Invert(); !errors.Is(err, homography.ErrSingular) {
		t.Errorf("got %v, want ErrSingular", err)
	}
}

func TestPlaneFromQuad(t *testing.T) {
	const w, h = 640, 480
	corners := [4]geometry.Point{pt(0, 0), pt(w, 0), pt(w, h), pt(0, h)}
	got, err := homography.PlaneFromQuad(corners, w, h)
	if err != nil {
		t.Fatal(err)
	}
	want := homography.PlaneDescriptor{
		Center:      pt(0.5, 0.5),
		Width:       1,
		Height:      1,
		Rotation:    0,
		Perspective: homography.PerspectiveScale{Top: 1, Bottom: 1},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("PlaneFromQuad (-want +got):\n%s", diff)
	}
}

func TestPlaneFromQuadTilted(t *testing.T) {
	// Top edge 80 long and rotated 90°, bottom edge 120 long.
	corners := [4]geometry.Point{pt(100, 100), pt(100, 180), pt(0, 200), pt(0, 80)}
	got, err := homography.PlaneFromQuad(corners, 1000, 500)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(math.Pi/2, got.Rotation, approx); diff != "" {
		t.Errorf("rotation (-want +got):\n%s", diff)
	}
	want := homography.PerspectiveScale{Top: 0.8, Bottom: 1.2}
	if diff := cmp.Diff(want, got.Perspective, approx); diff != "" {
		t.Errorf("perspective (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(0.1, got.Width, approx); diff != "" {
		t.Errorf("width (-want +got):\n%s", diff)
	}

	if _, err := homography.PlaneFromQuad(corners, 0, 10); !errors.Is(err, homography.ErrImageSize) {
		t.Errorf("got %v, want ErrImageSize", err)
	}
}

func TestWarpPath(t *testing.T) {
	quad := [4]geometry.Point{pt(10, 10), pt(110, 10), pt(110, 60), pt(10, 60)}
	m := homography.RectToQuad(100, 50, quad)
	got, err := homography.WarpPath(m, "M0 0 L100 0 L100 50 Z")
	if err != nil {
		t.Fatal(err)
	}
	groups, err := svgpath.Parse(got)
	if err != nil {
		t.Fatalf("reparsing %q: %v", got, err)
	}
	want := geometry.Rectangle{Min: pt(10, 10), Max: pt(110, 60)}
	if diff := cmp.Diff(want, svgpath.Bounds(groups), cmpopts.EquateApprox(0, 1e-7)); diff != "" {
		t.Errorf("warped bounds (-want +got):\n%s", diff)
	}
	if n := len(groups[0].DrawTo); n != 3 {
		t.Errorf("%d segments, want 3", n)
	}
	if _, err := homography.WarpPath(m, "M0 0 A 1 1 0 0 1 5 5"); err == nil {
		t.Error("expected an error for arcs")
	}
}
