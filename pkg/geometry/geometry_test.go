package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var approx = cmp.Comparer(func(x, y float64) bool {
	return math.Abs(x-y) < 0.00001
})

func TestDouglasPeucker(t *testing.T) {
	tests := []struct {
		points     Polyline
		epsilon    float64
		simplified Polyline
	}{
		{
			points:     Polyline{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 2}, {5, 1}, {6, 0}},
			epsilon:    0.001,
			simplified: Polyline{{0, 0}, {3, 3}, {6, 0}},
		},
		{
			points:     Polyline{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0}},
			epsilon:    0.001,
			simplified: Polyline{{0, 0}, {6, 0}},
		},
		{
			points:     Polyline{{0, 0}, {1, 0.2}, {2, -0.2}, {3, 0}},
			epsilon:    0.5,
			simplified: Polyline{{0, 0}, {3, 0}},
		},
		{
			points:     Polyline{{0, 0}},
			epsilon:    1,
			simplified: nil,
		},
	}
	for _, test := range tests {
		simplified := test.points.Simplify(test.epsilon)
		if diff := cmp.Diff(test.simplified, simplified); diff != "" {
			t.Errorf("Simplify(%v, %f) incorrect output: %s", test.points, test.epsilon, diff)
		}
	}
}

func TestSegmentDistance(t *testing.T) {
	s := LineSegment{A: Point{0, 0}, B: Point{4, 0}}
	tests := []struct {
		p    Point
		want float64
	}{
		{Point{2, 3}, 3},
		{Point{-3, 4}, 5},
		{Point{7, 4}, 5},
		{Point{1, 0}, 0},
	}
	for _, test := range tests {
		if diff := cmp.Diff(test.want, s.Distance(test.p), approx); diff != "" {
			t.Errorf("Distance(%v): %s", test.p, diff)
		}
	}

	degenerate := LineSegment{A: Point{1, 1}, B: Point{1, 1}}
	if diff := cmp.Diff(5.0, degenerate.Distance(Point{4, 5}), approx); diff != "" {
		t.Errorf("degenerate segment distance: %s", diff)
	}
}

func TestAreaAndContains(t *testing.T) {
	square := Polyline{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if diff := cmp.Diff(100.0, square.Area(), approx); diff != "" {
		t.Errorf("area: %s", diff)
	}
	if !square.Contains(Point{5, 5}) {
		t.Error("square should contain its center")
	}
	if square.Contains(Point{15, 5}) {
		t.Error("square should not contain an outside point")
	}
}

func TestRectangle(t *testing.T) {
	r := EmptyRectangle()
	if !r.Empty() || r.Width() != 0 {
		t.Fatalf("empty rectangle reports extent: %+v", r)
	}
	r = BoundsOf(Point{1, 2}, Point{-3, 5}, Point{4, -1})
	want := Rectangle{Min: Point{-3, -1}, Max: Point{4, 5}}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("bounds: %s", diff)
	}
	if r.Width() != 7 || r.Height() != 6 {
		t.Errorf("extent = %gx%g, want 7x6", r.Width(), r.Height())
	}
}

func TestViewportAspect(t *testing.T) {
	if got := (Viewport{Width: 200, Height: 100}).AspectRatio(); got != 2 {
		t.Errorf("aspect = %g, want 2", got)
	}
	if got := (Viewport{Width: 200}).AspectRatio(); got != 1 {
		t.Errorf("degenerate aspect = %g, want 1", got)
	}
}

func TestPointHelpers(t *testing.T) {
	c := Centroid(Point{0, 0}, Point{2, 0}, Point{2, 2}, Point{0, 2})
	if diff := cmp.Diff(Point{1, 1}, c, approx); diff != "" {
		t.Errorf("centroid: %s", diff)
	}
	if diff := cmp.Diff(math.Pi/2, Point{0, 3}.Angle(), approx); diff != "" {
		t.Errorf("angle: %s", diff)
	}
	if diff := cmp.Diff(Point{1, 2}, Point{0, 0}.Lerp(Point{2, 4}, 0.5), approx); diff != "" {
		t.Errorf("lerp: %s", diff)
	}
}
