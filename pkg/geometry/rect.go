package geometry

import "math"

type Rectangle struct {
	Min Point
	Max Point
}

// EmptyRectangle returns a rectangle that contains nothing; extending it
// with the first point makes it a degenerate rectangle at that point.
func EmptyRectangle() Rectangle {
	return Rectangle{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// Extend grows the rectangle to include p.
func (r Rectangle) Extend(p Point) Rectangle {
	r.Min.X = math.Min(r.Min.X, p.X)
	r.Min.Y = math.Min(r.Min.Y, p.Y)
	r.Max.X = math.Max(r.Max.X, p.X)
	r.Max.Y = math.Max(r.Max.Y, p.Y)
	return r
}

func (r Rectangle) Empty() bool {
	return !(r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y)
}

func (r Rectangle) Width() float64 {
	if r.Empty() {
		return 0
	}
	return r.Max.X - r.Min.X
}

func (r Rectangle) Height() float64 {
	if r.Empty() {
		return 0
	}
	return r.Max.Y - r.Min.Y
}

func (r Rectangle) Contains(p Point) bool {
	return r.Min.X <= p.X && p.X <= r.Max.X && r.Min.Y <= p.Y && p.Y <= r.Max.Y
}

// BoundsOf returns the bounding box of the points.
func BoundsOf(points ...Point) Rectangle {
	r := EmptyRectangle()
	for _, p := range points {
		r = r.Extend(p)
	}
	return r
}

// Viewport is the declared coordinate window artwork is drawn into.
type Viewport struct {
	X, Y          float64
	Width, Height float64
}

func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0 &&
		!math.IsInf(v.Width, 0) && !math.IsInf(v.Height, 0)
}

// AspectRatio returns width/height, or 1 for a degenerate viewport.
func (v Viewport) AspectRatio() float64 {
	if !v.Valid() {
		return 1
	}
	return v.Width / v.Height
}
