package homography

import (
	"math"

	"artprep/pkg/cfg"
	"artprep/pkg/geometry"
	"artprep/pkg/svgpath"

	"golang.org/x/xerrors"
)

// Apply maps p through m. It does not check the homogeneous weight; a
// point on the vanishing line comes back as ±Inf or NaN. Use Project
// when that can happen.
func Apply(m Matrix, p geometry.Point) geometry.Point {
	w := m[6]*p.X + m[7]*p.Y + m[8]
	return geometry.Point{
		X: (m[0]*p.X + m[1]*p.Y + m[2]) / w,
		Y: (m[3]*p.X + m[4]*p.Y + m[5]) / w,
	}
}

// Project is Apply with the weight checked.
func Project(m Matrix, p geometry.Point) (geometry.Point, error) {
	w := m[6]*p.X + m[7]*p.Y + m[8]
	if math.Abs(w) < cfg.Default.PivotEpsilon {
		return geometry.Point{}, xerrors.Errorf("projecting (%g, %g): %w", p.X, p.Y, ErrAtInfinity)
	}
	return Apply(m, p), nil
}

// RectToQuad maps the artwork rectangle (0,0)-(width,height) onto a quad
// given as top-left, top-right, bottom-right, bottom-left.
func RectToQuad(width, height float64, quad [4]geometry.Point) Matrix {
	rect := [4]geometry.Point{
		{X: 0, Y: 0},
		{X: width, Y: 0},
		{X: width, Y: height},
		{X: 0, Y: height},
	}
	return Solve(rect, quad)
}

// WarpPath projects every point of the path data through m. Curve control
// points are projected too, which is exact for lines and a close
// approximation for curves under mild perspective.
func WarpPath(m Matrix, d string) (string, error) {
	groups, err := svgpath.Parse(d)
	if err != nil {
		return "", xerrors.Errorf("warping path: %w", err)
	}
	var projectErr error
	svgpath.MapPath(groups, func(x, y float64) (float64, float64) {
		p, err := Project(m, geometry.Point{X: x, Y: y})
		if err != nil && projectErr == nil {
			projectErr = err
		}
		return p.X, p.Y
	})
	if projectErr != nil {
		return "", projectErr
	}
	return svgpath.ToString(groups), nil
}

// PerspectiveScale is the length of the top and bottom edges of a quad
// relative to its mean width.
type PerspectiveScale struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// PlaneDescriptor is a cheap stand-in for a full homography when placing
// an overlay on a nearly frontal surface. Center, Width and Height are
// fractions of the image size.
type PlaneDescriptor struct {
	Center      geometry.Point   `json:"center"`
	Width       float64          `json:"width"`
	Height      float64          `json:"height"`
	Rotation    float64          `json:"rotation"`
	Perspective PerspectiveScale `json:"perspective"`
}

var ErrImageSize = xerrors.New("image dimensions must be positive")

// PlaneFromQuad describes the plane outlined by corners given as
// top-left, top-right, bottom-right, bottom-left in image pixels.
func PlaneFromQuad(corners [4]geometry.Point, imageW, imageH float64) (PlaneDescriptor, error) {
	if !(imageW > 0 && imageH > 0) {
		return PlaneDescriptor{}, xerrors.Errorf("%gx%g: %w", imageW, imageH, ErrImageSize)
	}
	tl, tr, br, bl := corners[0], corners[1], corners[2], corners[3]
	top := tl.Distance(tr)
	bottom := bl.Distance(br)
	width := (top + bottom) / 2
	height := (tl.Distance(bl) + tr.Distance(br)) / 2

	center := geometry.Centroid(corners[:]...)
	plane := PlaneDescriptor{
		Center:   geometry.Point{X: center.X / imageW, Y: center.Y / imageH},
		Width:    width / imageW,
		Height:   height / imageH,
		Rotation: tr.Minus(tl).Angle(),
	}
	if width > 0 {
		plane.Perspective = PerspectiveScale{Top: top / width, Bottom: bottom / width}
	}
	return plane, nil
}
