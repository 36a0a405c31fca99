// Package homography estimates and applies the projective mapping between
// artwork coordinates and a photograph of the surface it will be mounted
// on.
package homography

import (
	"math"

	"artprep/pkg/cfg"
	"artprep/pkg/geometry"

	"golang.org/x/xerrors"
)

var (
	ErrAtInfinity = xerrors.New("point maps to infinity")
	ErrSingular   = xerrors.New("matrix is singular")
)

// Matrix is a 3×3 projective matrix in row-major order. Solve fixes the
// last element to 1.
type Matrix [9]float64

func Identity() Matrix {
	return Matrix{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Solve computes the matrix mapping each src point onto the dst point
// with the same index, using the direct linear transform with h33 = 1.
//
// Near-singular pivot columns are skipped, not reported: four points
// with three on a line give a meaningless matrix. Callers that can't
// rule that out should check Degenerate first.
func Solve(src, dst [4]geometry.Point) Matrix {
	return SolveEpsilon(src, dst, cfg.Default.PivotEpsilon)
}

// SolveEpsilon is Solve with an explicit pivot tolerance.
func SolveEpsilon(src, dst [4]geometry.Point, epsilon float64) Matrix {
	// Eight equations in h11..h32; the h33 column moves to the right-hand side.
	var a [8][9]float64
	for i := range 4 {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y
		a[2*i] = [9]float64{-sx, -sy, -1, 0, 0, 0, sx * dx, sy * dx, -dx}
		a[2*i+1] = [9]float64{0, 0, 0, -sx, -sy, -1, sx * dy, sy * dy, -dy}
	}

	var h Matrix
	for col := range 8 {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < epsilon {
			continue
		}
		a[col], a[pivot] = a[pivot], a[col]

		p := a[col][col]
		for k := col; k < 9; k++ {
			a[col][k] /= p
		}
		for row := range 8 {
			if row == col || a[row][col] == 0 {
				continue
			}
			f := a[row][col]
			for k := col; k < 9; k++ {
				a[row][k] -= f * a[col][k]
			}
		}
	}
	for i := range 8 {
		if math.Abs(a[i][i]) >= epsilon {
			h[i] = a[i][8] / a[i][i]
		}
	}
	h[8] = 1
	return h
}

// Degenerate reports whether three of the four points are (nearly)
// collinear, in which case no unique homography exists.
func Degenerate(points [4]geometry.Point) bool {
	box := geometry.BoundsOf(points[:]...)
	scale := math.Max(box.Width(), box.Height())
	if scale == 0 {
		return true
	}
	tolerance := 1e-9 * scale * scale
	for skip := range 4 {
		var tri []geometry.Point
		for i, p := range points {
			if i != skip {
				tri = append(tri, p)
			}
		}
		area := tri[1].Minus(tri[0]).CrossProductZ(tri[2].Minus(tri[0]))
		if math.Abs(area) < tolerance {
			return true
		}
	}
	return false
}

// Multiply returns m·other, the mapping that applies other first.
func (m Matrix) Multiply(other Matrix) Matrix {
	var r Matrix
	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				r[3*i+j] += m[3*i+k] * other[3*k+j]
			}
		}
	}
	return r
}

// Invert returns the inverse mapping, scaled so its last element is 1
// when possible.
func (m Matrix) Invert() (Matrix, error) {
	adj := Matrix{
		m[4]*m[8] - m[5]*m[7], m[2]*m[7] - m[1]*m[8], m[1]*m[5] - m[2]*m[4],
		m[5]*m[6] - m[3]*m[8], m[0]*m[8] - m[2]*m[6], m[2]*m[3] - m[0]*m[5],
		m[3]*m[7] - m[4]*m[6], m[1]*m[6] - m[0]*m[7], m[0]*m[4] - m[1]*m[3],
	}
	det := m[0]*adj[0] + m[1]*adj[3] + m[2]*adj[6]
	if math.Abs(det) < cfg.Default.PivotEpsilon {
		return Matrix{}, ErrSingular
	}
	scale := det
	if math.Abs(adj[8]) >= cfg.Default.PivotEpsilon {
		scale = adj[8]
	}
	for i := range adj {
		adj[i] /= scale
	}
	return adj, nil
}
