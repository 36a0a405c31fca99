package svgpath

// Matrix is an affine transform in SVG's matrix(a b c d e f) order:
//
//	⎡ A  C  E ⎤
//	⎢ B  D  F ⎥
//	⎣ 0  0  1 ⎦
type Matrix struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, C: 0, E: x,
		B: 0, D: 1, F: y,
	}
}

func Scale(x, y float64) Matrix {
	return Matrix{
		A: x, C: 0, E: 0,
		B: 0, D: y, F: 0,
	}
}

func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.C*other.B,
		B: m.B*other.A + m.D*other.B,
		C: m.A*other.C + m.C*other.D,
		D: m.B*other.C + m.D*other.D,
		E: m.A*other.E + m.C*other.F + m.E,
		F: m.B*other.E + m.D*other.F + m.F,
	}
}

func (m Matrix) transformX(x, y float64) float64 {
	return m.A*x + m.C*y + m.E
}

func (m Matrix) transformY(x, y float64) float64 {
	return m.B*x + m.D*y + m.F
}

func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.transformX(x, y), m.transformY(x, y)
}

// TransformPath transforms the path in place.
func (m Matrix) TransformPath(path []*SubPath) {
	MapPath(path, m.TransformPoint)
}

// MapPath replaces every point of the path, control points included, with
// f applied to it. Used for affine transforms and for projective warps,
// where mapping control points is an approximation that holds for the
// short segments of flattened or traced outlines.
func MapPath(path []*SubPath, f func(x, y float64) (float64, float64)) {
	for _, group := range path {
		group.X, group.Y = f(group.X, group.Y)
		for _, drawTo := range group.DrawTo {
			drawTo.X, drawTo.Y = f(drawTo.X, drawTo.Y)
			if drawTo.Command == CurveTo {
				drawTo.X1, drawTo.Y1 = f(drawTo.X1, drawTo.Y1)
				drawTo.X2, drawTo.Y2 = f(drawTo.X2, drawTo.Y2)
			}
		}
	}
}
