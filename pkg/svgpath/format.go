package svgpath

import (
	"strconv"
	"strings"

	"artprep/pkg/geometry"
)

func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatFixed formats with two decimals, the precision used for declared
// document extents.
func FormatFixed(n float64) string {
	return strconv.FormatFloat(n, 'f', 2, 64)
}

// ToString serializes sub paths back into path data using absolute commands.
func ToString(groups []*SubPath) string {
	return format(groups, FormatNumber)
}

// ToStringFixed is ToString with coordinates rounded to two decimals.
func ToStringFixed(groups []*SubPath) string {
	return format(groups, FormatFixed)
}

func format(groups []*SubPath, formatNumber func(float64) string) string {
	var buf strings.Builder

	// Note: this function runs a simple serialization. It does not try to optimize the path string.
	for i, group := range groups {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("M " + formatNumber(group.X) + " " + formatNumber(group.Y))
		for _, drawTo := range group.DrawTo {
			switch drawTo.Command {
			case LineTo:
				buf.WriteString(" L " + formatNumber(drawTo.X) + " " + formatNumber(drawTo.Y))
			case CurveTo:
				buf.WriteString(" C " +
					formatNumber(drawTo.X1) + " " + formatNumber(drawTo.Y1) + " " +
					formatNumber(drawTo.X2) + " " + formatNumber(drawTo.Y2) + " " +
					formatNumber(drawTo.X) + " " + formatNumber(drawTo.Y))
			case ClosePath:
				buf.WriteString(" Z")
			}
		}
	}

	return buf.String()
}

// Bounds returns the bounding box of every point of the path, control
// points included, so it may be slightly larger than the drawn curve.
func Bounds(groups []*SubPath) geometry.Rectangle {
	r := geometry.EmptyRectangle()
	for _, group := range groups {
		r = r.Extend(geometry.Point{X: group.X, Y: group.Y})
		for _, d := range group.DrawTo {
			r = r.Extend(geometry.Point{X: d.X, Y: d.Y})
			if d.Command == CurveTo {
				r = r.Extend(geometry.Point{X: d.X1, Y: d.Y1})
				r = r.Extend(geometry.Point{X: d.X2, Y: d.Y2})
			}
		}
	}
	return r
}
