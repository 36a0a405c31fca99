package artwork

import (
	"math"
	"strings"

	"artprep/pkg/geometry"
	"artprep/pkg/svgpath"
)

// Reframe rewrites the document's viewBox, width and height to the bounds
// grown by padRatio of their larger side. Bounds no larger than one unit
// on either axis are ignored. It reports false when the document was left
// alone.
func Reframe(content []byte, bounds geometry.Rectangle, padRatio float64) (CleanResult, bool) {
	w, h := bounds.Width(), bounds.Height()
	if !(w > 1 && h > 1) {
		return CleanResult{}, false
	}
	root, err := Parse(content)
	if err != nil {
		return CleanResult{}, false
	}

	pad := padRatio * math.Max(w, h)
	frame := geometry.Viewport{
		X:      bounds.Min.X - pad,
		Y:      bounds.Min.Y - pad,
		Width:  w + 2*pad,
		Height: h + 2*pad,
	}
	root.SetAttr("viewBox", strings.Join([]string{
		svgpath.FormatFixed(frame.X),
		svgpath.FormatFixed(frame.Y),
		svgpath.FormatFixed(frame.Width),
		svgpath.FormatFixed(frame.Height),
	}, " "))
	root.SetAttr("width", svgpath.FormatFixed(frame.Width))
	root.SetAttr("height", svgpath.FormatFixed(frame.Height))

	out, err := root.Marshal()
	if err != nil {
		return CleanResult{}, false
	}
	if _, err := Parse(out); err != nil {
		return CleanResult{}, false
	}
	return CleanResult{Content: out, Width: frame.Width, Height: frame.Height}, true
}
