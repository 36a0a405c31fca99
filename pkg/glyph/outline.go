package glyph

import (
	"unicode"

	"artprep/pkg/svgpath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/xerrors"
)

var ErrMissingGlyph = xerrors.New("font has no glyph for character")

// Outline is one character scaled to a target letter height, in document
// units with y pointing down. The baseline sits at y = height.
type Outline struct {
	Paths   []*svgpath.SubPath
	Advance float64
}

// Empty reports whether the outline draws nothing.
func (o Outline) Empty() bool {
	return len(o.Paths) == 0
}

// OutlineFor extracts the outline of r. Font units are scaled by
// targetHeight/(ascender-descender), so the font's full line box is
// targetHeight tall.
func OutlineFor(f *sfnt.Font, r rune, targetHeight float64) (Outline, error) {
	var buf sfnt.Buffer
	index, err := f.GlyphIndex(&buf, r)
	if err != nil {
		return Outline{}, xerrors.Errorf("glyph for %q: %w", r, err)
	}
	if index == 0 {
		return Outline{}, xerrors.Errorf("%q: %w", r, ErrMissingGlyph)
	}

	// Work in whole font units.
	ppem := fixed.Int26_6(f.UnitsPerEm()) << 6
	height, err := lineHeight(f, &buf, ppem)
	if err != nil {
		return Outline{}, err
	}
	scale := targetHeight / height

	advance, err := f.GlyphAdvance(&buf, index, ppem, font.HintingNone)
	if err != nil {
		return Outline{}, xerrors.Errorf("advance of %q: %w", r, err)
	}
	outline := Outline{Advance: units(advance) * scale}

	if unicode.IsSpace(r) {
		return outline, nil
	}
	segments, err := f.LoadGlyph(&buf, index, ppem, nil)
	if err != nil {
		return Outline{}, xerrors.Errorf("outline of %q: %w", r, err)
	}
	outline.Paths = toSubPaths(segments, scale, targetHeight)
	return outline, nil
}

func units(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// toSubPaths converts sfnt segments, which are already y-down relative to
// the baseline, into closed sub paths with the baseline moved to
// y = baseline.
func toSubPaths(segments sfnt.Segments, scale, baseline float64) []*svgpath.SubPath {
	pt := func(p fixed.Point26_6) (float64, float64) {
		return units(p.X) * scale, baseline + units(p.Y)*scale
	}

	var paths []*svgpath.SubPath
	var current *svgpath.SubPath
	var lastX, lastY float64
	closeCurrent := func() {
		if current != nil {
			current.DrawTo = append(current.DrawTo, &svgpath.DrawTo{Command: svgpath.ClosePath, X: current.X, Y: current.Y})
		}
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			closeCurrent()
			x, y := pt(seg.Args[0])
			current = &svgpath.SubPath{X: x, Y: y}
			paths = append(paths, current)
			lastX, lastY = x, y
			continue
		}
		if current == nil {
			current = &svgpath.SubPath{X: lastX, Y: lastY}
			paths = append(paths, current)
		}
		switch seg.Op {
		case sfnt.SegmentOpLineTo:
			x, y := pt(seg.Args[0])
			current.DrawTo = append(current.DrawTo, &svgpath.DrawTo{Command: svgpath.LineTo, X: x, Y: y})
			lastX, lastY = x, y
		case sfnt.SegmentOpQuadTo:
			qx, qy := pt(seg.Args[0])
			x, y := pt(seg.Args[1])
			current.DrawTo = append(current.DrawTo, &svgpath.DrawTo{
				Command: svgpath.CurveTo,
				X1:      lastX + 2.0/3.0*(qx-lastX),
				Y1:      lastY + 2.0/3.0*(qy-lastY),
				X2:      x + 2.0/3.0*(qx-x),
				Y2:      y + 2.0/3.0*(qy-y),
				X:       x,
				Y:       y,
			})
			lastX, lastY = x, y
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x, y := pt(seg.Args[2])
			current.DrawTo = append(current.DrawTo, &svgpath.DrawTo{
				Command: svgpath.CurveTo,
				X1:      x1,
				Y1:      y1,
				X2:      x2,
				Y2:      y2,
				X:       x,
				Y:       y,
			})
			lastX, lastY = x, y
		}
	}
	closeCurrent()
	return paths
}
