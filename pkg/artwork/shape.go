package artwork

import (
	"strconv"
	"strings"

	"artprep/pkg/geometry"
	"artprep/pkg/svgpath"
)

type ShapeKind int

const (
	KindOther ShapeKind = iota
	KindRect
	KindPath
	KindCircle
	KindEllipse
	KindPolygon
)

func (k ShapeKind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindPath:
		return "path"
	case KindCircle:
		return "circle"
	case KindEllipse:
		return "ellipse"
	case KindPolygon:
		return "polygon"
	}
	return "other"
}

func kindOf(n *Node) ShapeKind {
	switch n.Name() {
	case "rect":
		return KindRect
	case "path":
		return KindPath
	case "circle":
		return KindCircle
	case "ellipse":
		return KindEllipse
	case "polygon":
		return KindPolygon
	}
	return KindOther
}

// candidate is a shape considered for background removal. node is an
// index into the arena built for one sanitisation pass.
type candidate struct {
	kind ShapeKind
	fill string
	node int
}

var whiteAliases = map[string]bool{
	"#fff":             true,
	"#ffffff":          true,
	"#fefefe":          true,
	"#f5f5f5":          true,
	"#fafafa":          true,
	"white":            true,
	"rgb(255,255,255)": true,
}

// IsBackgroundWhite reports whether a fill value is one of the near-white
// colours design tools use for artboards.
func IsBackgroundWhite(fill string, channelMin int) bool {
	normalized := strings.Map(func(r rune) rune {
		if r < 0x80 && isSpace(byte(r)) {
			return -1
		}
		return r
	}, strings.ToLower(fill))
	if whiteAliases[normalized] {
		return true
	}
	if !strings.HasPrefix(normalized, "rgb(") || !strings.HasSuffix(normalized, ")") {
		return false
	}
	channels := strings.Split(normalized[len("rgb("):len(normalized)-1], ",")
	if len(channels) != 3 {
		return false
	}
	for _, ch := range channels {
		v, err := strconv.Atoi(ch)
		if err != nil || v <= channelMin {
			return false
		}
	}
	return true
}

// An artboard frame path is a handful of straight segments.
const (
	minFrameCommands = 3
	maxFrameCommands = 8
)

// coversViewport reports whether the extents cover the required fraction
// of the viewport on both axes.
func coversViewport(width, height float64, vp geometry.Viewport, coverage float64) bool {
	return width >= coverage*vp.Width && height >= coverage*vp.Height
}

// isBackgroundGeometry is the per-kind geometric half of background
// detection.
func isBackgroundGeometry(n *Node, kind ShapeKind, vp geometry.Viewport, coverage float64) bool {
	switch kind {
	case KindRect:
		w, okW := parseLengthAttr(n, "width")
		h, okH := parseLengthAttr(n, "height")
		return okW && okH && coversViewport(w, h, vp, coverage)
	case KindPath:
		d, ok := n.Attr("d")
		if !ok {
			return false
		}
		commands, err := svgpath.Tokenize(d)
		if err != nil || len(commands) < minFrameCommands || len(commands) > maxFrameCommands {
			return false
		}
		points := svgpath.VisitedPoints(commands)
		if len(points) < 3 {
			return false
		}
		box := geometry.BoundsOf(points...)
		return coversViewport(box.Width(), box.Height(), vp, coverage)
	}
	// Circles, ellipses and polygons are never artboard chrome.
	return false
}

func parseLengthAttr(n *Node, name string) (float64, bool) {
	v, ok := n.Attr(name)
	if !ok {
		return 0, false
	}
	return parseLength(v)
}
