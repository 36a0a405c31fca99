package artwork

import (
	"sort"
	"strings"

	"artprep/pkg/logging"

	"go.uber.org/zap"
)

var paintable = map[string]bool{
	"path":    true,
	"rect":    true,
	"circle":  true,
	"ellipse": true,
	"polygon": true,
	"text":    true,
}

// Subtrees that describe geometry or data rather than painted content.
var unpaintedSubtrees = map[string]bool{
	"clipPath": true,
	"mask":     true,
	"metadata": true,
}

// keepsPaint reports whether a fill value must survive recolouring.
func keepsPaint(fill string) bool {
	v := strings.ToLower(cleanFillValue(fill))
	return v == "none" || v == "transparent" || strings.HasPrefix(v, "url(")
}

// Recolor sets every fill in the document to color, leaving "none",
// "transparent" and paint server references alone. Paintable shapes
// without any fill get one. Empty input, an empty colour or an
// unparsable document are returned unchanged.
func Recolor(data []byte, color string) []byte {
	color = strings.TrimSpace(color)
	if len(data) == 0 || color == "" {
		return data
	}
	root, err := Parse(data)
	if err != nil {
		logging.Named("recolor").Debug("returning input unchanged", zap.Error(err))
		return data
	}

	fills := ClassFillsOf(root)
	root.Walk(func(n *Node) bool {
		name := n.Name()
		switch {
		case unpaintedSubtrees[name]:
			return false
		case name == "style":
			n.Text = recolorStyleSheet(n.Text, color)
			return false
		case name == "svg" || name == "defs":
			return true
		}
		recolorNode(n, color, fills)
		return true
	})

	out, err := root.Marshal()
	if err != nil {
		return data
	}
	return out
}

func recolorNode(n *Node, color string, fills ClassFills) {
	explicit := false
	if fill, ok := n.Attr("fill"); ok {
		explicit = true
		if !keepsPaint(fill) {
			n.SetAttr("fill", color)
		}
	}
	if fill := n.Style("fill"); fill != "" {
		explicit = true
		if !keepsPaint(fill) {
			n.SetStyle("fill", color)
		}
	}
	if explicit || !paintable[n.Name()] {
		return
	}
	if fill := ResolveFill(n, fills); fill != "" && keepsPaint(fill) {
		return
	}
	n.SetAttr("fill", color)
}

// recolorStyleSheet rewrites fill declarations in a style block in place,
// leaving the rest of the text untouched.
func recolorStyleSheet(text, color string) string {
	var targets []cssDecl
	for _, rule := range parseStyleSheet(text) {
		for _, d := range rule.decls {
			if d.property == "fill" && !keepsPaint(cleanFillValue(d.value)) {
				targets = append(targets, d)
			}
		}
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].start > targets[j].start
	})
	for _, d := range targets {
		text = text[:d.start] + color + text[d.end:]
	}
	return text
}
