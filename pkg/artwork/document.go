package artwork

import (
	"bytes"
	"encoding/xml"
	"maps"
	"regexp"
	"strings"

	"artprep/pkg/geometry"

	"golang.org/x/net/html/charset"
	"golang.org/x/xerrors"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// xmlnsSpace is the Space encoding/xml gives prefixed namespace declarations.
const xmlnsSpace = "xmlns"

var ErrNotArtwork = xerrors.New("document root is not an svg element")

// Node is one element of an artwork document. The tree is owned by the
// pipeline call that parsed it; stages rebuild child lists rather than
// removing from them while iterating.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Node    `xml:",any"`
}

// Parse decodes an artwork document. Documents declared in a legacy
// encoding are transcoded to UTF-8.
func Parse(data []byte) (*Node, error) {
	var root Node
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = declaredEntities(data)
	if err := dec.Decode(&root); err != nil {
		return nil, xerrors.Errorf("parsing artwork: %w", err)
	}
	if !strings.EqualFold(root.XMLName.Local, "svg") {
		return nil, xerrors.Errorf("root element %q: %w", root.XMLName.Local, ErrNotArtwork)
	}
	root.trimText()
	return &root, nil
}

// General entities from a DOCTYPE internal subset, as Illustrator writes
// them: <!ENTITY ns_svg "http://www.w3.org/2000/svg">.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_:][\w.:-]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// declaredEntities returns the HTML entities plus any declared in the
// prolog ahead of the root element.
func declaredEntities(data []byte) map[string]string {
	prolog := data
	if i := bytes.Index(data, []byte("<svg")); i >= 0 {
		prolog = data[:i]
	}
	decls := entityDecl.FindAllSubmatch(prolog, -1)
	if len(decls) == 0 {
		return xml.HTMLEntity
	}
	entities := maps.Clone(xml.HTMLEntity)
	for _, d := range decls {
		// only one of the two quoted forms matched
		entities[string(d[1])] = string(d[2]) + string(d[3])
	}
	return entities
}

// trimText drops whitespace-only character data so re-serialised output
// doesn't accumulate indentation.
func (n *Node) trimText() {
	if strings.TrimSpace(n.Text) == "" {
		n.Text = ""
	}
	for _, child := range n.Children {
		child.trimText()
	}
}

func (n *Node) Name() string {
	return n.XMLName.Local
}

// Attr returns the value of an un-namespaced attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func (n *Node) RemoveAttr(name string) {
	kept := n.Attrs[:0]
	for _, a := range n.Attrs {
		if !(a.Name.Space == "" && a.Name.Local == name) {
			kept = append(kept, a)
		}
	}
	n.Attrs = kept
}

// Walk calls visit for n and every descendant, depth first. Returning
// false from visit skips the node's subtree.
func (n *Node) Walk(visit func(node *Node) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// EnsureNamespace declares the SVG namespace as the default namespace of
// the root when the document has none.
func (n *Node) EnsureNamespace() {
	if _, ok := n.Attr("xmlns"); !ok {
		n.SetAttr("xmlns", svgNamespace)
	}
}

// Marshal serialises the tree. Namespace declarations are rewritten so
// the default namespace is declared once on the root; encoding/xml
// re-declares attribute prefixes where they are used.
func (n *Node) Marshal() ([]byte, error) {
	n.EnsureNamespace()
	defaultNS, _ := n.Attr("xmlns")
	n.XMLName.Space = ""
	n.normalizeNamespaces(defaultNS)
	n.XMLName.Space = ""

	data, err := xml.Marshal(n)
	if err != nil {
		return nil, xerrors.Errorf("serialising artwork: %w", err)
	}
	return data, nil
}

func (n *Node) normalizeNamespaces(inherited string) {
	attrs := n.Attrs[:0]
	for _, a := range n.Attrs {
		if a.Name.Space == xmlnsSpace {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attrs = attrs

	if n.XMLName.Space == "" || n.XMLName.Space == inherited {
		n.XMLName.Space = ""
	} else {
		// A foreign element: encoding/xml writes its xmlns itself.
		n.RemoveAttr("xmlns")
		inherited = n.XMLName.Space
	}
	for _, child := range n.Children {
		child.normalizeNamespaces(inherited)
	}
}

// Viewport determines the declared coordinate window: an explicit
// viewBox with positive extents, else the width/height attributes at the
// origin, each defaulting to defaultExtent.
func (n *Node) Viewport(defaultExtent float64) geometry.Viewport {
	if vb, ok := n.Attr("viewBox"); ok {
		if nums, err := parseNumberList(vb); err == nil && len(nums) == 4 {
			v := geometry.Viewport{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}
			if v.Valid() {
				return v
			}
		}
	}
	return geometry.Viewport{
		Width:  n.lengthAttr("width", defaultExtent),
		Height: n.lengthAttr("height", defaultExtent),
	}
}

// DeclaredViewBox returns only an explicit, valid viewBox.
func (n *Node) DeclaredViewBox() (geometry.Viewport, bool) {
	vb, ok := n.Attr("viewBox")
	if !ok {
		return geometry.Viewport{}, false
	}
	nums, err := parseNumberList(vb)
	if err != nil || len(nums) != 4 {
		return geometry.Viewport{}, false
	}
	v := geometry.Viewport{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}
	return v, v.Valid()
}

// lengthAttr reads a length attribute, ignoring absolute unit suffixes.
// Percentages and unparsable values yield the default.
func (n *Node) lengthAttr(name string, def float64) float64 {
	v, ok := n.Attr(name)
	if !ok {
		return def
	}
	length, ok := parseLength(v)
	if !ok || length <= 0 {
		return def
	}
	return length
}
