package artwork

import (
	"strconv"
	"strings"
)

// styleDecl is one property of an inline style attribute.
type styleDecl struct {
	name  string
	value string
}

// inlineStyle splits a style attribute into its declarations, keeping
// their order so they can be written back unchanged.
func inlineStyle(style string) []styleDecl {
	var decls []styleDecl
	for _, pair := range strings.Split(style, ";") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			// Empty trailing entry or a malformed pair; neither carries a fill.
			continue
		}
		decls = append(decls, styleDecl{
			name:  strings.ToLower(strings.TrimSpace(kv[0])),
			value: strings.TrimSpace(kv[1]),
		})
	}
	return decls
}

func serializeStyle(decls []styleDecl) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.name+":"+d.value)
	}
	return strings.Join(parts, ";")
}

// Style returns the value of one inline style property, or "".
func (n *Node) Style(name string) string {
	style, ok := n.Attr("style")
	if !ok {
		return ""
	}
	value := ""
	for _, d := range inlineStyle(style) {
		if d.name == name {
			value = d.value
		}
	}
	return value
}

// SetStyle replaces an existing inline style property. It reports false
// when the property wasn't present.
func (n *Node) SetStyle(name, value string) bool {
	style, ok := n.Attr("style")
	if !ok {
		return false
	}
	decls := inlineStyle(style)
	found := false
	for i := range decls {
		if decls[i].name == name {
			decls[i].value = value
			found = true
		}
	}
	if found {
		n.SetAttr("style", serializeStyle(decls))
	}
	return found
}

// cssDecl is a declaration inside a style block. start and end locate the
// raw value in the block text so it can be rewritten in place.
type cssDecl struct {
	property   string
	value      string
	start, end int
}

type cssRule struct {
	selector string
	decls    []cssDecl
}

// sheetScanner is a small tokenizer for embedded style blocks. It is
// deliberately forgiving: at-rule preludes are skipped, nested rule lists
// are flattened, and anything it doesn't understand is dropped.
type sheetScanner struct {
	data  string
	pos   int
	rules []cssRule
}

func parseStyleSheet(text string) []cssRule {
	s := &sheetScanner{data: text}
	s.scan()
	return s.rules
}

func (s *sheetScanner) skipComment() bool {
	if !strings.HasPrefix(s.data[s.pos:], "/*") {
		return false
	}
	end := strings.Index(s.data[s.pos+2:], "*/")
	if end < 0 {
		s.pos = len(s.data)
	} else {
		s.pos += end + 4
	}
	return true
}

func (s *sheetScanner) scan() {
	var prelude strings.Builder
	for s.pos < len(s.data) {
		if s.skipComment() {
			continue
		}
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '{':
			selector := strings.TrimSpace(prelude.String())
			prelude.Reset()
			if strings.HasPrefix(selector, "@") {
				// @media and friends: their rules follow as ordinary rules.
				continue
			}
			s.scanBlock(selector)
		case '}', ';':
			prelude.Reset()
		default:
			prelude.WriteByte(c)
		}
	}
}

func (s *sheetScanner) scanBlock(selector string) {
	rule := cssRule{selector: selector}
	for s.pos < len(s.data) {
		if s.skipComment() {
			continue
		}
		switch c := s.data[s.pos]; {
		case c == '}':
			s.pos++
			s.rules = append(s.rules, rule)
			return
		case c == ';' || isSpace(c):
			s.pos++
		default:
			if decl, ok := s.scanDeclaration(); ok {
				rule.decls = append(rule.decls, decl)
			}
		}
	}
	s.rules = append(s.rules, rule)
}

func (s *sheetScanner) scanDeclaration() (cssDecl, bool) {
	start := s.pos
	for s.pos < len(s.data) && !strings.ContainsRune(":;}", rune(s.data[s.pos])) {
		s.pos++
	}
	if s.pos >= len(s.data) || s.data[s.pos] != ':' {
		return cssDecl{}, false
	}
	property := strings.ToLower(strings.TrimSpace(s.data[start:s.pos]))
	s.pos++

	valueStart := s.pos
	s.pos = valueEnd(s.data, s.pos)
	valueStop := s.pos
	for valueStart < valueStop && isSpace(s.data[valueStart]) {
		valueStart++
	}
	for valueStop > valueStart && isSpace(s.data[valueStop-1]) {
		valueStop--
	}
	return cssDecl{
		property: property,
		value:    s.data[valueStart:valueStop],
		start:    valueStart,
		end:      valueStop,
	}, true
}

// valueEnd finds the ';' or '}' that ends a declaration value, ignoring
// those inside quotes or parentheses.
func valueEnd(data string, i int) int {
	parens := 0
	var quote byte
	for ; i < len(data); i++ {
		c := data[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			parens++
		case ')':
			if parens > 0 {
				parens--
			}
		case ';', '}':
			if parens == 0 {
				return i
			}
		}
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// cleanFillValue strips an !important marker.
func cleanFillValue(v string) string {
	if i := strings.Index(strings.ToLower(v), "!important"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// classNameOf returns the class a simple selector targets: the trailing
// ".name" of selectors like ".st0", "path.st0" or "g .st0".
func classNameOf(selector string) (string, bool) {
	dot := strings.LastIndexByte(selector, '.')
	if dot < 0 {
		return "", false
	}
	name := selector[dot+1:]
	if name == "" {
		return "", false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80) {
			return "", false
		}
	}
	return name, true
}

// ClassFills maps class names to fill values declared in the document's
// style blocks. Later rules win.
type ClassFills map[string]string

// ClassFillsOf collects the class fills of every style block in the
// document.
func ClassFillsOf(root *Node) ClassFills {
	fills := ClassFills{}
	root.Walk(func(n *Node) bool {
		if n.Name() != "style" {
			return true
		}
		for _, rule := range parseStyleSheet(n.Text) {
			fill, ok := "", false
			for _, d := range rule.decls {
				if d.property == "fill" {
					fill, ok = cleanFillValue(d.value), true
				}
			}
			if !ok {
				continue
			}
			for _, selector := range strings.Split(rule.selector, ",") {
				if name, ok := classNameOf(strings.TrimSpace(selector)); ok {
					fills[name] = fill
				}
			}
		}
		return false
	})
	return fills
}

// ResolveFill returns the effective fill of a shape: the fill attribute
// unless it is "none", then the inline style, then the first of its
// classes with a style-block fill. "" means the shape declares no fill.
func ResolveFill(n *Node, fills ClassFills) string {
	if fill, ok := n.Attr("fill"); ok && strings.TrimSpace(fill) != "none" {
		return strings.TrimSpace(fill)
	}
	if fill := n.Style("fill"); fill != "" {
		return cleanFillValue(fill)
	}
	if class, ok := n.Attr("class"); ok {
		for _, name := range strings.Fields(class) {
			if fill, ok := fills[name]; ok {
				return fill
			}
		}
	}
	return ""
}

func parseNumberList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r < 0x80 && isSpace(byte(r))
	})
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		nums = append(nums, v)
	}
	return nums, nil
}

var absoluteUnits = []string{"px", "pt", "pc", "mm", "cm", "in"}

// parseLength reads a length, dropping an absolute unit suffix.
// Percentages are rejected.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for _, unit := range absoluteUnits {
		if strings.HasSuffix(s, unit) {
			s = strings.TrimSpace(strings.TrimSuffix(s, unit))
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
