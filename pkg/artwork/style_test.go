package artwork

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStyleSheet(t *testing.T) {
	text := `
		/* artboard */
		@import url("x.css");
		@media print { .a { fill: red } }
		.b, path.c { fill: #fff; stroke: url(data:image/png;base64,AAA) }
		.d { fill: "a;b" }
		.broken { fill }
		.e{fill:blue`
	var got []string
	for _, rule := range parseStyleSheet(text) {
		for _, d := range rule.decls {
			got = append(got, rule.selector+"|"+d.property+"="+d.value+"|"+text[d.start:d.end])
		}
	}
	want := []string{
		".a|fill=red|red",
		".b, path.c|fill=#fff|#fff",
		".b, path.c|stroke=url(data:image/png;base64,AAA)|url(data:image/png;base64,AAA)",
		`.d|fill="a;b"|"a;b"`,
		".e|fill=blue|blue",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("declarations (-want +got):\n%s", diff)
	}
}

func TestClassNameOf(t *testing.T) {
	for _, test := range []struct {
		selector string
		want     string
		ok       bool
	}{
		{".st0", "st0", true},
		{"path.cls-1", "cls-1", true},
		{"g .x_y", "x_y", true},
		{"rect", "", false},
		{".a:hover", "", false},
		{".a > path", "", false},
	} {
		got, ok := classNameOf(test.selector)
		if got != test.want || ok != test.ok {
			t.Errorf("classNameOf(%q) = %q, %v; want %q, %v", test.selector, got, ok, test.want, test.ok)
		}
	}
}

func TestInlineStyle(t *testing.T) {
	n := &Node{}
	n.SetAttr("style", "Fill: red; stroke:url(a:b);opacity:0.5")
	if got := n.Style("fill"); got != "red" {
		t.Errorf("fill = %q", got)
	}
	if got := n.Style("stroke"); got != "url(a:b)" {
		t.Errorf("stroke = %q", got)
	}
	if !n.SetStyle("fill", "blue") || n.SetStyle("color", "x") {
		t.Error("SetStyle reported the wrong presence")
	}
	if got, _ := n.Attr("style"); got != "fill:blue;stroke:url(a:b);opacity:0.5" {
		t.Errorf("style = %q", got)
	}
}

func TestIsBackgroundWhite(t *testing.T) {
	for fill, want := range map[string]bool{
		"#FFF":               true,
		" #ffffff ":          true,
		"#F5F5F5":            true,
		"WHITE":              true,
		"rgb(255,255,255)":   true,
		"rgb(241, 242, 243)": true,
		"rgb(241,240,243)":   false,
		"rgb(241,242)":       false,
		"#eeeeee":            false,
		"none":               false,
		"":                   false,
	} {
		if got := IsBackgroundWhite(fill, 240); got != want {
			t.Errorf("IsBackgroundWhite(%q) = %v, want %v", fill, got, want)
		}
	}
}
