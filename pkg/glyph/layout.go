package glyph

import (
	"encoding/xml"
	"errors"

	"artprep/pkg/artwork"
	"artprep/pkg/logging"
	"artprep/pkg/svgpath"

	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/xerrors"
)

// Blank characters and characters the font can't draw advance the cursor
// by this fraction of the letter height.
const blankAdvance = 0.3

// Letter is one drawn character placed on the line. Its paths are in line
// coordinates, already shifted by Offset.
type Letter struct {
	Char    rune
	Offset  float64
	Outline Outline
}

// Line is laid out text.
type Line struct {
	Letters []Letter
	Width   float64
	Height  float64
}

// Layout places each character of text at a running cursor. Letters are
// separated by spacing; blanks and missing glyphs leave a gap instead.
func Layout(f *sfnt.Font, text string, height, spacing float64) (Line, error) {
	log := logging.Named("glyph")
	line := Line{Height: height}
	cursor := 0.0
	for _, r := range text {
		outline, err := OutlineFor(f, r, height)
		switch {
		case errors.Is(err, ErrMissingGlyph):
			log.Warn("skipping character", zap.String("char", string(r)))
			cursor += blankAdvance * height
			continue
		case err != nil:
			return Line{}, xerrors.Errorf("laying out %q: %w", text, err)
		case outline.Empty():
			cursor += blankAdvance * height
			continue
		}
		svgpath.Translate(cursor, 0).TransformPath(outline.Paths)
		line.Letters = append(line.Letters, Letter{Char: r, Offset: cursor, Outline: outline})
		line.Width = cursor + outline.Advance
		cursor += outline.Advance + spacing
	}
	return line, nil
}

// SVG renders the line as an artwork document with one path per letter,
// tagged with the character it draws.
func (l Line) SVG() ([]byte, error) {
	root := &artwork.Node{XMLName: xml.Name{Local: "svg"}}
	root.SetAttr("viewBox", "0 0 "+svgpath.FormatFixed(l.Width)+" "+svgpath.FormatFixed(l.Height))
	root.SetAttr("width", svgpath.FormatFixed(l.Width))
	root.SetAttr("height", svgpath.FormatFixed(l.Height))
	for _, letter := range l.Letters {
		path := &artwork.Node{XMLName: xml.Name{Local: "path"}}
		path.SetAttr("data-char", string(letter.Char))
		path.SetAttr("d", svgpath.ToStringFixed(letter.Outline.Paths))
		root.Children = append(root.Children, path)
	}
	return root.Marshal()
}
