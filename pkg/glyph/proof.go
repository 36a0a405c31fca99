package glyph

import (
	"io"
	"math"

	"artprep/pkg/svgpath"

	"github.com/gogpu/gg"
	"golang.org/x/xerrors"
)

// RenderProof draws the line black on white as a PNG pixelHeight tall, a
// quick visual check of a layout before it goes to fabrication.
func RenderProof(l Line, pixelHeight int, w io.Writer) error {
	if pixelHeight <= 0 || l.Height <= 0 {
		return xerrors.Errorf("proof of %gx%g at %dpx: nothing to draw", l.Width, l.Height, pixelHeight)
	}
	scale := float64(pixelHeight) / l.Height
	width := max(1, int(math.Ceil(l.Width*scale)))

	dc := gg.NewContext(width, pixelHeight)
	defer dc.Close()
	dc.ClearWithColor(gg.RGB(1, 1, 1))
	dc.SetRGB(0, 0, 0)
	for _, letter := range l.Letters {
		for _, group := range letter.Outline.Paths {
			dc.MoveTo(group.X*scale, group.Y*scale)
			for _, d := range group.DrawTo {
				switch d.Command {
				case svgpath.LineTo:
					dc.LineTo(d.X*scale, d.Y*scale)
				case svgpath.CurveTo:
					dc.CubicTo(d.X1*scale, d.Y1*scale, d.X2*scale, d.Y2*scale, d.X*scale, d.Y*scale)
				case svgpath.ClosePath:
					dc.ClosePath()
				}
			}
		}
	}
	if err := dc.Fill(); err != nil {
		return xerrors.Errorf("filling proof: %w", err)
	}
	if err := dc.EncodePNG(w); err != nil {
		return xerrors.Errorf("encoding proof: %w", err)
	}
	return nil
}
