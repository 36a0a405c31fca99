package vectorize

import (
	"image"
	imgcolor "image/color"

	"artprep/pkg/color"

	"golang.org/x/image/draw"
)

// A border darker than this means light artwork on a dark background.
const darkBorder = 128

// Mask is a two-colour image: Black pixels are ink, White are paper.
type Mask struct {
	Width  int
	Height int
	Data   []color.Color
}

func (m *Mask) ColorModel() imgcolor.Model {
	return color.Palette
}

func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

func (m *Mask) At(x, y int) imgcolor.Color {
	return color.Palette[m.ColorIndexAt(x, y)]
}

func (m *Mask) ColorIndexAt(x, y int) uint8 {
	return uint8(m.Data[x+y*m.Width])
}

// Ink reports whether (x, y) is ink. Everything outside the mask is paper.
func (m *Mask) Ink(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Data[x+y*m.Width] == color.Black
}

// Grayscale flattens an image onto white paper and reduces it to luma.
// The result starts at the origin.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Src)

	gray := image.NewGray(flat.Rect)
	for y := 0; y < flat.Rect.Dy(); y++ {
		for x := 0; x < flat.Rect.Dx(); x++ {
			off := flat.PixOffset(x, y)
			r, g, bl := color.FlattenOnWhite(imgcolor.NRGBA{
				R: flat.Pix[off], G: flat.Pix[off+1], B: flat.Pix[off+2], A: flat.Pix[off+3],
			})
			gray.Pix[gray.PixOffset(x, y)] = color.Luma(r, g, bl)
		}
	}
	return gray
}

// Threshold reduces a grayscale image to a mask: pixels at or below
// threshold are ink. When the border is dark on average the result is
// flipped, so light logos on dark backgrounds trace the logo rather than
// the background; invert flips it once more. inverted reports whether the
// mask ended up flipped.
func Threshold(gray *image.Gray, threshold uint8, invert bool) (mask *Mask, inverted bool) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	luma := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(luma[y*w:(y+1)*w], gray.Pix[gray.PixOffset(gray.Rect.Min.X, gray.Rect.Min.Y+y):])
	}

	inverted = (borderMean(luma, w, h) < darkBorder) != invert
	mask = &Mask{Width: w, Height: h, Data: make([]color.Color, w*h)}
	for i, l := range luma {
		c := color.Binarize(l, l, l, threshold)
		if inverted {
			c = color.Black - c
		}
		mask.Data[i] = c
	}
	return mask, inverted
}

// borderMean averages the means of the four edges.
func borderMean(luma []byte, w, h int) float64 {
	if w == 0 || h == 0 {
		return 255
	}
	edgeMean := func(n int, at func(i int) byte) float64 {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(at(i))
		}
		return float64(sum) / float64(n)
	}
	top := edgeMean(w, func(i int) byte { return luma[i] })
	bottom := edgeMean(w, func(i int) byte { return luma[i+(h-1)*w] })
	left := edgeMean(h, func(i int) byte { return luma[i*w] })
	right := edgeMean(h, func(i int) byte { return luma[i*w+w-1] })
	return (top + bottom + left + right) / 4
}

// Crop returns the part of the mask inside r, which must lie within the
// mask.
func (m *Mask) Crop(r image.Rectangle) *Mask {
	r = r.Intersect(m.Bounds())
	out := &Mask{Width: r.Dx(), Height: r.Dy(), Data: make([]color.Color, r.Dx()*r.Dy())}
	for y := 0; y < out.Height; y++ {
		copy(out.Data[y*out.Width:(y+1)*out.Width], m.Data[r.Min.X+(r.Min.Y+y)*m.Width:])
	}
	return out
}
