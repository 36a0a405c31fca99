package color

import "image/color"

// Color is the two-entry palette vectorisation works in. Uploaded logos
// are reduced to ink on paper before their outlines are traced.
type Color byte

const (
	White Color = iota
	Black
)

var Palette = color.Palette{
	color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, // White
	color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}, // Black
}

func ColorToImageColor(c Color) color.Color {
	if int(c) >= len(Palette) {
		return Palette[White]
	}
	return Palette[c]
}

// Luma returns the ITU-R 601 luma of an 8-bit RGB triple, the same
// weighting image/color uses for Gray conversion.
func Luma(r, g, b byte) byte {
	y := (19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16
	return byte(y)
}

// Binarize maps a pixel to Black when its luma is at or below threshold.
func Binarize(r, g, b, threshold byte) Color {
	if Luma(r, g, b) > threshold {
		return White
	}
	return Black
}

// IsContent reports whether a sample rendered on white differs from the
// background: any channel below the threshold.
func IsContent(c color.RGBA, threshold uint8) bool {
	return c.R < threshold || c.G < threshold || c.B < threshold
}

// IsOpaqueNearWhite reports whether a non-premultiplied pixel is both
// mostly opaque and near white: the pixels punched out of rasterised
// artwork.
func IsOpaqueNearWhite(c color.NRGBA, alphaMin, channelMin uint8) bool {
	return c.A > alphaMin && c.R > channelMin && c.G > channelMin && c.B > channelMin
}

// FlattenOnWhite composites a non-premultiplied pixel onto a white
// background and returns the opaque result.
func FlattenOnWhite(c color.NRGBA) (r, g, b byte) {
	blend := func(v byte) byte {
		return byte((uint32(v)*uint32(c.A) + 255*(255-uint32(c.A)) + 127) / 255)
	}
	return blend(c.R), blend(c.G), blend(c.B)
}
