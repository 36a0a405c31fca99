package glyph

import (
	"encoding/binary"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/xerrors"
)

// typoHeights holds sTypoAscender - sTypoDescender, in font units, for
// fonts whose OS/2 table declares it.
var typoHeights = struct {
	sync.RWMutex
	byFont map[*sfnt.Font]float64
}{byFont: map[*sfnt.Font]float64{}}

func setTypoHeight(f *sfnt.Font, h float64) {
	typoHeights.Lock()
	defer typoHeights.Unlock()
	typoHeights.byFont[f] = h
}

func typoHeight(f *sfnt.Font) (float64, bool) {
	typoHeights.RLock()
	defer typoHeights.RUnlock()
	h, ok := typoHeights.byFont[f]
	return h, ok
}

// Offsets into the OS/2 table.
const (
	os2TypoAscender  = 68
	os2TypoDescender = 70
	os2MinLength     = 72
)

// readTypoHeight finds the OS/2 table in raw font data and returns its
// typographic line height. sfnt doesn't expose the table.
func readTypoHeight(data []byte) (float64, bool) {
	if len(data) < 12 {
		return 0, false
	}
	numTables := int(binary.BigEndian.Uint16(data[4:]))
	for i := 0; i < numTables; i++ {
		rec := 12 + 16*i
		if rec+16 > len(data) {
			return 0, false
		}
		if string(data[rec:rec+4]) != "OS/2" {
			continue
		}
		off := int(binary.BigEndian.Uint32(data[rec+8:]))
		length := int(binary.BigEndian.Uint32(data[rec+12:]))
		if length < os2MinLength || off < 0 || off+os2MinLength > len(data) {
			return 0, false
		}
		ascender := int16(binary.BigEndian.Uint16(data[off+os2TypoAscender:]))
		descender := int16(binary.BigEndian.Uint16(data[off+os2TypoDescender:]))
		h := float64(ascender) - float64(descender)
		return h, h > 0
	}
	return 0, false
}

// lineHeight returns the height, in font units, that OutlineFor scales to
// the target: the OS/2 typographic ascender minus descender, or the
// horizontal header metrics when the font has no usable OS/2 table.
func lineHeight(f *sfnt.Font, buf *sfnt.Buffer, ppem fixed.Int26_6) (float64, error) {
	if h, ok := typoHeight(f); ok {
		return h, nil
	}
	metrics, err := f.Metrics(buf, ppem, font.HintingNone)
	if err != nil {
		return 0, xerrors.Errorf("font metrics: %w", err)
	}
	h := units(metrics.Ascent + metrics.Descent)
	if h <= 0 {
		return 0, xerrors.New("font reports no line height")
	}
	return h, nil
}
