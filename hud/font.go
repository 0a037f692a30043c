package hud

import (
	"image/color"
	"strings"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Font is a 6x8 monospace bitmap font covering the characters the overlay
// prints: digits, float punctuation and "FPS". Other runes draw as '?'.
//
// It implements tinyfont.Fonter. Concurrent access is not safe due to
// internal glyph reuse.
var Font tinyfont.Fonter = &font6x8{}

const glyphRunes = " +-.0123456789:?FPSe"

// Seven rows per glyph, bit4 = leftmost pixel. The eighth row and the sixth
// column are blank spacing.
var glyphData = [...]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // ' '
	0x00, 0x04, 0x04, 0x1F, 0x04, 0x04, 0x00, // '+'
	0x00, 0x00, 0x00, 0x1F, 0x00, 0x00, 0x00, // '-'
	0x00, 0x00, 0x00, 0x00, 0x00, 0x0C, 0x0C, // '.'
	0x0E, 0x11, 0x13, 0x15, 0x19, 0x11, 0x0E, // '0'
	0x04, 0x0C, 0x04, 0x04, 0x04, 0x04, 0x0E, // '1'
	0x0E, 0x11, 0x01, 0x02, 0x04, 0x08, 0x1F, // '2'
	0x1F, 0x02, 0x04, 0x02, 0x01, 0x11, 0x0E, // '3'
	0x02, 0x06, 0x0A, 0x12, 0x1F, 0x02, 0x02, // '4'
	0x1F, 0x10, 0x1E, 0x01, 0x01, 0x11, 0x0E, // '5'
	0x06, 0x08, 0x10, 0x1E, 0x11, 0x11, 0x0E, // '6'
	0x1F, 0x01, 0x02, 0x04, 0x08, 0x08, 0x08, // '7'
	0x0E, 0x11, 0x11, 0x0E, 0x11, 0x11, 0x0E, // '8'
	0x0E, 0x11, 0x11, 0x0F, 0x01, 0x02, 0x0C, // '9'
	0x00, 0x0C, 0x0C, 0x00, 0x0C, 0x0C, 0x00, // ':'
	0x0E, 0x11, 0x01, 0x02, 0x04, 0x00, 0x04, // '?'
	0x1F, 0x10, 0x10, 0x1E, 0x10, 0x10, 0x10, // 'F'
	0x1E, 0x11, 0x11, 0x1E, 0x10, 0x10, 0x10, // 'P'
	0x0F, 0x10, 0x10, 0x0E, 0x01, 0x01, 0x1E, // 'S'
	0x00, 0x00, 0x0E, 0x11, 0x1F, 0x10, 0x0E, // 'e'
}

const (
	glyphW    = 6
	glyphH    = 8
	glyphRows = 7
)

type font6x8 struct {
	g glyph
}

type glyph struct {
	r rune
}

func (g *glyph) Draw(display drivers.Displayer, x, y int16, c color.RGBA) {
	base := glyphIndex(g.r) * glyphRows
	for row := 0; row < glyphRows; row++ {
		b := glyphData[base+row]
		for col := 0; col < 5; col++ {
			if b&(0x10>>col) == 0 {
				continue
			}
			display.SetPixel(x+int16(col), y-int16(7-row), c)
		}
	}
}

func (g *glyph) Info() tinyfont.GlyphInfo {
	return tinyfont.GlyphInfo{
		Rune:     g.r,
		Width:    glyphW,
		Height:   glyphH,
		XAdvance: glyphW,
		XOffset:  0,
		YOffset:  -7,
	}
}

func (f *font6x8) GetYAdvance() uint8 { return glyphH }

func (f *font6x8) GetGlyph(r rune) tinyfont.Glypher {
	f.g.r = r
	return &f.g
}

func glyphIndex(r rune) int {
	if i := strings.IndexRune(glyphRunes, r); i >= 0 {
		return i
	}
	return strings.IndexByte(glyphRunes, '?')
}
