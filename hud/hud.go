// Package hud draws a small text overlay with the current frame rate.
package hud

import (
	"image"
	"image/color"
	"strconv"

	"tinygo.org/x/tinyfont"
)

const (
	// MaxChars is the longest text the overlay holds; longer text is cut.
	MaxChars = 20
	pad      = 2
)

var (
	DefaultForeground = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	DefaultBackground = color.RGBA{A: 0x99}
)

// Overlay is an RGBA image holding one line of text. It redraws only when
// the text changes.
type Overlay struct {
	X, Y int // screen position of the top-left corner

	fg, bg color.RGBA
	disp   *imageDisplay
	text   string
}

// New returns an overlay drawn at (x, y) with each font pixel scaled by
// scale (values below 1 use 1).
func New(x, y, scale int) *Overlay {
	if scale < 1 {
		scale = 1
	}
	w := (MaxChars*glyphW + 2*pad) * scale
	h := (glyphH + 2*pad) * scale
	o := &Overlay{
		X:    x,
		Y:    y,
		fg:   DefaultForeground,
		bg:   DefaultBackground,
		disp: &imageDisplay{img: image.NewRGBA(image.Rect(0, 0, w, h)), scale: scale},
	}
	o.redraw()
	return o
}

// SetColors changes the text and background colors.
func (o *Overlay) SetColors(fg, bg color.RGBA) {
	o.fg, o.bg = fg, bg
	o.redraw()
}

// SetFPS shows "FPS: <v>" with six significant digits.
func (o *Overlay) SetFPS(v float64) {
	o.SetText("FPS: " + strconv.FormatFloat(v, 'g', 6, 64))
}

// SetText replaces the text.
func (o *Overlay) SetText(s string) {
	if r := []rune(s); len(r) > MaxChars {
		s = string(r[:MaxChars])
	}
	if s == o.text {
		return
	}
	o.text = s
	o.redraw()
}

// Text returns the current text.
func (o *Overlay) Text() string { return o.text }

// Image returns the rendered overlay. It is reused by later updates.
func (o *Overlay) Image() *image.RGBA { return o.disp.img }

// TextWidth returns the rendered width of s in unscaled pixels.
func TextWidth(s string) int {
	_, outbox := tinyfont.LineWidth(Font, s)
	return int(outbox)
}

func (o *Overlay) redraw() {
	o.disp.fill(o.bg)
	if o.text == "" {
		return
	}
	tinyfont.WriteLine(o.disp, Font, pad, pad+7, o.text, o.fg)
}
