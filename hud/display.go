package hud

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
)

// imageDisplay adapts an RGBA image to drivers.Displayer. Each font pixel
// covers a scale×scale block.
type imageDisplay struct {
	img   *image.RGBA
	scale int
}

var _ drivers.Displayer = (*imageDisplay)(nil)

func (d *imageDisplay) Size() (x, y int16) {
	b := d.img.Rect
	return int16(b.Dx() / d.scale), int16(b.Dy() / d.scale)
}

func (d *imageDisplay) SetPixel(x, y int16, c color.RGBA) {
	px, py := int(x)*d.scale, int(y)*d.scale
	for dy := 0; dy < d.scale; dy++ {
		for dx := 0; dx < d.scale; dx++ {
			p := image.Pt(px+dx, py+dy).Add(d.img.Rect.Min)
			if !p.In(d.img.Rect) {
				continue
			}
			d.img.SetRGBA(p.X, p.Y, c)
		}
	}
}

func (d *imageDisplay) Display() error { return nil }

func (d *imageDisplay) fill(c color.RGBA) {
	pix := d.img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}
