package hal

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/go-gl/mathgl/mgl32"
)

var errNoFragment = errors.New("kage: missing func Fragment entry point")

var _ Graphics = (*SoftGraphics)(nil)

// SoftGraphics is a software Graphics device that rasterizes flat-colored
// triangles into an RGBA frame. The fragment stage reads the vec3 uniform
// named ColorUniform.
//
// Create it once and reuse it to avoid allocations.
type SoftGraphics struct {
	programs programTable
	buffers  map[BufferID][]float32
	nextBuf  BufferID
	bound    BufferID

	frame *image.RGBA

	screen []mgl32.Vec2
	idx    []uint16
}

// NewSoftGraphics returns a device drawing into a w×h frame.
func NewSoftGraphics(w, h int) *SoftGraphics {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &SoftGraphics{
		programs: newProgramTable(),
		buffers:  make(map[BufferID][]float32),
		frame:    image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// Frame returns the backing frame. It is overwritten by later draws.
func (g *SoftGraphics) Frame() *image.RGBA { return g.frame }

// CompileProgram accepts any Kage source that declares a Fragment function.
func (g *SoftGraphics) CompileProgram(src []byte) (ProgramID, error) {
	return g.programs.compile(src, func(src []byte) (any, error) {
		if !bytes.Contains(src, []byte("func Fragment(")) {
			return nil, errNoFragment
		}
		return struct{}{}, nil
	})
}

func (g *SoftGraphics) DeleteProgram(id ProgramID) { g.programs.release(id) }

func (g *SoftGraphics) UniformLocation(id ProgramID, name string) int {
	return g.programs.location(id, name)
}

func (g *SoftGraphics) UseProgram(id ProgramID) { g.programs.use(id) }

func (g *SoftGraphics) SetUniformMat4(loc int, m [16]float32) { g.programs.set(loc, m[:]) }

func (g *SoftGraphics) SetUniformVec3(loc int, v [3]float32) { g.programs.set(loc, v[:]) }

func (g *SoftGraphics) UploadVertices(pos []float32) (BufferID, error) {
	if len(pos) == 0 || len(pos)%2 != 0 {
		return 0, ErrEmptyVertices
	}
	g.nextBuf++
	g.buffers[g.nextBuf] = append([]float32(nil), pos...)
	return g.nextBuf, nil
}

func (g *SoftGraphics) DeleteVertices(id BufferID) {
	delete(g.buffers, id)
	if g.bound == id {
		g.bound = 0
	}
}

func (g *SoftGraphics) BindVertices(id BufferID) { g.bound = id }

func (g *SoftGraphics) DrawArrays(mode Primitive, first, count int) {
	p := g.programs.current
	if !p.usable() {
		return
	}
	pos, ok := g.buffers[g.bound]
	if !ok {
		return
	}
	first, count, ok = drawRange(first, count, len(pos)/2)
	if !ok {
		return
	}

	var c color.RGBA
	if v, ok := p.lookup(ColorUniform); ok && len(v) == 3 {
		c = color.RGBA{R: unorm8(v[0]), G: unorm8(v[1]), B: unorm8(v[2]), A: 0xFF}
	} else {
		c = color.RGBA{A: 0xFF}
	}

	g.screen = vertexStage(g.screen, pos, first, count, p)
	g.idx = assemble(g.idx, mode, count)

	w, h := g.frame.Rect.Dx(), g.frame.Rect.Dy()
	for i := 0; i+2 < len(g.idx); i += 3 {
		x0, y0 := ndcToScreen(g.screen[g.idx[i]], w, h)
		x1, y1 := ndcToScreen(g.screen[g.idx[i+1]], w, h)
		x2, y2 := ndcToScreen(g.screen[g.idx[i+2]], w, h)
		g.fillTriangle(w, h, x0, y0, x1, y1, x2, y2, c)
	}
}

func (g *SoftGraphics) Clear(r, gr, b, a float32) {
	c := color.RGBA{R: unorm8(r), G: unorm8(gr), B: unorm8(b), A: unorm8(a)}
	draw.Draw(g.frame, g.frame.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

func (g *SoftGraphics) DrawOverlay(img *image.RGBA, x, y int) {
	if img == nil {
		return
	}
	r := img.Rect.Sub(img.Rect.Min).Add(image.Pt(x, y))
	draw.Draw(g.frame, r, img, img.Rect.Min, draw.Over)
}

// fillTriangle samples pixel centers against the three edge functions.
// Both windings are accepted.
func (g *SoftGraphics) fillTriangle(w, h int, x0, y0, x1, y1, x2, y2 float32, c color.RGBA) {
	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	if area < 0 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	minX := clampInt(int(min3(x0, x1, x2)), 0, w-1)
	maxX := clampInt(int(max3(x0, x1, x2)), 0, w-1)
	minY := clampInt(int(min3(y0, y1, y2)), 0, h-1)
	maxY := clampInt(int(max3(y0, y1, y2)), 0, h-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			if edgeFn(x1, y1, x2, y2, px, py) < 0 ||
				edgeFn(x2, y2, x0, y0, px, py) < 0 ||
				edgeFn(x0, y0, x1, y1, px, py) < 0 {
				continue
			}
			g.frame.SetRGBA(x, y, c)
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y float32) float32 {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func unorm8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xFF
	}
	return uint8(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min3(a, b, c float32) float32 {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}
