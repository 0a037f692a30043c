//go:build cgo

package hal

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

var _ Graphics = (*ebitenGraphics)(nil)

// ebitenGraphics implements Graphics on top of ebiten. Programs are Kage
// fragment shaders; the vertex stage runs on the CPU because Kage exposes
// no user vertex entry point.
type ebitenGraphics struct {
	programs programTable
	buffers  map[BufferID][]float32
	nextBuf  BufferID
	bound    BufferID

	target  *ebiten.Image
	overlay *ebiten.Image

	screen   []mgl32.Vec2
	idx      []uint16
	verts    []ebiten.Vertex
	uniforms map[string]any
}

func newEbitenGraphics() *ebitenGraphics {
	return &ebitenGraphics{
		programs: newProgramTable(),
		buffers:  make(map[BufferID][]float32),
		uniforms: make(map[string]any),
	}
}

func (g *ebitenGraphics) begin(screen *ebiten.Image) { g.target = screen }
func (g *ebitenGraphics) end()                       { g.target = nil }

func (g *ebitenGraphics) CompileProgram(src []byte) (ProgramID, error) {
	return g.programs.compile(src, func(src []byte) (any, error) {
		s, err := ebiten.NewShader(src)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

func (g *ebitenGraphics) DeleteProgram(id ProgramID) {
	if native, ok := g.programs.release(id); ok {
		if s, ok := native.(*ebiten.Shader); ok {
			s.Deallocate()
		}
	}
}

func (g *ebitenGraphics) UniformLocation(id ProgramID, name string) int {
	return g.programs.location(id, name)
}

func (g *ebitenGraphics) UseProgram(id ProgramID) { g.programs.use(id) }

func (g *ebitenGraphics) SetUniformMat4(loc int, m [16]float32) { g.programs.set(loc, m[:]) }

func (g *ebitenGraphics) SetUniformVec3(loc int, v [3]float32) { g.programs.set(loc, v[:]) }

func (g *ebitenGraphics) UploadVertices(pos []float32) (BufferID, error) {
	if len(pos) == 0 || len(pos)%2 != 0 {
		return 0, ErrEmptyVertices
	}
	g.nextBuf++
	g.buffers[g.nextBuf] = append([]float32(nil), pos...)
	return g.nextBuf, nil
}

func (g *ebitenGraphics) DeleteVertices(id BufferID) {
	delete(g.buffers, id)
	if g.bound == id {
		g.bound = 0
	}
}

func (g *ebitenGraphics) BindVertices(id BufferID) { g.bound = id }

func (g *ebitenGraphics) DrawArrays(mode Primitive, first, count int) {
	p := g.programs.current
	if g.target == nil || !p.usable() {
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

	b := g.target.Bounds()
	g.screen = vertexStage(g.screen, pos, first, count, p)
	g.verts = g.verts[:0]
	for _, v := range g.screen {
		x, y := ndcToScreen(v, b.Dx(), b.Dy())
		g.verts = append(g.verts, ebiten.Vertex{
			DstX:   float32(b.Min.X) + x,
			DstY:   float32(b.Min.Y) + y,
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		})
	}
	g.idx = assemble(g.idx, mode, count)
	clear(g.uniforms)
	g.uniforms = g.programs.uniformMap(g.uniforms)

	g.target.DrawTrianglesShader(g.verts, g.idx, p.native.(*ebiten.Shader), &ebiten.DrawTrianglesShaderOptions{
		Uniforms: g.uniforms,
	})
}

func (g *ebitenGraphics) Clear(r, gr, b, a float32) {
	if g.target == nil {
		return
	}
	g.target.Fill(color.RGBA{R: unorm8(r), G: unorm8(gr), B: unorm8(b), A: unorm8(a)})
}

func (g *ebitenGraphics) DrawOverlay(img *image.RGBA, x, y int) {
	if g.target == nil || img == nil {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	if g.overlay == nil || g.overlay.Bounds().Dx() != w || g.overlay.Bounds().Dy() != h {
		if g.overlay != nil {
			g.overlay.Deallocate()
		}
		g.overlay = ebiten.NewImage(w, h)
	}
	g.overlay.WritePixels(img.Pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	g.target.DrawImage(g.overlay, op)
}
