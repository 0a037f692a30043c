package hal

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestDevice(t *testing.T, src string) (*SoftGraphics, ProgramID) {
	t.Helper()
	g := NewSoftGraphics(100, 100)
	id, err := g.CompileProgram([]byte(src))
	if err != nil {
		t.Fatalf("CompileProgram: %v", err)
	}
	g.UseProgram(id)
	return g, id
}

func quad(t *testing.T, g *SoftGraphics) BufferID {
	t.Helper()
	buf, err := g.UploadVertices([]float32{
		-0.5, -0.5, 0.5, -0.5, 0.5, 0.5,
		0.5, 0.5, -0.5, 0.5, -0.5, -0.5,
	})
	if err != nil {
		t.Fatalf("UploadVertices: %v", err)
	}
	return buf
}

func TestSoftGraphicsDrawsQuad(t *testing.T) {
	g, id := newTestDevice(t, testKage)
	g.Clear(0, 0, 0, 1)

	m := mgl32.Ident4()
	g.SetUniformMat4(g.UniformLocation(id, TransformUniform), m)
	g.SetUniformVec3(g.UniformLocation(id, ColorUniform), [3]float32{0, 0, 1})
	g.BindVertices(quad(t, g))
	g.DrawArrays(PrimitiveTriangles, 0, 6)

	if c := g.Frame().RGBAAt(50, 50); c != (color.RGBA{B: 0xFF, A: 0xFF}) {
		t.Fatalf("center = %v", c)
	}
	if c := g.Frame().RGBAAt(5, 5); c != (color.RGBA{A: 0xFF}) {
		t.Fatalf("corner = %v", c)
	}
}

func TestSoftGraphicsMissingUniformIsNoop(t *testing.T) {
	const noColor = `package main

var Transform mat4

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return vec4(1)
}
`
	g, id := newTestDevice(t, noColor)
	loc := g.UniformLocation(id, ColorUniform)
	if loc != -1 {
		t.Fatalf("location = %d", loc)
	}
	g.SetUniformVec3(loc, [3]float32{1, 0, 0})
	g.SetUniformMat4(g.UniformLocation(id, TransformUniform), mgl32.Ident4())
	g.Clear(1, 1, 1, 1)
	g.BindVertices(quad(t, g))
	g.DrawArrays(PrimitiveTriangles, 0, 6)

	// Unset color reads as black.
	if c := g.Frame().RGBAAt(50, 50); c != (color.RGBA{A: 0xFF}) {
		t.Fatalf("center = %v", c)
	}
}

func TestSoftGraphicsFailedProgramDrawsNothing(t *testing.T) {
	g := NewSoftGraphics(10, 10)
	id, err := g.CompileProgram([]byte("package main\n"))
	if !errors.Is(err, errNoFragment) {
		t.Fatalf("err = %v", err)
	}
	if id == 0 {
		t.Fatal("expected a handle")
	}
	g.UseProgram(id)
	g.Clear(0, 1, 0, 1)
	g.BindVertices(quad(t, g))
	g.DrawArrays(PrimitiveTriangles, 0, 6)
	if c := g.Frame().RGBAAt(5, 5); c != (color.RGBA{G: 0xFF, A: 0xFF}) {
		t.Fatalf("degraded draw touched the frame: %v", c)
	}
}

func TestSoftGraphicsFan(t *testing.T) {
	g, id := newTestDevice(t, testKage)
	g.Clear(0, 0, 0, 1)
	g.SetUniformMat4(g.UniformLocation(id, TransformUniform), mgl32.Ident4())
	g.SetUniformVec3(g.UniformLocation(id, ColorUniform), [3]float32{1, 0, 0})

	// Square as a fan around its center.
	buf, err := g.UploadVertices([]float32{0, 0, -0.5, -0.5, 0.5, -0.5, 0.5, 0.5, -0.5, 0.5, -0.5, -0.5})
	if err != nil {
		t.Fatal(err)
	}
	g.BindVertices(buf)
	g.DrawArrays(PrimitiveTriangleFan, 0, 6)

	for _, p := range []image.Point{{30, 30}, {70, 30}, {70, 70}, {30, 70}} {
		if c := g.Frame().RGBAAt(p.X, p.Y); c.R != 0xFF {
			t.Fatalf("pixel %v = %v", p, c)
		}
	}
}

func TestSoftGraphicsUploadRejectsOddData(t *testing.T) {
	g := NewSoftGraphics(10, 10)
	if _, err := g.UploadVertices([]float32{1, 2, 3}); !errors.Is(err, ErrEmptyVertices) {
		t.Fatalf("err = %v", err)
	}
	if _, err := g.UploadVertices(nil); !errors.Is(err, ErrEmptyVertices) {
		t.Fatalf("err = %v", err)
	}
}

func TestSoftGraphicsOverlay(t *testing.T) {
	g := NewSoftGraphics(10, 10)
	g.Clear(0, 0, 0, 1)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	g.DrawOverlay(img, 3, 4)
	if c := g.Frame().RGBAAt(3, 4); c.R != 0xFF {
		t.Fatalf("overlay pixel = %v", c)
	}
	if c := g.Frame().RGBAAt(4, 4); c != (color.RGBA{A: 0xFF}) {
		t.Fatalf("transparent overlay pixel = %v", c)
	}
}
