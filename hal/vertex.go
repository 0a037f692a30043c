package hal

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// vertexStage transforms count positions starting at first by the bound
// program's Transform uniform. A missing uniform reads as all zeros.
func vertexStage(dst []mgl32.Vec2, pos []float32, first, count int, p *program) []mgl32.Vec2 {
	var m mgl32.Mat4
	if v, ok := p.lookup(TransformUniform); ok && len(v) == 16 {
		copy(m[:], v)
	}
	dst = dst[:0]
	for i := first; i < first+count; i++ {
		v := m.Mul4x1(mgl32.Vec4{pos[2*i], pos[2*i+1], 0, 1})
		if v.W() != 0 && v.W() != 1 {
			v = v.Mul(1 / v.W())
		}
		dst = append(dst, mgl32.Vec2{v.X(), v.Y()})
	}
	return dst
}

// ndcToScreen maps normalized device coordinates to pixel coordinates with
// the origin at the top-left corner.
func ndcToScreen(p mgl32.Vec2, w, h int) (x, y float32) {
	x = (p.X()*0.5 + 0.5) * float32(w)
	y = (1 - (p.Y()*0.5 + 0.5)) * float32(h)
	return x, y
}

// assemble appends triangle indices for count vertices of the given
// topology, relative to the first vertex drawn.
func assemble(dst []uint16, mode Primitive, count int) []uint16 {
	dst = dst[:0]
	switch mode {
	case PrimitiveTriangles:
		for i := 0; i+2 < count; i += 3 {
			dst = append(dst, uint16(i), uint16(i+1), uint16(i+2))
		}
	case PrimitiveTriangleFan:
		for i := 1; i+1 < count; i++ {
			dst = append(dst, 0, uint16(i), uint16(i+1))
		}
	}
	return dst
}

// MaxDrawVertices is the most vertices one DrawArrays call assembles;
// triangle indices are 16-bit.
const MaxDrawVertices = math.MaxUint16 + 1

// drawRange clamps first/count to a buffer holding n vertices and to
// MaxDrawVertices.
func drawRange(first, count, n int) (int, int, bool) {
	if first < 0 || count < 3 || first >= n {
		return 0, 0, false
	}
	if first+count > n {
		count = n - first
	}
	if count > MaxDrawVertices {
		count = MaxDrawVertices
	}
	return first, count, count >= 3
}
