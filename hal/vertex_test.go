package hal

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAssembleTriangles(t *testing.T) {
	idx := assemble(nil, PrimitiveTriangles, 6)
	if len(idx) != 6 {
		t.Fatalf("len = %d", len(idx))
	}
	for i, v := range idx {
		if int(v) != i {
			t.Fatalf("idx[%d] = %d", i, v)
		}
	}
}

func TestAssembleFan(t *testing.T) {
	// Center, 50 ring vertices and a closing vertex: 50 triangles.
	idx := assemble(nil, PrimitiveTriangleFan, 52)
	if len(idx) != 50*3 {
		t.Fatalf("len = %d", len(idx))
	}
	if idx[0] != 0 || idx[1] != 1 || idx[2] != 2 {
		t.Fatalf("first triangle = %v", idx[:3])
	}
	last := idx[len(idx)-3:]
	if last[0] != 0 || last[1] != 50 || last[2] != 51 {
		t.Fatalf("last triangle = %v", last)
	}
}

func TestDrawRange(t *testing.T) {
	if _, _, ok := drawRange(0, 2, 6); ok {
		t.Fatal("accepted fewer than 3 vertices")
	}
	if _, _, ok := drawRange(6, 3, 6); ok {
		t.Fatal("accepted first past end")
	}
	first, count, ok := drawRange(2, 10, 6)
	if !ok || first != 2 || count != 4 {
		t.Fatalf("got %d %d %v", first, count, ok)
	}
	first, count, ok = drawRange(0, MaxDrawVertices+10, MaxDrawVertices+10)
	if !ok || first != 0 || count != MaxDrawVertices {
		t.Fatalf("oversized draw: got %d %d %v", first, count, ok)
	}
}

func TestVertexStageAndScreenMapping(t *testing.T) {
	p := &program{uniforms: []uniformDecl{{TransformUniform, 16}}}
	m := mgl32.Translate3D(0.5, 0, 0)
	p.values = [][]float32{m[:]}

	out := vertexStage(nil, []float32{0, 0, -0.5, 0.5}, 0, 2, p)
	if out[0] != (mgl32.Vec2{0.5, 0}) || out[1] != (mgl32.Vec2{0, 0.5}) {
		t.Fatalf("vertex stage = %v", out)
	}

	x, y := ndcToScreen(mgl32.Vec2{-1, 1}, 800, 600)
	if x != 0 || y != 0 {
		t.Fatalf("top-left = %v,%v", x, y)
	}
	x, y = ndcToScreen(mgl32.Vec2{1, -1}, 800, 600)
	if x != 800 || y != 600 {
		t.Fatalf("bottom-right = %v,%v", x, y)
	}
}

func TestVertexStageMissingTransformCollapses(t *testing.T) {
	out := vertexStage(nil, []float32{0.3, 0.4}, 0, 1, &program{})
	if out[0] != (mgl32.Vec2{}) {
		t.Fatalf("got %v", out[0])
	}
}
