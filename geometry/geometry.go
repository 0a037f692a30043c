// Package geometry builds the immutable vertex data of the rendered shapes
// and uploads it once to a graphics device.
package geometry

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"quark2d/hal"
)

// MinSegments and MaxSegments bound the circle tessellation. The fan of
// MaxSegments+2 vertices is the largest a single draw call can index.
const (
	MinSegments = 3
	MaxSegments = hal.MaxDrawVertices - 2
)

// DefaultSegments and DefaultRadius describe the circle drawn by default.
const (
	DefaultSegments = 50
	DefaultRadius   = 0.5
)

var ErrClosed = errors.New("geometry: store closed")

// Drawable is an uploaded vertex buffer plus how to draw it.
type Drawable struct {
	Name      string
	Buffer    hal.BufferID
	Primitive hal.Primitive
	Count     int
}

// RectangleVertices returns a unit quad centered at the origin as two
// triangles (6 vertices).
func RectangleVertices() []float32 {
	return []float32{
		-0.5, -0.5,
		0.5, -0.5,
		0.5, 0.5,

		0.5, 0.5,
		-0.5, 0.5,
		-0.5, -0.5,
	}
}

// CircleVertices returns a triangle fan approximating a filled circle: the
// center, then segments+1 ring vertices where the last repeats the first
// to close the fan. segments is clamped to [MinSegments, MaxSegments].
func CircleVertices(segments int, radius float32) []float32 {
	segments = clampSegments(segments)
	out := make([]float32, 0, 2*(segments+2))
	out = append(out, 0, 0)
	step := 2 * math32.Pi / float32(segments)
	for i := 0; i <= segments; i++ {
		a := float32(i) * step
		if i == segments {
			a = 0
		}
		out = append(out, radius*math32.Cos(a), radius*math32.Sin(a))
	}
	return out
}

// Store owns the uploaded shapes.
type Store struct {
	gfx    hal.Graphics
	Rect   Drawable
	Circle Drawable
	closed bool
}

// NewStore uploads the rectangle and a circle with the given tessellation.
// segments is clamped to [MinSegments, MaxSegments].
func NewStore(gfx hal.Graphics, segments int, radius float32) (*Store, error) {
	segments = clampSegments(segments)
	if radius <= 0 {
		radius = DefaultRadius
	}
	s := &Store{gfx: gfx}

	var err error
	s.Rect, err = upload(gfx, "rectangle", hal.PrimitiveTriangles, RectangleVertices())
	if err != nil {
		return nil, err
	}
	s.Circle, err = upload(gfx, "circle", hal.PrimitiveTriangleFan, CircleVertices(segments, radius))
	if err != nil {
		gfx.DeleteVertices(s.Rect.Buffer)
		return nil, err
	}
	return s, nil
}

func upload(gfx hal.Graphics, name string, mode hal.Primitive, pos []float32) (Drawable, error) {
	buf, err := gfx.UploadVertices(pos)
	if err != nil {
		return Drawable{}, fmt.Errorf("upload %s: %w", name, err)
	}
	return Drawable{Name: name, Buffer: buf, Primitive: mode, Count: len(pos) / 2}, nil
}

// Close releases the device buffers. Calling it twice returns ErrClosed.
func (s *Store) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.gfx.DeleteVertices(s.Rect.Buffer)
	s.gfx.DeleteVertices(s.Circle.Buffer)
	return nil
}

func clampSegments(n int) int {
	if n < MinSegments {
		return MinSegments
	}
	if n > MaxSegments {
		return MaxSegments
	}
	return n
}
