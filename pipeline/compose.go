package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"

	"quark2d/pose"
)

// Compose returns Translate(t) * RotateZ(r) * Scale(s, s, 1): shapes are
// scaled and rotated about their own origin before being moved.
func Compose(p pose.Pose) mgl32.Mat4 {
	t := mgl32.Translate3D(p.Translation.X(), p.Translation.Y(), 0)
	r := mgl32.HomogRotate3DZ(p.Rotation)
	s := mgl32.Scale3D(p.Scale, p.Scale, 1)
	return t.Mul4(r).Mul4(s)
}

// Offset returns m * Translate(off), placing a shape off in the local frame.
func Offset(m mgl32.Mat4, off mgl32.Vec2) mgl32.Mat4 {
	if off == (mgl32.Vec2{}) {
		return m
	}
	return m.Mul4(mgl32.Translate3D(off.X(), off.Y(), 0))
}
