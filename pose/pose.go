// Package pose holds the transform state driven by keyboard input.
//
// A State owns exactly one Pose. Mutators apply one fixed step per call and
// never fail: out-of-range results are clamped. The state is not safe for
// concurrent use; the render loop is its only writer and reader.
package pose

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Pose is the affine pose of the rendered shapes.
type Pose struct {
	Translation mgl32.Vec2
	Rotation    float32 // radians, counter-clockwise
	Scale       float32 // uniform, always >= the configured floor
}

// Identity returns the zero-translation, zero-rotation, unit-scale pose.
func Identity() Pose {
	return Pose{Scale: 1}
}

// Steps configures the size of each discrete mutation.
type Steps struct {
	Translate  float32 // units per step
	RotateDeg  float32 // degrees per step
	Scale      float32 // scale delta per step
	ScaleFloor float32 // smallest reachable scale, > 0
}

const (
	defaultTranslateStep = 0.05
	defaultRotateDeg     = 5
	defaultScaleStep     = 0.05
	defaultScaleFloor    = 0.05
)

// DefaultSteps returns the step sizes of the classic key layout.
func DefaultSteps() Steps {
	return Steps{
		Translate:  defaultTranslateStep,
		RotateDeg:  defaultRotateDeg,
		Scale:      defaultScaleStep,
		ScaleFloor: defaultScaleFloor,
	}
}

func (s Steps) normalized() Steps {
	d := DefaultSteps()
	if s.Translate <= 0 {
		s.Translate = d.Translate
	}
	if s.RotateDeg <= 0 {
		s.RotateDeg = d.RotateDeg
	}
	if s.Scale <= 0 {
		s.Scale = d.Scale
	}
	if s.ScaleFloor <= 0 {
		s.ScaleFloor = d.ScaleFloor
	}
	return s
}

// State is the single mutable pose of a session.
type State struct {
	p     Pose
	steps Steps
}

// NewState returns a state at the identity pose. Non-positive step values
// are replaced by their defaults.
func NewState(steps Steps) *State {
	return &State{p: Identity(), steps: steps.normalized()}
}

// Get returns a snapshot of the current pose.
func (s *State) Get() Pose { return s.p }

// Steps returns the effective step sizes.
func (s *State) Steps() Steps { return s.steps }

// Translate moves the pose by one step along each axis with a non-zero
// direction. Only the sign of dx and dy is used.
func (s *State) Translate(dx, dy int) {
	s.p.Translation[0] += float32(sign(dx)) * s.steps.Translate
	s.p.Translation[1] += float32(sign(dy)) * s.steps.Translate
}

// Rotate turns the pose by one angular step. Positive dir is
// counter-clockwise.
func (s *State) Rotate(dir int) {
	s.p.Rotation += float32(sign(dir)) * degToRad(s.steps.RotateDeg)
}

// ScaleUp grows the pose by one scale step.
func (s *State) ScaleUp() {
	s.p.Scale += s.steps.Scale
}

// ScaleDown shrinks the pose by one scale step, never below the floor.
func (s *State) ScaleDown() {
	s.p.Scale = math32.Max(s.steps.ScaleFloor, s.p.Scale-s.steps.Scale)
}

func degToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
