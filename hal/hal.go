package hal

import (
	"errors"
	"image"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrUnknownBuffer  = errors.New("unknown vertex buffer")
	ErrEmptyVertices  = errors.New("vertex data is empty or not a multiple of 2")
)

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyQ
	KeyE
	KeyZ
	KeyX
	KeyEscape
)

var keyNames = [...]string{
	KeyUnknown: "unknown",
	KeyUp:      "up",
	KeyDown:    "down",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeyQ:       "q",
	KeyE:       "e",
	KeyZ:       "z",
	KeyX:       "x",
	KeyEscape:  "escape",
}

func (k KeyCode) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// ParseKeyCode returns the key named s (case-insensitive).
func ParseKeyCode(s string) (KeyCode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range keyNames {
		if i != int(KeyUnknown) && name == s {
			return KeyCode(i), true
		}
	}
	return KeyUnknown, false
}

// KeyAction distinguishes the initial press from platform key-repeat.
type KeyAction uint8

const (
	KeyPress KeyAction = iota + 1
	KeyRepeat
	KeyRelease
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code   KeyCode
	Action KeyAction
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Clock is a monotonic time source in seconds since the session started.
type Clock interface {
	Now() float64
}

// Window is the part of the platform window the renderer talks to.
type Window interface {
	SetTitle(title string)
}

// Primitive is the topology used to assemble vertices into triangles.
type Primitive uint8

const (
	PrimitiveTriangles Primitive = iota + 1
	PrimitiveTriangleFan
)

func (p Primitive) String() string {
	switch p {
	case PrimitiveTriangles:
		return "triangles"
	case PrimitiveTriangleFan:
		return "triangle-fan"
	}
	return "unknown"
}

// ProgramID names a compiled shader program. Zero is never a valid program.
type ProgramID uint32

// BufferID names an uploaded vertex buffer. Zero unbinds.
type BufferID uint32

// Graphics is a minimal immediate-mode device.
//
// Uniform writes go to the program bound by UseProgram. A location of -1 is
// accepted everywhere and ignored, as are writes whose size does not match
// the uniform. The device's fixed vertex stage multiplies every 2D position
// by the mat4 uniform named TransformUniform.
type Graphics interface {
	// CompileProgram compiles shader source. On failure the returned id is
	// still a valid handle; drawing with it produces nothing.
	CompileProgram(src []byte) (ProgramID, error)
	DeleteProgram(id ProgramID)
	UniformLocation(id ProgramID, name string) int
	UseProgram(id ProgramID)
	SetUniformMat4(loc int, m [16]float32)
	SetUniformVec3(loc int, v [3]float32)

	// UploadVertices stores interleaved 2D positions (x0, y0, x1, y1, ...).
	UploadVertices(pos []float32) (BufferID, error)
	DeleteVertices(id BufferID)
	BindVertices(id BufferID)
	DrawArrays(mode Primitive, first, count int)

	Clear(r, g, b, a float32)
	DrawOverlay(img *image.RGBA, x, y int)
}

// Uniform names shared by the shader programs and the devices. The vertex
// stage reads TransformUniform; SoftGraphics shades with ColorUniform.
const (
	TransformUniform = "Transform"
	ColorUniform     = "Color"
)

// Game is one session driven by a runner: Update runs timing and input,
// Draw renders, and the runner presents after Draw returns.
type Game interface {
	Update() error
	Draw()
	Close() error
}

// HAL provides the only contact point between the renderer and the platform.
type HAL interface {
	Logger() *zap.Logger
	Clock() Clock
	Keyboard() Keyboard
	Window() Window
	Graphics() Graphics
}
