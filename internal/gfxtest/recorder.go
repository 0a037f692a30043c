// Package gfxtest provides a recording hal.Graphics for tests.
package gfxtest

import (
	"errors"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"quark2d/hal"
)

var ErrUpload = errors.New("gfxtest: upload refused")

// Draw is one recorded DrawArrays call with the uniform state it saw.
type Draw struct {
	Program   hal.ProgramID
	Buffer    hal.BufferID
	Mode      hal.Primitive
	First     int
	Count     int
	Transform mgl32.Mat4
	Color     [3]float32
}

// Recorder implements hal.Graphics by recording every call.
//
// Compiled programs expose the uniforms listed in Uniforms (location is the
// index); the zero value exposes Transform and Color.
type Recorder struct {
	Uniforms   []string
	CompileErr error
	FailUpload bool

	Ops      []string
	Draws    []Draw
	Clears   [][4]float32
	Overlays int

	Programs map[hal.ProgramID]bool
	Buffers  map[hal.BufferID][]float32

	nextProgram hal.ProgramID
	nextBuffer  hal.BufferID
	current     hal.ProgramID
	bound       hal.BufferID
	transform   mgl32.Mat4
	color       [3]float32
}

var _ hal.Graphics = (*Recorder)(nil)

func (r *Recorder) init() {
	if r.Programs == nil {
		r.Programs = make(map[hal.ProgramID]bool)
	}
	if r.Buffers == nil {
		r.Buffers = make(map[hal.BufferID][]float32)
	}
	if r.Uniforms == nil {
		r.Uniforms = []string{hal.TransformUniform, hal.ColorUniform}
	}
}

func (r *Recorder) CompileProgram(src []byte) (hal.ProgramID, error) {
	r.init()
	r.Ops = append(r.Ops, "compile")
	r.nextProgram++
	r.Programs[r.nextProgram] = true
	return r.nextProgram, r.CompileErr
}

func (r *Recorder) DeleteProgram(id hal.ProgramID) {
	r.init()
	r.Ops = append(r.Ops, "delete-program")
	delete(r.Programs, id)
}

func (r *Recorder) UniformLocation(id hal.ProgramID, name string) int {
	r.init()
	if !r.Programs[id] {
		return -1
	}
	for i, u := range r.Uniforms {
		if u == name {
			return i
		}
	}
	return -1
}

func (r *Recorder) UseProgram(id hal.ProgramID) {
	r.Ops = append(r.Ops, "use")
	r.current = id
}

func (r *Recorder) name(loc int) string {
	if loc < 0 || loc >= len(r.Uniforms) {
		return ""
	}
	return r.Uniforms[loc]
}

func (r *Recorder) SetUniformMat4(loc int, m [16]float32) {
	if r.name(loc) == hal.TransformUniform {
		r.transform = m
	}
}

func (r *Recorder) SetUniformVec3(loc int, v [3]float32) {
	if r.name(loc) == hal.ColorUniform {
		r.color = v
	}
}

func (r *Recorder) UploadVertices(pos []float32) (hal.BufferID, error) {
	r.init()
	if r.FailUpload {
		return 0, ErrUpload
	}
	r.nextBuffer++
	r.Buffers[r.nextBuffer] = append([]float32(nil), pos...)
	return r.nextBuffer, nil
}

func (r *Recorder) DeleteVertices(id hal.BufferID) {
	r.init()
	r.Ops = append(r.Ops, "delete-vertices")
	delete(r.Buffers, id)
}

func (r *Recorder) BindVertices(id hal.BufferID) { r.bound = id }

func (r *Recorder) DrawArrays(mode hal.Primitive, first, count int) {
	r.Ops = append(r.Ops, "draw")
	r.Draws = append(r.Draws, Draw{
		Program:   r.current,
		Buffer:    r.bound,
		Mode:      mode,
		First:     first,
		Count:     count,
		Transform: r.transform,
		Color:     r.color,
	})
}

func (r *Recorder) Clear(cr, cg, cb, ca float32) {
	r.Ops = append(r.Ops, "clear")
	r.Clears = append(r.Clears, [4]float32{cr, cg, cb, ca})
}

func (r *Recorder) DrawOverlay(img *image.RGBA, x, y int) {
	r.Ops = append(r.Ops, "overlay")
	r.Overlays++
}

// Reset forgets recorded calls but keeps programs and buffers.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.Draws = nil
	r.Clears = nil
	r.Overlays = 0
}
