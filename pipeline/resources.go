// Package pipeline composes the pose into a transform and issues the draw
// calls for every registered shape.
package pipeline

import (
	_ "embed"

	"go.uber.org/zap"

	"quark2d/hal"
)

// ShaderSource is the flat-color Kage program used by default.
//
//go:embed shader.kage
var ShaderSource []byte

// Resources is the compiled program and its resolved uniform locations.
// A location of -1 means the program does not declare the uniform.
type Resources struct {
	gfx          hal.Graphics
	Program      hal.ProgramID
	TransformLoc int
	ColorLoc     int
	compileErr   error
	released     bool
}

// NewResources compiles src. Compile failures are logged with their
// diagnostic text and otherwise ignored: the program handle is kept and
// drawing with it produces nothing.
func NewResources(gfx hal.Graphics, src []byte, logger *zap.Logger) *Resources {
	if logger == nil {
		logger = zap.NewNop()
	}
	id, err := gfx.CompileProgram(src)
	if err != nil {
		logger.Error("shader program failed to compile", zap.Uint32("program", uint32(id)), zap.Error(err))
	} else {
		logger.Debug("shader program compiled", zap.Uint32("program", uint32(id)))
	}
	r := &Resources{
		gfx:          gfx,
		Program:      id,
		TransformLoc: gfx.UniformLocation(id, hal.TransformUniform),
		ColorLoc:     gfx.UniformLocation(id, hal.ColorUniform),
		compileErr:   err,
	}
	if r.TransformLoc < 0 || r.ColorLoc < 0 {
		logger.Warn("shader uniform not found",
			zap.Int("transform", r.TransformLoc),
			zap.Int("color", r.ColorLoc))
	}
	return r
}

// Degraded reports whether the program failed to compile.
func (r *Resources) Degraded() bool { return r.compileErr != nil }

// Err returns the compile diagnostic, if any.
func (r *Resources) Err() error { return r.compileErr }

// Release deletes the program. It is safe to call more than once.
func (r *Resources) Release() {
	if r.released {
		return
	}
	r.released = true
	r.gfx.DeleteProgram(r.Program)
}
