// Package app is the render loop: it ties the frame timer, keyboard input,
// pose state and draw pipeline together, one iteration per frame.
package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"quark2d/config"
	"quark2d/fpslog"
	"quark2d/frametimer"
	"quark2d/geometry"
	"quark2d/hal"
	"quark2d/hud"
	"quark2d/pipeline"
	"quark2d/pose"
)

var ErrClosed = errors.New("app: loop closed")

// Bindings maps keys to pose commands.
type Bindings map[hal.KeyCode]pose.Command

// DefaultBindings binds arrows to translation, Q/E to rotation and Z/X to
// scale.
func DefaultBindings() Bindings {
	return Bindings{
		hal.KeyUp:    pose.TranslateUp,
		hal.KeyDown:  pose.TranslateDown,
		hal.KeyLeft:  pose.TranslateLeft,
		hal.KeyRight: pose.TranslateRight,
		hal.KeyQ:     pose.RotateCCW,
		hal.KeyE:     pose.RotateCW,
		hal.KeyZ:     pose.ScaleUp,
		hal.KeyX:     pose.ScaleDown,
	}
}

// HUDOptions places the on-screen FPS text.
type HUDOptions struct {
	X, Y  int
	Scale int
}

// Options configures a Loop. Zero fields take defaults.
type Options struct {
	Title       string
	Background  [3]float32
	Steps       pose.Steps
	Segments    int
	Radius      float32
	TimerWindow float64
	Bindings    Bindings
	Shader      []byte      // Kage source; nil uses pipeline.ShaderSource
	Sink        fpslog.Sink // owned by the loop once passed; nil discards
	HUD         *HUDOptions // nil disables the overlay
}

// DefaultOptions matches config.Default.
func DefaultOptions() Options {
	opt, _ := OptionsFromConfig(config.Default())
	return opt
}

// OptionsFromConfig converts validated settings. The sink is left nil.
func OptionsFromConfig(c config.Config) (Options, error) {
	b, err := c.Bindings()
	if err != nil {
		return Options{}, err
	}
	opt := Options{
		Title:       c.Window.Title,
		Background:  c.Background,
		Steps:       c.PoseSteps(),
		Segments:    c.Circle.Segments,
		Radius:      c.Circle.Radius,
		TimerWindow: c.Timer.Window,
		Bindings:    b,
	}
	if c.HUD.Enabled {
		opt.HUD = &HUDOptions{X: c.HUD.X, Y: c.HUD.Y, Scale: c.HUD.Scale}
	}
	return opt, nil
}

// FormatTitle renders the window title for an FPS value.
func FormatTitle(base string, fps float64) string {
	return fmt.Sprintf("%s - FPS: %s", base, fpslog.FormatFloat(fps))
}

// Loop owns every per-session object. All methods must be called from the
// runner goroutine.
type Loop struct {
	logger *zap.Logger
	clock  hal.Clock
	kbd    hal.Keyboard
	win    hal.Window
	gfx    hal.Graphics

	title      string
	background [3]float32
	bindings   Bindings

	state    *pose.State
	timer    *frametimer.Timer
	shapes   *geometry.Store
	res      *pipeline.Resources
	renderer *pipeline.Renderer
	sink     fpslog.Sink
	overlay  *hud.Overlay

	start   float64
	frames  uint64
	samples uint64
	last    frametimer.Sample
	closed  bool
}

var _ hal.Game = (*Loop)(nil)

// New uploads the geometry, compiles the shader and starts the frame
// timer. A shader compile failure is logged and leaves the loop running
// degraded; geometry upload failure is returned.
func New(h hal.HAL, opt Options) (*Loop, error) {
	logger := h.Logger()
	if logger == nil {
		logger = zap.NewNop()
	}
	if opt.Title == "" {
		opt.Title = "2D Renderer"
	}
	if opt.Segments == 0 {
		opt.Segments = geometry.DefaultSegments
	}
	if opt.Bindings == nil {
		opt.Bindings = DefaultBindings()
	}
	if opt.Shader == nil {
		opt.Shader = pipeline.ShaderSource
	}
	if opt.Sink == nil {
		opt.Sink = fpslog.Discard
	}

	gfx := h.Graphics()
	shapes, err := geometry.NewStore(gfx, opt.Segments, opt.Radius)
	if err != nil {
		opt.Sink.Close()
		return nil, fmt.Errorf("geometry: %w", err)
	}
	res := pipeline.NewResources(gfx, opt.Shader, logger)

	l := &Loop{
		logger:     logger,
		clock:      h.Clock(),
		kbd:        h.Keyboard(),
		win:        h.Window(),
		gfx:        gfx,
		title:      opt.Title,
		background: opt.Background,
		bindings:   opt.Bindings,
		state:      pose.NewState(opt.Steps),
		shapes:     shapes,
		res:        res,
		renderer:   pipeline.NewDefaultRenderer(gfx, res, shapes),
		sink:       opt.Sink,
	}
	if opt.HUD != nil {
		l.overlay = hud.New(opt.HUD.X, opt.HUD.Y, opt.HUD.Scale)
	}
	l.start = l.clock.Now()
	l.timer = frametimer.NewWithWindow(0, opt.TimerWindow)

	logger.Info("renderer ready",
		zap.Int("rect_vertices", shapes.Rect.Count),
		zap.Int("circle_vertices", shapes.Circle.Count),
		zap.Bool("shader_degraded", res.Degraded()),
		zap.Bool("hud", l.overlay != nil),
		zap.Float64("timer_window", l.timer.Window()))
	return l, nil
}

// Update runs the timing and input halves of one iteration.
func (l *Loop) Update() error {
	if l.closed {
		return ErrClosed
	}
	l.frames++
	if s, ok := l.timer.Frame(l.clock.Now() - l.start); ok {
		l.emit(s)
	}
	l.dispatch()
	return nil
}

func (l *Loop) emit(s frametimer.Sample) {
	l.samples++
	l.last = s
	if l.win != nil {
		l.win.SetTitle(FormatTitle(l.title, s.FPS))
	}
	if err := l.sink.Append(s); err != nil {
		l.logger.Warn("fps sample not recorded", zap.Float64("timestamp", s.Timestamp), zap.Error(err))
	}
	if l.overlay != nil {
		l.overlay.SetFPS(s.FPS)
	}
	l.logger.Debug("fps", zap.Float64("timestamp", s.Timestamp), zap.Float64("fps", s.FPS))
}

// dispatch drains the pending key events without blocking.
func (l *Loop) dispatch() {
	if l.kbd == nil {
		return
	}
	ch := l.kbd.Events()
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			l.handleKey(ev)
		default:
			return
		}
	}
}

func (l *Loop) handleKey(ev hal.KeyEvent) {
	if ev.Action != hal.KeyPress && ev.Action != hal.KeyRepeat {
		return
	}
	cmd, ok := l.bindings[ev.Code]
	if !ok {
		return
	}
	l.state.Apply(cmd)
}

// Draw clears the frame and submits both shapes with the current pose.
func (l *Loop) Draw() {
	if l.closed {
		return
	}
	bg := l.background
	l.gfx.Clear(bg[0], bg[1], bg[2], 1)
	l.renderer.Draw(l.state.Get())
	if l.overlay != nil {
		l.gfx.DrawOverlay(l.overlay.Image(), l.overlay.X, l.overlay.Y)
	}
}

// Close releases the program, the geometry and the sink. Only the first
// call does anything.
func (l *Loop) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	l.res.Release()
	err := errors.Join(l.shapes.Close(), l.sink.Close())
	l.logger.Info("renderer stopped",
		zap.Uint64("frames", l.frames),
		zap.Uint64("samples", l.samples),
		zap.Error(err))
	return err
}

// Pose returns the current pose.
func (l *Loop) Pose() pose.Pose { return l.state.Get() }

// LastSample returns the most recent FPS sample and whether one exists.
func (l *Loop) LastSample() (frametimer.Sample, bool) { return l.last, l.samples > 0 }

// Frames returns the number of iterations run.
func (l *Loop) Frames() uint64 { return l.frames }

// Renderer exposes the draw list so callers can register extra shapes.
func (l *Loop) Renderer() *pipeline.Renderer { return l.renderer }

// HUD returns the overlay, or nil when disabled.
func (l *Loop) HUD() *hud.Overlay { return l.overlay }
