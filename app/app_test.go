package app

import (
	"context"
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"quark2d/config"
	"quark2d/fpslog"
	"quark2d/hal"
	"quark2d/internal/gfxtest"
	"quark2d/pipeline"
	"quark2d/pose"
)

type fakeClock struct{ now float64 }

func (c *fakeClock) Now() float64 { return c.now }

type fakeKeyboard struct{ ch chan hal.KeyEvent }

func (k *fakeKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

func (k *fakeKeyboard) push(code hal.KeyCode, action hal.KeyAction) {
	k.ch <- hal.KeyEvent{Code: code, Action: action}
}

type fakeWindow struct{ titles []string }

func (w *fakeWindow) SetTitle(s string) { w.titles = append(w.titles, s) }

type fakeHAL struct {
	logger *zap.Logger
	clock  *fakeClock
	kbd    *fakeKeyboard
	win    *fakeWindow
	gfx    *gfxtest.Recorder
	logs   *observer.ObservedLogs
}

func newFakeHAL() *fakeHAL {
	core, logs := observer.New(zapcore.DebugLevel)
	return &fakeHAL{
		logger: zap.New(core),
		clock:  &fakeClock{now: 10},
		kbd:    &fakeKeyboard{ch: make(chan hal.KeyEvent, 32)},
		win:    &fakeWindow{},
		gfx:    &gfxtest.Recorder{},
		logs:   logs,
	}
}

func (h *fakeHAL) Logger() *zap.Logger    { return h.logger }
func (h *fakeHAL) Clock() hal.Clock       { return h.clock }
func (h *fakeHAL) Keyboard() hal.Keyboard { return h.kbd }
func (h *fakeHAL) Window() hal.Window     { return h.win }
func (h *fakeHAL) Graphics() hal.Graphics { return h.gfx }

// step advances the clock by dt and runs one full iteration.
func (h *fakeHAL) step(l *Loop, dt float64) {
	h.clock.now += dt
	if err := l.Update(); err != nil {
		panic(err)
	}
	l.Draw()
}

func newLoop(t *testing.T, h *fakeHAL, opt Options) *Loop {
	t.Helper()
	l, err := New(h, opt)
	require.NoError(t, err)
	h.gfx.Reset()
	return l
}

func TestIterationOrder(t *testing.T) {
	h := newFakeHAL()
	l := newLoop(t, h, DefaultOptions())

	h.kbd.push(hal.KeyRight, hal.KeyPress)
	h.step(l, 0.016)

	require.Equal(t, []string{"clear", "use", "draw", "draw"}, h.gfx.Ops)
	assert.Equal(t, [][4]float32{{0.2, 0.3, 0.3, 1}}, h.gfx.Clears)

	// Input dispatched in the same iteration is visible to its draw call.
	want := pipeline.Compose(l.Pose())
	assert.InDelta(t, 0.05, l.Pose().Translation.X(), 1e-6)
	assert.True(t, h.gfx.Draws[0].Transform.ApproxEqual(want))
	assert.Equal(t, pipeline.Blue, h.gfx.Draws[0].Color)
	assert.Equal(t, 6, h.gfx.Draws[0].Count)
	assert.Equal(t, hal.PrimitiveTriangles, h.gfx.Draws[0].Mode)
	assert.Equal(t, pipeline.Red, h.gfx.Draws[1].Color)
	assert.Equal(t, 52, h.gfx.Draws[1].Count)
	assert.Equal(t, hal.PrimitiveTriangleFan, h.gfx.Draws[1].Mode)
}

func TestSixtyFramesReportSixty(t *testing.T) {
	h := newFakeHAL()
	sink := &fpslog.Memory{}
	opt := DefaultOptions()
	opt.Sink = sink
	l := newLoop(t, h, opt)

	start := h.clock.now
	for i := 1; i <= 60; i++ {
		h.clock.now = start + float64(i)/60
		require.NoError(t, l.Update())
		l.Draw()
	}

	require.Len(t, sink.Samples, 1)
	assert.InDelta(t, 60, sink.Samples[0].FPS, 1e-6)
	assert.InDelta(t, 1, sink.Samples[0].Timestamp, 1e-6)
	assert.Equal(t, []string{FormatTitle("2D Renderer", sink.Samples[0].FPS)}, h.win.titles)
	assert.Regexp(t, `^2D Renderer - FPS: (60|59\.9999\d*|60\.0000\d*)$`, h.win.titles[0])

	s, ok := l.LastSample()
	assert.True(t, ok)
	assert.Equal(t, sink.Samples[0], s)
}

func TestNoTitleBeforeOneSecond(t *testing.T) {
	h := newFakeHAL()
	l := newLoop(t, h, DefaultOptions())
	for i := 0; i < 99; i++ {
		h.step(l, 0.01)
	}
	assert.Empty(t, h.win.titles)
	_, ok := l.LastSample()
	assert.False(t, ok)
}

func TestFormatTitle(t *testing.T) {
	assert.Equal(t, "2D Renderer - FPS: 60", FormatTitle("2D Renderer", 60))
	assert.Equal(t, "2D Renderer - FPS: 143.123", FormatTitle("2D Renderer", 143.1234))
}

func TestKeyDispatch(t *testing.T) {
	h := newFakeHAL()
	l := newLoop(t, h, DefaultOptions())

	h.kbd.push(hal.KeyQ, hal.KeyPress)
	h.kbd.push(hal.KeyQ, hal.KeyRepeat)
	h.kbd.push(hal.KeyQ, hal.KeyRelease)
	h.kbd.push(hal.KeyEscape, hal.KeyPress)
	h.kbd.push(hal.KeyZ, hal.KeyPress)
	h.kbd.push(hal.KeyUp, hal.KeyPress)
	h.kbd.push(hal.KeyUnknown, hal.KeyPress)
	h.step(l, 0.01)

	p := l.Pose()
	assert.InDelta(t, 10*math32.Pi/180, p.Rotation, 1e-6)
	assert.InDelta(t, 1.05, p.Scale, 1e-6)
	assert.InDelta(t, 0.05, p.Translation.Y(), 1e-6)
	assert.Zero(t, p.Translation.X())

	h.kbd.push(hal.KeyE, hal.KeyPress)
	h.kbd.push(hal.KeyX, hal.KeyRepeat)
	h.kbd.push(hal.KeyDown, hal.KeyPress)
	h.kbd.push(hal.KeyLeft, hal.KeyPress)
	h.step(l, 0.01)

	p = l.Pose()
	assert.InDelta(t, 5*math32.Pi/180, p.Rotation, 1e-6)
	assert.InDelta(t, 1.0, p.Scale, 1e-6)
	assert.InDelta(t, 0, p.Translation.Y(), 1e-6)
	assert.InDelta(t, -0.05, p.Translation.X(), 1e-6)
}

func TestScaleFloorThroughKeys(t *testing.T) {
	h := newFakeHAL()
	l := newLoop(t, h, DefaultOptions())
	for i := 0; i < 100; i++ {
		h.kbd.push(hal.KeyX, hal.KeyRepeat)
		h.step(l, 0.001)
	}
	assert.InDelta(t, 0.05, l.Pose().Scale, 1e-6)
	assert.GreaterOrEqual(t, l.Pose().Scale, float32(0.05))
}

func TestCustomBindings(t *testing.T) {
	h := newFakeHAL()
	opt := DefaultOptions()
	opt.Bindings = Bindings{hal.KeyEscape: pose.ScaleUp}
	l := newLoop(t, h, opt)

	h.kbd.push(hal.KeyZ, hal.KeyPress)
	h.kbd.push(hal.KeyEscape, hal.KeyPress)
	h.step(l, 0.01)
	assert.InDelta(t, 1.05, l.Pose().Scale, 1e-6)
}

func TestSinkFailureIsLogged(t *testing.T) {
	h := newFakeHAL()
	opt := DefaultOptions()
	opt.Sink = &fpslog.Memory{Err: errors.New("disk full")}
	l := newLoop(t, h, opt)

	for i := 0; i < 250; i++ {
		h.step(l, 0.01)
	}
	warns := h.logs.FilterMessage("fps sample not recorded").All()
	assert.Len(t, warns, 2)
	assert.Equal(t, zapcore.WarnLevel, warns[0].Level)
	// The title is still updated.
	assert.Len(t, h.win.titles, 2)
}

func TestHUDOverlay(t *testing.T) {
	h := newFakeHAL()
	opt := DefaultOptions()
	opt.HUD = &HUDOptions{X: 4, Y: 6, Scale: 1}
	l := newLoop(t, h, opt)
	require.NotNil(t, l.HUD())

	h.step(l, 1.5)
	assert.Equal(t, "FPS: "+fpslog.FormatFloat(1/1.5), l.HUD().Text())
	assert.Equal(t, []string{"clear", "use", "draw", "draw", "overlay"}, h.gfx.Ops)
	assert.Equal(t, 1, h.gfx.Overlays)
}

func TestDegradedShaderKeepsRunning(t *testing.T) {
	h := newFakeHAL()
	h.gfx.CompileErr = errors.New("0:3: syntax error")
	l, err := New(h, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, h.logs.FilterMessage("shader program failed to compile").Len())
	for i := 0; i < 5; i++ {
		h.step(l, 0.3)
	}
	assert.Len(t, h.win.titles, 1)
	require.NoError(t, l.Close())
}

func TestGeometryFailure(t *testing.T) {
	h := newFakeHAL()
	h.gfx.FailUpload = true
	sink := &fpslog.Memory{}
	opt := DefaultOptions()
	opt.Sink = sink
	_, err := New(h, opt)
	require.Error(t, err)
	assert.ErrorIs(t, err, gfxtest.ErrUpload)
	assert.True(t, sink.Closed)
	assert.Empty(t, h.gfx.Programs)
}

func TestCloseIsIdempotent(t *testing.T) {
	h := newFakeHAL()
	sink := &fpslog.Memory{}
	opt := DefaultOptions()
	opt.Sink = sink
	l := newLoop(t, h, opt)
	h.step(l, 0.01)

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	assert.True(t, sink.Closed)
	assert.Empty(t, h.gfx.Programs)
	assert.Empty(t, h.gfx.Buffers)
	assert.Equal(t, 1, h.logs.FilterMessage("renderer stopped").Len())

	assert.ErrorIs(t, l.Update(), ErrClosed)
	h.gfx.Reset()
	l.Draw()
	assert.Empty(t, h.gfx.Ops)
}

func TestOptionsFromConfig(t *testing.T) {
	c := config.Default()
	c.HUD.Enabled = true
	c.Keys = map[string]string{"escape": "scale-down"}
	opt, err := OptionsFromConfig(c)
	require.NoError(t, err)
	assert.Equal(t, Bindings{hal.KeyEscape: pose.ScaleDown}, opt.Bindings)
	require.NotNil(t, opt.HUD)
	assert.Equal(t, c.HUD.Scale, opt.HUD.Scale)
	assert.Nil(t, opt.Sink)

	assert.Equal(t, DefaultBindings(), DefaultOptions().Bindings)
}

func TestRunsHeadless(t *testing.T) {
	sink := &fpslog.Memory{}
	var loop *Loop
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	err := hal.RunHeadless(ctx, hal.HeadlessConfig{
		Hz:     200,
		Ticks:  20,
		Width:  64,
		Height: 48,
		Script: []hal.ScriptedKey{{Tick: 3, Code: hal.KeyZ}, {Tick: 5, Code: hal.KeyZ}},
	}, func(h hal.HAL) (hal.Game, error) {
		opt := DefaultOptions()
		opt.Sink = sink
		l, err := New(h, opt)
		loop = l
		return l, err
	})
	require.NoError(t, err)
	require.NotNil(t, loop)
	assert.EqualValues(t, 20, loop.Frames())
	assert.InDelta(t, 1.1, loop.Pose().Scale, 1e-6)
	assert.True(t, sink.Closed)
}
