package hal

import "go.uber.org/zap"

type hostHAL struct {
	logger *zap.Logger
	clock  Clock
	kbd    Keyboard
	win    Window
	gfx    Graphics
}

func (h *hostHAL) Logger() *zap.Logger { return h.logger }
func (h *hostHAL) Clock() Clock        { return h.clock }
func (h *hostHAL) Keyboard() Keyboard  { return h.kbd }
func (h *hostHAL) Window() Window      { return h.win }
func (h *hostHAL) Graphics() Graphics  { return h.gfx }

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Title          string
	Width          int
	Height         int
	RepeatDelay    float64 // seconds before a held key repeats
	RepeatInterval float64 // seconds between repeats
	Logger         *zap.Logger
}

func (c WindowConfig) withDefaults() WindowConfig {
	if c.Title == "" {
		c.Title = "2D Renderer"
	}
	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 600
	}
	c.Logger = orNop(c.Logger)
	return c
}
