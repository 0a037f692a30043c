// Package frametimer counts frames in fixed windows and turns each closed
// window into a throughput sample.
package frametimer

// DefaultWindow is the measurement window in seconds.
const DefaultWindow = 1.0

// Sample is one throughput measurement. Timestamp is seconds since the loop
// started.
type Sample struct {
	Timestamp float64
	FPS       float64
}

// Timer accumulates frames until the window elapses. It is not safe for
// concurrent use.
type Timer struct {
	window      float64
	windowStart float64
	frames      int
}

// New returns a timer with DefaultWindow whose first window starts at start.
func New(start float64) *Timer {
	return NewWithWindow(start, DefaultWindow)
}

// NewWithWindow returns a timer with a custom window length. Non-positive
// lengths use DefaultWindow.
func NewWithWindow(start, window float64) *Timer {
	if !(window > 0) {
		window = DefaultWindow
	}
	return &Timer{window: window, windowStart: start}
}

// Window returns the window length in seconds.
func (t *Timer) Window() float64 { return t.window }

// Frames returns the frames counted in the open window.
func (t *Timer) Frames() int { return t.frames }

// Frame records one rendered frame at time now. When at least one window
// has elapsed since the window start it returns the sample for that window
// and opens a new window at now.
func (t *Timer) Frame(now float64) (Sample, bool) {
	t.frames++
	elapsed := now - t.windowStart
	if elapsed < t.window {
		return Sample{}, false
	}
	s := Sample{Timestamp: now, FPS: float64(t.frames) / elapsed}
	t.frames = 0
	t.windowStart = now
	return s, true
}
