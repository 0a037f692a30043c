// Package config loads the renderer settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"quark2d/fpslog"
	"quark2d/frametimer"
	"quark2d/geometry"
	"quark2d/hal"
	"quark2d/pose"
)

var (
	ErrInvalid    = errors.New("invalid config")
	ErrUnknownKey = errors.New("unknown key")
	ErrUnknownCmd = errors.New("unknown command")
)

// Config is the full set of user settings. Zero fields are filled from
// Default by Load.
type Config struct {
	Window     Window            `yaml:"window"`
	Background [3]float32        `yaml:"background"`
	Steps      Steps             `yaml:"steps"`
	Circle     Circle            `yaml:"circle"`
	Timer      Timer             `yaml:"timer"`
	Log        Log               `yaml:"log"`
	HUD        HUD               `yaml:"hud"`
	Headless   Headless          `yaml:"headless"`
	Repeat     Repeat            `yaml:"repeat"`
	Keys       map[string]string `yaml:"keys"` // key name -> command name
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type Steps struct {
	Translate  float32 `yaml:"translate"`
	RotateDeg  float32 `yaml:"rotate_deg"`
	Scale      float32 `yaml:"scale"`
	ScaleFloor float32 `yaml:"scale_floor"`
}

type Circle struct {
	Segments int     `yaml:"segments"`
	Radius   float32 `yaml:"radius"`
}

type Timer struct {
	Window float64 `yaml:"window"` // seconds
}

type Log struct {
	Level  string `yaml:"level"`
	Path   string `yaml:"path"` // FPS samples; "-" disables the file
	Header bool   `yaml:"header"`
}

type HUD struct {
	Enabled bool `yaml:"enabled"`
	X       int  `yaml:"x"`
	Y       int  `yaml:"y"`
	Scale   int  `yaml:"scale"`
}

type Headless struct {
	Hz       int    `yaml:"hz"`
	Ticks    uint64 `yaml:"ticks"`
	Snapshot string `yaml:"snapshot"`
}

type Repeat struct {
	Delay    float64 `yaml:"delay"`    // seconds
	Interval float64 `yaml:"interval"` // seconds
}

// DefaultKeys binds arrows to translation, Q/E to rotation and Z/X to scale.
func DefaultKeys() map[string]string {
	return map[string]string{
		hal.KeyUp.String():    pose.TranslateUp.String(),
		hal.KeyDown.String():  pose.TranslateDown.String(),
		hal.KeyLeft.String():  pose.TranslateLeft.String(),
		hal.KeyRight.String(): pose.TranslateRight.String(),
		hal.KeyQ.String():     pose.RotateCCW.String(),
		hal.KeyE.String():     pose.RotateCW.String(),
		hal.KeyZ.String():     pose.ScaleUp.String(),
		hal.KeyX.String():     pose.ScaleDown.String(),
	}
}

// Default returns the built-in settings.
func Default() Config {
	st := pose.DefaultSteps()
	return Config{
		Window:     Window{Title: "2D Renderer", Width: 800, Height: 600},
		Background: [3]float32{0.2, 0.3, 0.3},
		Steps: Steps{
			Translate:  st.Translate,
			RotateDeg:  st.RotateDeg,
			Scale:      st.Scale,
			ScaleFloor: st.ScaleFloor,
		},
		Circle:   Circle{Segments: geometry.DefaultSegments, Radius: geometry.DefaultRadius},
		Timer:    Timer{Window: frametimer.DefaultWindow},
		Log:      Log{Level: "info", Path: fpslog.DefaultPath},
		HUD:      HUD{X: 8, Y: 8, Scale: 2},
		Headless: Headless{Hz: 60},
		Repeat:   Repeat{Delay: hal.DefaultRepeatDelay, Interval: hal.DefaultRepeatInterval},
		Keys:     DefaultKeys(),
	}
}

// Load decodes YAML from r over Default and validates the result.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile loads path. An empty path returns Default.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate rejects settings the renderer cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Circle.Segments < geometry.MinSegments || c.Circle.Segments > geometry.MaxSegments:
		return fmt.Errorf("%w: circle segments %d outside [%d, %d]", ErrInvalid,
			c.Circle.Segments, geometry.MinSegments, geometry.MaxSegments)
	case c.Circle.Radius <= 0:
		return fmt.Errorf("%w: circle radius %v", ErrInvalid, c.Circle.Radius)
	case c.Steps.ScaleFloor <= 0:
		return fmt.Errorf("%w: scale floor %v", ErrInvalid, c.Steps.ScaleFloor)
	case c.Timer.Window <= 0:
		return fmt.Errorf("%w: timer window %v", ErrInvalid, c.Timer.Window)
	case c.Headless.Hz <= 0:
		return fmt.Errorf("%w: headless hz %d", ErrInvalid, c.Headless.Hz)
	case c.Repeat.Delay < 0 || c.Repeat.Interval <= 0:
		return fmt.Errorf("%w: key repeat %v/%v", ErrInvalid, c.Repeat.Delay, c.Repeat.Interval)
	}
	for i, v := range c.Background {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: background[%d]=%v", ErrInvalid, i, v)
		}
	}
	if _, err := c.Bindings(); err != nil {
		return err
	}
	return nil
}

// PoseSteps converts the step settings.
func (c Config) PoseSteps() pose.Steps {
	return pose.Steps{
		Translate:  c.Steps.Translate,
		RotateDeg:  c.Steps.RotateDeg,
		Scale:      c.Steps.Scale,
		ScaleFloor: c.Steps.ScaleFloor,
	}
}

// Bindings resolves Keys. Key names are matched case-insensitively. The
// command "none" unbinds a default key.
func (c Config) Bindings() (map[hal.KeyCode]pose.Command, error) {
	names := make([]string, 0, len(c.Keys))
	for k := range c.Keys {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make(map[hal.KeyCode]pose.Command, len(c.Keys))
	for _, k := range names {
		code, ok := hal.ParseKeyCode(k)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, k)
		}
		if c.Keys[k] == pose.CommandNone.String() {
			delete(out, code)
			continue
		}
		cmd, ok := pose.ParseCommand(c.Keys[k])
		if !ok {
			return nil, fmt.Errorf("%w: %q for key %q", ErrUnknownCmd, c.Keys[k], k)
		}
		out[code] = cmd
	}
	return out, nil
}
