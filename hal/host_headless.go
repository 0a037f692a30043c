package hal

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"

	"go.uber.org/zap"
)

// HeadlessConfig controls the no-window runner.
type HeadlessConfig struct {
	Hz       int
	Ticks    uint64 // stop after N ticks (0 = run until ctx is done)
	Width    int
	Height   int
	Script   []ScriptedKey
	Snapshot string // PNG path for the last rendered frame, empty to skip
	Logger   *zap.Logger
}

type headlessWindow struct {
	logger *zap.Logger
	title  string
}

func (w *headlessWindow) SetTitle(title string) {
	w.title = title
	w.logger.Debug("window title", zap.String("title", title))
}

// RunHeadless runs the game against the software device without opening a
// window. Each tick is one full frame.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, newGame func(HAL) (Game, error)) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	cfg.Logger = orNop(cfg.Logger)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	kbd := newScriptKeyboard(cfg.Script)
	gfx := NewSoftGraphics(cfg.Width, cfg.Height)
	h := &hostHAL{
		logger: cfg.Logger,
		clock:  newHostClock(),
		kbd:    kbd,
		win:    &headlessWindow{logger: cfg.Logger},
		gfx:    gfx,
	}

	game, err := newGame(h)
	if err != nil {
		return err
	}

	runErr := runTicks(ctx, d, cfg.Ticks, func(tick uint64) error {
		kbd.poll(tick)
		if err := game.Update(); err != nil {
			return err
		}
		game.Draw()
		return nil
	})

	if err := game.Close(); err != nil {
		cfg.Logger.Warn("close", zap.Error(err))
	}
	if cfg.Snapshot != "" {
		if err := writePNG(cfg.Snapshot, gfx); err != nil {
			cfg.Logger.Error("snapshot", zap.String("path", cfg.Snapshot), zap.Error(err))
		} else {
			cfg.Logger.Info("snapshot written", zap.String("path", cfg.Snapshot))
		}
	}
	return runErr
}

func runTicks(ctx context.Context, d time.Duration, limit uint64, step func(tick uint64) error) error {
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			tick++
			if err := step(tick); err != nil {
				return err
			}
			if limit > 0 && tick >= limit {
				return nil
			}
		}
	}
}

func writePNG(path string, gfx *SoftGraphics) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, gfx.Frame()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
