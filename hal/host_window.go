//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// RunWindow opens a desktop window and drives the game once per rendered
// frame. It blocks until the window is closed or Update fails.
func RunWindow(cfg WindowConfig, newGame func(HAL) (Game, error)) error {
	cfg = cfg.withDefaults()
	clock := newHostClock()
	h := &hostHAL{
		logger: cfg.Logger,
		clock:  clock,
		kbd:    newHostKeyboard(cfg.RepeatDelay, cfg.RepeatInterval),
		win:    hostWindow{},
		gfx:    newEbitenGraphics(),
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowClosingHandled(true)
	// One Update per Draw keeps timing, input and drawing in frame order.
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetVsyncEnabled(false)

	game, err := newGame(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, clock: clock, game: game, width: cfg.Width, height: cfg.Height}
	err = ebiten.RunGame(g)
	if !g.closed {
		if cerr := game.Close(); cerr != nil {
			cfg.Logger.Warn("close", zap.Error(cerr))
		}
	}
	return err
}

type hostWindow struct{}

func (hostWindow) SetTitle(title string) { ebiten.SetWindowTitle(title) }

type hostGame struct {
	h      *hostHAL
	clock  *hostClock
	game   Game
	width  int
	height int
	closed bool
}

func (g *hostGame) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.closed = true
		if err := g.game.Close(); err != nil {
			g.h.logger.Warn("close", zap.Error(err))
		}
		return ebiten.Termination
	}
	g.h.kbd.(*hostKeyboard).poll(g.clock.Now())
	return g.game.Update()
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.closed {
		return
	}
	gfx := g.h.gfx.(*ebitenGraphics)
	gfx.begin(screen)
	g.game.Draw()
	gfx.end()
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
