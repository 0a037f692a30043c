//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var hostKeys = []struct {
	key  ebiten.Key
	code KeyCode
}{
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyArrowRight, KeyRight},
	{ebiten.KeyQ, KeyQ},
	{ebiten.KeyE, KeyE},
	{ebiten.KeyZ, KeyZ},
	{ebiten.KeyX, KeyX},
	{ebiten.KeyEscape, KeyEscape},
}

type hostKeyboard struct {
	*queueKeyboard
	repeat *keyRepeat
}

func newHostKeyboard(delay, interval float64) *hostKeyboard {
	return &hostKeyboard{queueKeyboard: newQueueKeyboard(), repeat: newKeyRepeat(delay, interval)}
}

// poll must run from the game's Update.
func (k *hostKeyboard) poll(now float64) {
	for _, hk := range hostKeys {
		switch {
		case inpututil.IsKeyJustPressed(hk.key):
			k.repeat.press(hk.code, now)
			k.emit(hk.code, KeyPress)
		case inpututil.IsKeyJustReleased(hk.key):
			k.repeat.release(hk.code)
			k.emit(hk.code, KeyRelease)
		case ebiten.IsKeyPressed(hk.key):
			if k.repeat.due(hk.code, now) {
				k.emit(hk.code, KeyRepeat)
			}
		}
	}
}
