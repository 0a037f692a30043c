package hal

import (
	"fmt"
	"strconv"
	"strings"
)

const keyQueueLen = 64

// queueKeyboard is a bounded event queue. Events are dropped when full.
type queueKeyboard struct {
	ch chan KeyEvent
}

func newQueueKeyboard() *queueKeyboard {
	return &queueKeyboard{ch: make(chan KeyEvent, keyQueueLen)}
}

func (k *queueKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *queueKeyboard) emit(code KeyCode, action KeyAction) {
	select {
	case k.ch <- KeyEvent{Code: code, Action: action}:
	default:
	}
}

// ScriptedKey taps Code (press then release) on tick Tick of a headless run.
type ScriptedKey struct {
	Tick uint64
	Code KeyCode
}

type scriptKeyboard struct {
	*queueKeyboard
	script []ScriptedKey
}

func newScriptKeyboard(script []ScriptedKey) *scriptKeyboard {
	return &scriptKeyboard{queueKeyboard: newQueueKeyboard(), script: script}
}

func (k *scriptKeyboard) poll(tick uint64) {
	for _, s := range k.script {
		if s.Tick != tick {
			continue
		}
		k.emit(s.Code, KeyPress)
		k.emit(s.Code, KeyRelease)
	}
}

// ParseScript parses "tick:key" pairs separated by commas, for example
// "30:z,60:q".
func ParseScript(s string) ([]ScriptedKey, error) {
	var out []ScriptedKey
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tickStr, keyStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("key script %q: want tick:key", part)
		}
		tick, err := strconv.ParseUint(strings.TrimSpace(tickStr), 10, 64)
		if err != nil || tick == 0 {
			return nil, fmt.Errorf("key script %q: bad tick", part)
		}
		code, ok := ParseKeyCode(keyStr)
		if !ok {
			return nil, fmt.Errorf("key script %q: unknown key", part)
		}
		out = append(out, ScriptedKey{Tick: tick, Code: code})
	}
	return out, nil
}
