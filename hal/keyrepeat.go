package hal

// Default key-repeat timing, close to common desktop settings.
const (
	DefaultRepeatDelay    = 0.5
	DefaultRepeatInterval = 0.05
)

// keyRepeat emulates the platform key-repeat signal for backends that only
// report held keys. A held key repeats once after delay and then every
// interval; a stalled frame produces a single repeat, not a burst.
type keyRepeat struct {
	delay    float64
	interval float64
	next     map[KeyCode]float64
}

func newKeyRepeat(delay, interval float64) *keyRepeat {
	if delay <= 0 {
		delay = DefaultRepeatDelay
	}
	if interval <= 0 {
		interval = DefaultRepeatInterval
	}
	return &keyRepeat{delay: delay, interval: interval, next: make(map[KeyCode]float64)}
}

func (r *keyRepeat) press(code KeyCode, now float64) {
	r.next[code] = now + r.delay
}

func (r *keyRepeat) release(code KeyCode) {
	delete(r.next, code)
}

// due reports whether a held key fires a repeat at now.
func (r *keyRepeat) due(code KeyCode, now float64) bool {
	at, ok := r.next[code]
	if !ok || now < at {
		return false
	}
	at += r.interval
	if at <= now {
		at = now + r.interval
	}
	r.next[code] = at
	return true
}
