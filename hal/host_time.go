package hal

import "time"

type hostClock struct {
	start time.Time
}

func newHostClock() *hostClock {
	return &hostClock{start: time.Now()}
}

// Now uses the monotonic reading carried by time.Time.
func (c *hostClock) Now() float64 {
	return time.Since(c.start).Seconds()
}
