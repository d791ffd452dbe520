package backup

import "time"

// Clock supplies the current time for folder and report names
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock is a Clock that only moves when told to
type FakeClock struct {
	current time.Time
}

// NewFakeClock returns a FakeClock stopped at t
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

func (c *FakeClock) Now() time.Time {
	return c.current
}

// Advance moves the clock forward by d
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// Set moves the clock to t
func (c *FakeClock) Set(t time.Time) {
	c.current = t
}
