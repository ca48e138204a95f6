package clock

import "time"

// Clock abstracts the current time so game timestamps and the
// inactivity cutoff can be controlled in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
