package services

import "time"

// Clock supplies the current time. It is injected rather than read
// globally so that monthly-window calculations are deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
