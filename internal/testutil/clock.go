package testutil

import "time"

// FixedClock always returns the same instant, making audit rows
// deterministic in tests.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }
