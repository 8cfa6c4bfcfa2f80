package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock abstracts time to keep usecases deterministic in tests. Readings keep
// their monotonic component, so phase math is immune to wall-clock jumps.
type Clock = clockwork.Clock

// System returns the real clock.
func System() Clock {
	return clockwork.NewRealClock()
}

// Fake returns a manually advanced clock starting at t.
func Fake(t time.Time) *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(t)
}
