package domain_test

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"bodysense/internal/modules/session/domain"
)

func TestMeasureProperties(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("fraction and remaining stay in range", prop.ForAll(
		func(elapsedMs, durationMs int64) bool {
			d := time.Duration(durationMs) * time.Millisecond
			r := domain.Measure(base, d, base.Add(time.Duration(elapsedMs)*time.Millisecond))
			if r.Fraction < 0 || r.Fraction > 1 || r.Remaining < 0 {
				return false
			}
			if r.Complete != (r.Elapsed >= d) {
				return false
			}
			if r.Complete {
				return r.Fraction == 1 && r.Remaining == 0
			}
			return r.Elapsed+r.Remaining == d
		},
		gen.Int64Range(-1000, 60000),
		gen.Int64Range(1, 30000),
	))

	properties.TestingRun(t)
}

func TestSealingCompletesWithinOneTick(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("seal progress is 1.0 on the first tick past the duration", prop.ForAll(
		func(sealMs, cadenceMs int64) bool {
			if cadenceMs > sealMs {
				cadenceMs = sealMs
			}
			timings := domain.DefaultTimings()
			timings.Seal = time.Duration(sealMs) * time.Millisecond
			c := domain.NewController(routines, timings, 0, 0)
			c.Start(base)
			cadence := time.Duration(cadenceMs) * time.Millisecond
			for now := base.Add(cadence); ; now = now.Add(cadence) {
				tr, err := c.Tick(now)
				if err != nil {
					return false
				}
				if len(tr) == 0 {
					if now.Sub(base) >= timings.Seal {
						return false
					}
					continue
				}
				return tr[0].To == domain.PhaseStarting &&
					c.State().SealProgress == 1 &&
					now.Sub(base) < timings.Seal+cadence
			}
		},
		gen.Int64Range(1, 5000),
		gen.Int64Range(1, 500),
	))

	properties.Property("pause and resume preserve the remaining massage time", prop.ForAll(
		func(pauseAtMs, pauseForMs int64) bool {
			c := domain.NewController(routines, domain.DefaultTimings(), 0, 0)
			c.Start(base)
			massageAt := base.Add(5 * time.Second)
			if _, err := c.Tick(base.Add(3 * time.Second)); err != nil {
				return false
			}
			if _, err := c.Tick(massageAt); err != nil {
				return false
			}
			pauseAt := massageAt.Add(time.Duration(pauseAtMs) * time.Millisecond)
			if !c.TogglePause(pauseAt) {
				return false
			}
			want := c.State().AccumulatedRemaining
			resumeAt := pauseAt.Add(time.Duration(pauseForMs) * time.Millisecond)
			if !c.TogglePause(resumeAt) {
				return false
			}
			resealed := resumeAt.Add(domain.DefaultTimings().ResumeSeal)
			if _, err := c.Tick(resealed); err != nil {
				return false
			}
			s := c.State()
			return s.Phase == domain.PhaseMassaging && !s.Paused &&
				s.Remaining == want &&
				c.Snapshot(resealed).RemainingSecondsPrecise == want.Seconds()
		},
		gen.Int64Range(0, 9999),
		gen.Int64Range(0, 600000),
	))

	properties.TestingRun(t)
}
