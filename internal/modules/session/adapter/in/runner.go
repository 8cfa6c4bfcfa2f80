package in

import (
	"context"
	"time"

	"bodysense/internal/modules/session/dto"
	sessionin "bodysense/internal/modules/session/port/in"
	"bodysense/internal/platform/clock"
	"bodysense/internal/platform/logging"
)

// Runner drives a session without an interactive host: it starts the
// routine and ticks until it completes.
type Runner struct {
	usecase  sessionin.Usecase
	clock    clock.Clock
	interval time.Duration
	logger   *logging.Logger
}

func NewRunner(usecase sessionin.Usecase, clk clock.Clock, interval time.Duration, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Runner{usecase: usecase, clock: clk, interval: interval, logger: logger.WithComponent("runner")}
}

// Run starts the routine and calls render after every tick. It returns nil
// once the routine is complete and ctx.Err() if cancelled first.
func (r *Runner) Run(ctx context.Context, render func(dto.TickOutput)) error {
	started := r.usecase.Start(ctx)
	r.logger.Info("run started", "applied", started.Applied, "exercise", started.Snapshot.ExerciseIndex)
	if render != nil {
		render(dto.TickOutput{Snapshot: started.Snapshot})
	}

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			out := r.usecase.Tick(ctx)
			if render != nil {
				render(out)
			}
			if out.Snapshot.Phase == dto.PhaseComplete {
				return nil
			}
		}
	}
}
