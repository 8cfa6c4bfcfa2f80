package in_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionin "bodysense/internal/modules/session/adapter/in"
	"bodysense/internal/modules/session/dto"
	"bodysense/internal/platform/clock"
	"bodysense/internal/platform/logging"
)

func TestRunnerDrivesRoutineToCompletion(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(base)
	uc := newUsecase(t, clk)
	uc.ChangeExercise(context.Background(), dto.ChangeExerciseInput{Index: 1})
	runner := sessionin.NewRunner(uc, clk, 50*time.Millisecond, logging.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var phases []string
	rendered := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, func(out dto.TickOutput) {
			for _, tr := range out.Transitions {
				phases = append(phases, tr.To)
			}
			rendered <- struct{}{}
		})
	}()

	<-rendered // the start frame
	require.NoError(t, clk.BlockUntilContext(ctx, 1))
	for {
		clk.Advance(50 * time.Millisecond)
		select {
		case <-rendered:
		case err := <-done:
			require.NoError(t, err)
			assert.Equal(t, []string{"starting", "massaging", "releasing", "complete"}, phases)
			return
		case <-ctx.Done():
			t.Fatalf("runner did not finish: %v", ctx.Err())
		}
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	t.Parallel()
	clk := clock.Fake(base)
	runner := sessionin.NewRunner(newUsecase(t, clk), clk, 50*time.Millisecond, logging.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, runner.Run(ctx, nil), context.Canceled)
}
