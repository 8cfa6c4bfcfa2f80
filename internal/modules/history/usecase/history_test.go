package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	historyout "bodysense/internal/modules/history/adapter/out"
	"bodysense/internal/modules/history/domain"
	"bodysense/internal/modules/history/dto"
	"bodysense/internal/modules/history/service"
	"bodysense/internal/modules/history/usecase"
	apperrors "bodysense/internal/platform/errors"
	"bodysense/internal/platform/logging"
	"bodysense/internal/platform/markdown"
)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return "run-" + string(rune('0'+s.n))
}

type failingJournal struct{}

func (failingJournal) Write(context.Context, domain.Run) (string, error) {
	return "", errors.New("disk full")
}

func newStore(t *testing.T) *historyout.SQLiteRunStore {
	t.Helper()
	store, err := historyout.NewSQLiteRunStore(filepath.Join(t.TempDir(), "bodysense.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndListNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	journalDir := t.TempDir()
	uc := usecase.NewInteractor(service.NewHistoryService(&seqID{}, newStore(t), historyout.NewMarkdownJournal(journalDir), logging.Nop()))

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first, err := uc.Record(ctx, dto.RecordRunInput{
		ExerciseIndex: 0, ExerciseTitle: "Shoulder Warmup Routine", Positions: 5, Pauses: 1,
		StartedAt: start, CompletedAt: start.Add(95 * time.Second),
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", first.ID)
	assert.Equal(t, 95*time.Second, first.Duration)
	require.NotEmpty(t, first.JournalPath)

	note, err := os.ReadFile(first.JournalPath)
	require.NoError(t, err)
	meta := map[string]any{}
	body, err := markdown.SplitFrontmatter(string(note), &meta)
	require.NoError(t, err)
	assert.Equal(t, "run-1", meta["id"])
	assert.Equal(t, 95, meta["duration_seconds"])
	assert.True(t, strings.HasPrefix(strings.TrimSpace(body), "# Shoulder Warmup Routine"))

	_, err = uc.Record(ctx, dto.RecordRunInput{
		ExerciseIndex: 2, ExerciseTitle: "Neck Release", Positions: 3,
		StartedAt: start.Add(time.Hour), CompletedAt: start.Add(time.Hour + time.Minute),
	})
	require.NoError(t, err)

	runs, err := uc.List(ctx, dto.ListInput{})
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.True(t, runs[1].StartedAt.Equal(start))

	limited, err := uc.List(ctx, dto.ListInput{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordRejectsInvalidRun(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewHistoryService(&seqID{}, newStore(t), nil, logging.Nop()))
	_, err := uc.Record(context.Background(), dto.RecordRunInput{ExerciseTitle: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestJournalFailureKeepsRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)
	uc := usecase.NewInteractor(service.NewHistoryService(&seqID{}, store, failingJournal{}, logging.Nop()))
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out, err := uc.Record(ctx, dto.RecordRunInput{ExerciseTitle: "x", Positions: 1, StartedAt: start, CompletedAt: start})
	require.NoError(t, err)
	assert.Empty(t, out.JournalPath)

	runs, err := store.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
