package service

import (
	"context"
	"fmt"

	"bodysense/internal/modules/history/domain"
	historyout "bodysense/internal/modules/history/port/out"
	apperrors "bodysense/internal/platform/errors"
	"bodysense/internal/platform/id"
	"bodysense/internal/platform/logging"
)

const DefaultListLimit = 20

type HistoryService struct {
	idGen   id.Generator
	store   historyout.RunStore
	journal historyout.Journal
	logger  *logging.Logger
}

// NewHistoryService builds the service. journal may be nil.
func NewHistoryService(idGen id.Generator, store historyout.RunStore, journal historyout.Journal, logger *logging.Logger) *HistoryService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &HistoryService{idGen: idGen, store: store, journal: journal, logger: logger.WithComponent("history")}
}

// Record stores a completed run. A journal failure is logged and does not
// lose the run.
func (s *HistoryService) Record(ctx context.Context, run domain.Run) (domain.Run, string, error) {
	if run.ID == "" {
		run.ID = s.idGen.New()
	}
	if err := run.Validate(); err != nil {
		return domain.Run{}, "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.store.Save(ctx, run); err != nil {
		return domain.Run{}, "", err
	}
	s.logger.Info("run recorded", "run_id", run.ID, "exercise", run.ExerciseIndex, "positions", run.Positions, "pauses", run.Pauses)
	if s.journal == nil {
		return run, "", nil
	}
	path, err := s.journal.Write(ctx, run)
	if err != nil {
		s.logger.Warn("journal note failed", "run_id", run.ID, "error", err.Error())
		return run, "", nil
	}
	return run, path, nil
}

func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.store.List(ctx, limit)
}
