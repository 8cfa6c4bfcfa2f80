package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	catalogdomain "bodysense/internal/modules/catalog/domain"
	"bodysense/internal/modules/layout/domain"
	layoutout "bodysense/internal/modules/layout/port/out"
	apperrors "bodysense/internal/platform/errors"
	"bodysense/internal/platform/logging"
)

type LayoutService struct {
	store   layoutout.KVStore
	catalog layoutout.CatalogReader
	logger  *logging.Logger
}

func NewLayoutService(store layoutout.KVStore, catalog layoutout.CatalogReader, logger *logging.Logger) *LayoutService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &LayoutService{store: store, catalog: catalog, logger: logger.WithComponent("layout")}
}

// Version is the marker schema version records are written under.
func (s *LayoutService) Version() int { return s.catalog.Current().Version }

// Selection loads the persisted exercise and side. Missing or unusable
// values fall back to 0.
func (s *LayoutService) Selection(ctx context.Context) (domain.Selection, error) {
	cat := s.catalog.Current()
	exercise, err := s.readInt(ctx, domain.ExerciseKey)
	if err != nil {
		return domain.Selection{}, err
	}
	if !cat.Has(exercise) {
		exercise = 0
	}
	side, err := s.readInt(ctx, domain.ImageSideKey(exercise))
	if err != nil {
		return domain.Selection{}, err
	}
	if side < 0 || side >= cat.ImageCount(exercise) {
		side = 0
	}
	return domain.Selection{ExerciseIndex: exercise, ImageSide: side}, nil
}

// SelectExercise persists the current exercise, falling back to 0 for
// unknown indexes.
func (s *LayoutService) SelectExercise(ctx context.Context, index int) (domain.Selection, error) {
	if !s.catalog.Current().Has(index) {
		index = 0
	}
	if err := s.store.Set(ctx, domain.ExerciseKey, strconv.Itoa(index)); err != nil {
		return domain.Selection{}, err
	}
	return s.Selection(ctx)
}

func (s *LayoutService) SelectImageSide(ctx context.Context, exercise, side int) (domain.Selection, error) {
	if err := s.checkTarget(exercise, side); err != nil {
		return domain.Selection{}, err
	}
	if err := s.store.Set(ctx, domain.ImageSideKey(exercise), strconv.Itoa(side)); err != nil {
		return domain.Selection{}, err
	}
	return s.Selection(ctx)
}

// Markers loads the marker set for an exercise side. The first access
// stores the catalog defaults. Stale records are replaced by the defaults
// and untagged legacy records are re-saved under the current version;
// malformed ones are ignored in favor of the defaults.
func (s *LayoutService) Markers(ctx context.Context, exercise, side int) (catalogdomain.Positions, error) {
	if err := s.checkTarget(exercise, side); err != nil {
		return nil, err
	}
	cat := s.catalog.Current()
	key := domain.MarkersKey(exercise, side)
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.writeDefaults(ctx, exercise, side)
	}
	positions, err := domain.DecodeMarkers(raw, cat.Version)
	switch {
	case err == nil:
		return positions, nil
	case errors.Is(err, apperrors.ErrLegacyRecord):
		s.logger.Info("migrating legacy markers", "key", key, "version", cat.Version)
		if err := s.SaveMarkers(ctx, exercise, side, positions); err != nil {
			return nil, err
		}
		return positions, nil
	case errors.Is(err, apperrors.ErrStaleSchema):
		s.logger.Info("replacing stale markers", "key", key, "error", err.Error())
		return s.writeDefaults(ctx, exercise, side)
	default:
		s.logger.Warn("ignoring unreadable markers", "key", key, "error", err.Error())
		return cat.DefaultPositions(exercise), nil
	}
}

func (s *LayoutService) SaveMarkers(ctx context.Context, exercise, side int, positions catalogdomain.Positions) error {
	if err := s.checkTarget(exercise, side); err != nil {
		return err
	}
	raw, err := domain.EncodeMarkers(positions, s.Version())
	if err != nil {
		return err
	}
	return s.store.Set(ctx, domain.MarkersKey(exercise, side), raw)
}

func (s *LayoutService) ResetMarkers(ctx context.Context, exercise, side int) (catalogdomain.Positions, error) {
	if err := s.checkTarget(exercise, side); err != nil {
		return nil, err
	}
	return s.writeDefaults(ctx, exercise, side)
}

// EnsureDefaults makes sure every exercise side has a usable record.
func (s *LayoutService) EnsureDefaults(ctx context.Context) error {
	cat := s.catalog.Current()
	for i := range cat.Exercises {
		for side := 0; side < cat.ImageCount(i); side++ {
			if _, err := s.Markers(ctx, i, side); err != nil {
				return fmt.Errorf("markers for exercise %d side %d: %w", i, side, err)
			}
		}
	}
	return nil
}

func (s *LayoutService) writeDefaults(ctx context.Context, exercise, side int) (catalogdomain.Positions, error) {
	defaults := s.catalog.Current().DefaultPositions(exercise)
	if err := s.SaveMarkers(ctx, exercise, side, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

func (s *LayoutService) checkTarget(exercise, side int) error {
	cat := s.catalog.Current()
	if !cat.Has(exercise) {
		return fmt.Errorf("%w: %d", apperrors.ErrUnknownExercise, exercise)
	}
	if side < 0 || side >= cat.ImageCount(exercise) {
		return fmt.Errorf("%w: exercise %d has no image side %d", apperrors.ErrInvalidInput, exercise, side)
	}
	return nil
}

func (s *LayoutService) readInt(ctx context.Context, key string) (int, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok {
		return 0, err
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		s.logger.Warn("ignoring unreadable value", "key", key, "value", raw)
		return 0, nil
	}
	return n, nil
}
