package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	catalogdomain "bodysense/internal/modules/catalog/domain"
	apperrors "bodysense/internal/platform/errors"
)

// Storage keys. They match the names earlier releases wrote. Marker records
// from those releases carry no version tag and are migrated on first read.
const ExerciseKey = "currentExerciseIndex"

func ImageSideKey(exercise int) string {
	return fmt.Sprintf("currentImageSide_exercise_%d", exercise)
}

func MarkersKey(exercise, side int) string {
	return fmt.Sprintf("circlePositions_exercise_%d_side_%d", exercise, side)
}

// Selection is the persisted exercise and image side.
type Selection struct {
	ExerciseIndex int
	ImageSide     int
}

// MarkerRecord is the stored shape of one marker set.
type MarkerRecord struct {
	Version   int                                 `json:"version"`
	Positions map[string]catalogdomain.Coordinate `json:"positions"`
}

// EncodeMarkers renders positions under the given schema version.
func EncodeMarkers(positions catalogdomain.Positions, version int) (string, error) {
	if err := positions.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	record := MarkerRecord{Version: version, Positions: make(map[string]catalogdomain.Coordinate, len(positions))}
	for n, c := range positions {
		record.Positions[strconv.Itoa(n)] = c
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode markers: %w", err)
	}
	return string(raw), nil
}

// DecodeMarkers parses a stored record. It returns ErrMalformedRecord for
// anything that is not exactly positions 1..5 within [0,100], and
// ErrStaleSchema when the record predates version. A bare position map
// without a version tag decodes with ErrLegacyRecord.
func DecodeMarkers(raw string, version int) (catalogdomain.Positions, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedRecord, err)
	}
	_, tagged := fields["version"]
	_, hasPositions := fields["positions"]
	if !tagged && !hasPositions {
		legacy := map[string]catalogdomain.Coordinate{}
		if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedRecord, err)
		}
		positions, err := toPositions(legacy)
		if err != nil {
			return nil, err
		}
		return positions, apperrors.ErrLegacyRecord
	}

	record := MarkerRecord{}
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedRecord, err)
	}
	positions, err := toPositions(record.Positions)
	if err != nil {
		return nil, err
	}
	if record.Version != version {
		return positions, fmt.Errorf("%w: have %d, want %d", apperrors.ErrStaleSchema, record.Version, version)
	}
	return positions, nil
}

func toPositions(raw map[string]catalogdomain.Coordinate) (catalogdomain.Positions, error) {
	positions := make(catalogdomain.Positions, len(raw))
	for key, c := range raw {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: position key %q", apperrors.ErrMalformedRecord, key)
		}
		positions[n] = c
	}
	if err := positions.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedRecord, err)
	}
	return positions, nil
}

// Numbers returns the position numbers in order.
func Numbers(positions catalogdomain.Positions) []int {
	out := make([]int, 0, len(positions))
	for n := range positions {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
