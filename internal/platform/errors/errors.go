package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrMalformedRecord = errors.New("malformed persisted record")
	ErrStaleSchema     = errors.New("stale schema version")
	ErrLegacyRecord    = errors.New("untagged legacy record")
	ErrUnknownExercise = errors.New("unknown exercise")
)
