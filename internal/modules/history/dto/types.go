package dto

import "time"

type RecordRunInput struct {
	ExerciseIndex int
	ExerciseTitle string
	ImageSide     int
	Positions     int
	Pauses        int
	StartedAt     time.Time
	CompletedAt   time.Time
}

type RunOutput struct {
	ID            string
	ExerciseIndex int
	ExerciseTitle string
	ImageSide     int
	Positions     int
	Pauses        int
	StartedAt     time.Time
	CompletedAt   time.Time
	Duration      time.Duration
	JournalPath   string
}

type ListInput struct {
	Limit int
}
