package domain

import "time"

// Steps is what the controller needs to know about the exercise catalog.
type Steps interface {
	ExerciseCount() int
	TotalSteps(exerciseIndex int) int
	ImageCount(exerciseIndex int) int
}

// State is the session aggregate. Only the Controller mutates it.
type State struct {
	Phase          Phase
	ExerciseIndex  int
	ImageSide      int
	ActivePosition int
	TotalSteps     int
	Paused         bool
	// PhaseStartedAt is zero outside timed phases and while paused.
	PhaseStartedAt time.Time
	PhaseDuration  time.Duration
	// AccumulatedRemaining is the massage time left, snapshotted on pause.
	AccumulatedRemaining time.Duration
	// Remaining is the massage countdown as of the last tick.
	Remaining          time.Duration
	AutoStartRemaining time.Duration
	SealProgress       float64
	ReleaseProgress    float64
	ResumeSealProgress float64
}

// Transition records one phase change.
type Transition struct {
	From     Phase
	To       Phase
	At       time.Time
	Position int
}

// Selection is the exercise and image side chosen by the user.
type Selection struct {
	ExerciseIndex int
	ImageSide     int
}

// Marker is where a numbered position is drawn, in percent of the image.
type Marker struct {
	Position int
	Top      float64
	Right    float64
}

// CompletedRun summarizes a routine that reached Complete.
type CompletedRun struct {
	ExerciseIndex int
	ExerciseTitle string
	ImageSide     int
	Positions     int
	Pauses        int
	StartedAt     time.Time
	CompletedAt   time.Time
}
