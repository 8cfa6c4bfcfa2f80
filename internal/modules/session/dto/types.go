package dto

import "time"

type Marker struct {
	Position int     `json:"position"`
	Top      float64 `json:"top"`
	Right    float64 `json:"right"`
}

// Snapshot is what hosts render. Progress fields are percentages.
type Snapshot struct {
	Phase                   string   `json:"phase"`
	PhaseLabel              string   `json:"phaseLabel"`
	Paused                  bool     `json:"isPaused"`
	RemainingSeconds        int      `json:"remainingSeconds"`
	RemainingSecondsPrecise float64  `json:"remainingSecondsPrecise"`
	MassageProgress         float64  `json:"massageProgress"`
	SealProgress            float64  `json:"sealProgress"`
	ReleaseProgress         float64  `json:"releaseProgress"`
	ResumeSealProgress      float64  `json:"resumeSealProgress"`
	AutoStartCountdown      int      `json:"autoStartCountdown"`
	ActivePosition          int      `json:"activePosition"`
	TotalSteps              int      `json:"totalSteps"`
	ExerciseIndex           int      `json:"exerciseIndex"`
	ExerciseTitle           string   `json:"exerciseTitle"`
	ExerciseCount           int      `json:"exerciseCount"`
	ImageSide               int      `json:"imageSide"`
	ImageCount              int      `json:"imageCount"`
	ReleasingShortly        bool     `json:"releasingShortly"`
	Instruction             string   `json:"instruction"`
	ButtonLabel             string   `json:"buttonLabel"`
	Markers                 []Marker `json:"markers"`
}

type Transition struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	At       time.Time `json:"at"`
	Position int       `json:"position"`
}

// Result reports whether a request changed the session.
type Result struct {
	Applied  bool
	Snapshot Snapshot
}

type TickOutput struct {
	Transitions []Transition
	Snapshot    Snapshot
}

type ChangeExerciseInput struct {
	Index int `json:"index"`
}

type ChangeImageSideInput struct {
	Side int `json:"side"`
}

// Phase names as they appear in Snapshot.Phase.
const (
	PhaseIdle          = "idle"
	PhaseSealing       = "sealing"
	PhaseStarting      = "starting"
	PhaseMassaging     = "massaging"
	PhaseResumeSealing = "resumeSealing"
	PhaseReleasing     = "releasing"
	PhaseAutoStarting  = "autoStarting"
	PhaseComplete      = "complete"
)
