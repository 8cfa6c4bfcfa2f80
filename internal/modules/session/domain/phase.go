package domain

import "fmt"

// Phase is a state of the session state machine.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseSealing       Phase = "sealing"
	PhaseStarting      Phase = "starting"
	PhaseMassaging     Phase = "massaging"
	PhaseResumeSealing Phase = "resumeSealing"
	PhaseReleasing     Phase = "releasing"
	PhaseAutoStarting  Phase = "autoStarting"
	PhaseComplete      Phase = "complete"
)

var phaseLabels = map[Phase]string{
	PhaseIdle:          "Idle",
	PhaseSealing:       "Applicator Sealing",
	PhaseStarting:      "Starting Hybrid Massage",
	PhaseMassaging:     "Hybrid Massage in Progress",
	PhaseResumeSealing: "Applicator Re-sealing",
	PhaseReleasing:     "Applicator Releasing",
	PhaseAutoStarting:  "Auto Starting",
	PhaseComplete:      "Complete",
}

func (p Phase) Validate() error {
	if _, ok := phaseLabels[p]; !ok {
		return fmt.Errorf("unknown phase %q", string(p))
	}
	return nil
}

// Label is the human-readable phase name.
func (p Phase) Label() string {
	if l, ok := phaseLabels[p]; ok {
		return l
	}
	return string(p)
}

// Timed reports whether the phase runs on a clock. Idle and Complete wait
// for the user.
func (p Phase) Timed() bool {
	return p != PhaseIdle && p != PhaseComplete
}
