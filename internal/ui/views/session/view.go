package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "bodysense/internal/modules/session/dto"
	"bodysense/internal/ui/components"
	"bodysense/internal/ui/theme"
)

type Port interface {
	Primary(ctx context.Context) sessiondto.Result
	TogglePause(ctx context.Context) sessiondto.Result
	SkipAutoStart(ctx context.Context) sessiondto.Result
	Reset(ctx context.Context) sessiondto.Result
	ChangeExercise(ctx context.Context, index int) sessiondto.Result
	ChangeImageSide(ctx context.Context, side int) sessiondto.Result
	NextExercise(ctx context.Context) sessiondto.Result
	NextImageSide(ctx context.Context) sessiondto.Result
	Tick(ctx context.Context) sessiondto.TickOutput
	Snapshot(ctx context.Context) sessiondto.Snapshot
	Refresh(ctx context.Context) sessiondto.Snapshot
}

// ─── messages ────────────────────────────────────────────────────────────────

type frameMsg time.Time

// TickedMsg carries the outcome of one session tick.
type TickedMsg struct{ Out sessiondto.TickOutput }

// ResultMsg carries the outcome of a user request.
type ResultMsg struct {
	Action string
	Result sessiondto.Result
}

// SnapshotMsg replaces the displayed snapshot.
type SnapshotMsg struct{ Snapshot sessiondto.Snapshot }

// CompletedMsg is emitted once when a routine reaches Complete.
type CompletedMsg struct{ Snapshot sessiondto.Snapshot }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	interval time.Duration
	snap     sessiondto.Snapshot
	bar      progress.Model
	last     string
	width    int
	height   int
}

func New(port Port, interval time.Duration) Model {
	bar := progress.New(progress.WithGradient(string(theme.Lavender), string(theme.Peach)))
	return Model{port: port, interval: interval, bar: bar}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.schedule())
}

// Snapshot is the last snapshot shown.
func (m Model) Snapshot() sessiondto.Snapshot { return m.snap }

// Reload fetches a fresh snapshot, e.g. after markers changed.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: m.port.Refresh(context.Background())}
	}
}

// Do runs a named request; the root model uses it for palette commands.
func (m Model) Do(action string, fn func(p Port, ctx context.Context) sessiondto.Result) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Action: action, Result: fn(m.port, context.Background())}
	}
}

// Update handles ticks for every tab; keys only arrive while the session tab
// is active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(20, min(m.width-12, 72))

	case frameMsg:
		return m, func() tea.Msg {
			return TickedMsg{Out: m.port.Tick(context.Background())}
		}

	case TickedMsg:
		m.snap = msg.Out.Snapshot
		cmds := []tea.Cmd{m.schedule()}
		for _, tr := range msg.Out.Transitions {
			m.last = fmt.Sprintf("%s → %s (position %d)", tr.From, tr.To, tr.Position)
			if tr.To == sessiondto.PhaseComplete {
				snap := m.snap
				cmds = append(cmds, func() tea.Msg { return CompletedMsg{Snapshot: snap} })
			}
		}
		return m, tea.Batch(cmds...)

	case ResultMsg:
		m.snap = msg.Result.Snapshot

	case SnapshotMsg:
		m.snap = msg.Snapshot

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ":
			return m, m.Do("primary", Port.Primary)
		case "p":
			return m, m.Do("pause", Port.TogglePause)
		case "n":
			return m, m.Do("skip", Port.SkipAutoStart)
		case "e":
			return m, m.Do("exercise", Port.NextExercise)
		case "i":
			return m, m.Do("side", Port.NextImageSide)
		case "r":
			return m, m.Do("reset", Port.Reset)
		}
	}
	return m, nil
}

func (m Model) schedule() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	s := m.snap
	if s.Phase == "" {
		return theme.Muted.Render("loading session…")
	}

	var sb strings.Builder
	header := theme.Title.Render(s.ExerciseTitle)
	where := theme.Muted.Render(fmt.Sprintf("exercise %d/%d · image %d/%d", s.ExerciseIndex+1, s.ExerciseCount, s.ImageSide+1, max(1, s.ImageCount)))
	sb.WriteString(header + "  " + where + "\n\n")

	phase := theme.Hot.Render(s.PhaseLabel)
	if s.Paused {
		phase += "  " + theme.Warn.Render("PAUSED")
	}
	sb.WriteString(phase + "\n\n")
	sb.WriteString(theme.Button.Render(s.ButtonLabel) + "\n\n")

	instruction := s.Instruction
	if s.ReleasingShortly {
		sb.WriteString(theme.Warn.Render(instruction) + "\n")
	} else {
		sb.WriteString(instruction + "\n")
	}

	if label, pct, ok := phaseProgress(s); ok {
		sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("%-8s", label)) + m.bar.ViewAs(pct/100) + "\n")
	}
	if s.Phase == sessiondto.PhaseAutoStarting {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("next position in %ds, n to skip", s.AutoStartCountdown)) + "\n")
	}

	sb.WriteString("\n" + theme.Muted.Render("positions ") + components.Positions(s.TotalSteps, s.ActivePosition, s.Phase == sessiondto.PhaseComplete) + "\n")
	if len(s.Markers) > 0 && s.ActivePosition-1 < len(s.Markers) {
		mk := s.Markers[s.ActivePosition-1]
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("applicator at %.1f%% from top, %.1f%% from right", mk.Top, mk.Right)) + "\n")
	}
	if m.last != "" {
		sb.WriteString("\n" + theme.Muted.Render("last: "+m.last) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: "+primaryHint(s.Phase)+"  p: pause  e: exercise  i: image  r: reset"))

	return lipgloss.NewStyle().Width(m.width).Render(theme.Pane.Render(sb.String()))
}

func phaseProgress(s sessiondto.Snapshot) (string, float64, bool) {
	switch s.Phase {
	case sessiondto.PhaseSealing:
		return "seal", s.SealProgress, true
	case sessiondto.PhaseStarting, sessiondto.PhaseMassaging:
		return "massage", s.MassageProgress, true
	case sessiondto.PhaseResumeSealing:
		return "re-seal", s.ResumeSealProgress, true
	case sessiondto.PhaseReleasing:
		return "release", s.ReleaseProgress, true
	}
	return "", 0, false
}

func primaryHint(phase string) string {
	switch phase {
	case sessiondto.PhaseIdle, sessiondto.PhaseComplete:
		return "start"
	case sessiondto.PhaseMassaging:
		return "pause/resume"
	case sessiondto.PhaseAutoStarting:
		return "skip countdown"
	}
	return "wait"
}
