package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	historydto "bodysense/internal/modules/history/dto"
	layoutdto "bodysense/internal/modules/layout/dto"
	sessiondto "bodysense/internal/modules/session/dto"
	"bodysense/internal/ui/components"
	"bodysense/internal/ui/theme"
	historyview "bodysense/internal/ui/views/history"
	markersview "bodysense/internal/ui/views/markers"
	sessionview "bodysense/internal/ui/views/session"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	sessionview.Port
}

type layoutPort interface {
	Markers(ctx context.Context, exercise, side int) (layoutdto.MarkersOutput, error)
	SetMarker(ctx context.Context, exercise, side int, marker layoutdto.Marker) (layoutdto.MarkersOutput, error)
	ResetMarkers(ctx context.Context, exercise, side int) (layoutdto.MarkersOutput, error)
	ExportMarkers(ctx context.Context, exercise, side int) (string, error)
}

type historyPort interface {
	List(ctx context.Context, limit int) ([]historydto.RunOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabSession tabID = iota
	tabMarkers
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Session", "Markers", "History"}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Primary  key.Binding
	Pause    key.Binding
	Skip     key.Binding
	Exercise key.Binding
	Side     key.Binding
	Reset    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Primary:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "start / pause / skip")),
		Pause:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause or resume")),
		Skip:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "skip countdown")),
		Exercise: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "next exercise")),
		Side:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "next image")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Primary, k.Pause, k.Skip},
		{k.Exercise, k.Side, k.Reset},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; the session view keeps ticking on every tab.
type Model struct {
	sessionView sessionview.Model
	markersView markersview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(session sessionPort, layout layoutPort, history historyPort, tickInterval time.Duration) Model {
	return Model{
		sessionView: sessionview.New(session, tickInterval),
		markersView: markersview.New(layoutPortBridge{p: layout}),
		historyView: historyview.New(history),
		activeTab:   tabSession,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.sessionView.Init(),
		m.markersView.Init(),
		m.historyView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open; ticks keep flowing.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case sessionview.CompletedMsg:
		m.status = "routine complete: " + msg.Snapshot.ExerciseTitle
		return m, m.historyView.Reload()

	case sessionview.ResultMsg:
		if !msg.Result.Applied {
			m.status = msg.Action + ": not available in " + msg.Result.Snapshot.PhaseLabel
		} else {
			m.status = msg.Action
		}

	case markersview.LoadedMsg:
		var cmd tea.Cmd
		m.markersView, cmd = m.markersView.Update(msg)
		cmds = append(cmds, cmd)
		switch {
		case msg.Err != nil:
			m.status = "markers: " + msg.Err.Error()
		case msg.Changed:
			m.status = "markers saved"
			cmds = append(cmds, m.sessionView.Reload())
		}
		return m, tea.Batch(cmds...)

	case markersview.ExportedMsg:
		if msg.Err == nil {
			m.status = "markers exported"
			m.activeTab = tabMarkers
		}
		var cmd tea.Cmd
		m.markersView, cmd = m.markersView.Update(msg)
		return m, cmd

	case historyview.RunsLoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.activeTab == tabHistory && m.historyView.Filtering() {
			var cmd tea.Cmd
			m.historyView, cmd = m.historyView.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}

		var tabCmd tea.Cmd
		switch m.activeTab {
		case tabSession:
			m.sessionView, tabCmd = m.sessionView.Update(msg)
		case tabMarkers:
			m.markersView, tabCmd = m.markersView.Update(msg)
		case tabHistory:
			m.historyView, tabCmd = m.historyView.Update(msg)
		}
		return m, tabCmd
	}

	// Everything else belongs to the session view: frames, ticks, results.
	var cmd tea.Cmd
	before := m.sessionView.Snapshot()
	m.sessionView, cmd = m.sessionView.Update(msg)
	cmds = append(cmds, cmd)
	if after := m.sessionView.Snapshot(); after.Phase != "" &&
		(after.ExerciseIndex != before.ExerciseIndex || after.ImageSide != before.ImageSide || before.Phase == "") {
		cmds = append(cmds, m.markersView.SetTarget(after.ExerciseIndex, after.ImageSide))
	}
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabSession:
		return m.sessionView.View()
	case tabMarkers:
		return m.markersView.View()
	case tabHistory:
		return m.historyView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "bodysense  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if s := m.sessionView.Snapshot(); s.Phase != "" && s.Phase != sessiondto.PhaseIdle {
		phase := s.PhaseLabel
		if s.Paused {
			phase += " (paused)"
		}
		left = theme.Hot.Render(fmt.Sprintf("● %s %d/%d", phase, s.ActivePosition, s.TotalSteps)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "start":
		return m, m.sessionView.Do("start", sessionview.Port.Primary)

	case "pause":
		return m, m.sessionView.Do("pause", sessionview.Port.TogglePause)

	case "skip":
		return m, m.sessionView.Do("skip", sessionview.Port.SkipAutoStart)

	case "reset":
		return m, m.sessionView.Do("reset", sessionview.Port.Reset)

	case "exercise":
		n, ok := m.intArg(parts, "usage: exercise <index>")
		if !ok {
			return m, nil
		}
		m.activeTab = tabSession
		return m, m.sessionView.Do("exercise", func(p sessionview.Port, ctx context.Context) sessiondto.Result {
			return p.ChangeExercise(ctx, n)
		})

	case "side":
		n, ok := m.intArg(parts, "usage: side <index>")
		if !ok {
			return m, nil
		}
		return m, m.sessionView.Do("side", func(p sessionview.Port, ctx context.Context) sessiondto.Result {
			return p.ChangeImageSide(ctx, n)
		})

	case "marker":
		if len(parts) < 4 {
			m.status = "usage: marker <position> <top> <right>"
			return m, nil
		}
		pos, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid position"
			return m, nil
		}
		top, err1 := strconv.ParseFloat(parts[2], 64)
		right, err2 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil {
			m.status = "invalid coordinates"
			return m, nil
		}
		m.activeTab = tabMarkers
		return m, m.markersView.Set(pos, top, right)

	case "markers:reset":
		m.activeTab = tabMarkers
		return m, m.markersView.Reset()

	case "markers:export":
		return m, m.markersView.Export()

	case "history:reload":
		m.activeTab = tabHistory
		return m, m.historyView.Reload()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// intArg parses parts[1] as a zero-based index written one-based.
func (m *Model) intArg(parts []string, usage string) (int, bool) {
	if len(parts) < 2 {
		m.status = usage
		return 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 1 {
		m.status = usage
		return 0, false
	}
	return n - 1, true
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.sessionView, _ = m.sessionView.Update(sz)
	m.markersView, _ = m.markersView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type layoutPortBridge struct{ p layoutPort }

func (b layoutPortBridge) Markers(ctx context.Context, exercise, side int) (layoutdto.MarkersOutput, error) {
	return b.p.Markers(ctx, exercise, side)
}
func (b layoutPortBridge) SetMarker(ctx context.Context, exercise, side int, marker layoutdto.Marker) (layoutdto.MarkersOutput, error) {
	return b.p.SetMarker(ctx, exercise, side, marker)
}
func (b layoutPortBridge) ResetMarkers(ctx context.Context, exercise, side int) (layoutdto.MarkersOutput, error) {
	return b.p.ResetMarkers(ctx, exercise, side)
}
func (b layoutPortBridge) ExportMarkers(ctx context.Context, exercise, side int) (string, error) {
	return b.p.ExportMarkers(ctx, exercise, side)
}
