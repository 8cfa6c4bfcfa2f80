package markers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	layoutdto "bodysense/internal/modules/layout/dto"
	"bodysense/internal/ui/theme"
)

type Port interface {
	Markers(ctx context.Context, exercise, side int) (layoutdto.MarkersOutput, error)
	SetMarker(ctx context.Context, exercise, side int, marker layoutdto.Marker) (layoutdto.MarkersOutput, error)
	ResetMarkers(ctx context.Context, exercise, side int) (layoutdto.MarkersOutput, error)
	ExportMarkers(ctx context.Context, exercise, side int) (string, error)
}

// LoadedMsg carries a marker set read or written through the port.
type LoadedMsg struct {
	Markers layoutdto.MarkersOutput
	// Changed is set when the markers were written.
	Changed bool
	Err     error
}

// ExportedMsg carries the JSON export of the current marker set.
type ExportedMsg struct {
	JSON string
	Err  error
}

type Model struct {
	port     Port
	exercise int
	side     int
	markers  layoutdto.MarkersOutput
	table    table.Model
	export   viewport.Model
	exported bool
	err      error
	width    int
	height   int
}

func New(port Port) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Position", Width: 10},
			{Title: "Top %", Width: 10},
			{Title: "Right %", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(7),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Sapphire).Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Lavender)
	t.SetStyles(styles)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Subtext0)
	return Model{port: port, table: t, export: vp}
}

func (m Model) Init() tea.Cmd { return m.load() }

// SetTarget points the view at an exercise side and reloads when it moved.
func (m *Model) SetTarget(exercise, side int) tea.Cmd {
	if exercise == m.exercise && side == m.side && len(m.markers.Markers) > 0 {
		return nil
	}
	m.exercise, m.side = exercise, side
	m.exported = false
	return m.load()
}

// Set moves one marker of the current target.
func (m Model) Set(position int, top, right float64) tea.Cmd {
	exercise, side := m.exercise, m.side
	return func() tea.Msg {
		out, err := m.port.SetMarker(context.Background(), exercise, side, layoutdto.Marker{Position: position, Top: top, Right: right})
		return LoadedMsg{Markers: out, Changed: err == nil, Err: err}
	}
}

func (m Model) Reset() tea.Cmd {
	exercise, side := m.exercise, m.side
	return func() tea.Msg {
		out, err := m.port.ResetMarkers(context.Background(), exercise, side)
		return LoadedMsg{Markers: out, Changed: err == nil, Err: err}
	}
}

func (m Model) Export() tea.Cmd {
	exercise, side := m.exercise, m.side
	return func() tea.Msg {
		raw, err := m.port.ExportMarkers(context.Background(), exercise, side)
		return ExportedMsg{JSON: raw, Err: err}
	}
}

func (m Model) load() tea.Cmd {
	exercise, side := m.exercise, m.side
	return func() tea.Msg {
		out, err := m.port.Markers(context.Background(), exercise, side)
		return LoadedMsg{Markers: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.export.Width = max(20, msg.Width-6)
		m.export.Height = max(3, msg.Height-16)

	case LoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.markers = msg.Markers
			rows := make([]table.Row, 0, len(msg.Markers.Markers))
			for _, mk := range msg.Markers.Markers {
				rows = append(rows, table.Row{
					strconv.Itoa(mk.Position),
					strconv.FormatFloat(mk.Top, 'f', 3, 64),
					strconv.FormatFloat(mk.Right, 'f', 3, 64),
				})
			}
			m.table.SetRows(rows)
		}

	case ExportedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.export.SetContent(msg.JSON)
			m.exported = true
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "R":
			return m, m.Reset()
		case "x":
			return m, m.Export()
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := theme.Title.Render(fmt.Sprintf("Markers · exercise %d · image %d", m.exercise+1, m.side+1))
	if m.markers.Version > 0 {
		header += "  " + theme.Muted.Render(fmt.Sprintf("schema v%d", m.markers.Version))
	}
	body := header + "\n\n" + m.table.View()
	if m.err != nil {
		body += "\n" + theme.Error.Render(m.err.Error())
	}
	if m.exported {
		body += "\n\n" + m.export.View()
	}
	body += "\n\n" + theme.Muted.Render("R: reset to defaults  x: export JSON  :marker <pos> <top> <right>")
	return theme.Pane.Width(max(20, m.width-4)).Render(body)
}
