package history

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	historydto "bodysense/internal/modules/history/dto"
	"bodysense/internal/ui/theme"
)

const listLimit = 50

type Port interface {
	List(ctx context.Context, limit int) ([]historydto.RunOutput, error)
}

type RunsLoadedMsg struct {
	Runs []historydto.RunOutput
	Err  error
}

type runItem struct{ run historydto.RunOutput }

func (i runItem) Title() string { return i.run.ExerciseTitle }
func (i runItem) Description() string {
	pauses := "no pauses"
	switch {
	case i.run.Pauses == 1:
		pauses = "1 pause"
	case i.run.Pauses > 1:
		pauses = fmt.Sprintf("%d pauses", i.run.Pauses)
	}
	return fmt.Sprintf("%s · %d positions · %s · %s",
		i.run.CompletedAt.Local().Format("2006-01-02 15:04"), i.run.Positions, pauses, i.run.Duration.Round(time.Second))
}
func (i runItem) FilterValue() string { return i.run.ExerciseTitle }

type Model struct {
	port Port
	list list.Model
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Completed routines"
	l.Styles.Title = theme.Title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("run", "runs")
	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		runs, err := m.port.List(context.Background(), listLimit)
		return RunsLoadedMsg{Runs: runs, Err: err}
	}
}

// Filtering reports whether the list filter has focus.
func (m Model) Filtering() bool { return m.list.FilterState() == list.Filtering }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil
	case RunsLoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Completed routines · " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Completed routines"
		items := make([]list.Item, len(msg.Runs))
		for i, r := range msg.Runs {
			items[i] = runItem{run: r}
		}
		return m, m.list.SetItems(items)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() == list.Unfiltered {
		return theme.Muted.Render("No completed routines yet.")
	}
	return m.list.View()
}
