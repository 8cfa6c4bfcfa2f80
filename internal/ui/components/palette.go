package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bodysense/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

const maxHints = 6

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	usageStyle = lipgloss.NewStyle().Foreground(theme.Lavender)
	hintStyle  = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// Hint documents one palette command.
type Hint struct {
	Usage       string
	Description string
}

// Name is the command word of the hint.
func (h Hint) Name() string {
	name, _, _ := strings.Cut(h.Usage, " ")
	return name
}

// Hints must stay in sync with the switch in app/model.go executePalette.
var Hints = []Hint{
	{"start", "start the routine, or resume when paused"},
	{"pause", "pause or resume the massage"},
	{"skip", "skip the auto-start countdown"},
	{"reset", "back to idle at position 1"},
	{"exercise <n>", "switch exercise (1-based)"},
	{"side <n>", "switch image of this exercise (1-based)"},
	{"marker <position> <top> <right>", "move one applicator marker, in percent"},
	{"markers:reset", "restore default markers for this image"},
	{"markers:export", "show markers as JSON"},
	{"history:reload", "reload completed routines"},
}

// MatchHints returns the hints whose command word starts with the first word
// of input.
func MatchHints(input string) []Hint {
	word, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(input)), " ")
	var out []Hint
	for _, h := range Hints {
		if strings.HasPrefix(h.Name(), word) {
			out = append(out, h)
		}
	}
	return out
}

// Palette is the ":" command overlay.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "start, exercise 2, marker 3 40 55…"
	ti.CharLimit = 128
	ti.Prompt = ": "
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Value is the text typed so far.
func (p Palette) Value() string { return p.input.Value() }

// Open shows the palette with an empty input and focuses it.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.close()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			// Complete the command word when exactly one command matches.
			if m := MatchHints(p.input.Value()); len(m) == 1 && !strings.Contains(p.input.Value(), " ") {
				completed := m[0].Name()
				if strings.Contains(m[0].Usage, " ") {
					completed += " "
				}
				p.input.SetValue(completed)
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := MatchHints(p.input.Value())
	if len(matching) > maxHints {
		matching = matching[:maxHints]
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Commands") + "\n")
	sb.WriteString(p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, h := range matching {
			sb.WriteString("  " + usageStyle.Render(h.Usage) + "  " + hintStyle.Render(h.Description) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
