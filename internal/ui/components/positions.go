package components

import (
	"strconv"
	"strings"

	"bodysense/internal/ui/theme"
)

// Positions renders the numbered applicator positions of a routine,
// highlighting the active one.
func Positions(total, active int, complete bool) string {
	parts := make([]string, 0, total)
	for n := 1; n <= total; n++ {
		label := " " + strconv.Itoa(n) + " "
		switch {
		case complete || n < active:
			parts = append(parts, theme.PositionDone.Render("✓"+strconv.Itoa(n)+" "))
		case n == active:
			parts = append(parts, theme.PositionActive.Render(label))
		default:
			parts = append(parts, theme.PositionPending.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
