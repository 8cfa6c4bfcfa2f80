package markers

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	layoutdto "bodysense/internal/modules/layout/dto"
)

type stubPort struct {
	markers map[[2]int][]layoutdto.Marker
	loads   int
}

func newStubPort() *stubPort {
	return &stubPort{markers: map[[2]int][]layoutdto.Marker{}}
}

func (p *stubPort) out(exercise, side int) layoutdto.MarkersOutput {
	key := [2]int{exercise, side}
	if _, ok := p.markers[key]; !ok {
		for pos := 1; pos <= 5; pos++ {
			p.markers[key] = append(p.markers[key], layoutdto.Marker{Position: pos, Top: 10 * float64(pos), Right: 50})
		}
	}
	return layoutdto.MarkersOutput{ExerciseIndex: exercise, ImageSide: side, Version: 1, Markers: p.markers[key]}
}

func (p *stubPort) Markers(_ context.Context, exercise, side int) (layoutdto.MarkersOutput, error) {
	p.loads++
	return p.out(exercise, side), nil
}

func (p *stubPort) SetMarker(_ context.Context, exercise, side int, marker layoutdto.Marker) (layoutdto.MarkersOutput, error) {
	out := p.out(exercise, side)
	out.Markers[marker.Position-1] = marker
	return out, nil
}

func (p *stubPort) ResetMarkers(_ context.Context, exercise, side int) (layoutdto.MarkersOutput, error) {
	delete(p.markers, [2]int{exercise, side})
	return p.out(exercise, side), nil
}

func (p *stubPort) ExportMarkers(context.Context, int, int) (string, error) {
	return `{"1": {"top": 10, "right": 50}}`, nil
}

func TestSetTargetLoadsOnlyWhenMoved(t *testing.T) {
	t.Parallel()
	port := newStubPort()
	m := New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	cmd := m.SetTarget(1, 0)
	if cmd == nil {
		t.Fatalf("new target should load")
	}
	m, _ = m.Update(cmd())
	if port.loads != 1 {
		t.Fatalf("expected one load, got %d", port.loads)
	}
	if cmd := m.SetTarget(1, 0); cmd != nil {
		t.Fatalf("same target should not reload")
	}
	if !strings.Contains(m.View(), "exercise 2") {
		t.Fatalf("view should show the target:\n%s", m.View())
	}
}

func TestSetAndResetReportChanges(t *testing.T) {
	t.Parallel()
	port := newStubPort()
	m := New(port)
	m, _ = m.Update(m.Init()())

	msg, ok := m.Set(2, 33.5, 44.25)().(LoadedMsg)
	if !ok || !msg.Changed || msg.Err != nil {
		t.Fatalf("unexpected set result %#v", msg)
	}
	if msg.Markers.Markers[1].Top != 33.5 {
		t.Fatalf("marker not moved: %+v", msg.Markers.Markers[1])
	}
	m, _ = m.Update(msg)
	if !strings.Contains(m.View(), "33.500") {
		t.Fatalf("table should show new value:\n%s", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}})
	reset, ok := cmd().(LoadedMsg)
	if !ok || !reset.Changed || reset.Markers.Markers[1].Top != 20 {
		t.Fatalf("unexpected reset result %#v", reset)
	}
}

func TestExportShowsJSON(t *testing.T) {
	t.Parallel()
	m := New(newStubPort())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	msg, ok := cmd().(ExportedMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("unexpected export %#v", msg)
	}
	m, _ = m.Update(msg)
	if !strings.Contains(m.View(), `"top"`) {
		t.Fatalf("export not rendered:\n%s", m.View())
	}
}
