package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	historydto "bodysense/internal/modules/history/dto"
	layoutdto "bodysense/internal/modules/layout/dto"
	sessiondto "bodysense/internal/modules/session/dto"
	"bodysense/internal/ui/components"
	historyview "bodysense/internal/ui/views/history"
	markersview "bodysense/internal/ui/views/markers"
	sessionview "bodysense/internal/ui/views/session"
)

type fakeSession struct {
	snap     sessiondto.Snapshot
	exercise int
}

func (f *fakeSession) ok() sessiondto.Result { return sessiondto.Result{Applied: true, Snapshot: f.snap} }
func (f *fakeSession) Primary(context.Context) sessiondto.Result       { return f.ok() }
func (f *fakeSession) TogglePause(context.Context) sessiondto.Result   { return f.ok() }
func (f *fakeSession) SkipAutoStart(context.Context) sessiondto.Result { return sessiondto.Result{Snapshot: f.snap} }
func (f *fakeSession) Reset(context.Context) sessiondto.Result         { return f.ok() }
func (f *fakeSession) ChangeExercise(_ context.Context, i int) sessiondto.Result {
	f.exercise = i
	f.snap.ExerciseIndex = i
	return f.ok()
}
func (f *fakeSession) ChangeImageSide(context.Context, int) sessiondto.Result { return f.ok() }
func (f *fakeSession) NextExercise(context.Context) sessiondto.Result         { return f.ok() }
func (f *fakeSession) NextImageSide(context.Context) sessiondto.Result        { return f.ok() }
func (f *fakeSession) Tick(context.Context) sessiondto.TickOutput {
	return sessiondto.TickOutput{Snapshot: f.snap}
}
func (f *fakeSession) Snapshot(context.Context) sessiondto.Snapshot { return f.snap }
func (f *fakeSession) Refresh(context.Context) sessiondto.Snapshot  { return f.snap }

type fakeLayout struct{ set []layoutdto.Marker }

func (f *fakeLayout) Markers(_ context.Context, e, s int) (layoutdto.MarkersOutput, error) {
	return layoutdto.MarkersOutput{ExerciseIndex: e, ImageSide: s, Version: 1}, nil
}
func (f *fakeLayout) SetMarker(_ context.Context, e, s int, m layoutdto.Marker) (layoutdto.MarkersOutput, error) {
	f.set = append(f.set, m)
	return layoutdto.MarkersOutput{ExerciseIndex: e, ImageSide: s, Version: 1, Markers: []layoutdto.Marker{m}}, nil
}
func (f *fakeLayout) ResetMarkers(_ context.Context, e, s int) (layoutdto.MarkersOutput, error) {
	return layoutdto.MarkersOutput{ExerciseIndex: e, ImageSide: s, Version: 1}, nil
}
func (f *fakeLayout) ExportMarkers(context.Context, int, int) (string, error) { return "{}", nil }

type fakeHistory struct{ calls int }

func (f *fakeHistory) List(context.Context, int) ([]historydto.RunOutput, error) {
	f.calls++
	return nil, nil
}

func newTestModel() (Model, *fakeSession, *fakeLayout, *fakeHistory) {
	s := &fakeSession{snap: sessiondto.Snapshot{Phase: sessiondto.PhaseIdle, PhaseLabel: "Idle", TotalSteps: 5, ActivePosition: 1}}
	l := &fakeLayout{}
	h := &fakeHistory{}
	m := NewModel(s, l, h, 50*time.Millisecond)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), s, l, h
}

func TestPaletteExerciseIsOneBased(t *testing.T) {
	t.Parallel()
	m, s, _, _ := newTestModel()
	updated, cmd := m.Update(components.PaletteSubmitMsg{Input: "exercise 2"})
	m = updated.(Model)
	if cmd == nil {
		t.Fatalf("expected a session command")
	}
	res, ok := cmd().(sessionview.ResultMsg)
	if !ok || res.Action != "exercise" {
		t.Fatalf("unexpected msg %#v", res)
	}
	if s.exercise != 1 {
		t.Fatalf("expected zero-based index 1, got %d", s.exercise)
	}

	// The changed exercise retargets the markers view.
	_, follow := m.Update(res)
	if follow == nil {
		t.Fatalf("expected markers reload after exercise change")
	}
}

func TestPaletteRejectsBadArguments(t *testing.T) {
	t.Parallel()
	m, _, l, _ := newTestModel()
	for _, input := range []string{"exercise", "exercise 0", "side x", "marker 1 2", "marker a 1 2", "nope"} {
		updated, cmd := m.Update(components.PaletteSubmitMsg{Input: input})
		if cmd != nil {
			t.Fatalf("%q: expected no command", input)
		}
		if updated.(Model).status == "ready" {
			t.Fatalf("%q: expected a status message", input)
		}
	}
	if len(l.set) != 0 {
		t.Fatalf("no marker should be written")
	}
}

func TestMarkerEditReloadsSession(t *testing.T) {
	t.Parallel()
	m, _, l, _ := newTestModel()
	updated, cmd := m.Update(components.PaletteSubmitMsg{Input: "marker 3 40 55.5"})
	m = updated.(Model)
	if m.activeTab != tabMarkers {
		t.Fatalf("marker command should show the markers tab")
	}
	loaded, ok := cmd().(markersview.LoadedMsg)
	if !ok || !loaded.Changed {
		t.Fatalf("unexpected msg %#v", loaded)
	}
	if len(l.set) != 1 || l.set[0] != (layoutdto.Marker{Position: 3, Top: 40, Right: 55.5}) {
		t.Fatalf("unexpected marker write %+v", l.set)
	}
	updated, follow := m.Update(loaded)
	if updated.(Model).status != "markers saved" || follow == nil {
		t.Fatalf("expected session reload after marker save")
	}
}

func TestCompletionReloadsHistory(t *testing.T) {
	t.Parallel()
	m, _, _, h := newTestModel()
	_, cmd := m.Update(sessionview.CompletedMsg{Snapshot: sessiondto.Snapshot{ExerciseTitle: "Neck"}})
	if cmd == nil {
		t.Fatalf("expected history reload")
	}
	if _, ok := cmd().(historyview.RunsLoadedMsg); !ok || h.calls != 1 {
		t.Fatalf("history not reloaded (%d calls)", h.calls)
	}
}

func TestTabCycles(t *testing.T) {
	t.Parallel()
	m, _, _, _ := newTestModel()
	for _, want := range []tabID{tabMarkers, tabHistory, tabSession} {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = updated.(Model)
		if m.activeTab != want {
			t.Fatalf("expected tab %d, got %d", want, m.activeTab)
		}
	}
}
