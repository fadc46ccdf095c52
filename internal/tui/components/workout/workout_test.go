package workout

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/program"
	"github.com/julianstephens/hybridmaster/internal/session"
	"github.com/julianstephens/hybridmaster/internal/storage"
)

func setupTestModel(t *testing.T) Model {
	t.Helper()
	store := storage.New(storage.NewMemoryBackend(storage.DefaultMemorySize))
	clock := func() time.Time { return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC) }
	s, err := session.New(store, program.Builtin(), 1, constants.DaySunday, session.WithClock(clock))
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	return New(s, DefaultStyles())
}

func press(m Model, keys string) (Model, tea.Msg) {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	switch keys {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	m, cmd := m.Update(msg)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestCursorMovesOverSets(t *testing.T) {
	m := setupTestModel(t)

	ex, set, ok := m.Selected()
	if !ok || ex.ID != "squat" || set != 0 {
		t.Fatalf("first row = %s set %d, want squat set 0", ex.ID, set)
	}

	m, _ = press(m, "up")
	if _, set, _ := m.Selected(); set != 0 {
		t.Errorf("up at the top moved to set %d", set)
	}

	m, _ = press(m, "down")
	if ex, set, _ := m.Selected(); ex.ID != "squat" || set != 1 {
		t.Errorf("after down = %s set %d, want squat set 1", ex.ID, set)
	}
}

func TestKeysEmitIntents(t *testing.T) {
	m := setupTestModel(t)
	m, _ = press(m, "down")

	if _, msg := press(m, " "); msg != (SetCompletedMsg{ExerciseID: "squat", Set: 1}) {
		t.Errorf("space emitted %#v", msg)
	}
	if _, msg := press(m, "w"); msg != (EditWeightMsg{ExerciseID: "squat", Set: 1}) {
		t.Errorf("w emitted %#v", msg)
	}
	if _, msg := press(m, "]"); msg != (AdjustWeightMsg{ExerciseID: "squat", Set: 1, Steps: 1}) {
		t.Errorf("] emitted %#v", msg)
	}
	if _, msg := press(m, "["); msg != (AdjustWeightMsg{ExerciseID: "squat", Set: 1, Steps: -1}) {
		t.Errorf("[ emitted %#v", msg)
	}
	if _, msg := press(m, "f"); msg != (FinishMsg{}) {
		t.Errorf("f emitted %#v", msg)
	}
	if _, msg := press(m, "x"); msg != (ResetMsg{}) {
		t.Errorf("x emitted %#v", msg)
	}
	if _, msg := press(m, "esc"); msg != (BackMsg{}) {
		t.Errorf("esc emitted %#v", msg)
	}
}

func TestViewMarksCheckedAndOverriddenSets(t *testing.T) {
	m := setupTestModel(t)
	s := m.Session()

	if _, err := s.ToggleSet("squat", 0); err != nil {
		t.Fatal(err)
	}
	if err := s.SetWeight("squat", 1, 105); err != nil {
		t.Fatal(err)
	}

	view := m.View()
	if !strings.Contains(view, "[✓] Set 1: 8 × 100kg") {
		t.Errorf("view should show the checked first set:\n%s", view)
	}
	if !strings.Contains(view, "105kg*") {
		t.Errorf("view should mark the override:\n%s", view)
	}
	if !strings.Contains(view, "superset A") {
		t.Errorf("view should label the superset:\n%s", view)
	}
}

func TestEmptyModel(t *testing.T) {
	m := New(nil, DefaultStyles())
	if m.View() != "" {
		t.Error("a model without a session renders nothing")
	}
	if _, _, ok := m.Selected(); ok {
		t.Error("a model without a session has no selection")
	}
	if _, msg := press(m, " "); msg != nil {
		t.Errorf("space without a session emitted %#v", msg)
	}
}
