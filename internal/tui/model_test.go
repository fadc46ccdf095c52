package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/program"
	"github.com/julianstephens/hybridmaster/internal/storage"
	"github.com/julianstephens/hybridmaster/internal/timer"
	"github.com/julianstephens/hybridmaster/internal/tui/components/workout"
)

func setupTestModel(t *testing.T, provider program.Provider) (Model, *cli.Context, *timer.ManualScheduler) {
	t.Helper()
	backend := storage.NewMemoryBackend(storage.DefaultMemorySize)
	store := storage.New(backend)
	sched := timer.NewManualScheduler()
	clock := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	ctx := &cli.Context{
		Backend:   backend,
		Store:     store,
		Program:   provider,
		Timers:    timer.NewManager(sched, timer.WithPersistence(store)),
		ConfigDir: t.TempDir(),
		Now:       func() time.Time { return clock },
	}
	return NewModel(ctx), ctx, sched
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model
}

func openDay(t *testing.T, m Model, day string) Model {
	t.Helper()
	m = update(t, m, DaySelectedMsg{Day: day})
	if m.state != constants.SessionWorkout {
		t.Fatalf("state = %v, want workout", m.state)
	}
	return m
}

func TestNewModel(t *testing.T) {
	m, ctx, _ := setupTestModel(t, program.Builtin())

	if m.state != constants.SessionHome {
		t.Errorf("state = %v, want home", m.state)
	}
	nav := ctx.Store.LoadNavigationState()
	if m.week.Number != nav.Week {
		t.Errorf("week = %d, want the saved week %d", m.week.Number, nav.Week)
	}
	if got := len(m.homeModel.View()); got == 0 {
		t.Error("home view should render the day cards")
	}
	if m.View() == "" {
		t.Error("view should not be empty")
	}
}

func TestWeekChanged_Clamps(t *testing.T) {
	m, ctx, _ := setupTestModel(t, program.Builtin())

	m = update(t, m, WeekChangedMsg{Week: 0})
	if m.week.Number != 1 {
		t.Errorf("week = %d, want 1", m.week.Number)
	}

	m = update(t, m, WeekChangedMsg{Week: 40})
	if m.week.Number != constants.TotalWeeks {
		t.Errorf("week = %d, want %d", m.week.Number, constants.TotalWeeks)
	}
	if nav := ctx.Store.LoadNavigationState(); nav.Week != constants.TotalWeeks {
		t.Errorf("saved week = %d, want %d", nav.Week, constants.TotalWeeks)
	}
}

func TestArrowKeysEmitWeekChange(t *testing.T) {
	m, _, _ := setupTestModel(t, program.Builtin())
	m = update(t, m, WeekChangedMsg{Week: 3})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if cmd == nil {
		t.Fatal("right arrow should emit a command")
	}
	msg, ok := cmd().(WeekChangedMsg)
	if !ok || msg.Week != 4 {
		t.Errorf("right arrow emitted %#v, want week 4", msg)
	}
}

func TestSetCompleted_AutoStartsRest(t *testing.T) {
	m, ctx, sched := setupTestModel(t, program.Builtin())
	m = update(t, m, WeekChangedMsg{Week: 1})
	m = openDay(t, m, constants.DaySunday)

	m = update(t, m, SetCompletedMsg{ExerciseID: "squat", Set: 0})
	if got := ctx.Store.LoadCompletedSets(1, constants.DaySunday, "squat"); len(got) != 1 || got[0] != 0 {
		t.Errorf("completed sets = %v, want [0]", got)
	}

	sched.Advance(constants.TimerAutoStartDelay)
	snap, ok := ctx.Timers.Active()
	if !ok || snap.ID != "squat" {
		t.Fatalf("active timer = %+v (%v), want squat", snap, ok)
	}
	if snap.Duration != 120 {
		t.Errorf("rest = %d, want 120", snap.Duration)
	}

	// Leaving the workout stops the countdown
	m = update(t, m, BackMsg{})
	if m.state != constants.SessionHome {
		t.Errorf("state = %v, want home", m.state)
	}
	if _, ok := ctx.Timers.Active(); ok {
		t.Error("leaving the workout should stop the timer")
	}
}

func TestSetCompleted_UncheckCancelsPendingStart(t *testing.T) {
	m, ctx, sched := setupTestModel(t, program.Builtin())
	m = update(t, m, WeekChangedMsg{Week: 1})
	m = openDay(t, m, constants.DaySunday)

	m = update(t, m, SetCompletedMsg{ExerciseID: "squat", Set: 0})
	_ = update(t, m, SetCompletedMsg{ExerciseID: "squat", Set: 0})
	sched.Advance(constants.TimerAutoStartDelay)

	if _, ok := ctx.Timers.Active(); ok {
		t.Error("unchecking before the delay should cancel the start")
	}
}

func TestSetCompleted_SupersetSharesTimer(t *testing.T) {
	m, ctx, sched := setupTestModel(t, program.Builtin())
	m = update(t, m, WeekChangedMsg{Week: 1})
	m = openDay(t, m, constants.DaySunday)

	m = update(t, m, SetCompletedMsg{ExerciseID: "walking-lunge", Set: 0})
	sched.Advance(constants.TimerAutoStartDelay)
	if _, ok := ctx.Timers.Active(); ok {
		t.Fatal("the superset timer should wait for every member")
	}

	_ = update(t, m, SetCompletedMsg{ExerciseID: "leg-curl", Set: 0})
	sched.Advance(constants.TimerAutoStartDelay)
	snap, ok := ctx.Timers.Active()
	if !ok {
		t.Fatal("the superset timer should start once every member is checked")
	}
	if !strings.HasPrefix(snap.ID, "superset-A") {
		t.Errorf("timer id = %q, want the superset context", snap.ID)
	}
	if snap.Duration != constants.DefaultSupersetRest {
		t.Errorf("rest = %d, want %d", snap.Duration, constants.DefaultSupersetRest)
	}
}

func TestSetCompleted_AutoStartDisabled(t *testing.T) {
	m, ctx, sched := setupTestModel(t, program.Builtin())
	settings := ctx.Store.LoadSettings()
	settings.AutoStartTimer = false
	ctx.Store.SaveSettings(settings)

	m = update(t, m, WeekChangedMsg{Week: 1})
	m = openDay(t, m, constants.DaySunday)
	_ = update(t, m, SetCompletedMsg{ExerciseID: "squat", Set: 0})
	sched.Advance(constants.TimerAutoStartDelay)

	if _, ok := ctx.Timers.Active(); ok {
		t.Error("no timer should start when auto-start is off")
	}
}

func TestAdjustWeight(t *testing.T) {
	m, ctx, _ := setupTestModel(t, program.Builtin())
	m = update(t, m, WeekChangedMsg{Week: 1})
	m = openDay(t, m, constants.DaySunday)

	_ = update(t, m, workout.AdjustWeightMsg{ExerciseID: "squat", Set: 0, Steps: 1})
	w, ok := ctx.Store.LoadCustomWeights(1, constants.DaySunday, "squat")
	if v, set := w.For(0); !ok || !set || v != 102.5 {
		t.Errorf("override = %v (%v), want 102.5", v, set)
	}
}

func TestWeightForm_EscReturnsToWorkout(t *testing.T) {
	m, _, _ := setupTestModel(t, program.Builtin())
	m = update(t, m, WeekChangedMsg{Week: 1})
	m = openDay(t, m, constants.DaySunday)

	m = update(t, m, workout.EditWeightMsg{ExerciseID: "squat", Set: 0})
	if m.state != constants.SessionWeightForm {
		t.Fatalf("state = %v, want weight form", m.state)
	}
	if m.weightForm.Value != "100" {
		t.Errorf("form starts at %q, want the prescribed 100", m.weightForm.Value)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.SessionWorkout {
		t.Errorf("state = %v, want workout", m.state)
	}
}

func TestResetAsksForConfirmation(t *testing.T) {
	m, _, _ := setupTestModel(t, program.Builtin())
	m = update(t, m, WeekChangedMsg{Week: 1})
	m = openDay(t, m, constants.DaySunday)

	_, cmd := m.Update(workout.ResetMsg{})
	if cmd == nil {
		t.Fatal("reset should ask for confirmation")
	}
	confirm, ok := cmd().(constants.ConfirmationMsg)
	if !ok {
		t.Fatalf("reset emitted %T, want a confirmation", cmd())
	}

	m = update(t, m, confirm)
	if m.state != constants.SessionConfirm {
		t.Fatalf("state = %v, want confirm", m.state)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.SessionWorkout {
		t.Errorf("state = %v, want workout after cancel", m.state)
	}
}

func TestResetAction(t *testing.T) {
	m, ctx, _ := setupTestModel(t, program.Builtin())
	m = update(t, m, WeekChangedMsg{Week: 1})
	m = openDay(t, m, constants.DaySunday)
	m = update(t, m, SetCompletedMsg{ExerciseID: "squat", Set: 0})

	_, cmd := m.Update(workout.ResetMsg{})
	confirm := cmd().(constants.ConfirmationMsg)
	if next := confirm.Action(); next != nil {
		t.Errorf("reset action returned a command: %v", next())
	}
	if got := ctx.Store.LoadCompletedSets(1, constants.DaySunday, "squat"); len(got) != 0 {
		t.Errorf("completed sets after reset = %v", got)
	}
}

func TestFinish(t *testing.T) {
	m, ctx, _ := setupTestModel(t, program.Builtin())
	m = update(t, m, WeekChangedMsg{Week: 1})
	m = openDay(t, m, constants.DaySunday)

	m = update(t, m, workout.FinishMsg{})
	if m.state != constants.SessionWorkout || m.status == "" {
		t.Errorf("finishing with no sets should stay with a warning, state %v status %q", m.state, m.status)
	}

	m = update(t, m, SetCompletedMsg{ExerciseID: "squat", Set: 0})
	m = update(t, m, workout.FinishMsg{})
	if m.state != constants.SessionHome {
		t.Errorf("state = %v, want home after finishing", m.state)
	}
	day, ok := ctx.Store.LoadHistory().Session(1, constants.DaySunday)
	if !ok || day.Volume != 800 {
		t.Errorf("recorded session = %+v, %v", day, ok)
	}
}

func TestThemeToggled(t *testing.T) {
	m, ctx, _ := setupTestModel(t, program.Builtin())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if cmd == nil {
		t.Fatal("t should toggle the theme")
	}
	msg, ok := cmd().(ThemeToggledMsg)
	if !ok || msg.Theme != constants.ThemeLight {
		t.Fatalf("t emitted %#v, want light", msg)
	}

	m = update(t, m, msg)
	if m.theme.Name != constants.ThemeLight {
		t.Errorf("theme = %q, want light", m.theme.Name)
	}
	if got := ctx.Store.LoadSettings().Theme; got != constants.ThemeLight {
		t.Errorf("saved theme = %q, want light", got)
	}
}

func TestShowStatsAndBack(t *testing.T) {
	m, _, _ := setupTestModel(t, program.Builtin())

	m = update(t, m, ShowStatsMsg{})
	if m.state != constants.SessionStats {
		t.Fatalf("state = %v, want stats", m.state)
	}
	if m.View() == "" {
		t.Error("stats view should render")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.SessionHome {
		t.Errorf("state = %v, want home", m.state)
	}
}

func TestErrorPanelAndReload(t *testing.T) {
	m, _, _ := setupTestModel(t, program.New("empty", nil))

	if m.state != constants.SessionError {
		t.Fatalf("state = %v, want error", m.state)
	}
	if !strings.Contains(m.View(), "to reload") {
		t.Error("error panel should offer a reload")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("r should reload")
	}
	if _, ok := cmd().(ReloadMsg); !ok {
		t.Error("r should emit a reload")
	}

	m = update(t, m, ReloadMsg{})
	if m.state != constants.SessionError {
		t.Errorf("a failing reload should keep the error panel, got %v", m.state)
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := setupTestModel(t, program.Builtin())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
	if next.View() != "" {
		t.Error("a quitting model renders nothing")
	}
}
