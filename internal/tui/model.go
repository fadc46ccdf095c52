package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/logger"
	"github.com/julianstephens/hybridmaster/internal/models"
	"github.com/julianstephens/hybridmaster/internal/session"
	"github.com/julianstephens/hybridmaster/internal/timer"
	"github.com/julianstephens/hybridmaster/internal/tui/components/home"
	"github.com/julianstephens/hybridmaster/internal/tui/components/resttimer"
	"github.com/julianstephens/hybridmaster/internal/tui/components/statsview"
	"github.com/julianstephens/hybridmaster/internal/tui/components/workout"
)

type Model struct {
	ctx           *cli.Context
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	theme         Theme
	week          models.Week
	day           string
	homeModel     home.Model
	workoutModel  workout.Model
	statsModel    statsview.Model
	timerModel    resttimer.Model
	form          *huh.Form
	weightForm    *WeightFormModel
	confirmForm   *ConfirmationFormModel
	pendingAction func() tea.Cmd
	pendingStarts map[string]timer.Cancel // auto-starts not yet fired, by timer context
	err           error
	status        string
	quitting      bool
	width         int
	height        int
}

func NewModel(ctx *cli.Context) Model {
	settings := ctx.Store.LoadSettings()
	theme := ThemeFor(settings.Theme)
	nav := ctx.Store.LoadNavigationState()

	m := Model{
		ctx:           ctx,
		state:         constants.SessionHome,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		theme:         theme,
		day:           nav.Day,
		homeModel:     home.New(nil, 0, 0),
		workoutModel:  workout.New(nil, theme.Workout),
		statsModel:    statsview.New(ctx.Stats()),
		timerModel:    resttimer.New(ctx.Timers, theme.Timer),
		pendingStarts: make(map[string]timer.Cancel),
	}

	if err := m.loadWeek(nav.Week); err != nil {
		m.fail(err)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return resttimer.Tick()
}

func (m Model) ShortHelp() []key.Binding {
	var keys []key.Binding
	switch m.state {
	case constants.SessionHome:
		keys = append(keys, m.homeModel.Keys().Open, m.keys.Left, m.keys.Right, m.keys.Stats)
	case constants.SessionWorkout:
		wk := m.workoutModel.Keys()
		keys = append(keys, wk.Toggle, wk.Weight, wk.Finish, wk.Back)
	case constants.SessionStats:
		keys = append(keys, m.keys.Back)
	case constants.SessionError:
		keys = append(keys, m.keys.Reload)
	}
	if _, ok := m.timerModel.Active(); ok {
		tk := m.timerModel.Keys()
		keys = append(keys, tk.Toggle, tk.Skip)
	}
	return append(keys, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Left, m.keys.Right, m.keys.Stats, m.keys.Theme, m.keys.Quit, m.keys.Help}
	tk := m.timerModel.Keys()
	timerKeys := []key.Binding{tk.Toggle, tk.Plus, tk.Minus, tk.Reset, tk.Skip}

	var actions []key.Binding
	switch m.state {
	case constants.SessionHome:
		actions = []key.Binding{m.homeModel.Keys().Open}
	case constants.SessionWorkout:
		wk := m.workoutModel.Keys()
		actions = []key.Binding{wk.Up, wk.Down, wk.Toggle, wk.Weight, wk.Heavier, wk.Lighter, wk.Finish, wk.Reset, wk.Back}
	case constants.SessionStats:
		actions = []key.Binding{m.keys.Back}
	case constants.SessionError:
		actions = []key.Binding{m.keys.Reload}
	}
	return [][]key.Binding{global, actions, timerKeys}
}

// loadWeek switches to week n and rebuilds the day cards
func (m *Model) loadWeek(n int) error {
	week, err := m.ctx.Program.Week(n)
	if err != nil {
		return fmt.Errorf("failed to load week %d: %w", n, err)
	}

	items := make([]home.Item, 0, len(week.Days))
	for _, w := range week.Days {
		s, err := m.ctx.OpenSession(n, w.Day)
		if err != nil {
			return err
		}
		done, total := s.Progress()
		items = append(items, home.Item{Workout: w, Done: done, Total: total})
	}

	m.week = week
	m.homeModel.SetItems(items)
	m.homeModel.Select(m.day)
	m.ctx.Store.SaveNavigationState(n, m.day)
	return nil
}

// openWorkout shows the workout of day in the current week
func (m *Model) openWorkout(day string) error {
	s, err := m.ctx.OpenSession(m.week.Number, day)
	if err != nil {
		return err
	}
	m.day = day
	m.ctx.Store.SaveNavigationState(m.week.Number, day)
	m.workoutModel.SetSession(s)
	m.state = constants.SessionWorkout
	return nil
}

// leaveWorkout stops every countdown and returns to the day cards
func (m *Model) leaveWorkout() {
	m.stopTimers()
	m.state = constants.SessionHome
	if err := m.loadWeek(m.week.Number); err != nil {
		m.fail(err)
	}
}

func (m *Model) stopTimers() {
	for id, cancel := range m.pendingStarts {
		cancel()
		delete(m.pendingStarts, id)
	}
	m.ctx.Timers.StopAll()
}

// fail replaces the current view with the error panel
func (m *Model) fail(err error) {
	logger.Error("view failed", "state", m.state, "error", err)
	m.err = err
	if m.state != constants.SessionError {
		m.previousState = m.state
	}
	m.state = constants.SessionError
}

// startRest starts or cancels the countdown that follows a set
func (m *Model) startRest(s *session.Session, ex models.Exercise, set int, checked bool) {
	settings := m.ctx.Store.LoadSettings()

	if ex.Superset != "" {
		g := m.supersetGroup(s, ex, set)
		switch {
		case checked && settings.AutoStartTimer && !g.Checked(ex.ID):
			g.Toggle(ex.ID)
		case !checked && g.Checked(ex.ID):
			g.Toggle(ex.ID)
		}
		return
	}

	id := session.TimerID(ex)
	if cancel, ok := m.pendingStarts[id]; ok {
		cancel()
		delete(m.pendingStarts, id)
	}
	if !checked || !settings.AutoStartTimer {
		return
	}

	label := fmt.Sprintf("%s · set %d", ex.Name, set+1)
	cancel, err := m.ctx.Timers.AutoStart(id, s.RestFor(ex, set), label, set)
	if err != nil {
		m.status = fmt.Sprintf("Timer not started: %v", err)
		return
	}
	m.pendingStarts[id] = cancel
}

// supersetGroup returns the shared timer of a superset in this workout
func (m *Model) supersetGroup(s *session.Session, ex models.Exercise, set int) *timer.Group {
	members := s.Workout().SupersetMembers(ex.Superset)
	ids := make([]string, len(members))
	for i, member := range members {
		ids[i] = member.ID
	}
	return m.ctx.Timers.Group(timer.GroupConfig{
		ID:      fmt.Sprintf("%s-w%d-%s", session.TimerID(ex), s.Week(), s.Day()),
		Members: ids,
		Rest:    s.RestFor(ex, set),
		Label:   fmt.Sprintf("Superset %s", ex.Superset),
	})
}

func (m *Model) applyTheme(theme Theme) {
	m.theme = theme
	m.timerModel.SetStyles(theme.Timer)
	m.workoutModel.SetStyles(theme.Workout)
}
