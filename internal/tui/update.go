package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/stats"
	"github.com/julianstephens/hybridmaster/internal/storage"
	"github.com/julianstephens/hybridmaster/internal/tui/components/resttimer"
	"github.com/julianstephens/hybridmaster/internal/tui/components/workout"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The countdown keeps repainting under forms and dialogs
	if _, ok := msg.(resttimer.TickMsg); ok {
		return m, resttimer.Tick()
	}

	switch m.state {
	case constants.SessionWeightForm:
		return m.updateWeightForm(msg)
	case constants.SessionConfirm:
		return m.updateConfirmation(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Leave room for the header, timer and help
		listHeight := msg.Height - 10

		h, v := m.theme.Doc.GetFrameSize()
		m.homeModel.SetSize(msg.Width-h, listHeight-v)
		m.workoutModel.SetSize(msg.Width, listHeight)
		m.statsModel.SetSize(msg.Width-h, listHeight-v)
		m.timerModel.SetWidth(msg.Width)
		return m, nil

	case errMsg:
		m.fail(msg.err)
		return m, nil

	case ReloadMsg:
		return m.reload(), nil

	case WeekChangedMsg:
		return m.changeWeek(msg.Week), nil

	case DaySelectedMsg:
		if err := m.openWorkout(msg.Day); err != nil {
			m.fail(err)
		}
		m.status = ""
		return m, nil

	case SetCompletedMsg:
		s := m.workoutModel.Session()
		if s == nil {
			return m, nil
		}
		checked, err := s.ToggleSet(msg.ExerciseID, msg.Set)
		if err != nil {
			m.status = fmt.Sprintf("Could not update set: %v", err)
			return m, nil
		}
		ex, _ := s.Workout().Exercise(msg.ExerciseID)
		m.startRest(s, ex, msg.Set, checked)
		return m, nil

	case workout.EditWeightMsg:
		s := m.workoutModel.Session()
		if s == nil {
			return m, nil
		}
		spec, err := s.EffectiveSet(msg.ExerciseID, msg.Set)
		if err != nil {
			m.status = fmt.Sprintf("Could not edit weight: %v", err)
			return m, nil
		}
		ex, _ := s.Workout().Exercise(msg.ExerciseID)
		m.weightForm = &WeightFormModel{
			ExerciseID: msg.ExerciseID,
			Set:        msg.Set,
			Value:      fmt.Sprintf("%g", spec.Weight),
		}
		m.form = newWeightForm(m.weightForm, ex.Name)
		m.previousState = m.state
		m.state = constants.SessionWeightForm
		return m, m.form.Init()

	case workout.AdjustWeightMsg:
		if s := m.workoutModel.Session(); s != nil {
			if _, err := s.AdjustWeight(msg.ExerciseID, msg.Set, msg.Steps); err != nil {
				m.status = fmt.Sprintf("Could not change weight: %v", err)
			}
		}
		return m, nil

	case workout.FinishMsg:
		return m.finishWorkout(), nil

	case workout.ResetMsg:
		s := m.workoutModel.Session()
		if s == nil {
			return m, nil
		}
		return m, func() tea.Msg {
			return constants.ConfirmationMsg{
				Message: fmt.Sprintf("Reset every set of %s?", s.Workout().Name),
				Action: func() tea.Cmd {
					m.stopTimers()
					if !s.Reset() {
						return func() tea.Msg { return errMsg{fmt.Errorf("failed to reset %s", s.Workout().Name)} }
					}
					return nil
				},
			}
		}

	case constants.ConfirmationMsg:
		m.confirmForm = &ConfirmationFormModel{Message: msg.Message}
		m.pendingAction = msg.Action
		m.form = newConfirmationForm(m.confirmForm)
		m.previousState = m.state
		m.state = constants.SessionConfirm
		return m, m.form.Init()

	case BackMsg:
		m.leaveWorkout()
		return m, nil

	case ShowStatsMsg:
		m.statsModel.Refresh()
		m.state = constants.SessionStats
		return m, nil

	case ThemeToggledMsg:
		settings := m.ctx.Store.LoadSettings()
		settings.Theme = msg.Theme
		if !m.ctx.Store.SaveSettings(settings) {
			m.status = "Theme not saved: storage unavailable"
		}
		m.applyTheme(ThemeFor(msg.Theme))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateView(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.state == constants.SessionError {
		if key.Matches(msg, m.keys.Reload) {
			return m, func() tea.Msg { return ReloadMsg{} }
		}
		return m, nil
	}

	if m.timerModel.HandleKey(msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Theme):
		next := constants.ThemeLight
		if m.theme.Name == constants.ThemeLight {
			next = constants.ThemeDark
		}
		return m, func() tea.Msg { return ThemeToggledMsg{Theme: next} }
	case key.Matches(msg, m.keys.Left) && m.state != constants.SessionStats:
		week := m.week.Number - 1
		return m, func() tea.Msg { return WeekChangedMsg{Week: week} }
	case key.Matches(msg, m.keys.Right) && m.state != constants.SessionStats:
		week := m.week.Number + 1
		return m, func() tea.Msg { return WeekChangedMsg{Week: week} }
	case key.Matches(msg, m.keys.Stats) && m.state == constants.SessionHome:
		return m, func() tea.Msg { return ShowStatsMsg{} }
	case key.Matches(msg, m.keys.Back) && m.state == constants.SessionStats:
		m.state = constants.SessionHome
		return m, nil
	}

	return m.updateView(msg)
}

// updateView forwards a message to the component of the current view
func (m Model) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case constants.SessionHome:
		m.homeModel, cmd = m.homeModel.Update(msg)
	case constants.SessionWorkout:
		m.workoutModel, cmd = m.workoutModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateWeightForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		kg, err := cli.ParseWeight(m.weightForm.Value)
		if err == nil {
			if s := m.workoutModel.Session(); s != nil {
				err = s.SetWeight(m.weightForm.ExerciseID, m.weightForm.Set, kg)
			}
		}
		if err != nil {
			m.status = fmt.Sprintf("Weight not saved: %v", err)
		}
		m.weightForm = nil
		m.state = m.previousState
	case huh.StateAborted:
		m.weightForm = nil
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirmation(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.pendingAction = nil
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if m.confirmForm.Confirmed && m.pendingAction != nil {
			cmds = append(cmds, m.pendingAction())
		}
		m.pendingAction = nil
		m.state = m.previousState
	case huh.StateAborted:
		m.pendingAction = nil
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

// changeWeek moves to another week, reopening the same day when a workout is shown
func (m Model) changeWeek(n int) Model {
	n = storage.ClampWeek(n)
	if n == m.week.Number {
		return m
	}

	inWorkout := m.state == constants.SessionWorkout
	if inWorkout {
		m.stopTimers()
	}
	if err := m.loadWeek(n); err != nil {
		m.fail(err)
		return m
	}
	if inWorkout {
		if err := m.openWorkout(m.day); err != nil {
			m.fail(err)
		}
	}
	return m
}

func (m Model) finishWorkout() Model {
	s := m.workoutModel.Session()
	if s == nil {
		return m
	}
	if done, _ := s.Progress(); done == 0 {
		m.status = "Check at least one set before finishing."
		return m
	}

	summary, err := s.Finish()
	if err != nil {
		m.status = fmt.Sprintf("Session not saved: %v", err)
		return m
	}
	m.status = fmt.Sprintf("✓ Session recorded: %d sets · %s · %.0f min",
		summary.TotalSets, stats.FormatVolume(summary.Volume), summary.Duration)
	m.leaveWorkout()
	return m
}

// reload retries the view that failed
func (m Model) reload() Model {
	if err := m.loadWeek(m.ctx.ResolveWeek(m.week.Number)); err != nil {
		m.fail(err)
		return m
	}
	m.err = nil
	m.state = constants.SessionHome
	if m.previousState == constants.SessionWorkout {
		if err := m.openWorkout(m.day); err != nil {
			m.fail(err)
		}
	}
	return m
}
