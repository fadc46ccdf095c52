package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/logger"
	"github.com/julianstephens/hybridmaster/internal/models"
)

const (
	KeyNavigation = "navigation"
	KeyHistory    = "history"
	KeyTimer      = "timer"
	KeySettings   = "settings"
)

// ProgressKey is the key of the completed sets of one exercise on one day
func ProgressKey(week int, day, exerciseID string) string {
	return fmt.Sprintf("progress_w%d_%s_%s", week, day, exerciseID)
}

// WeightsKey is the key of the custom weights of one exercise on one day
func WeightsKey(week int, day, exerciseID string) string {
	return fmt.Sprintf("weights_w%d_%s_%s", week, day, exerciseID)
}

// SessionKey is the key of the start time of a day's session
func SessionKey(week int, day string) string {
	return fmt.Sprintf("session_w%d_%s", week, day)
}

// CheckKey is the key of a single set checkbox flag
func CheckKey(setID string) string {
	return "check_" + setID
}

// StatKey is the key of a per-set numeric value (reps, weight, rpe...)
func StatKey(exerciseID string, set int, stat string) string {
	return fmt.Sprintf("workout_%s_%d_%s", exerciseID, set, stat)
}

// ClampWeek bounds a week number to the program length
func ClampWeek(week int) int {
	return min(max(week, 1), constants.TotalWeeks)
}

// SaveNavigationState records the week and day being viewed
func (s *Store) SaveNavigationState(week int, day string) bool {
	if day == "" {
		day = constants.DaySunday
	}
	return s.Save(KeyNavigation, models.NavigationState{Week: ClampWeek(week), Day: day})
}

// LoadNavigationState returns the last navigation, week 1 sunday by default
func (s *Store) LoadNavigationState() models.NavigationState {
	nav := Load(s, KeyNavigation, models.NavigationState{Week: 1, Day: constants.DaySunday})
	nav.Week = ClampWeek(nav.Week)
	if nav.Day == "" {
		nav.Day = constants.DaySunday
	}
	return nav
}

// SaveCompletedSets records the checked set indices of an exercise
func (s *Store) SaveCompletedSets(week int, day, exerciseID string, sets []int) bool {
	if sets == nil {
		sets = []int{}
	}
	return s.Save(ProgressKey(week, day, exerciseID), models.ExerciseProgress{
		CompletedSets: sets,
		LastUpdate:    s.nowMillis(),
	})
}

// LoadExerciseProgress returns the progress record and whether one exists
func (s *Store) LoadExerciseProgress(week int, day, exerciseID string) (models.ExerciseProgress, bool) {
	key := ProgressKey(week, day, exerciseID)
	p := Load[*models.ExerciseProgress](s, key, nil)
	if p == nil {
		return models.ExerciseProgress{CompletedSets: []int{}}, false
	}
	if p.CompletedSets == nil {
		p.CompletedSets = []int{}
	}
	return *p, true
}

// LoadCompletedSets returns the checked set indices, empty when none
func (s *Store) LoadCompletedSets(week int, day, exerciseID string) []int {
	p, _ := s.LoadExerciseProgress(week, day, exerciseID)
	return p.CompletedSets
}

// SaveCustomWeights records per-set weight overrides of an exercise
func (s *Store) SaveCustomWeights(week int, day, exerciseID string, weights []float64) bool {
	return s.Save(WeightsKey(week, day, exerciseID), models.CustomWeights{
		Weights:    weights,
		LastUpdate: s.nowMillis(),
	})
}

// LoadCustomWeights returns the overrides and whether any were saved
func (s *Store) LoadCustomWeights(week int, day, exerciseID string) (models.CustomWeights, bool) {
	w := Load[*models.CustomWeights](s, WeightsKey(week, day, exerciseID), nil)
	if w == nil {
		return models.CustomWeights{}, false
	}
	return *w, true
}

// ResetWorkout removes progress and weight overrides for the given exercises
func (s *Store) ResetWorkout(week int, day string, exerciseIDs []string) bool {
	ok := true
	for _, id := range exerciseIDs {
		ok = s.Remove(ProgressKey(week, day, id)) && ok
		ok = s.Remove(WeightsKey(week, day, id)) && ok
	}
	return ok
}

// SaveSessionStart records when a day's session began
func (s *Store) SaveSessionStart(week int, day string, at time.Time) bool {
	return s.Save(SessionKey(week, day), at.UnixMilli())
}

// LoadSessionStart returns when a day's session began, if it has
func (s *Store) LoadSessionStart(week int, day string) (time.Time, bool) {
	ms := Load[int64](s, SessionKey(week, day), 0)
	if ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// ClearSessionStart forgets a day's session start
func (s *Store) ClearSessionStart(week int, day string) bool {
	return s.Remove(SessionKey(week, day))
}

// SaveTimerState persists the rest timer, stamping it with the current time
func (s *Store) SaveTimerState(state models.TimerState) bool {
	state.Timestamp = s.nowMillis()
	return s.Save(KeyTimer, state)
}

// LoadTimerState returns the persisted timer, or nil when there is none or
// it was saved more than an hour ago.
func (s *Store) LoadTimerState() *models.TimerState {
	state := Load[*models.TimerState](s, KeyTimer, nil)
	if state == nil || state.Duration <= 0 {
		return nil
	}
	age := s.now().Sub(time.UnixMilli(state.Timestamp))
	if age > constants.TimerStaleAfter {
		logger.Debug("discarding stale timer state", "age", age)
		return nil
	}
	return state
}

// ClearTimerState forgets the persisted timer
func (s *Store) ClearTimerState() bool {
	return s.Remove(KeyTimer)
}

// SaveHistory replaces the whole session history
func (s *Store) SaveHistory(h models.History) bool {
	return s.Save(KeyHistory, h)
}

// LoadHistory returns the session history, never nil
func (s *Store) LoadHistory() models.History {
	h := Load[models.History](s, KeyHistory, nil)
	if h == nil {
		return models.History{}
	}
	return h
}

// RecordSession stores one day's session in the history
func (s *Store) RecordSession(week int, day string, session models.DaySession) bool {
	h := s.LoadHistory()
	h.Put(week, day, session)
	return s.SaveHistory(h)
}

// SaveSettings stores user preferences
func (s *Store) SaveSettings(settings models.Settings) bool {
	return s.Save(KeySettings, models.SettingsToMap(settings))
}

// LoadSettings returns stored preferences merged over the defaults
func (s *Store) LoadSettings() models.Settings {
	data := Load[map[string]string](s, KeySettings, nil)
	settings, err := models.MapToSettings(data)
	if err != nil {
		logger.Warn("invalid stored settings, using defaults", "error", err)
		return models.DefaultSettings()
	}
	return settings
}

// SaveSetFlag stores a per-set checkbox flag
func (s *Store) SaveSetFlag(setID string, checked bool) bool {
	return s.Save(CheckKey(setID), checked)
}

// LoadSetFlag returns a per-set checkbox flag, false by default
func (s *Store) LoadSetFlag(setID string) bool {
	return Load(s, CheckKey(setID), false)
}

// SaveSetStat stores a per-set numeric value
func (s *Store) SaveSetStat(exerciseID string, set int, stat string, value float64) bool {
	return s.Save(StatKey(exerciseID, set, stat), value)
}

// LoadSetStat returns a per-set numeric value and whether it was stored
func (s *Store) LoadSetStat(exerciseID string, set int, stat string) (float64, bool) {
	v := Load[*float64](s, StatKey(exerciseID, set, stat), nil)
	if v == nil {
		return 0, false
	}
	return *v, true
}
