package session

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/logger"
	"github.com/julianstephens/hybridmaster/internal/models"
	"github.com/julianstephens/hybridmaster/internal/program"
	"github.com/julianstephens/hybridmaster/internal/storage"
)

var (
	ErrUnknownExercise = errors.New("unknown exercise")
	ErrSetOutOfRange   = errors.New("set index out of range")
	ErrInvalidWeight   = errors.New("weight must not be negative")
	ErrNotSaved        = errors.New("session could not be saved")
)

const (
	fallbackRest         = 60
	fallbackSupersetRest = 90
)

// Summary describes a finished session
type Summary struct {
	Duration           float64 `json:"duration"` // minutes
	CompletedExercises int     `json:"completedExercises"`
	TotalSets          int     `json:"totalSets"`
	Volume             float64 `json:"volume"`
	SessionID          string  `json:"sessionId"`
}

// Session is the working state of one (week, day) workout: checked sets,
// weight overrides and the start time, all persisted through the store.
type Session struct {
	store    *storage.Store
	week     int
	day      string
	workout  models.Workout
	settings models.Settings
	now      func() time.Time
}

// Option configures a Session
type Option func(*Session)

// WithClock overrides the clock used for start times and dates
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithSettings overrides the settings loaded from the store
func WithSettings(settings models.Settings) Option {
	return func(s *Session) { s.settings = settings }
}

// New opens the session for a week and day. A workout the program does not
// define is an error wrapping program.ErrNotFound.
func New(store *storage.Store, provider program.Provider, week int, day string, opts ...Option) (*Session, error) {
	week = storage.ClampWeek(week)
	workout, err := provider.Workout(week, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load workout: %w", err)
	}

	s := &Session{
		store:    store,
		week:     week,
		day:      day,
		workout:  workout,
		settings: store.LoadSettings(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Session) Week() int {
	return s.week
}

func (s *Session) Day() string {
	return s.day
}

func (s *Session) Workout() models.Workout {
	return s.workout
}

// ToggleSet flips a set's checkbox and returns its new state. The first
// checked set starts the session clock.
func (s *Session) ToggleSet(exerciseID string, setIndex int) (bool, error) {
	if _, err := s.set(exerciseID, setIndex); err != nil {
		return false, err
	}

	progress, _ := s.store.LoadExerciseProgress(s.week, s.day, exerciseID)
	checked := progress.Toggle(setIndex)
	s.store.SaveCompletedSets(s.week, s.day, exerciseID, progress.CompletedSets)

	if checked {
		if _, started := s.StartedAt(); !started {
			s.store.SaveSessionStart(s.week, s.day, s.now())
		}
	}
	logger.Debug("set toggled", "week", s.week, "day", s.day, "exercise", exerciseID, "set", setIndex, "checked", checked)
	return checked, nil
}

// IsCompleted reports whether a set is checked
func (s *Session) IsCompleted(exerciseID string, setIndex int) bool {
	progress, _ := s.store.LoadExerciseProgress(s.week, s.day, exerciseID)
	return progress.Has(setIndex)
}

// CompletedSets returns the checked set indices of an exercise, sorted
func (s *Session) CompletedSets(exerciseID string) []int {
	return s.store.LoadCompletedSets(s.week, s.day, exerciseID)
}

// CompletedCount returns the number of checked sets of an exercise
func (s *Session) CompletedCount(exerciseID string) int {
	return len(s.CompletedSets(exerciseID))
}

// ExerciseDone reports whether every set of an exercise is checked
func (s *Session) ExerciseDone(ex models.Exercise) bool {
	return ex.SetCount() > 0 && s.CompletedCount(ex.ID) >= ex.SetCount()
}

// Progress returns checked and total sets of the whole workout
func (s *Session) Progress() (done, total int) {
	for _, ex := range s.workout.Exercises {
		total += ex.SetCount()
		done += min(s.CompletedCount(ex.ID), ex.SetCount())
	}
	return done, total
}

// StartedAt returns when the first set was checked
func (s *Session) StartedAt() (time.Time, bool) {
	return s.store.LoadSessionStart(s.week, s.day)
}

// EffectiveSet returns the prescribed set with any weight override applied
func (s *Session) EffectiveSet(exerciseID string, setIndex int) (models.SetSpec, error) {
	spec, err := s.set(exerciseID, setIndex)
	if err != nil {
		return models.SetSpec{}, err
	}
	weights, _ := s.store.LoadCustomWeights(s.week, s.day, exerciseID)
	if kg, ok := weights.For(setIndex); ok {
		spec.Weight = kg
	}
	return spec, nil
}

// SetWeight overrides the weight of one set
func (s *Session) SetWeight(exerciseID string, setIndex int, kg float64) error {
	if kg < 0 {
		return fmt.Errorf("%w: %.1f", ErrInvalidWeight, kg)
	}
	if _, err := s.set(exerciseID, setIndex); err != nil {
		return err
	}
	weights, _ := s.store.LoadCustomWeights(s.week, s.day, exerciseID)
	weights.Set(setIndex, kg)
	if !s.store.SaveCustomWeights(s.week, s.day, exerciseID, weights.Weights) {
		logger.Warn("weight override not persisted", "exercise", exerciseID, "set", setIndex)
	}
	return nil
}

// AdjustWeight nudges a set's weight by steps of constants.WeightStep and
// returns the new weight. The weight never goes below zero.
func (s *Session) AdjustWeight(exerciseID string, setIndex, steps int) (float64, error) {
	spec, err := s.EffectiveSet(exerciseID, setIndex)
	if err != nil {
		return 0, err
	}
	kg := max(0, spec.Weight+float64(steps)*constants.WeightStep)
	if err := s.SetWeight(exerciseID, setIndex, kg); err != nil {
		return 0, err
	}
	return kg, nil
}

// RestFor returns the rest in seconds after a set. Supersets share the
// superset rest; otherwise the set's prescription wins over the default.
func (s *Session) RestFor(ex models.Exercise, setIndex int) int {
	if ex.Superset != "" {
		if s.settings.SupersetRest > 0 {
			return s.settings.SupersetRest
		}
		return fallbackSupersetRest
	}
	if ex.Sets != nil {
		if rest := ex.Sets.Set(setIndex).Rest; rest > 0 {
			return rest
		}
	}
	if s.settings.DefaultRest > 0 {
		return s.settings.DefaultRest
	}
	return fallbackRest
}

// TimerID names the timer context of an exercise: its own, or the shared
// one of its superset.
func TimerID(ex models.Exercise) string {
	if ex.Superset != "" {
		return "superset-" + ex.Superset
	}
	return ex.ID
}

// Finish records the checked sets as the day's session in the history and
// clears the session clock.
func (s *Session) Finish() (Summary, error) {
	now := s.now()
	day := models.DaySession{
		Completed: true,
		Date:      now.Format(constants.DateFormat),
		SessionID: uuid.NewString(),
	}

	summary := Summary{SessionID: day.SessionID}
	if started, ok := s.StartedAt(); ok && now.After(started) {
		day.Duration = math.Round(now.Sub(started).Minutes()*100) / 100
	}

	var logs []models.ExerciseLog
	for _, ex := range s.workout.Exercises {
		sets := s.CompletedSets(ex.ID)
		if len(sets) == 0 {
			continue
		}
		log := models.ExerciseLog{Name: ex.Name, MuscleGroup: ex.MuscleGroup, RPE: parseRPE(ex.RPE)}
		for _, i := range sets {
			spec, err := s.EffectiveSet(ex.ID, i)
			if err != nil {
				continue
			}
			log.Sets++
			log.Volume += spec.Weight * float64(spec.Reps)
			// weight and reps describe the heaviest set
			if log.Sets == 1 || spec.Weight > log.Weight || (spec.Weight == log.Weight && spec.Reps > log.Reps) {
				log.Weight = spec.Weight
				log.Reps = spec.Reps
			}
		}
		if log.Sets == 0 {
			continue
		}
		log.Volume = math.Round(log.Volume*100) / 100
		logs = append(logs, log)
		summary.TotalSets += log.Sets
	}
	day.SetExercises(logs)

	summary.Duration = day.Duration
	summary.CompletedExercises = len(logs)
	summary.Volume = day.Volume

	if !s.store.RecordSession(s.week, s.day, day) {
		return summary, ErrNotSaved
	}
	s.store.ClearSessionStart(s.week, s.day)
	logger.Info("session finished", "week", s.week, "day", s.day, "sets", summary.TotalSets, "volume", summary.Volume)
	return summary, nil
}

// Reset clears the checked sets, weight overrides and clock of the day
func (s *Session) Reset() bool {
	ids := make([]string, 0, len(s.workout.Exercises))
	for _, ex := range s.workout.Exercises {
		ids = append(ids, ex.ID)
	}
	ok := s.store.ResetWorkout(s.week, s.day, ids)
	return s.store.ClearSessionStart(s.week, s.day) && ok
}

func (s *Session) set(exerciseID string, setIndex int) (models.SetSpec, error) {
	ex, ok := s.workout.Exercise(exerciseID)
	if !ok {
		return models.SetSpec{}, fmt.Errorf("%w: %s", ErrUnknownExercise, exerciseID)
	}
	if setIndex < 0 || setIndex >= ex.SetCount() {
		return models.SetSpec{}, fmt.Errorf("%w: %s set %d of %d", ErrSetOutOfRange, exerciseID, setIndex+1, ex.SetCount())
	}
	return ex.Sets.Set(setIndex), nil
}

// parseRPE reads prescriptions like "8" or "7-8", keeping the upper bound
func parseRPE(s string) *float64 {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "-"); i >= 0 {
		s = s[i+1:]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
