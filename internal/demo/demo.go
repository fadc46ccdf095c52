package demo

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/models"
	"github.com/julianstephens/hybridmaster/internal/program"
)

// ErrNotSaved is returned when the seeded history cannot be written
var ErrNotSaved = errors.New("demo history could not be saved")

// Config selects the weeks to fill with generated sessions
type Config struct {
	FromWeek int
	ToWeek   int
	Seed     int64
	// Start is the date of the first session of week 1
	Start time.Time
}

// DefaultConfig fills the last three weeks of the program
func DefaultConfig() Config {
	return Config{
		FromWeek: constants.TotalWeeks - 2,
		ToWeek:   constants.TotalWeeks,
		Seed:     1,
		Start:    time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
	}
}

// HistoryStore is the part of the store demo seeding writes through
type HistoryStore interface {
	LoadHistory() models.History
	SaveHistory(models.History) bool
}

// Generate builds completed sessions for the tracked days of the configured
// weeks from the program's prescriptions, with seeded variation in reps,
// RPE and duration.
func Generate(provider program.Provider, cfg Config) (models.History, error) {
	if cfg.FromWeek < 1 || cfg.ToWeek > constants.TotalWeeks || cfg.FromWeek > cfg.ToWeek {
		return nil, fmt.Errorf("invalid week range %d-%d", cfg.FromWeek, cfg.ToWeek)
	}

	faker := gofakeit.New(cfg.Seed)
	history := models.History{}
	for week := cfg.FromWeek; week <= cfg.ToWeek; week++ {
		for offset, day := range constants.TrackedDays {
			workout, err := provider.Workout(week, day)
			if err != nil {
				return nil, err
			}
			date := cfg.Start.AddDate(0, 0, (week-1)*7+offset*2)
			history.Put(week, day, session(faker, workout, date))
		}
	}
	return history, nil
}

func session(faker *gofakeit.Faker, workout models.Workout, date time.Time) models.DaySession {
	s := models.DaySession{
		Completed: true,
		Duration:  float64(faker.Number(40, 75)),
		Date:      date.Format(constants.DateFormat),
		SessionID: faker.UUID(),
	}

	logs := make([]models.ExerciseLog, 0, len(workout.Exercises))
	for _, ex := range workout.Exercises {
		if ex.SetCount() == 0 {
			continue
		}
		rpe := math.Round(faker.Float64Range(6, 9.5)*2) / 2
		log := models.ExerciseLog{Name: ex.Name, MuscleGroup: ex.MuscleGroup, RPE: &rpe}
		for i := 0; i < ex.Sets.Count(); i++ {
			spec := ex.Sets.Set(i)
			reps := max(1, spec.Reps+faker.Number(-2, 1))
			log.Sets++
			log.Volume += spec.Weight * float64(reps)
			if log.Sets == 1 || spec.Weight > log.Weight || (spec.Weight == log.Weight && reps > log.Reps) {
				log.Weight = spec.Weight
				log.Reps = reps
			}
		}
		logs = append(logs, log)
	}
	s.SetExercises(logs)
	return s
}

// Seed merges generated sessions into the stored history, replacing any
// session already recorded for the same week and day.
func Seed(store HistoryStore, provider program.Provider, cfg Config) (int, error) {
	generated, err := Generate(provider, cfg)
	if err != nil {
		return 0, err
	}

	history := store.LoadHistory()
	count := 0
	for week := cfg.FromWeek; week <= cfg.ToWeek; week++ {
		for day, s := range generated.Week(week) {
			history.Put(week, day, s)
			count++
		}
	}
	if !store.SaveHistory(history) {
		return 0, ErrNotSaved
	}
	return count, nil
}
