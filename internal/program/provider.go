package program

import (
	"errors"
	"fmt"

	"github.com/julianstephens/hybridmaster/internal/models"
)

// ErrNotFound is returned for a week or day the program does not define
var ErrNotFound = errors.New("not found")

// Provider supplies immutable program definitions
type Provider interface {
	Week(n int) (models.Week, error)
	Workout(week int, day string) (models.Workout, error)
	Weeks() int
	Days() []string
}

// Program is an in-memory Provider built from generated or parsed weeks
type Program struct {
	name  string
	weeks []models.Week
}

// New builds a Program from weeks sorted by number
func New(name string, weeks []models.Week) *Program {
	return &Program{name: name, weeks: weeks}
}

func (p *Program) Name() string {
	return p.name
}

func (p *Program) Week(n int) (models.Week, error) {
	for _, w := range p.weeks {
		if w.Number == n {
			return w, nil
		}
	}
	return models.Week{}, fmt.Errorf("week %d: %w", n, ErrNotFound)
}

func (p *Program) Workout(week int, day string) (models.Workout, error) {
	w, err := p.Week(week)
	if err != nil {
		return models.Workout{}, err
	}
	workout, ok := w.Workout(day)
	if !ok {
		return models.Workout{}, fmt.Errorf("week %d %s: %w", week, day, ErrNotFound)
	}
	return workout, nil
}

func (p *Program) Weeks() int {
	return len(p.weeks)
}

// AllWeeks exposes every week for validation and export
func (p *Program) AllWeeks() []models.Week {
	return p.weeks
}

// Days returns the day keys of the first week in program order
func (p *Program) Days() []string {
	if len(p.weeks) == 0 {
		return nil
	}
	days := make([]string, 0, len(p.weeks[0].Days))
	for _, d := range p.weeks[0].Days {
		days = append(days, d.Day)
	}
	return days
}
