package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/models"
)

// Conflict represents one problem detected in a program
type Conflict struct {
	Type        constants.ConflictType
	Description string
	Week        int      // 0 when the conflict is program wide
	Day         string   // empty when the conflict is week wide
	Items       []string // exercise ids involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks program definitions before they are used
type Validator struct {
	totalWeeks int
}

// New creates a Validator for the standard program length
func New() *Validator {
	return &Validator{totalWeeks: constants.TotalWeeks}
}

// ValidateProgram checks week coverage and every workout of every week.
// A shorter custom program is allowed; gaps and out of range weeks are not.
func (v *Validator) ValidateProgram(weeks []models.Week) ValidationResult {
	var result ValidationResult

	seen := make(map[int]bool, len(weeks))
	maxWeek := 0
	for _, w := range weeks {
		if w.Number < 1 || w.Number > v.totalWeeks {
			result.add(Conflict{
				Type:        constants.ConflictWeekOutOfRange,
				Description: fmt.Sprintf("Week %d is outside 1..%d", w.Number, v.totalWeeks),
				Week:        w.Number,
			})
			continue
		}
		seen[w.Number] = true
		maxWeek = max(maxWeek, w.Number)
	}
	for n := 1; n <= maxWeek; n++ {
		if !seen[n] {
			result.add(Conflict{
				Type:        constants.ConflictMissingWeek,
				Description: fmt.Sprintf("Week %d is missing", n),
				Week:        n,
			})
		}
	}

	for _, w := range weeks {
		for _, d := range w.Days {
			result.Conflicts = append(result.Conflicts, v.ValidateWorkout(w.Number, d).Conflicts...)
		}
	}
	return result
}

// ValidateWorkout checks a single day
func (v *Validator) ValidateWorkout(week int, w models.Workout) ValidationResult {
	var result ValidationResult
	where := fmt.Sprintf("Week %d %s", week, w.Day)

	if len(w.Exercises) == 0 {
		result.add(Conflict{
			Type:        constants.ConflictEmptyWorkout,
			Description: where + " has no exercises",
			Week:        week,
			Day:         w.Day,
		})
		return result
	}

	ids := make(map[string]bool)
	groups := make(map[string][]string)
	var groupOrder []string
	for _, ex := range w.Exercises {
		if ids[ex.ID] {
			result.add(Conflict{
				Type:        constants.ConflictDuplicateExercise,
				Description: fmt.Sprintf("%s lists exercise %q twice", where, ex.ID),
				Week:        week, Day: w.Day, Items: []string{ex.ID},
			})
		}
		ids[ex.ID] = true

		if ex.SetCount() == 0 {
			result.add(Conflict{
				Type:        constants.ConflictNoSets,
				Description: fmt.Sprintf("%s: %s has no sets", where, ex.Name),
				Week:        week, Day: w.Day, Items: []string{ex.ID},
			})
		}
		for i := 0; i < ex.SetCount(); i++ {
			if ex.Sets.Set(i).Rest < 0 {
				result.add(Conflict{
					Type:        constants.ConflictInvalidRest,
					Description: fmt.Sprintf("%s: %s set %d has a negative rest", where, ex.Name, i+1),
					Week:        week, Day: w.Day, Items: []string{ex.ID},
				})
				break
			}
		}

		if ex.Superset != "" {
			if _, ok := groups[ex.Superset]; !ok {
				groupOrder = append(groupOrder, ex.Superset)
			}
			groups[ex.Superset] = append(groups[ex.Superset], ex.ID)
		}
	}

	for _, g := range groupOrder {
		if len(groups[g]) < 2 {
			result.add(Conflict{
				Type:        constants.ConflictLonelySuperset,
				Description: fmt.Sprintf("%s: superset %s has a single exercise", where, g),
				Week:        week, Day: w.Day, Items: groups[g],
			})
		}
	}
	return result
}
