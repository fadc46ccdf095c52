package models

// SetSpec is the prescription for a single working set.
type SetSpec struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	Rest   int     `json:"rest"`
}

// SetScheme is the normalized shape of an exercise's sets. It is either
// Fixed (count identical sets) or PerSet (one prescription per set).
type SetScheme interface {
	Count() int
	Set(i int) SetSpec
	isSetScheme()
}

// Fixed is count identical sets.
type Fixed struct {
	Sets   int
	Reps   int
	Weight float64
	Rest   int
}

func (f Fixed) Count() int { return f.Sets }

func (f Fixed) Set(i int) SetSpec {
	if i < 0 || i >= f.Sets {
		return SetSpec{}
	}
	return SetSpec{Reps: f.Reps, Weight: f.Weight, Rest: f.Rest}
}

func (Fixed) isSetScheme() {}

// PerSet prescribes every set individually (pyramids, drop sets).
type PerSet struct {
	Sets []SetSpec
}

func (p PerSet) Count() int { return len(p.Sets) }

func (p PerSet) Set(i int) SetSpec {
	if i < 0 || i >= len(p.Sets) {
		return SetSpec{}
	}
	return p.Sets[i]
}

func (PerSet) isSetScheme() {}

// Exercise is one movement of a workout.
type Exercise struct {
	ID          string
	Name        string
	Sets        SetScheme
	Tempo       string
	RPE         string
	MuscleGroup string
	Muscles     []string
	Notes       string
	// Superset groups exercises sharing one rest timer. Empty when standalone.
	Superset string
}

// SetCount is nil safe.
func (e Exercise) SetCount() int {
	if e.Sets == nil {
		return 0
	}
	return e.Sets.Count()
}

// Workout is the program for one day.
type Workout struct {
	Day       string
	Name      string
	Location  string
	Exercises []Exercise
}

// TotalSets sums the set counts of every exercise.
func (w Workout) TotalSets() int {
	total := 0
	for _, ex := range w.Exercises {
		total += ex.SetCount()
	}
	return total
}

// Exercise finds an exercise by id.
func (w Workout) Exercise(id string) (Exercise, bool) {
	for _, ex := range w.Exercises {
		if ex.ID == id {
			return ex, true
		}
	}
	return Exercise{}, false
}

// SupersetMembers returns the exercises sharing a superset group, in order.
func (w Workout) SupersetMembers(group string) []Exercise {
	if group == "" {
		return nil
	}
	var out []Exercise
	for _, ex := range w.Exercises {
		if ex.Superset == group {
			out = append(out, ex)
		}
	}
	return out
}

// Week is one week of the program.
type Week struct {
	Number    int
	Block     int
	Technique string
	IsDeload  bool
	Days      []Workout
}

// Workout returns the workout for a day key.
func (w Week) Workout(day string) (Workout, bool) {
	for _, d := range w.Days {
		if d.Day == day {
			return d, true
		}
	}
	return Workout{}, false
}
