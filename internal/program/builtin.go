package program

import (
	"math"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/models"
)

// BuiltinName identifies the generated program
const BuiltinName = "Hybrid Master 61"

type template struct {
	id          string
	name        string
	muscleGroup string
	muscles     []string
	weight      float64
	sets        int
	reps        int
	rest        int
	tempo       string
	superset    string
	pyramid     bool
	notes       string
}

type dayTemplate struct {
	day       string
	name      string
	location  string
	exercises []template
}

var schedule = []dayTemplate{
	{
		day: constants.DaySunday, name: "Lower Body Strength", location: "Gym",
		exercises: []template{
			{id: "squat", name: "Squat", muscleGroup: "Legs", muscles: []string{"quads", "glutes"}, weight: 100, sets: 4, reps: 8, rest: 120, tempo: "3-1-1"},
			{id: "romanian-deadlift", name: "Romanian Deadlift", muscleGroup: "Legs", muscles: []string{"hamstrings", "glutes"}, weight: 80, sets: 3, reps: 10, rest: 90, tempo: "3-0-1"},
			{id: "walking-lunge", name: "Walking Lunge", muscleGroup: "Legs", muscles: []string{"quads", "glutes"}, weight: 20, sets: 3, reps: 12, rest: 90, superset: "A"},
			{id: "leg-curl", name: "Leg Curl", muscleGroup: "Legs", muscles: []string{"hamstrings"}, weight: 40, sets: 3, reps: 12, rest: 90, superset: "A"},
			{id: "calf-raise", name: "Calf Raise", muscleGroup: "Legs", muscles: []string{"calves"}, weight: 60, sets: 4, reps: 15, rest: 60},
		},
	},
	{
		day: constants.DayTuesday, name: "Upper Body Push & Pull", location: "Gym",
		exercises: []template{
			{id: "bench-press", name: "Bench Press", muscleGroup: "Chest", muscles: []string{"pecs", "triceps"}, weight: 80, reps: 6, rest: 90, pyramid: true, notes: "Pyramid: add weight every set"},
			{id: "barbell-row", name: "Barbell Row", muscleGroup: "Back", muscles: []string{"lats", "rhomboids"}, weight: 70, sets: 4, reps: 8, rest: 90, tempo: "2-1-1"},
			{id: "overhead-press", name: "Overhead Press", muscleGroup: "Shoulders", muscles: []string{"delts", "triceps"}, weight: 45, sets: 3, reps: 10, rest: 90, superset: "B"},
			{id: "pull-up", name: "Pull-Up", muscleGroup: "Back", muscles: []string{"lats", "biceps"}, sets: 3, reps: 8, rest: 90, superset: "B"},
			{id: "face-pull", name: "Face Pull", muscleGroup: "Shoulders", muscles: []string{"rear delts"}, weight: 20, sets: 3, reps: 15, rest: 60},
		},
	},
	{
		day: constants.DayFriday, name: "Deadlift & Arms", location: "Gym",
		exercises: []template{
			{id: "deadlift", name: "Deadlift", muscleGroup: "Back", muscles: []string{"erectors", "glutes", "hamstrings"}, weight: 120, sets: 4, reps: 6, rest: 150},
			{id: "incline-dumbbell-press", name: "Incline Dumbbell Press", muscleGroup: "Chest", muscles: []string{"upper pecs"}, weight: 28, sets: 3, reps: 10, rest: 90},
			{id: "biceps-curl", name: "Biceps Curl", muscleGroup: "Arms", muscles: []string{"biceps"}, weight: 14, sets: 3, reps: 12, rest: 60, superset: "C"},
			{id: "triceps-extension", name: "Triceps Extension", muscleGroup: "Arms", muscles: []string{"triceps"}, weight: 20, sets: 3, reps: 12, rest: 60, superset: "C"},
			{id: "hanging-leg-raise", name: "Hanging Leg Raise", muscleGroup: "Core", muscles: []string{"abs"}, sets: 3, reps: 15, rest: 60},
		},
	},
	{
		day: constants.DayHome, name: "Home Conditioning", location: "Home",
		exercises: []template{
			{id: "push-up", name: "Push-Up", muscleGroup: "Chest", muscles: []string{"pecs", "triceps"}, sets: 4, reps: 20, rest: 60},
			{id: "goblet-squat", name: "Goblet Squat", muscleGroup: "Legs", muscles: []string{"quads"}, weight: 24, sets: 4, reps: 15, rest: 60},
			{id: "mountain-climber", name: "Mountain Climber", muscleGroup: "Core", muscles: []string{"abs", "hip flexors"}, sets: 3, reps: 30, rest: 60, superset: "D"},
			{id: "burpee", name: "Burpee", muscleGroup: "Full Body", sets: 3, reps: 12, rest: 60, superset: "D"},
			{id: "band-row", name: "Band Row", muscleGroup: "Back", muscles: []string{"rhomboids"}, sets: 3, reps: 20, rest: 45},
		},
	},
}

var techniques = map[int]string{
	1: "Foundation",
	2: "Rest-Pause",
	3: "Drop Sets",
	4: "Tempo & Supersets",
	5: "Peak",
}

// IsDeloadWeek reports the planned reduced intensity weeks: the end of every
// block and the final week.
func IsDeloadWeek(week int) bool {
	return week%constants.BlockLength == 0 || week == constants.TotalWeeks
}

// BlockOf returns the 1-based training block of a week
func BlockOf(week int) int {
	return (week-1)/constants.BlockLength + 1
}

// Builtin generates the 26 week program: +2.5% load per week on top of the
// week 1 numbers, deload weeks at 60% with one set less.
func Builtin() *Program {
	weeks := make([]models.Week, 0, constants.TotalWeeks)
	for n := 1; n <= constants.TotalWeeks; n++ {
		weeks = append(weeks, buildWeek(n))
	}
	return New(BuiltinName, weeks)
}

func buildWeek(n int) models.Week {
	deload := IsDeloadWeek(n)
	block := BlockOf(n)
	technique := techniques[block]
	if deload {
		technique = "Deload"
	}

	week := models.Week{Number: n, Block: block, Technique: technique, IsDeload: deload}
	for _, dt := range schedule {
		workout := models.Workout{Day: dt.day, Name: dt.name, Location: dt.location}
		for _, t := range dt.exercises {
			workout.Exercises = append(workout.Exercises, buildExercise(t, n, block, deload))
		}
		week.Days = append(week.Days, workout)
	}
	return week
}

func buildExercise(t template, week, block int, deload bool) models.Exercise {
	factor := 1 + 0.025*float64(week-1)
	if deload {
		factor *= 0.6
	}
	weight := roundToPlate(t.weight * factor)

	ex := models.Exercise{
		ID:          t.id,
		Name:        t.name,
		Tempo:       t.tempo,
		RPE:         rpeFor(block, deload),
		MuscleGroup: t.muscleGroup,
		Muscles:     t.muscles,
		Notes:       t.notes,
		Superset:    t.superset,
	}

	if t.pyramid {
		ramp := []struct {
			reps   int
			factor float64
		}{{t.reps + 6, 0.85}, {t.reps + 4, 0.9}, {t.reps + 2, 0.95}, {t.reps, 1}}
		if deload {
			ramp = ramp[:3]
		}
		sets := make([]models.SetSpec, 0, len(ramp))
		for _, r := range ramp {
			sets = append(sets, models.SetSpec{Reps: r.reps, Weight: roundToPlate(weight * r.factor), Rest: t.rest})
		}
		ex.Sets = models.PerSet{Sets: sets}
		return ex
	}

	sets := t.sets
	if deload && sets > 2 {
		sets--
	}
	ex.Sets = models.Fixed{Sets: sets, Reps: t.reps, Weight: weight, Rest: t.rest}
	return ex
}

func rpeFor(block int, deload bool) string {
	switch {
	case deload:
		return "6"
	case block == 1:
		return "7"
	case block <= 3:
		return "8"
	default:
		return "9"
	}
}

func roundToPlate(kg float64) float64 {
	return math.Round(kg/constants.WeightStep) * constants.WeightStep
}
