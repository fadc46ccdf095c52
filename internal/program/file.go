package program

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/hybridmaster/internal/models"
)

// rawProgram mirrors the TOML layout. Exercises accept either
// `sets = 4` with reps/weight/rest beside it, or
// `sets = [{ reps = 12, weight = 60 }, ...]`.
type rawProgram struct {
	Name  string    `toml:"name"`
	Weeks []rawWeek `toml:"weeks"`
}

type rawWeek struct {
	Number    int      `toml:"number"`
	Block     int      `toml:"block"`
	Technique string   `toml:"technique"`
	Deload    bool     `toml:"deload"`
	Days      []rawDay `toml:"days"`
}

type rawDay struct {
	Day       string        `toml:"day"`
	Name      string        `toml:"name"`
	Location  string        `toml:"location"`
	Exercises []rawExercise `toml:"exercises"`
}

type rawExercise struct {
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	Sets        any      `toml:"sets"`
	Reps        int      `toml:"reps"`
	Weight      float64  `toml:"weight"`
	Rest        int      `toml:"rest"`
	Tempo       string   `toml:"tempo"`
	RPE         string   `toml:"rpe"`
	MuscleGroup string   `toml:"muscle_group"`
	Muscles     []string `toml:"muscles"`
	Notes       string   `toml:"notes"`
	Superset    string   `toml:"superset"`
}

// LoadFile reads a custom program from a TOML file
func LoadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes a TOML program and normalizes every exercise's sets
func Parse(data string) (*Program, error) {
	var raw rawProgram
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}

	weeks := make([]models.Week, 0, len(raw.Weeks))
	for _, rw := range raw.Weeks {
		week := models.Week{
			Number:    rw.Number,
			Block:     rw.Block,
			Technique: rw.Technique,
			IsDeload:  rw.Deload,
		}
		if week.Block == 0 {
			week.Block = BlockOf(rw.Number)
		}
		for _, rd := range rw.Days {
			workout := models.Workout{Day: strings.ToLower(rd.Day), Name: rd.Name, Location: rd.Location}
			for i, re := range rd.Exercises {
				ex, err := normalizeExercise(re)
				if err != nil {
					return nil, fmt.Errorf("week %d %s exercise %d: %w", rw.Number, rd.Day, i+1, err)
				}
				workout.Exercises = append(workout.Exercises, ex)
			}
			week.Days = append(week.Days, workout)
		}
		weeks = append(weeks, week)
	}
	sort.SliceStable(weeks, func(i, j int) bool { return weeks[i].Number < weeks[j].Number })

	name := raw.Name
	if name == "" {
		name = "Custom program"
	}
	return New(name, weeks), nil
}

func normalizeExercise(re rawExercise) (models.Exercise, error) {
	if re.Name == "" {
		return models.Exercise{}, fmt.Errorf("exercise has no name")
	}
	sets, err := normalizeSets(re)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("%s: %w", re.Name, err)
	}
	id := re.ID
	if id == "" {
		id = slug(re.Name)
	}
	return models.Exercise{
		ID:          id,
		Name:        re.Name,
		Sets:        sets,
		Tempo:       re.Tempo,
		RPE:         re.RPE,
		MuscleGroup: re.MuscleGroup,
		Muscles:     re.Muscles,
		Notes:       re.Notes,
		Superset:    re.Superset,
	}, nil
}

func normalizeSets(re rawExercise) (models.SetScheme, error) {
	switch v := re.Sets.(type) {
	case int64:
		return models.Fixed{Sets: int(v), Reps: re.Reps, Weight: re.Weight, Rest: re.Rest}, nil
	case []map[string]any:
		items := make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
		return perSet(items, re)
	case []any:
		return perSet(v, re)
	case nil:
		return nil, fmt.Errorf("missing sets")
	default:
		return nil, fmt.Errorf("sets must be an integer or an array of tables, got %T", v)
	}
}

func perSet(items []any, re rawExercise) (models.SetScheme, error) {
	out := make([]models.SetSpec, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("set %d must be a table, got %T", i+1, item)
		}
		spec := models.SetSpec{Reps: re.Reps, Weight: re.Weight, Rest: re.Rest}
		if v, ok := m["reps"]; ok {
			spec.Reps = int(number(v))
		}
		if v, ok := m["weight"]; ok {
			spec.Weight = number(v)
		}
		if v, ok := m["rest"]; ok {
			spec.Rest = int(number(v))
		}
		out = append(out, spec)
	}
	return models.PerSet{Sets: out}, nil
}

func number(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
