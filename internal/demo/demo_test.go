package demo

import (
	"reflect"
	"testing"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/models"
	"github.com/julianstephens/hybridmaster/internal/program"
	"github.com/julianstephens/hybridmaster/internal/stats"
	"github.com/julianstephens/hybridmaster/internal/storage"
)

func TestGenerate(t *testing.T) {
	h, err := Generate(program.Builtin(), DefaultConfig())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(h) != 3 {
		t.Fatalf("generated %d weeks, want 3", len(h))
	}
	for week := 24; week <= 26; week++ {
		days := h.Week(week)
		if len(days) != constants.SessionsPerWeek {
			t.Errorf("week %d has %d sessions", week, len(days))
		}
		for day, s := range days {
			if !s.Completed || s.Volume <= 0 || s.Duration < 40 || s.Duration > 75 {
				t.Errorf("week %d %s: unexpected session %+v", week, day, s)
			}
			if s.Date == "" || s.SessionID == "" {
				t.Errorf("week %d %s: missing date or id", week, day)
			}
			workout, err := program.Builtin().Workout(week, day)
			if err != nil {
				t.Fatal(err)
			}
			prescribed := map[string]models.Exercise{}
			for _, ex := range workout.Exercises {
				prescribed[ex.Name] = ex
			}
			for _, log := range s.Exercises {
				if log.RPE == nil || *log.RPE < 6 || *log.RPE > 9.5 {
					t.Errorf("%s: RPE out of range", log.Name)
				}
				// reps describe one set, at most one above the prescription
				ex := prescribed[log.Name]
				limit := 0
				for j := 0; j < ex.SetCount(); j++ {
					limit = max(limit, ex.Sets.Set(j).Reps+1)
				}
				if log.Sets != ex.SetCount() || log.Reps > limit {
					t.Errorf("%s: log %+v does not match %d sets of at most %d reps", log.Name, log, ex.SetCount(), limit)
				}
			}
		}
	}

	if s, _ := h.Session(24, constants.DaySunday); s.Date != "2026-06-14" {
		t.Errorf("week 24 sunday date = %s, want 2026-06-14", s.Date)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := Generate(program.Builtin(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(program.Builtin(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should generate the same history")
	}
}

func TestGenerateInvalidRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FromWeek, cfg.ToWeek = 10, 5
	if _, err := Generate(program.Builtin(), cfg); err == nil {
		t.Error("expected error for reversed range")
	}
	cfg.FromWeek, cfg.ToWeek = 1, 40
	if _, err := Generate(program.Builtin(), cfg); err == nil {
		t.Error("expected error for week beyond the program")
	}
}

func TestSeed(t *testing.T) {
	store := storage.New(storage.NewMemoryBackend(16 * 1024 * 1024))
	store.RecordSession(1, constants.DaySunday, models.DaySession{Completed: true, Volume: 500})

	n, err := Seed(store, program.Builtin(), DefaultConfig())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if n != 9 {
		t.Errorf("seeded %d sessions, want 9", n)
	}

	engine := stats.NewFromSource(store)
	if got := engine.TotalSessions(); got != 10 {
		t.Errorf("TotalSessions() = %d, want 10", got)
	}
	if engine.VolumeGrowthRate() == 0 {
		t.Error("expected a non-zero growth rate across seeded weeks")
	}
}
