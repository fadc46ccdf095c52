package workouts

import (
	"fmt"
	"strings"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/session"
	"github.com/julianstephens/hybridmaster/internal/timer"
)

// WeekCmd shows the day cards of a week
type WeekCmd struct {
	Week int `arg:"" optional:"" help:"Week number (1-26). Defaults to the last viewed week."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	n := ctx.ResolveWeek(c.Week)
	week, err := ctx.Program.Week(n)
	if err != nil {
		return fmt.Errorf("failed to load week: %w", err)
	}
	nav := ctx.Store.LoadNavigationState()
	ctx.Store.SaveNavigationState(n, nav.Day)

	fmt.Printf("Week %d/%d  %s\n\n", n, ctx.Program.Weeks(), cli.WeekBadges(week))
	for _, w := range week.Days {
		s, err := ctx.OpenSession(n, w.Day)
		if err != nil {
			return err
		}
		done, total := s.Progress()

		marker := "○"
		if total > 0 && done == total {
			marker = "✓"
		}
		fmt.Printf("%s %-8s %s (%s)\n", marker, cli.DayName(w.Day), w.Name, w.Location)
		fmt.Printf("    %d exercises · %d sets · %d/%d done\n", len(w.Exercises), w.TotalSets(), done, total)

		var preview []string
		for i, ex := range w.Exercises {
			if i == 3 {
				preview = append(preview, fmt.Sprintf("+%d more", len(w.Exercises)-3))
				break
			}
			preview = append(preview, ex.Name)
		}
		fmt.Printf("    %s\n", strings.Join(preview, ", "))
	}
	return nil
}

// WorkoutCmd shows every set of a day with its checkbox and weight
type WorkoutCmd struct {
	Day  string `arg:"" optional:"" help:"Day (sun, tue, fri, home). Defaults to the last viewed day."`
	Week int    `short:"w" help:"Week number (1-26). Defaults to the last viewed week."`
}

func (c *WorkoutCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ResolveDay(c.Day)
	if err != nil {
		return err
	}
	s, err := ctx.OpenSession(c.Week, day)
	if err != nil {
		return err
	}
	ctx.Store.SaveNavigationState(s.Week(), s.Day())

	printWorkout(s)
	return nil
}

func printWorkout(s *session.Session) {
	w := s.Workout()
	done, total := s.Progress()
	fmt.Printf("Week %d · %s · %s (%s)  %d/%d sets\n", s.Week(), cli.DayName(s.Day()), w.Name, w.Location, done, total)

	for _, ex := range w.Exercises {
		fmt.Println()
		header := ex.Name
		if ex.Superset != "" {
			header += fmt.Sprintf("  [superset %s]", ex.Superset)
		}
		fmt.Printf("%s  (%s)\n", header, ex.ID)

		var meta []string
		if ex.MuscleGroup != "" {
			meta = append(meta, ex.MuscleGroup)
		}
		if ex.Tempo != "" {
			meta = append(meta, "tempo "+ex.Tempo)
		}
		if ex.RPE != "" {
			meta = append(meta, "RPE "+ex.RPE)
		}
		if len(meta) > 0 {
			fmt.Printf("  %s\n", strings.Join(meta, " · "))
		}
		if ex.Notes != "" {
			fmt.Printf("  %s\n", ex.Notes)
		}

		for i := 0; i < ex.SetCount(); i++ {
			spec, err := s.EffectiveSet(ex.ID, i)
			if err != nil {
				continue
			}
			box := "[ ]"
			if s.IsCompleted(ex.ID, i) {
				box = "[✓]"
			}
			fmt.Printf("  %s Set %d: %d × %s  rest %s\n", box, i+1, spec.Reps, cli.FormatWeight(spec.Weight), timer.FormatClock(s.RestFor(ex, i)))
		}
	}
}
