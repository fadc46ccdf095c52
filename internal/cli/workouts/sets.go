package workouts

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/session"
	"github.com/julianstephens/hybridmaster/internal/stats"
)

// DayFlags select the workout a command applies to
type DayFlags struct {
	Day  string `short:"d" help:"Day (sun, tue, fri, home). Defaults to the last viewed day."`
	Week int    `short:"w" help:"Week number (1-26). Defaults to the last viewed week."`
}

func (f DayFlags) open(ctx *cli.Context) (*session.Session, error) {
	day, err := ctx.ResolveDay(f.Day)
	if err != nil {
		return nil, err
	}
	return ctx.OpenSession(f.Week, day)
}

// CheckCmd toggles a set's checkbox
type CheckCmd struct {
	DayFlags
	Exercise string `arg:"" help:"Exercise id, as shown by 'hybridmaster workout'."`
	Set      int    `arg:"" help:"Set number, starting at 1."`
	Rest     bool   `help:"Run the rest timer after checking the set."`
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	checked, err := s.ToggleSet(c.Exercise, c.Set-1)
	if err != nil {
		return err
	}

	ex, _ := s.Workout().Exercise(c.Exercise)
	if !checked {
		fmt.Printf("○ %s set %d unchecked\n", ex.Name, c.Set)
		return nil
	}
	done, total := s.Progress()
	fmt.Printf("✓ %s set %d checked (%d/%d sets)\n", ex.Name, c.Set, done, total)

	if c.Rest {
		label := fmt.Sprintf("%s · set %d", ex.Name, c.Set)
		return runCountdown(ctx, session.TimerID(ex), s.RestFor(ex, c.Set-1), label, c.Set-1)
	}
	return nil
}

// WeightCmd overrides or nudges the weight of a set
type WeightCmd struct {
	DayFlags
	Exercise string   `arg:"" help:"Exercise id, as shown by 'hybridmaster workout'."`
	Set      int      `arg:"" help:"Set number, starting at 1."`
	Kg       *float64 `help:"New weight in kg, 0 to drop the override." xor:"change"`
	Step     int      `help:"Number of 2.5kg steps to add (negative to remove)." xor:"change"`
	Form     bool     `help:"Enter the weight in an interactive form." xor:"change"`
}

func (c *WeightCmd) Run(ctx *cli.Context) error {
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	set := c.Set - 1

	var kg float64
	switch {
	case c.Step != 0:
		kg, err = s.AdjustWeight(c.Exercise, set, c.Step)
	case c.Form:
		kg, err = promptWeight(s, c.Exercise, set)
		if err == nil {
			err = s.SetWeight(c.Exercise, set, kg)
		}
	case c.Kg != nil:
		kg = *c.Kg
		err = s.SetWeight(c.Exercise, set, kg)
	default:
		return fmt.Errorf("no change specified, use --kg, --step or --form")
	}
	if err != nil {
		return err
	}

	// A zero override falls back to the prescription
	if kg == 0 {
		if spec, err := s.EffectiveSet(c.Exercise, set); err == nil {
			kg = spec.Weight
		}
	}
	ex, _ := s.Workout().Exercise(c.Exercise)
	fmt.Printf("✓ %s set %d: %s\n", ex.Name, c.Set, cli.FormatWeight(kg))
	return nil
}

func promptWeight(s *session.Session, exerciseID string, set int) (float64, error) {
	spec, err := s.EffectiveSet(exerciseID, set)
	if err != nil {
		return 0, err
	}
	value := fmt.Sprintf("%g", spec.Weight)
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("Weight for set %d (kg)", set+1)).
			Value(&value).
			Validate(cli.ValidateWeight),
	))
	if err := form.Run(); err != nil {
		return 0, err
	}
	return cli.ParseWeight(value)
}

// FinishCmd records the checked sets of a day into the history
type FinishCmd struct {
	DayFlags
}

func (c *FinishCmd) Run(ctx *cli.Context) error {
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	if done, _ := s.Progress(); done == 0 {
		return fmt.Errorf("no sets checked for week %d %s", s.Week(), cli.DayName(s.Day()))
	}

	summary, err := s.Finish()
	if err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}

	fmt.Printf("✓ Session recorded: week %d %s\n", s.Week(), cli.DayName(s.Day()))
	fmt.Printf("  Duration:  %.0f min\n", summary.Duration)
	fmt.Printf("  Exercises: %d\n", summary.CompletedExercises)
	fmt.Printf("  Sets:      %d\n", summary.TotalSets)
	fmt.Printf("  Volume:    %s\n", stats.FormatVolume(summary.Volume))
	return nil
}

// ResetDayCmd clears the checked sets and weight overrides of a day
type ResetDayCmd struct {
	DayFlags
}

func (c *ResetDayCmd) Run(ctx *cli.Context) error {
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	if !s.Reset() {
		return fmt.Errorf("failed to reset week %d %s", s.Week(), cli.DayName(s.Day()))
	}
	fmt.Printf("✓ Week %d %s reset\n", s.Week(), cli.DayName(s.Day()))
	return nil
}
