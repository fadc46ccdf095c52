package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/stats"
)

// SummaryCmd prints the headline numbers of the history
type SummaryCmd struct{}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	engine := ctx.Stats()
	s := engine.Summary()

	fmt.Println("Training Summary:")
	fmt.Printf("  Total Volume:          %s\n", stats.FormatVolume(s.TotalVolume))
	fmt.Printf("  Average Weekly Volume: %s\n", stats.FormatVolume(s.AverageWeeklyVolume))
	fmt.Printf("  Sessions:              %d / %d\n", s.TotalSessions, constants.TotalWeeks*constants.SessionsPerWeek)
	fmt.Printf("  Completion Rate:       %d%%\n", s.CompletionRate)
	fmt.Printf("  Average Duration:      %.0f min\n", s.AverageSessionDuration)
	fmt.Printf("  Volume Growth:         %+.0f%%\n", s.VolumeGrowthRate)
	return nil
}

// RecordsCmd lists the heaviest set logged per exercise
type RecordsCmd struct{}

func (c *RecordsCmd) Run(ctx *cli.Context) error {
	records := ctx.Stats().PersonalRecords()
	if len(records) == 0 {
		fmt.Println("No personal records yet. Finish a workout to record one.")
		return nil
	}

	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Personal Records:")
	for _, name := range names {
		pr := records[name]
		fmt.Printf("  %-28s %8s  %3d reps  %10s  %s\n", name, cli.FormatWeight(pr.MaxWeight), pr.MaxReps, stats.FormatVolume(pr.MaxVolume), pr.Date)
	}
	return nil
}

// MusclesCmd shows volume, share and set count per muscle group
type MusclesCmd struct{}

func (c *MusclesCmd) Run(ctx *cli.Context) error {
	engine := ctx.Stats()
	volumes := engine.VolumeByMuscleGroup()
	if len(volumes) == 0 {
		fmt.Println("No volume logged yet.")
		return nil
	}

	shares := make(map[string]float64)
	for _, s := range engine.MuscleDistribution() {
		shares[s.Name] = s.Percent
	}
	sets := make(map[string]int)
	for _, s := range engine.SetCountPerMuscle() {
		sets[s.Name] = s.Sets
	}

	fmt.Println("Volume by Muscle Group:")
	for _, v := range volumes {
		fmt.Printf("  %-12s %10s  %5.1f%%  %3d sets  %s\n", v.Name, stats.FormatVolume(v.Volume), shares[v.Name], sets[v.Name], bar(shares[v.Name]))
	}
	return nil
}

// TopCmd lists the most frequently logged exercises
type TopCmd struct {
	Limit int `short:"n" help:"Number of exercises to show." default:"10"`
}

func (c *TopCmd) Run(ctx *cli.Context) error {
	top := ctx.Stats().TopExercises(c.Limit)
	if len(top) == 0 {
		fmt.Println("No exercises logged yet.")
		return nil
	}
	fmt.Println("Top Exercises:")
	for i, e := range top {
		fmt.Printf("  %2d. %-28s %d\n", i+1, e.Name, e.Count)
	}
	return nil
}

// ProgressionCmd shows the weekly volume series
type ProgressionCmd struct {
	Weeks int `short:"n" help:"Number of most recent weeks to show." default:"26"`
}

func (c *ProgressionCmd) Run(ctx *cli.Context) error {
	series := ctx.Stats().ProgressionSeries(c.Weeks)

	peak := 0.0
	for _, p := range series {
		peak = max(peak, p.Volume)
	}

	fmt.Println("Weekly Progression:")
	for _, p := range series {
		share := 0.0
		if peak > 0 {
			share = p.Volume / peak * 100
		}
		fmt.Printf("  %-4s %10s  %d/%d  %3d%%  %s\n", p.Label, stats.FormatVolume(p.Volume), p.Sessions, constants.SessionsPerWeek, p.CompletionRate, bar(share))
	}
	return nil
}

// ExerciseCmd shows every logged occurrence of one exercise
type ExerciseCmd struct {
	Name string `arg:"" help:"Exercise name, e.g. \"Squat\"."`
}

func (c *ExerciseCmd) Run(ctx *cli.Context) error {
	entries := ctx.Stats().ExerciseProgress(c.Name)
	if len(entries) == 0 {
		return fmt.Errorf("no history for exercise %q", c.Name)
	}

	fmt.Printf("%s:\n", c.Name)
	for _, e := range entries {
		rpe := "-"
		if e.RPE != nil {
			rpe = fmt.Sprintf("%.1f", *e.RPE)
		}
		fmt.Printf("  %-4s %-8s %8s × %-3d %10s  RPE %s\n", stats.WeekLabel(e.Week), cli.DayName(e.Day), cli.FormatWeight(e.Weight), e.Reps, stats.FormatVolume(e.Volume), rpe)
	}
	return nil
}

// bar renders a percentage as a 20 cell bar
func bar(percent float64) string {
	cells := int(percent/5 + 0.5)
	cells = max(0, min(cells, 20))
	return strings.Repeat("█", cells) + strings.Repeat("░", 20-cells)
}
