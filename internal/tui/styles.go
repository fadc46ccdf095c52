package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/tui/components/resttimer"
	"github.com/julianstephens/hybridmaster/internal/tui/components/workout"
)

// Theme is the full set of styles for one color scheme
type Theme struct {
	Name     string
	Header   lipgloss.Style
	Badge    lipgloss.Style
	Deload   lipgloss.Style
	Danger   lipgloss.Style
	Warning  lipgloss.Style
	ErrorBox lipgloss.Style
	Doc      lipgloss.Style
	Workout  workout.Styles
	Timer    resttimer.Styles
}

func darkTheme() Theme {
	timer := resttimer.DefaultStyles()
	return Theme{
		Name: constants.ThemeDark,
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Padding(0, 1),
		Deload: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Bold(true).
			Padding(0, 1),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true),
		ErrorBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(1, 2),
		Doc:     lipgloss.NewStyle().Padding(1, 2),
		Workout: workout.DefaultStyles(),
		Timer:   timer,
	}
}

func lightTheme() Theme {
	t := darkTheme()
	t.Name = constants.ThemeLight
	t.Header = t.Header.
		Foreground(lipgloss.Color("125")).
		Background(lipgloss.Color("254"))
	t.Badge = t.Badge.Foreground(lipgloss.Color("30"))
	t.Danger = t.Danger.Foreground(lipgloss.Color("160"))
	t.Warning = t.Warning.Foreground(lipgloss.Color("130"))
	t.ErrorBox = t.ErrorBox.BorderForeground(lipgloss.Color("160"))

	t.Workout = workout.Styles{
		Title:     t.Workout.Title.Foreground(lipgloss.Color("125")),
		Exercise:  t.Workout.Exercise.Foreground(lipgloss.Color("235")),
		Superset:  t.Workout.Superset.Foreground(lipgloss.Color("91")),
		Meta:      t.Workout.Meta.Foreground(lipgloss.Color("244")),
		Cursor:    t.Workout.Cursor.Foreground(lipgloss.Color("125")),
		Checked:   t.Workout.Checked.Foreground(lipgloss.Color("28")),
		Unchecked: t.Workout.Unchecked.Foreground(lipgloss.Color("238")),
		Override:  t.Workout.Override.Foreground(lipgloss.Color("130")),
	}

	t.Timer.Box = t.Timer.Box.BorderForeground(lipgloss.Color("25"))
	t.Timer.Label = t.Timer.Label.Foreground(lipgloss.Color("238"))
	t.Timer.Clock = t.Timer.Clock.Foreground(lipgloss.Color("30"))
	t.Timer.Urgent = t.Timer.Urgent.Foreground(lipgloss.Color("160"))
	t.Timer.Finished = t.Timer.Finished.Foreground(lipgloss.Color("28"))
	t.Timer.Muted = t.Timer.Muted.Foreground(lipgloss.Color("244"))
	t.Timer.Bar = "30"
	t.Timer.UrgentBar = "160"
	return t
}

// ThemeFor maps a theme setting to its styles. Unknown names get the dark theme.
func ThemeFor(name string) Theme {
	if name == constants.ThemeLight {
		return lightTheme()
	}
	return darkTheme()
}
