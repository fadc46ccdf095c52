package statsview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/stats"
)

// ProgressionWeeks is the number of recent weeks in the progression chart
const ProgressionWeeks = 8

const barWidth = 16

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	sectionStyle = lipgloss.NewStyle().
			MarginRight(4).
			MarginBottom(1)
)

// Model renders the statistics of the stored history
type Model struct {
	engine *stats.Engine
	width  int
	height int
}

func New(engine *stats.Engine) Model {
	return Model{engine: engine}
}

// Refresh reloads the history behind the view
func (m *Model) Refresh() {
	if m.engine != nil {
		m.engine.Refresh()
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) View() string {
	if m.engine == nil {
		return ""
	}
	summary := m.engine.Summary()
	if summary.TotalSessions == 0 {
		return "\n  No finished sessions yet.\n  Finish a workout, or run 'hybridmaster data demo'."
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(m.viewSummary(summary)),
		sectionStyle.Render(m.viewMuscles()),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(m.viewProgression()),
		sectionStyle.Render(m.viewTop()),
	)

	if m.width > 0 && m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, left, right)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) viewSummary(s stats.Summary) string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Summary"),
		row("Total volume", stats.FormatVolume(s.TotalVolume)),
		row("Weekly average", stats.FormatVolume(s.AverageWeeklyVolume)),
		row("Sessions", fmt.Sprintf("%d / %d", s.TotalSessions, constants.TotalWeeks*constants.SessionsPerWeek)),
		row("Completion", fmt.Sprintf("%d%%", s.CompletionRate)),
		row("Average duration", fmt.Sprintf("%.0f min", s.AverageSessionDuration)),
		row("Volume growth", fmt.Sprintf("%+.0f%%", s.VolumeGrowthRate)),
	)
}

func (m Model) viewMuscles() string {
	lines := []string{titleStyle.Render("Muscle groups")}
	for _, share := range m.engine.MuscleDistribution() {
		lines = append(lines, fmt.Sprintf("%-12s %s %5.1f%%", share.Name, bar(share.Percent, 100), share.Percent))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewProgression() string {
	series := m.engine.ProgressionSeries(ProgressionWeeks)
	peak := 0.0
	for _, p := range series {
		peak = max(peak, p.Volume)
	}

	lines := []string{titleStyle.Render("Weekly volume")}
	for _, p := range series {
		lines = append(lines, fmt.Sprintf("%-4s %s %8s", p.Label, bar(p.Volume, peak), stats.FormatVolume(p.Volume)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewTop() string {
	lines := []string{titleStyle.Render("Most logged")}
	for i, e := range m.engine.TopExercises(5) {
		lines = append(lines, fmt.Sprintf("%d. %-24s %d", i+1, e.Name, e.Count))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func bar(value, peak float64) string {
	cells := 0
	if peak > 0 {
		cells = int(value/peak*barWidth + 0.5)
	}
	cells = max(0, min(cells, barWidth))
	return barStyle.Render(strings.Repeat("█", cells)) + strings.Repeat("░", barWidth-cells)
}
