package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/constants"
	apperrors "github.com/julianstephens/hybridmaster/internal/errors"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.SessionHome:
		content = m.theme.Doc.Render(m.homeModel.View())
	case constants.SessionWorkout:
		content = m.theme.Doc.Render(m.workoutModel.View())
	case constants.SessionStats:
		content = m.theme.Doc.Render(m.statsModel.View())
	case constants.SessionWeightForm, constants.SessionConfirm:
		content = m.theme.Doc.Render(m.form.View())
	case constants.SessionError:
		content = m.viewError()
	}

	sections := []string{m.viewHeader(), content}
	if timer := m.timerModel.View(); timer != "" {
		sections = append(sections, timer)
	}
	if m.status != "" {
		sections = append(sections, m.theme.Warning.Render(m.status))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	title := m.theme.Header.Render("HYBRID MASTER")
	if m.week.Number == 0 {
		return title
	}

	badges := m.theme.Badge
	if m.week.IsDeload {
		badges = m.theme.Deload
	}
	parts := []string{
		title,
		m.theme.Badge.Render(fmt.Sprintf("Week %d/%d", m.week.Number, m.ctx.Program.Weeks())),
		badges.Render(cli.WeekBadges(m.week)),
	}
	switch m.state {
	case constants.SessionWorkout, constants.SessionWeightForm, constants.SessionConfirm:
		parts = append(parts, m.theme.Badge.Render(cli.DayName(m.day)))
	case constants.SessionStats:
		parts = append(parts, m.theme.Badge.Render("Statistics"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) viewError() string {
	panel := m.theme.ErrorBox.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.theme.Danger.Render("Something went wrong"),
			"",
			apperrors.Panel(m.err, "'r'"),
		),
	)
	if m.width == 0 {
		return panel
	}
	return lipgloss.Place(m.width, max(m.height-6, lipgloss.Height(panel)),
		lipgloss.Center, lipgloss.Center, panel)
}
