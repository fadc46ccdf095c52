package workout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/models"
	"github.com/julianstephens/hybridmaster/internal/session"
	"github.com/julianstephens/hybridmaster/internal/timer"
)

// SetCompletedMsg asks the app to toggle a set
type SetCompletedMsg struct {
	ExerciseID string
	Set        int
}

// EditWeightMsg asks the app to open the weight form for a set
type EditWeightMsg struct {
	ExerciseID string
	Set        int
}

// AdjustWeightMsg nudges a set's weight by Steps increments
type AdjustWeightMsg struct {
	ExerciseID string
	Set        int
	Steps      int
}

type FinishMsg struct{}

type ResetMsg struct{}

type BackMsg struct{}

type Styles struct {
	Title     lipgloss.Style
	Exercise  lipgloss.Style
	Superset  lipgloss.Style
	Meta      lipgloss.Style
	Cursor    lipgloss.Style
	Checked   lipgloss.Style
	Unchecked lipgloss.Style
	Override  lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Exercise:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		Superset:  lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		Meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Cursor:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Checked:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Unchecked: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Override:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Weight  key.Binding
	Heavier key.Binding
	Lighter key.Binding
	Finish  key.Binding
	Reset   key.Binding
	Back    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "check set"),
		),
		Weight: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "edit weight"),
		),
		Heavier: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "+2.5kg"),
		),
		Lighter: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "-2.5kg"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "finish"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset day"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
	}
}

type row struct {
	exercise int
	set      int
}

// Model lists the sets of one workout with a cursor over them
type Model struct {
	session *session.Session
	rows    []row
	cursor  int
	keys    KeyMap
	styles  Styles
	width   int
	height  int
}

func New(s *session.Session, styles Styles) Model {
	m := Model{keys: DefaultKeyMap(), styles: styles}
	m.SetSession(s)
	return m
}

// SetSession swaps the displayed workout, keeping the cursor in range
func (m *Model) SetSession(s *session.Session) {
	m.session = s
	m.rows = nil
	if s != nil {
		for i, ex := range s.Workout().Exercises {
			for set := 0; set < ex.SetCount(); set++ {
				m.rows = append(m.rows, row{exercise: i, set: set})
			}
		}
	}
	m.cursor = max(0, min(m.cursor, len(m.rows)-1))
}

func (m Model) Session() *session.Session {
	return m.session
}

func (m *Model) SetStyles(styles Styles) {
	m.styles = styles
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Keys() KeyMap {
	return m.keys
}

// Selected returns the exercise and set under the cursor
func (m Model) Selected() (models.Exercise, int, bool) {
	if m.session == nil || len(m.rows) == 0 {
		return models.Exercise{}, 0, false
	}
	r := m.rows[m.cursor]
	return m.session.Workout().Exercises[r.exercise], r.set, true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }
	case key.Matches(keyMsg, m.keys.Finish):
		return m, func() tea.Msg { return FinishMsg{} }
	case key.Matches(keyMsg, m.keys.Reset):
		return m, func() tea.Msg { return ResetMsg{} }
	}

	ex, set, ok := m.Selected()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Toggle):
		return m, func() tea.Msg { return SetCompletedMsg{ExerciseID: ex.ID, Set: set} }
	case key.Matches(keyMsg, m.keys.Weight):
		return m, func() tea.Msg { return EditWeightMsg{ExerciseID: ex.ID, Set: set} }
	case key.Matches(keyMsg, m.keys.Heavier):
		return m, func() tea.Msg { return AdjustWeightMsg{ExerciseID: ex.ID, Set: set, Steps: 1} }
	case key.Matches(keyMsg, m.keys.Lighter):
		return m, func() tea.Msg { return AdjustWeightMsg{ExerciseID: ex.ID, Set: set, Steps: -1} }
	}
	return m, nil
}

func (m Model) View() string {
	if m.session == nil {
		return ""
	}
	w := m.session.Workout()
	done, total := m.session.Progress()

	lines := []string{
		m.styles.Title.Render(fmt.Sprintf("%s · %s", w.Name, w.Location)) +
			m.styles.Meta.Render(fmt.Sprintf("  %d/%d sets", done, total)),
		"",
	}
	cursorLine := 0

	for i, ex := range w.Exercises {
		lines = append(lines, m.exerciseHeader(ex))
		if ex.Notes != "" {
			lines = append(lines, m.styles.Meta.Render("  "+ex.Notes))
		}
		for set := 0; set < ex.SetCount(); set++ {
			selected := len(m.rows) > 0 && m.rows[m.cursor] == row{exercise: i, set: set}
			if selected {
				cursorLine = len(lines)
			}
			lines = append(lines, m.setLine(ex, set, selected))
		}
		lines = append(lines, "")
	}

	return strings.Join(m.window(lines, cursorLine), "\n")
}

func (m Model) exerciseHeader(ex models.Exercise) string {
	header := m.styles.Exercise.Render(ex.Name)
	if ex.Superset != "" {
		header += " " + m.styles.Superset.Render("superset "+ex.Superset)
	}

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
		header += m.styles.Meta.Render("  " + strings.Join(meta, " · "))
	}
	return header
}

func (m Model) setLine(ex models.Exercise, set int, selected bool) string {
	spec, err := m.session.EffectiveSet(ex.ID, set)
	if err != nil {
		return ""
	}

	box := m.styles.Unchecked.Render("[ ]")
	if m.session.IsCompleted(ex.ID, set) {
		box = m.styles.Checked.Render("[✓]")
	}

	weight := cli.FormatWeight(spec.Weight)
	if spec.Weight != ex.Sets.Set(set).Weight {
		weight = m.styles.Override.Render(weight + "*")
	}

	pointer := "  "
	if selected {
		pointer = m.styles.Cursor.Render("> ")
	}

	line := fmt.Sprintf("%s%s Set %d: %d × %s", pointer, box, set+1, spec.Reps, weight)
	return line + m.styles.Meta.Render(fmt.Sprintf("  rest %s", timer.FormatClock(m.session.RestFor(ex, set))))
}

// window keeps the cursor line visible when the list is taller than the view
func (m Model) window(lines []string, cursorLine int) []string {
	if m.height <= 0 || len(lines) <= m.height {
		return lines
	}
	start := max(0, cursorLine-m.height/2)
	end := min(len(lines), start+m.height)
	start = max(0, end-m.height)
	return lines[start:end]
}
