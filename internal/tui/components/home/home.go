package home

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/models"
)

// PreviewLength is the number of exercise names shown on a day card
const PreviewLength = 3

// DaySelectedMsg opens the workout of a day
type DaySelectedMsg struct {
	Day string
}

// Item is the card of one day of the week
type Item struct {
	Workout models.Workout
	Done    int
	Total   int
}

func (i Item) Title() string {
	marker := "○"
	if i.Total > 0 && i.Done == i.Total {
		marker = "✓"
	}
	return fmt.Sprintf("%s %s · %s", marker, cli.DayName(i.Workout.Day), i.Workout.Name)
}

func (i Item) Description() string {
	return fmt.Sprintf("%d exercises · %d sets · %d/%d done · %s",
		len(i.Workout.Exercises), i.Workout.TotalSets(), i.Done, i.Total, Preview(i.Workout))
}

func (i Item) FilterValue() string { return i.Workout.Name }

// Preview names the first exercises of a workout
func Preview(w models.Workout) string {
	var names []string
	for i, ex := range w.Exercises {
		if i == PreviewLength {
			names = append(names, fmt.Sprintf("+%d more", len(w.Exercises)-PreviewLength))
			break
		}
		names = append(names, ex.Name)
	}
	return strings.Join(names, ", ")
}

type KeyMap struct {
	Open key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open workout"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Week"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	// left/right change the week, not the page
	l.KeyMap.PrevPage.SetEnabled(false)
	l.KeyMap.NextPage.SetEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Open}
	}

	return Model{list: l, keys: keys}
}

// SetItems replaces the day cards, keeping the selection
func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

// Select moves the cursor to the card of day
func (m *Model) Select(day string) {
	for i, it := range m.list.Items() {
		if item, ok := it.(Item); ok && item.Workout.Day == day {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) Selected() (Item, bool) {
	item, ok := m.list.SelectedItem().(Item)
	return item, ok
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Open) {
		if item, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DaySelectedMsg{Day: item.Workout.Day} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No workouts this week."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
