package tui

import (
	"github.com/julianstephens/hybridmaster/internal/tui/components/home"
	"github.com/julianstephens/hybridmaster/internal/tui/components/workout"
)

// Intents emitted by the views and handled by Model.Update
type (
	DaySelectedMsg  = home.DaySelectedMsg
	SetCompletedMsg = workout.SetCompletedMsg
	BackMsg         = workout.BackMsg
)

// WeekChangedMsg moves the app to another week of the program
type WeekChangedMsg struct {
	Week int
}

type ShowStatsMsg struct{}

// ThemeToggledMsg switches to and persists a theme
type ThemeToggledMsg struct {
	Theme string
}

// ReloadMsg reloads the current week after an error
type ReloadMsg struct{}

type errMsg struct {
	err error
}
