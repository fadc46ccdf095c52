package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hybridmaster/internal/cli"
)

// WeightFormModel holds the input of the weight override form
type WeightFormModel struct {
	ExerciseID string
	Set        int
	Value      string
}

// ConfirmationFormModel holds the answer of a confirmation dialog
type ConfirmationFormModel struct {
	Message   string
	Confirmed bool
}

func newWeightForm(fm *WeightFormModel, exerciseName string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("%s · set %d", exerciseName, fm.Set+1)).
				Description("Weight in kg, 0 for bodyweight.").
				Value(&fm.Value).
				Validate(cli.ValidateWeight),
		),
	).WithShowHelp(false)
}

func newConfirmationForm(fm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fm.Message).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithShowHelp(false)
}
