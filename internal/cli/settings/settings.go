package settings

import (
	"fmt"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/timer"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Theme          *string `help:"Color theme (dark or light)." enum:"dark,light"`
	DefaultRest    *int    `help:"Rest in seconds when a set does not prescribe one."`
	SupersetRest   *int    `help:"Rest in seconds shared by a superset."`
	AutoStartTimer *bool   `help:"Start the rest timer when a set is checked."`
	Notifications  *bool   `help:"Enable or disable desktop notifications."`
	Bell           *bool   `help:"Ring the terminal bell when a rest ends."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings := ctx.Store.LoadSettings()

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Theme:                 %s\n", settings.Theme)
		fmt.Printf("  Default Rest:          %s\n", timer.FormatClock(settings.DefaultRest))
		fmt.Printf("  Superset Rest:         %s\n", timer.FormatClock(settings.SupersetRest))
		fmt.Printf("  Auto-start Timer:      %v\n", settings.AutoStartTimer)
		fmt.Println("\nNotification Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Terminal Bell:         %v\n", settings.BellEnabled)
		return nil
	}

	updated := false
	if c.Theme != nil {
		settings.Theme = *c.Theme
		updated = true
	}
	if c.DefaultRest != nil {
		if *c.DefaultRest <= 0 {
			return fmt.Errorf("default rest must be positive, got %d", *c.DefaultRest)
		}
		settings.DefaultRest = *c.DefaultRest
		updated = true
	}
	if c.SupersetRest != nil {
		if *c.SupersetRest <= 0 {
			return fmt.Errorf("superset rest must be positive, got %d", *c.SupersetRest)
		}
		settings.SupersetRest = *c.SupersetRest
		updated = true
	}
	if c.AutoStartTimer != nil {
		settings.AutoStartTimer = *c.AutoStartTimer
		updated = true
	}
	if c.Notifications != nil {
		settings.NotificationsEnabled = *c.Notifications
		updated = true
	}
	if c.Bell != nil {
		settings.BellEnabled = *c.Bell
		updated = true
	}

	if updated {
		if !ctx.Store.SaveSettings(settings) {
			return fmt.Errorf("failed to save settings")
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
