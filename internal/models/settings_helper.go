package models

import (
	"fmt"

	"github.com/julianstephens/hybridmaster/internal/constants"
)

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		Theme:                constants.DefaultTheme,
		DefaultRest:          constants.DefaultRestSec,
		SupersetRest:         constants.DefaultSupersetRest,
		AutoStartTimer:       constants.DefaultAutoStartTimer,
		NotificationsEnabled: constants.DefaultNotifications,
		BellEnabled:          constants.DefaultBell,
	}
}

// MapToSettings converts stored key-value pairs to Settings. Keys that are
// absent keep their default value.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := DefaultSettings()

	for key, value := range data {
		switch key {
		case constants.SettingTheme:
			if value != constants.ThemeDark && value != constants.ThemeLight {
				return Settings{}, fmt.Errorf("invalid theme %q", value)
			}
			settings.Theme = value
		case constants.SettingDefaultRest:
			if _, err := fmt.Sscanf(value, "%d", &settings.DefaultRest); err != nil {
				return Settings{}, fmt.Errorf("parsing default_rest: %w", err)
			}
		case constants.SettingSupersetRest:
			if _, err := fmt.Sscanf(value, "%d", &settings.SupersetRest); err != nil {
				return Settings{}, fmt.Errorf("parsing superset_rest: %w", err)
			}
		case constants.SettingAutoStartTimer:
			settings.AutoStartTimer = value == "true"
		case constants.SettingNotifications:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingBell:
			settings.BellEnabled = value == "true"
		}
	}
	ApplyDefaultSettings(&settings)
	return settings, nil
}

// SettingsToMap converts Settings to key-value pairs for storage.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTheme:          settings.Theme,
		constants.SettingDefaultRest:    fmt.Sprintf("%d", settings.DefaultRest),
		constants.SettingSupersetRest:   fmt.Sprintf("%d", settings.SupersetRest),
		constants.SettingAutoStartTimer: fmt.Sprintf("%v", settings.AutoStartTimer),
		constants.SettingNotifications:  fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingBell:           fmt.Sprintf("%v", settings.BellEnabled),
	}
}

// ApplyDefaultSettings fills zero values that can never be valid.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Theme == "" {
		settings.Theme = constants.DefaultTheme
	}
	if settings.DefaultRest <= 0 {
		settings.DefaultRest = constants.DefaultRestSec
	}
	if settings.SupersetRest <= 0 {
		settings.SupersetRest = constants.DefaultSupersetRest
	}
}
