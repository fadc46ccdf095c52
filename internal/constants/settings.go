package constants

const (
	// Setting keys
	SettingTheme          = "theme"
	SettingDefaultRest    = "default_rest"
	SettingSupersetRest   = "superset_rest"
	SettingAutoStartTimer = "auto_start_timer"
	SettingNotifications  = "notifications_enabled"
	SettingBell           = "bell_enabled"

	ThemeDark  = "dark"
	ThemeLight = "light"

	// Default Settings Values
	DefaultTheme          = ThemeDark
	DefaultRestSec        = 60
	DefaultSupersetRest   = 90
	DefaultAutoStartTimer = true
	DefaultNotifications  = true
	DefaultBell           = true
)
