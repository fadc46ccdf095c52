package models

// Settings represents user preferences stored alongside workout data
type Settings struct {
	Theme                string `json:"theme"`                 // "dark" or "light"
	DefaultRest          int    `json:"default_rest"`          // rest in seconds when a set does not prescribe one
	SupersetRest         int    `json:"superset_rest"`         // rest in seconds shared by a superset
	AutoStartTimer       bool   `json:"auto_start_timer"`      // start the rest timer when a set is checked
	NotificationsEnabled bool   `json:"notifications_enabled"` // desktop notification when rest ends
	BellEnabled          bool   `json:"bell_enabled"`          // terminal bell when rest ends
}
