package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/hybridmaster/internal/backup"
	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/logger"
	"github.com/julianstephens/hybridmaster/internal/models"
	"github.com/julianstephens/hybridmaster/internal/notifier"
	"github.com/julianstephens/hybridmaster/internal/program"
	"github.com/julianstephens/hybridmaster/internal/session"
	"github.com/julianstephens/hybridmaster/internal/stats"
	"github.com/julianstephens/hybridmaster/internal/storage"
	"github.com/julianstephens/hybridmaster/internal/timer"
)

// Context carries the services built once by main to every command
type Context struct {
	Backend   storage.Backend
	Store     *storage.Store
	Program   program.Provider
	Timers    *timer.Manager
	Notifier  *notifier.Notifier
	ConfigDir string
	// Ephemeral is set when nothing will survive the process
	Ephemeral bool
	Now       func() time.Time
}

func (c *Context) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Backups returns the backup manager for the configured store
func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.ConfigDir, c.Store)
}

// PerformAutomaticBackup creates the daily backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if c.Ephemeral || !c.Store.Available() {
		return
	}
	path, created, err := c.Backups().AutoBackup()
	if err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	if created {
		logger.Debug("Automatic backup created", "path", path)
	}
}

// Stats returns an engine over the current history
func (c *Context) Stats() *stats.Engine {
	return stats.NewFromSource(c.Store)
}

// OpenSession opens the workout of a week and day. A zero week means the
// last week the user looked at.
func (c *Context) OpenSession(week int, day string) (*session.Session, error) {
	return session.New(c.Store, c.Program, c.ResolveWeek(week), day, session.WithClock(c.now))
}

// ResolveWeek clamps week to the program, falling back to the saved
// navigation state when week is zero
func (c *Context) ResolveWeek(week int) int {
	if week == 0 {
		return c.Store.LoadNavigationState().Week
	}
	return storage.ClampWeek(week)
}

// ResolveDay parses a day name, falling back to the saved navigation state
// when s is empty
func (c *Context) ResolveDay(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return c.Store.LoadNavigationState().Day, nil
	}
	return ParseDay(s)
}

var dayAliases = map[string]string{
	"sun":      constants.DaySunday,
	"sunday":   constants.DaySunday,
	"dimanche": constants.DaySunday,
	"tue":      constants.DayTuesday,
	"tuesday":  constants.DayTuesday,
	"mardi":    constants.DayTuesday,
	"fri":      constants.DayFriday,
	"friday":   constants.DayFriday,
	"vendredi": constants.DayFriday,
	"home":     constants.DayHome,
	"maison":   constants.DayHome,
}

// ParseDay accepts English names, their three letter abbreviations and the
// program's own day keys
func ParseDay(s string) (string, error) {
	day, ok := dayAliases[strings.TrimSpace(strings.ToLower(s))]
	if !ok {
		return "", fmt.Errorf("invalid day: %s (use sun, tue, fri or home)", s)
	}
	return day, nil
}

// DayName renders a day key for humans
func DayName(day string) string {
	switch day {
	case constants.DaySunday:
		return "Sunday"
	case constants.DayTuesday:
		return "Tuesday"
	case constants.DayFriday:
		return "Friday"
	case constants.DayHome:
		return "Home"
	default:
		return day
	}
}

// WeekBadges lists the block, technique and deload markers of a week
func WeekBadges(w models.Week) string {
	badges := []string{fmt.Sprintf("Block %d", w.Block)}
	if w.Technique != "" {
		badges = append(badges, w.Technique)
	}
	if w.IsDeload {
		badges = append(badges, "DELOAD")
	}
	return strings.Join(badges, " · ")
}

// FormatWeight renders kilograms without a trailing .0
func FormatWeight(kg float64) string {
	if kg == 0 {
		return "BW"
	}
	if kg == float64(int(kg)) {
		return fmt.Sprintf("%dkg", int(kg))
	}
	return fmt.Sprintf("%.1fkg", kg)
}

// ParseWeight reads a weight in kg, accepting a decimal comma
func ParseWeight(s string) (float64, error) {
	kg, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid weight: %s", s)
	}
	if kg < 0 {
		return 0, fmt.Errorf("weight must not be negative")
	}
	return kg, nil
}

// ValidateWeight is a form validator for ParseWeight
func ValidateWeight(s string) error {
	_, err := ParseWeight(s)
	return err
}
