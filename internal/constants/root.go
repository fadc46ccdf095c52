package constants

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionState represents the current state of the TUI application
type SessionState int

// ConflictType represents the type of program validation conflict
type ConflictType string

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

const (
	AppName            = "hybridmaster"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/hybridmaster/hybridmaster.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// StoragePrefix namespaces every key the store writes to its backend
	StoragePrefix = "hybrid_master_"
	// StorageProbeKey is written and removed once to detect a usable backend
	StorageProbeKey = "__storage_test__"

	// Program shape
	TotalWeeks      = 26
	SessionsPerWeek = 3
	BlockLength     = 6

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "hybridmaster-"
	BackupFileSuffix = ".json"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "hybridmaster-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.hybridmaster"

	// Timer constants
	TimerTickInterval   = time.Second
	TimerFinishWindow   = 2 * time.Second
	TimerStaleAfter     = time.Hour
	TimerUrgentSeconds  = 10
	TimerAutoStartDelay = 500 * time.Millisecond
	TimerUncheckDelay   = time.Second
	TimerFinishedText   = "Rest finished!"

	// WeightStep is the increment used when nudging a set's weight
	WeightStep = 2.5

	// Conflict Types
	ConflictMissingWeek       ConflictType = "missing_week"
	ConflictWeekOutOfRange    ConflictType = "week_out_of_range"
	ConflictEmptyWorkout      ConflictType = "empty_workout"
	ConflictNoSets            ConflictType = "no_sets"
	ConflictInvalidRest       ConflictType = "invalid_rest"
	ConflictDuplicateExercise ConflictType = "duplicate_exercise"
	ConflictLonelySuperset    ConflictType = "lonely_superset"
)

// Day keys of the canonical schedule. TrackedDays are the slots counted by
// statistics; DayHome is a home session that is rendered but not tracked.
const (
	DaySunday  = "dimanche"
	DayTuesday = "mardi"
	DayFriday  = "vendredi"
	DayHome    = "maison"
)

var (
	TrackedDays = []string{DaySunday, DayTuesday, DayFriday}
	ProgramDays = []string{DaySunday, DayTuesday, DayFriday, DayHome}
)

const (
	SessionHome SessionState = iota
	SessionWorkout
	SessionStats
	SessionWeightForm
	SessionConfirm
	SessionError
)
