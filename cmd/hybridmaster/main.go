package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/cli/backups"
	"github.com/julianstephens/hybridmaster/internal/cli/data"
	"github.com/julianstephens/hybridmaster/internal/cli/settings"
	statscmd "github.com/julianstephens/hybridmaster/internal/cli/stats"
	"github.com/julianstephens/hybridmaster/internal/cli/system"
	"github.com/julianstephens/hybridmaster/internal/cli/workouts"
	"github.com/julianstephens/hybridmaster/internal/constants"
	apperrors "github.com/julianstephens/hybridmaster/internal/errors"
	"github.com/julianstephens/hybridmaster/internal/keyring"
	"github.com/julianstephens/hybridmaster/internal/logger"
	"github.com/julianstephens/hybridmaster/internal/notifier"
	"github.com/julianstephens/hybridmaster/internal/program"
	"github.com/julianstephens/hybridmaster/internal/storage"
	"github.com/julianstephens/hybridmaster/internal/storage/postgres"
	"github.com/julianstephens/hybridmaster/internal/storage/sqlite"
	"github.com/julianstephens/hybridmaster/internal/timer"
)

const connectionEnv = "HYBRIDMASTER_DB_CONNECTION"

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"Storage location: a SQLite path, a .json file, 'postgres', a postgres:// URL or 'memory'." default:"${config}" env:"HYBRIDMASTER_CONFIG"`
	Program   string `help:"TOML program file replacing the built-in program." type:"existingfile" env:"HYBRIDMASTER_PROGRAM"`
	Debug     bool   `help:"Enable debug logging."`
	Ephemeral bool   `help:"Keep everything in memory for this run."`

	Init     system.InitCmd     `cmd:"" help:"Initialize hybridmaster storage."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run diagnostic health checks."`
	Validate system.ValidateCmd `cmd:"" help:"Check the program for conflicts."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the database connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report keyring availability."`
	} `cmd:"" help:"Manage the database connection string."`

	Week     workouts.WeekCmd     `cmd:"" help:"Show or switch the current week."`
	Workout  workouts.WorkoutCmd  `cmd:"" help:"Show the workout of a day."`
	Check    workouts.CheckCmd    `cmd:"" help:"Check or uncheck a set."`
	Weight   workouts.WeightCmd   `cmd:"" help:"Override the weight of a set."`
	Finish   workouts.FinishCmd   `cmd:"" help:"Record the checked sets of a day."`
	ResetDay workouts.ResetDayCmd `cmd:"" name:"reset-day" help:"Clear the checked sets and weights of a day."`
	Timer    workouts.TimerCmd    `cmd:"" help:"Run a rest countdown."`

	Stats struct {
		Summary     statscmd.SummaryCmd     `cmd:"" help:"Show the training summary." default:"1"`
		Records     statscmd.RecordsCmd     `cmd:"" help:"List personal records."`
		Muscles     statscmd.MusclesCmd     `cmd:"" help:"Show volume per muscle group."`
		Top         statscmd.TopCmd         `cmd:"" help:"List the most logged exercises."`
		Progression statscmd.ProgressionCmd `cmd:"" help:"Show weekly volume."`
		Exercise    statscmd.ExerciseCmd    `cmd:"" help:"Show the history of one exercise."`
	} `cmd:"" help:"Training statistics."`

	Data struct {
		Export data.ExportCmd `cmd:"" help:"Export every stored key as JSON."`
		Import data.ImportCmd `cmd:"" help:"Import a JSON export or backup."`
		Reset  data.ResetCmd  `cmd:"" help:"Delete all stored data."`
		Size   data.SizeCmd   `cmd:"" help:"Show storage usage."`
		Demo   data.DemoCmd   `cmd:"" help:"Generate a demo history."`
	} `cmd:"" help:"Manage stored data."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a new backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`

	Settings settings.SettingsCmd `cmd:"" help:"Show or change settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description(program.BuiltinName+": 26 week strength program tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)

	command := ""
	if node := ctx.Selected(); node != nil {
		command = node.Name
	}
	interactive := command == "tui"

	location := expandHome(CLI.Config)
	configDir := configDirFor(location)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir, Quiet: interactive}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	backend, err := openBackend(location, CLI.Ephemeral)
	if err != nil {
		apperrors.Fatal(err)
	}
	ephemeral := CLI.Ephemeral || isMemory(location)

	// init creates the storage itself
	if command != "init" {
		if err := loadBackend(backend, location); err != nil {
			logger.Warn("Storage unavailable, continuing in memory", "location", backend.GetConfigPath(), "error", err)
			fmt.Fprintf(os.Stderr, "Warning: %v\nChanges will not be saved.\n", err)
			backend = storage.NewMemoryBackend(storage.DefaultMemorySize)
			ephemeral = true
		}
	}
	defer backend.Close()

	store := storage.New(backend)

	provider, err := loadProgram(CLI.Program)
	if err != nil {
		apperrors.Fatal(err)
	}

	notify := notifier.FromSettings(store.LoadSettings(), os.Stderr)
	timers := timer.NewManager(timer.RealScheduler{},
		timer.WithPersistence(store),
		timer.WithManagerHooks(timer.Hooks{
			OnFinish: func(s timer.Snapshot) {
				alertCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := notify.RestFinished(alertCtx, s.Label); err != nil {
					logger.Debug("Rest notification failed", "error", err)
				}
			},
		}),
	)
	// Only the commands that show a countdown resume one
	if command == "tui" || command == "timer" {
		if state := store.LoadTimerState(); state != nil && timers.Restore(state, time.Now()) {
			logger.Debug("Resumed rest timer", "context", state.Context)
		}
	}

	appCtx := &cli.Context{
		Backend:   backend,
		Store:     store,
		Program:   provider,
		Timers:    timers,
		Notifier:  notify,
		ConfigDir: configDir,
		Ephemeral: ephemeral,
		Now:       time.Now,
	}

	if err := ctx.Run(appCtx); err != nil {
		backend.Close()
		apperrors.Fatal(err)
	}
}

// openBackend picks the storage backend named by location
func openBackend(location string, ephemeral bool) (storage.Backend, error) {
	switch {
	case ephemeral || isMemory(location):
		return storage.NewMemoryBackend(storage.DefaultMemorySize), nil
	case location == "postgres" || location == "postgresql":
		connStr, err := connectionString()
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	case strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://"):
		if err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store the connection string with 'hybridmaster keyring set' or set %s", err, connectionEnv)
			}
			return nil, err
		}
		return postgres.New(location), nil
	case strings.HasSuffix(location, ".json"):
		return storage.NewJSONBackend(location), nil
	default:
		return sqlite.New(location), nil
	}
}

// connectionString reads the postgres DSN from the environment, then the keyring
func connectionString() (string, error) {
	if connStr := os.Getenv(connectionEnv); connStr != "" {
		return connStr, nil
	}
	connStr, err := keyring.DatabaseConnection().Get()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("no connection string found: set %s or run 'hybridmaster keyring set'", connectionEnv)
	}
	return connStr, err
}

// loadBackend opens existing storage, creating the file on first run
func loadBackend(backend storage.Backend, location string) error {
	switch backend.(type) {
	case *storage.MemoryBackend:
		return backend.Init()
	case *sqlite.Backend, *storage.JSONBackend:
		if _, err := os.Stat(location); errors.Is(err, os.ErrNotExist) {
			logger.Info("Creating storage", "path", location)
			return backend.Init()
		}
	}
	return backend.Load()
}

func loadProgram(path string) (program.Provider, error) {
	if path == "" {
		return program.Builtin(), nil
	}
	p, err := program.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load program %s: %w", path, err)
	}
	return p, nil
}

func isMemory(location string) bool {
	return location == "memory" || location == ":memory:"
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// configDirFor is where logs and backups live for a storage location
func configDirFor(location string) string {
	if isMemory(location) || location == "postgres" || location == "postgresql" || strings.Contains(location, "://") {
		return filepath.Dir(expandHome(constants.DefaultConfigPath))
	}
	if abs, err := filepath.Abs(location); err == nil {
		location = abs
	}
	return filepath.Dir(location)
}
