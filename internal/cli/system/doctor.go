package system

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/migration"
	"github.com/julianstephens/hybridmaster/internal/models"
	"github.com/julianstephens/hybridmaster/internal/storage"
	"github.com/julianstephens/hybridmaster/internal/validation"
)

// migratable is implemented by the SQL backends
type migratable interface {
	Runner() (*migration.Runner, error)
}

// programSource exposes every week of a provider for validation
type programSource interface {
	AllWeeks() []models.Week
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	reachable := false

	// Check 1: storage reachable
	if err := checkStorageReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK (%s)\n", ctx.Store.Backend().GetConfigPath())
		reachable = true
	}

	// Check 2: schema version and pending migrations (SQL backends only)
	if reachable {
		if err := checkMigrations(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (storage not reachable)\n")
	}

	// Check 3: stored values decode
	if reachable {
		if err := checkStoredValues(ctx); err != nil {
			fmt.Printf("❌ Stored values: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Stored values: OK (%d keys, %s)\n", len(ctx.Store.Keys()), ctx.Store.SizeFormatted())
		}
	} else {
		fmt.Printf("⊘ Stored values: SKIPPED (storage not reachable)\n")
	}

	// Check 4: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 5: program definition
	if err := checkProgram(ctx); err != nil {
		fmt.Printf("❌ Program definition: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Program definition: OK (%d weeks)\n", ctx.Program.Weeks())
	}

	// Check 6: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if ctx.Store == nil || !ctx.Store.Available() {
		return fmt.Errorf("storage is not available, changes will not be saved")
	}
	if ctx.Ephemeral {
		return fmt.Errorf("running on ephemeral storage, changes will not be saved")
	}
	return nil
}

func checkMigrations(ctx *cli.Context) error {
	m, ok := ctx.Store.Backend().(migratable)
	if !ok {
		// Key/value files have no schema
		return nil
	}
	runner, err := m.Runner()
	if err != nil {
		return err
	}
	if err := runner.Validate(); err != nil {
		return err
	}
	pending, err := runner.Pending()
	if err != nil {
		return fmt.Errorf("failed to count pending migrations: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending", pending)
	}
	return nil
}

func checkStoredValues(ctx *cli.Context) error {
	var bad []string
	for key, raw := range ctx.Store.ExportAll() {
		if !json.Valid([]byte(raw)) {
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%d value(s) are not valid JSON: %s", len(bad), strings.Join(bad, ", "))
	}

	for key := range ctx.Store.LoadHistory() {
		if _, ok := models.ParseWeekKey(key); !ok {
			return fmt.Errorf("history contains an invalid week key %q", key)
		}
	}
	raw := storage.Load(ctx.Store, storage.KeySettings, map[string]string{})
	if _, err := models.MapToSettings(raw); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	backups, err := ctx.Backups().List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'hybridmaster backup create'")
	}
	return nil
}

func checkProgram(ctx *cli.Context) error {
	if ctx.Program == nil || ctx.Program.Weeks() == 0 {
		return fmt.Errorf("no program loaded")
	}
	src, ok := ctx.Program.(programSource)
	if !ok {
		return nil
	}
	result := validation.New().ValidateProgram(src.AllWeeks())
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s), run 'hybridmaster validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
