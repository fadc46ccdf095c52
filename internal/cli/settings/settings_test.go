package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/models"
	"github.com/julianstephens/hybridmaster/internal/program"
	"github.com/julianstephens/hybridmaster/internal/storage"
	"github.com/julianstephens/hybridmaster/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	backend := sqlite.New(dbPath)
	if err := backend.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{
		Backend:   backend,
		Store:     storage.New(backend),
		Program:   program.Builtin(),
		ConfigDir: tempDir,
	}

	cleanup := func() {
		if err := backend.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		List: true,
	}

	err := cmd.Run(ctx)
	if err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_UpdateTheme(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	theme := constants.ThemeLight
	cmd := &SettingsCmd{
		Theme: &theme,
	}

	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings update failed: %v", err)
	}

	if got := ctx.Store.LoadSettings().Theme; got != constants.ThemeLight {
		t.Errorf("expected theme to be %q, got %q", constants.ThemeLight, got)
	}
}

func TestSettingsCmd_UpdateRests(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	rest, superset := 75, 120
	cmd := &SettingsCmd{
		DefaultRest:  &rest,
		SupersetRest: &superset,
	}

	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings update failed: %v", err)
	}

	settings := ctx.Store.LoadSettings()
	if settings.DefaultRest != 75 {
		t.Errorf("expected DefaultRest to be 75, got %d", settings.DefaultRest)
	}
	if settings.SupersetRest != 120 {
		t.Errorf("expected SupersetRest to be 120, got %d", settings.SupersetRest)
	}
}

func TestSettingsCmd_UpdateToggles(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	initial := ctx.Store.LoadSettings()
	autoStart := !initial.AutoStartTimer
	notifications := !initial.NotificationsEnabled
	bell := !initial.BellEnabled

	cmd := &SettingsCmd{
		AutoStartTimer: &autoStart,
		Notifications:  &notifications,
		Bell:           &bell,
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings update failed: %v", err)
	}

	updated := ctx.Store.LoadSettings()
	if updated.AutoStartTimer != autoStart {
		t.Errorf("expected AutoStartTimer to be %v, got %v", autoStart, updated.AutoStartTimer)
	}
	if updated.NotificationsEnabled != notifications {
		t.Errorf("expected NotificationsEnabled to be %v, got %v", notifications, updated.NotificationsEnabled)
	}
	if updated.BellEnabled != bell {
		t.Errorf("expected BellEnabled to be %v, got %v", bell, updated.BellEnabled)
	}
}

func TestSettingsCmd_InvalidRest(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	zero := 0
	if err := (&SettingsCmd{DefaultRest: &zero}).Run(ctx); err == nil {
		t.Error("expected error for a zero default rest")
	}
	if got := ctx.Store.LoadSettings(); got != models.DefaultSettings() {
		t.Errorf("settings changed after a rejected update: %+v", got)
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("settings with no flags failed: %v", err)
	}
}
