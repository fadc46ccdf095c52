package backups

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hybridmaster/internal/backup"
	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/constants"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	if ctx.Ephemeral {
		return fmt.Errorf("nothing to back up: storage is ephemeral")
	}
	backupPath, err := ctx.Backups().Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		fmt.Printf("  %s  %s  (%s, %s)\n", timestamp, b.Name(), b.HumanSize(), b.Age())
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.Dir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backupPath := mgr.Resolve(c.BackupFile)

	// Validate before asking anything
	snap, err := backup.Read(backupPath)
	if err != nil {
		return fmt.Errorf("cannot restore %s: %w", c.BackupFile, err)
	}

	if !c.Yes {
		fmt.Println("⚠️  WARNING: This will replace all your workout data with the backup.")
		fmt.Println("A backup of your current data will be created before restoring.")
		fmt.Printf("\nRestore from: %s (%s, %d keys)\n", backupPath, snap.CreatedAt.Format("2006-01-02 15:04:05"), len(snap.Data))

		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Continue?").
				Affirmative("Restore").
				Negative("Cancel").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	// A countdown left running would be persisted over the restored data
	if ctx.Timers != nil {
		ctx.Timers.StopAll()
	}

	safety, err := mgr.Restore(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Data restored successfully!")
	fmt.Printf("  Previous data saved as: %s\n", filepath.Base(safety))
	return nil
}
