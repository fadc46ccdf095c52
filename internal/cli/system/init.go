package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/models"
	"github.com/julianstephens/hybridmaster/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing storage before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Backend.GetConfigPath()

	// If force flag is provided, delete existing storage file
	if c.Force {
		if _, err := os.Stat(path); err == nil {
			// Close first to prevent file locking issues
			if err := ctx.Backend.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			fmt.Printf("Deleted existing storage at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Backend.Init(); err != nil {
		return err
	}
	ctx.Store = storage.New(ctx.Backend)
	if !ctx.Store.Available() {
		return fmt.Errorf("storage at %s is not writable", path)
	}

	if !ctx.Store.Has(storage.KeySettings) {
		ctx.Store.SaveSettings(models.DefaultSettings())
	}
	if !ctx.Store.Has(storage.KeyNavigation) {
		ctx.Store.SaveNavigationState(1, "")
	}

	fmt.Printf("Initialized hybridmaster storage at: %s\n", path)
	return nil
}
