package data

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/hybridmaster/internal/backup"
	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/demo"
)

// ExportCmd writes every stored key as a backup snapshot
type ExportCmd struct {
	Output string `short:"o" help:"File to write, '-' for stdout." default:"-"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	var w io.Writer = os.Stdout
	if c.Output != "-" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	n, err := ctx.Backups().Export(w)
	if err != nil {
		return err
	}
	if c.Output != "-" {
		fmt.Printf("✓ Exported %d keys to %s\n", n, c.Output)
	}
	return nil
}

// ImportCmd merges a snapshot written by export or backup into the store
type ImportCmd struct {
	File    string `arg:"" help:"Export or backup file to import."`
	Replace bool   `help:"Clear the current data before importing."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	snap, err := backup.Read(c.File)
	if err != nil {
		return err
	}

	if c.Replace {
		if ctx.Timers != nil {
			ctx.Timers.StopAll()
		}
		if !ctx.Store.Clear() {
			return fmt.Errorf("failed to clear current data")
		}
	}
	if !ctx.Store.ImportAll(snap.Data) {
		return fmt.Errorf("failed to import %s", c.File)
	}

	fmt.Printf("✓ Imported %d keys from %s (%s %s)\n", len(snap.Data), c.File, snap.App, snap.Version)
	return nil
}

// ResetCmd deletes every stored key
type ResetCmd struct {
	Yes bool `short:"y" help:"Reset without asking for confirmation."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Delete all workout progress, history and settings?").
				Description("Create a backup first with 'hybridmaster backup create'.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	// A running countdown would write its state back after the clear
	if ctx.Timers != nil {
		ctx.Timers.StopAll()
	}
	if !ctx.Store.Clear() {
		return fmt.Errorf("failed to reset storage")
	}
	fmt.Println("✓ All data deleted")
	return nil
}

// SizeCmd reports how much space the stored keys take
type SizeCmd struct{}

func (c *SizeCmd) Run(ctx *cli.Context) error {
	fmt.Printf("Storage: %s\n", ctx.Backend.GetConfigPath())
	fmt.Printf("  Keys: %d\n", len(ctx.Store.Keys()))
	fmt.Printf("  Size: %s\n", ctx.Store.SizeFormatted())
	return nil
}

// DemoCmd fills the history with generated sessions
type DemoCmd struct {
	From int   `help:"First week to fill." default:"24"`
	To   int   `help:"Last week to fill." default:"26"`
	Seed int64 `help:"Random seed." default:"1"`
}

func (c *DemoCmd) Run(ctx *cli.Context) error {
	cfg := demo.DefaultConfig()
	cfg.FromWeek = c.From
	cfg.ToWeek = c.To
	cfg.Seed = c.Seed

	n, err := demo.Seed(ctx.Store, ctx.Program, cfg)
	if err != nil {
		return fmt.Errorf("failed to seed demo history: %w", err)
	}
	fmt.Printf("✓ Added %d demo sessions (weeks %d-%d of %d)\n", n, c.From, c.To, constants.TotalWeeks)
	return nil
}
