package system

import (
	"fmt"

	"github.com/julianstephens/hybridmaster/internal/cli"
	"github.com/julianstephens/hybridmaster/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	src, ok := ctx.Program.(programSource)
	if !ok {
		return fmt.Errorf("the loaded program cannot be validated")
	}

	result := validation.New().ValidateProgram(src.AllWeeks())
	fmt.Println(result.FormatReport())
	if result.HasConflicts() {
		return fmt.Errorf("program has %d conflict(s)", len(result.Conflicts))
	}
	fmt.Printf("✓ %d weeks validated\n", ctx.Program.Weeks())
	return nil
}
