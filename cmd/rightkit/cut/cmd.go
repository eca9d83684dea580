// Package cutcmd implements the `rightkit cut` command group.
package cutcmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mchmarny/rightkit/cmd/rightkit/shared"
)

// Command implements `rightkit cut`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the cut command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "cut",
		Short: "Inspect or change the pending cut",
		RunE:  c.runStatus,
	}
	c.cmd.AddCommand(newBegin(ctx), newClear(ctx))
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runStatus(cmd *cobra.Command, _ []string) error {
	app, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer app.Close()

	out := cmd.OutOrStdout()
	files := app.Cut.PendingCutURLs()
	if len(files) == 0 {
		fmt.Fprintln(out, "No pending cut.")
		return nil
	}
	fmt.Fprintf(out, "Pending cut of %d item(s):\n", len(files))
	for _, f := range files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	return nil
}

func newBegin(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "begin <path>...",
		Short: "Start a cut of the given paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.Open()
			if err != nil {
				return err
			}
			defer app.Close()

			files := make([]string, 0, len(args))
			for _, a := range args {
				abs, err := filepath.Abs(a)
				if err != nil {
					return err
				}
				files = append(files, abs)
			}
			return app.Cut.BeginCut(files)
		},
	}
}

func newClear(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the pending cut",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := ctx.Open()
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Cut.Clear()
		},
	}
}
