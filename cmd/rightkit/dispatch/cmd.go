// Package dispatchcmd implements `rightkit dispatch`, which runs one action in
// the calling process.
package dispatchcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mchmarny/rightkit/cmd/rightkit/shared"
	"github.com/mchmarny/rightkit/pkg/dispatch"
	"github.com/mchmarny/rightkit/pkg/model"
)

// Command implements `rightkit dispatch`.
type Command struct {
	ctx      *shared.Context
	cmd      *cobra.Command
	target   string
	selected []string
}

// New creates the dispatch command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "dispatch <type|parameter>",
		Short: "Run an action given in wire form, e.g. createEmptyFile|txt",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.target, "target", "", "Target directory (default: configured fallback)")
	c.cmd.Flags().StringSliceVar(&c.selected, "selected", nil, "Selected paths")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	action, err := model.ParseWire(args[0])
	if err != nil {
		return err
	}

	app, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer app.Close()

	d := app.Dispatcher()
	err = d.Execute(cmd.Context(), dispatch.Request{
		Action:    action,
		TargetDir: c.target,
		Selected:  c.selected,
	})
	d.Wait()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Done: %s\n", action.Wire())
	return nil
}
