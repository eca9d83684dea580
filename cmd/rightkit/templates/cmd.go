// Package templatescmd implements the `rightkit templates` command group.
package templatescmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mchmarny/rightkit/cmd/rightkit/shared"
)

// Command implements `rightkit templates`.
type Command struct {
	ctx     *shared.Context
	cmd     *cobra.Command
	pattern string
}

// New creates the templates command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "templates",
		Short: "List or add file templates",
		RunE:  c.runList,
	}
	c.cmd.Flags().StringVar(&c.pattern, "match", "", "Glob filter, e.g. **/*.md")
	c.cmd.AddCommand(newAdd(ctx))
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runList(cmd *cobra.Command, _ []string) error {
	app, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer app.Close()

	names, err := app.Templates.List(c.pattern)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintf(out, "No templates in %s\n", app.Templates.Root())
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}

func newAdd(ctx *shared.Context) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Copy a file into the template directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.Open()
			if err != nil {
				return err
			}
			defer app.Close()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(args[0])
			}
			if err := app.Templates.Add(name, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added template %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Template name (default: file name)")
	return cmd
}
