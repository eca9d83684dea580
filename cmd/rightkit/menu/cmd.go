// Package menucmd implements the `rightkit menu` command group, the editor
// side of the shared configuration.
package menucmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mchmarny/rightkit/cmd/rightkit/shared"
	"github.com/mchmarny/rightkit/pkg/model"
)

// Command implements `rightkit menu`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the menu command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "menu",
		Short: "Show or edit the menu configuration",
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newAdd(ctx),
		newRemove(ctx),
		newRename(ctx),
		newMove(ctx),
		newImport(ctx),
		newReset(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	app, err := c.ctx.Open()
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := app.Store.Load()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "version %s (%s)\n", cfg.Version, app.Store.Path())
	cfg.Walk(func(it model.MenuItem, depth int) {
		line := strings.Repeat("  ", depth) + it.Name
		if it.IsSeparator() {
			line = strings.Repeat("  ", depth) + "----"
		}
		if it.Action != nil && !it.IsSeparator() {
			line += "  [" + it.Action.Wire() + "]"
		}
		fmt.Fprintf(out, "%-48s %s\n", line, it.ID)
	})
	return nil
}

// edit loads, applies fn and saves the configuration.
func edit(ctx *shared.Context, fn func(*model.MenuConfiguration) error) error {
	app, err := ctx.Open()
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := app.Store.Load()
	if err := fn(&cfg); err != nil {
		return err
	}
	return app.Store.Save(cfg)
}

// ---------------------------------------------------------------------------
// menu add
// ---------------------------------------------------------------------------

func newAdd(ctx *shared.Context) *cobra.Command {
	var (
		parent, id, icon, action, param string
		index                           int
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := model.MenuItem{ID: id, Name: args[0], Icon: icon}
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			if action != "" {
				t, err := model.ParseActionType(action)
				if err != nil {
					return err
				}
				item.Action = &model.Action{Type: t, Parameter: param}
			}
			if err := edit(ctx, func(cfg *model.MenuConfiguration) error {
				return cfg.Insert(parent, index, item)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", item.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Parent item id (default: root)")
	cmd.Flags().StringVar(&id, "id", "", "Item id (default: generated)")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon reference")
	cmd.Flags().StringVar(&action, "action", "", "Action type")
	cmd.Flags().StringVar(&param, "param", "", "Action parameter")
	cmd.Flags().IntVar(&index, "index", -1, "Position among siblings (default: last)")
	return cmd
}

// ---------------------------------------------------------------------------
// menu remove / rename / move
// ---------------------------------------------------------------------------

func newRemove(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a menu item and its children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(ctx, func(cfg *model.MenuConfiguration) error {
				_, err := cfg.Remove(args[0])
				return err
			})
		},
	}
}

func newRename(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Change the display name of a menu item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(ctx, func(cfg *model.MenuConfiguration) error {
				return cfg.Update(args[0], func(it *model.MenuItem) { it.Name = args[1] })
			})
		},
	}
}

func newMove(ctx *shared.Context) *cobra.Command {
	var (
		parent string
		index  int
	)
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a menu item under another parent or position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(ctx, func(cfg *model.MenuConfiguration) error {
				return cfg.Move(args[0], parent, index)
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "New parent item id (default: root)")
	cmd.Flags().IntVar(&index, "index", -1, "Position among siblings (default: last)")
	return cmd
}

// ---------------------------------------------------------------------------
// menu import / reset
// ---------------------------------------------------------------------------

func newImport(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace the configuration with a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var next model.MenuConfiguration
			if err := json.Unmarshal(data, &next); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			return edit(ctx, func(cfg *model.MenuConfiguration) error {
				*cfg = next
				return nil
			})
		},
	}
}

func newReset(ctx *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return edit(ctx, func(cfg *model.MenuConfiguration) error {
				*cfg = model.DefaultConfiguration()
				return nil
			})
		},
	}
}
