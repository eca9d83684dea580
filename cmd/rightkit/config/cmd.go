// Package configcmd implements the `rightkit config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mchmarny/rightkit/cmd/rightkit/shared"
	"github.com/mchmarny/rightkit/pkg/config"
)

// Command implements `rightkit config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(newConfigInit(ctx))
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	home, source := config.ResolveHome(c.ctx.Home)
	cfg, err := config.Load(home)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# home: %s (%s)\n", home, source)
	fmt.Fprint(out, string(b))
	return nil
}

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config.yaml with the current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, _ := config.ResolveHome(ctx.Home)
			cfgPath := filepath.Join(home, config.FileName)
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			cfg, err := config.Load(home)
			if err != nil && !force {
				return err
			}
			if cfg == nil {
				cfg = config.Default(home)
			}
			if err := config.Save(home, cfg); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}
