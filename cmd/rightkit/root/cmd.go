// Package rootcmd wires the root cobra.Command for the rightkit CLI binary.
package rootcmd

import (
	"github.com/spf13/cobra"

	configcmd "github.com/mchmarny/rightkit/cmd/rightkit/config"
	cutcmd "github.com/mchmarny/rightkit/cmd/rightkit/cut"
	dispatchcmd "github.com/mchmarny/rightkit/cmd/rightkit/dispatch"
	menucmd "github.com/mchmarny/rightkit/cmd/rightkit/menu"
	servecmd "github.com/mchmarny/rightkit/cmd/rightkit/serve"
	"github.com/mchmarny/rightkit/cmd/rightkit/shared"
	templatescmd "github.com/mchmarny/rightkit/cmd/rightkit/templates"
	"github.com/mchmarny/rightkit/pkg/buildinfo"
)

// New creates and returns the root cobra.Command for the rightkit CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "rightkit",
		Short:         "Configurable file browser context menu",
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.Home, "home", "",
		"Override shared container directory (default: $RIGHTKIT_HOME env → ~/.config/rightkit)",
	)
	root.PersistentFlags().BoolVar(
		&ctx.MemoryClipboard, "memory-clipboard", false,
		"Use an in-process clipboard instead of the system one",
	)

	root.AddCommand(
		servecmd.New(ctx).Cmd(),
		menucmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		cutcmd.New(ctx).Cmd(),
		dispatchcmd.New(ctx).Cmd(),
		templatescmd.New(ctx).Cmd(),
	)

	return root
}
