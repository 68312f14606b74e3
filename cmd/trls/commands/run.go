package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [args...]",
		Short: "Run a command in the latest rootfs container",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Run(cmd.Context(), c.overrides(), args)
		},
	}
	// Everything after the first positional argument belongs to the
	// container command, not to trls.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
