package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build all requested rootfs stages from files in --src-dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.BuildRootfs(cmd.Context(), c.overrides())
		},
	}
}

func (c *CLI) newBuildBuilderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build-builder",
		Short: "(Re-)Build the builder container used by the other commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.BuildBuilder(cmd.Context(), c.overrides())
		},
	}
}
