package commands

import (
	"fmt"

	"github.com/frap129/trls-sub000/internal/build"
	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmdo := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(cmdo, "trls version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date)
		},
	}
}
