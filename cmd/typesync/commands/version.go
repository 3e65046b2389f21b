package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/typesync/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "typesync version %s\n", build.Version)
			if build.Repository != "" {
				_, _ = fmt.Fprintf(out, "built-in source: %s@%s\n", build.Repository, build.RepositoryVersion)
			}
		},
	}
}
