package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/typesync/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generation stamps and cached sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, _ := cmd.Flags().GetBool("source")
			all, _ := cmd.Flags().GetBool("all")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				ConfigOptions: configOptions(cmd),
				Source:        source,
				All:           all,
			})
		},
	}

	cmd.Flags().BoolP("source", "s", false, "Also remove the extracted source archive")
	cmd.Flags().BoolP("all", "a", false, "Remove stamps, the extracted source and the generated file")

	return cmd
}
