package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/typesync/internal/app"
)

func (c *CLI) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Fetch the source, provision the generator and write the generated types",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")

			autoBuild, err := optionalBool(cmd, "auto-build")
			if err != nil {
				return err
			}
			strictCache, err := optionalBool(cmd, "strict-cache")
			if err != nil {
				return err
			}

			_, err = c.app.Generate(cmd.Context(), app.GenerateOptions{
				ConfigOptions: configOptions(cmd),
				AutoBuild:     autoBuild,
				StrictCache:   strictCache,
				Force:         force,
			})
			return err
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Regenerate even if the output is up to date")
	cmd.Flags().Bool("auto-build", false, "Build the generator if its binary is missing")
	cmd.Flags().Bool("strict-cache", false, "Refetch a source cache that was not sealed by a complete extraction")

	return cmd
}
