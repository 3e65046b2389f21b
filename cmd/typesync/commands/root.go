// Package commands implements the CLI commands for typesync.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/typesync/internal/app"
	"go.trai.ch/typesync/internal/build"
	"go.trai.ch/typesync/internal/engine/pipeline"
)

// CLI represents the command line interface for typesync.
type CLI struct {
	app        Application
	rootCmd    *cobra.Command
	onJSONLogs func()
}

// Application represents the application logic interface.
type Application interface {
	Generate(ctx context.Context, opts app.GenerateOptions) (*pipeline.Result, error)
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// Option configures the CLI.
type Option func(*CLI)

// WithJSONLogs registers fn to run before any command when --json-logs is set.
func WithJSONLogs(fn func()) Option {
	return func(c *CLI) {
		c.onJSONLogs = fn
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	c := &CLI{app: a}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd := &cobra.Command{
		Use:           "typesync",
		Short:         "Generate local types from a versioned upstream source tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			jsonLogs, _ := cmd.Flags().GetBool("json-logs")
			if jsonLogs && c.onJSONLogs != nil {
				c.onJSONLogs()
			}
		},
	}

	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("manifest", "m", "", "Path to the typesync.yaml manifest (default: search upwards)")
	rootCmd.PersistentFlags().String("env-file", "", "Dotenv file with overrides (default: .env next to the manifest)")
	rootCmd.PersistentFlags().String("out-dir", "", "Build output directory (overrides TYPESYNC_OUT_DIR)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON records")

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newGenerateCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func configOptions(cmd *cobra.Command) app.ConfigOptions {
	manifest, _ := cmd.Flags().GetString("manifest")
	envFile, _ := cmd.Flags().GetString("env-file")
	outDir, _ := cmd.Flags().GetString("out-dir")
	return app.ConfigOptions{
		ManifestPath: manifest,
		EnvFile:      envFile,
		OutDir:       outDir,
	}
}

// optionalBool returns a pointer to the flag value, or nil if the flag was not given.
func optionalBool(cmd *cobra.Command, name string) (*bool, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &v, nil
}
