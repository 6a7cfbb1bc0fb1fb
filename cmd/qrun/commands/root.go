// Package commands implements the CLI commands for the qrun test harness.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mohitmv/qrun/internal/app"
	"github.com/mohitmv/qrun/internal/build"
)

// CLI represents the command line interface for qrun.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
	Watch(ctx context.Context, opts app.RunOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	// The root command is the harness itself: a bare invocation compiles
	// and runs the test suite with the discovered configuration.
	rootCmd := &cobra.Command{
		Use:           "qrun",
		Short:         "Compile and run a native unit test suite",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Run(cmd.Context(), optionsFromFlags(cmd))
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	addRunFlags(rootCmd)

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newWatchCmd())
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

// addRunFlags registers the flags shared by the root and watch commands.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to the config file (bypasses discovery)")
	cmd.Flags().StringP("source", "s", "", "Test source file to compile (overrides the config)")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, color, or plain")
	cmd.Flags().Bool("json", false, "Log in JSON format")
}

// optionsFromFlags reads the shared flags back into RunOptions.
func optionsFromFlags(cmd *cobra.Command) app.RunOptions {
	configPath, _ := cmd.Flags().GetString("config")
	source, _ := cmd.Flags().GetString("source")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	jsonLogs, _ := cmd.Flags().GetBool("json")

	return app.RunOptions{
		ConfigPath: configPath,
		Source:     source,
		OutputMode: outputMode,
		JSON:       jsonLogs,
	}
}
