// Package commands implements the CLI commands for bam.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/bam/internal/app"
	"go.trai.ch/bam/internal/build"
	"go.trai.ch/bam/internal/engine/resolver"
)

// CLI represents the command line interface for bam.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	jsonLogs  bool
	trace     bool
	stopTrace func(context.Context) error
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) (resolver.Stats, error)
	Inspect(ctx context.Context, path string, w io.Writer) error
	Clean(ctx context.Context, path string) error
	SetJSONLogs(enable bool)
	EnableTracing() func(context.Context) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "bam",
		Short:         "Persistent dependency cache for incremental builds",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			c.app.SetJSONLogs(c.jsonLogs)
			if c.trace {
				c.stopTrace = c.app.EnableTracing()
			}
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return c.flushTrace(cmd.Context())
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

	rootCmd.PersistentFlags().BoolVar(&c.jsonLogs, "json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&c.trace, "trace", false, "Log a timing line for every traced operation")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	// PersistentPostRun is skipped when the command fails.
	if ferr := c.flushTrace(context.WithoutCancel(ctx)); err == nil {
		err = ferr
	}
	return err
}

func (c *CLI) flushTrace(ctx context.Context) error {
	if c.stopTrace == nil {
		return nil
	}
	stop := c.stopTrace
	c.stopTrace = nil
	return stop(ctx)
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
