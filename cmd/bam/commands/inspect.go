package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bam/internal/core/domain"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [cache-file]",
		Short: "Print the contents of a cache file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := domain.DefaultCachePath()
			if len(args) == 1 {
				path = args[0]
			}
			return c.app.Inspect(cmd.Context(), path, cmd.OutOrStdout())
		},
	}
}
