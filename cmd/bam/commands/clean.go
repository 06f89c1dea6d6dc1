package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bam/internal/core/domain"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [cache-file]",
		Short: "Remove the cache file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := domain.DefaultCachePath()
			if len(args) == 1 {
				path = args[0]
			}
			return c.app.Clean(cmd.Context(), path)
		},
	}
}
