package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bam/internal/app"
	"go.trai.ch/bam/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Expand the manifest's dependency graph and refresh the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifest, _ := cmd.Flags().GetString("file")
			cachePath, _ := cmd.Flags().GetString("cache")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			jobs, _ := cmd.Flags().GetInt("jobs")
			metricsFile, _ := cmd.Flags().GetString("metrics")

			_, err := c.app.Build(cmd.Context(), app.BuildOptions{
				Manifest:    manifest,
				CachePath:   cachePath,
				NoCache:     noCache,
				Parallelism: jobs,
				MetricsFile: metricsFile,
			})
			return err
		},
	}
	cmd.Flags().StringP("file", "f", domain.ManifestFileName, "Path to the build manifest")
	cmd.Flags().String("cache", "", "Override the cache file location")
	cmd.Flags().BoolP("no-cache", "n", false, "Ignore the existing cache and rescan every source")
	cmd.Flags().IntP("jobs", "j", 0, "Number of files expanded in parallel (default: number of CPUs)")
	cmd.Flags().String("metrics", "", "Write lookup counters to this file in Prometheus text format")
	return cmd
}
