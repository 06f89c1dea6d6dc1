// Package app implements the application layer for bam.
package app

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"go.trai.ch/bam/internal/adapters/telemetry" //nolint:depguard // Tracing is installed by the app layer
	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/bam/internal/core/ports"
	"go.trai.ch/bam/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	store        ports.CacheStore
	expander     *resolver.Expander
	metrics      ports.Metrics
	logger       ports.Logger
	fs           ports.FileSystem
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	store ports.CacheStore,
	expander *resolver.Expander,
	metrics ports.Metrics,
	logger ports.Logger,
	fsys ports.FileSystem,
) *App {
	return &App{
		configLoader: loader,
		store:        store,
		expander:     expander,
		metrics:      metrics,
		logger:       logger,
		fs:           fsys,
	}
}

// BuildOptions configures a build.
type BuildOptions struct {
	// Manifest is the path of the bam.yaml file.
	Manifest string
	// CachePath overrides the cache location declared by the manifest.
	CachePath string
	// NoCache ignores the existing cache. A fresh cache is still written.
	NoCache bool
	// Parallelism bounds concurrent expansion. Values below 1 mean runtime.NumCPU.
	Parallelism int
	// MetricsFile, when set, receives the lookup counters in Prometheus text format.
	MetricsFile string
}

// Build loads the manifest, expands its graph against the previous cache and saves
// the result as the new cache.
func (a *App) Build(ctx context.Context, opts BuildOptions) (resolver.Stats, error) {
	manifest, err := a.configLoader.Load(opts.Manifest)
	if err != nil {
		return resolver.Stats{}, zerr.Wrap(err, "failed to load manifest")
	}

	cachePath := manifest.CachePath
	if opts.CachePath != "" {
		cachePath = opts.CachePath
	}

	var cache *domain.Cache
	if !opts.NoCache {
		cache, err = a.store.Load(ctx, cachePath)
		if err != nil {
			a.logger.Error(err)
			a.logger.Warn("continuing without cache")
			cache = nil
		}
	}

	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	stats, err := a.expander.Expand(ctx, manifest.Graph, cache, resolver.Options{Parallelism: parallelism})
	if err != nil {
		return stats, zerr.Wrap(err, "dependency expansion failed")
	}

	if err := a.store.Save(ctx, cachePath, manifest.Graph); err != nil {
		return stats, err
	}

	if opts.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(opts.MetricsFile); err != nil {
			return stats, err
		}
	}

	a.logger.Info(fmt.Sprintf("%d nodes, %d edges: %d cached, %d stale, %d scanned",
		manifest.Graph.Len(), manifest.Graph.DependencyCount(),
		stats.Hits, stats.Stale, stats.Scanned))
	return stats, nil
}

// Inspect writes a human-readable dump of the cache at path to w.
func (a *App) Inspect(ctx context.Context, path string, w io.Writer) error {
	cache, err := a.store.Load(ctx, path)
	if err != nil {
		return err
	}
	if cache == nil {
		_, err := fmt.Fprintf(w, "no usable cache at %s\n", path)
		return err
	}

	size, err := a.fileSize(path)
	if err != nil {
		return err
	}

	var b strings.Builder
	sig := cache.Header().Signature
	fmt.Fprintf(&b, "cache:        %s\n", path)
	fmt.Fprintf(&b, "format:       %d.%d (%d-bit, %s)\n", sig[4], sig[5], int(sig[6])*8, endianName(sig[7]))
	fmt.Fprintf(&b, "size:         %s\n", humanize.Bytes(uint64(size))) //nolint:gosec // Size is non-negative.
	fmt.Fprintf(&b, "nodes:        %s\n", humanize.Comma(int64(cache.Len())))
	fmt.Fprintf(&b, "dependencies: %s\n", humanize.Comma(int64(cache.DependencyLen())))

	for i, n := range cache.Nodes() {
		fmt.Fprintf(&b, "\n[%d] %s\n", i, n.Filename)
		fmt.Fprintf(&b, "    hash       %016x\n", n.HashID)
		fmt.Fprintf(&b, "    command    %016x\n", n.CommandHash)
		fmt.Fprintf(&b, "    timestamp  %d\n", n.Timestamp)
		if len(n.Dependencies) == 0 {
			continue
		}
		names := make([]string, len(n.Dependencies))
		for j, idx := range n.Dependencies {
			names[j] = cache.FindByIndex(int(idx)).Filename
		}
		fmt.Fprintf(&b, "    deps       %s\n", strings.Join(names, ", "))
	}

	_, err = io.WriteString(w, b.String())
	return err
}

func (a *App) fileSize(path string) (int64, error) {
	f, err := a.fs.OpenRead(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "path", path)
	}
	defer func() {
		_ = f.Close()
	}()
	return f.Size()
}

func endianName(tag byte) string {
	switch tag {
	case 1:
		return "little-endian"
	case 2:
		return "big-endian"
	default:
		return "unknown byte order"
	}
}

// Clean removes the cache file at path.
func (a *App) Clean(_ context.Context, path string) error {
	a.logger.Info(fmt.Sprintf("removing %s...", path))
	if err := a.fs.Remove(path); err != nil {
		return zerr.Wrap(err, domain.ErrCacheRemoveFailed.Error())
	}
	a.logger.Info(fmt.Sprintf("removed %s", path))
	return nil
}

// jsonSwitcher is implemented by loggers that can emit JSON.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// SetJSONLogs switches the logger to JSON output when it supports it.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(jsonSwitcher); ok {
		l.SetJSON(enable)
	}
}

// EnableTracing reports every span through the logger. The returned function
// flushes and stops tracing.
func (a *App) EnableTracing() func(context.Context) error {
	return telemetry.Enable(a.logger)
}
