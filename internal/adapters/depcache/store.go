package depcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"

	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/bam/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.CacheStore on top of a ports.FileSystem.
type Store struct {
	fs     ports.FileSystem
	logger ports.Logger
	tracer ports.Tracer
}

// NewStore creates a new cache store.
func NewStore(fsys ports.FileSystem, logger ports.Logger, tracer ports.Tracer) *Store {
	return &Store{
		fs:     fsys,
		logger: logger,
		tracer: tracer,
	}
}

// Save writes g to path. If anything goes wrong after the file was opened, the file
// is truncated to zero length so the next Load finds no usable cache.
func (s *Store) Save(ctx context.Context, path string, g *domain.Graph) error {
	_, span := s.tracer.Start(ctx, "cache.save")
	defer span.End()

	nodes := slices.Collect(g.Nodes())
	span.SetAttribute("cache.path", path)
	span.SetAttribute("cache.nodes", len(nodes))

	// Reject oversized or inconsistent graphs before touching the destination.
	header, err := graphHeader(nodes)
	if err != nil {
		span.RecordError(err)
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	span.SetAttribute("cache.dependencies", int(header.DependencyCount))

	f, err := s.fs.OpenWrite(path)
	if err != nil {
		span.RecordError(err)
		return zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "path", path)
	}

	if err := encodeGraph(f, nodes); err != nil {
		_ = f.Close()
		return s.discard(span, path, err)
	}
	if err := f.Close(); err != nil {
		return s.discard(span, path, err)
	}
	return nil
}

// discard empties the partially written file at path and reports cause.
func (s *Store) discard(span ports.Span, path string, cause error) error {
	span.RecordError(cause)
	werr := zerr.With(zerr.Wrap(cause, domain.ErrCacheWriteFailed.Error()), "path", path)

	f, err := s.fs.OpenWrite(path)
	if err == nil {
		err = f.Close()
	}
	if err != nil {
		s.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrCacheTruncateFailed.Error()), "path", path))
	}
	return werr
}

// Load reads the cache at path. A missing file yields no cache and no error. A file
// that fails validation is reported with a warning and also yields no cache. Only
// unexpected I/O failures are returned as errors.
func (s *Store) Load(ctx context.Context, path string) (*domain.Cache, error) {
	_, span := s.tracer.Start(ctx, "cache.load")
	defer span.End()
	span.SetAttribute("cache.path", path)

	f, err := s.fs.OpenRead(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			span.SetAttribute("cache.present", false)
			return nil, nil
		}
		span.RecordError(err)
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "path", path)
	}
	defer func() {
		_ = f.Close()
	}()

	size, err := f.Size()
	if err != nil {
		span.RecordError(err)
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}
	span.SetAttribute("cache.size", size)

	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			s.reject(span, path, zerr.With(domain.ErrCacheShortRead, "size", size))
			return nil, nil
		}
		span.RecordError(err)
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}

	cache, err := decodeCache(data)
	if err != nil {
		s.reject(span, path, err)
		return nil, nil
	}

	span.SetAttribute("cache.nodes", cache.Len())
	return cache, nil
}

func (s *Store) reject(span ports.Span, path string, reason error) {
	span.SetAttribute("cache.rejected", true)
	s.logger.Warn(fmt.Sprintf("cache %s failed to load, not using cache: %v", path, reason))
}
