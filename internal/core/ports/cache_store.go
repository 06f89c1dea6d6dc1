package ports

import (
	"context"

	"go.trai.ch/bam/internal/core/domain"
)

// CacheStore persists the dependency graph between build invocations.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache_store.go -destination=mocks/mock_cache_store.go -package=mocks
type CacheStore interface {
	// Save writes g to path, replacing any previous cache.
	// On failure no file that could pass Load's validation is left behind.
	Save(ctx context.Context, path string, g *domain.Graph) error

	// Load reads the cache at path.
	// It returns nil, nil when no usable cache exists.
	Load(ctx context.Context, path string) (*domain.Cache, error)
}
