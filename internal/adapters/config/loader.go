// Package config loads the bam.yaml build manifest.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/bam/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader for YAML manifests. Node paths and the cache
// path are resolved against the manifest's absolute directory, so a node keeps the same
// filename and hash id whichever directory bam runs from.
type Loader struct {
	fs     ports.FileSystem
	hasher ports.Hasher
}

// NewLoader creates a new Loader.
func NewLoader(fsys ports.FileSystem, hasher ports.Hasher) *Loader {
	return &Loader{fs: fsys, hasher: hasher}
}

// Load reads the manifest at path and builds the declared graph.
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if manifest.Version != "" && manifest.Version != ManifestVersion {
		return nil, zerr.With(zerr.With(domain.ErrConfigParseFailed,
			"path", path),
			"unsupported_version", manifest.Version)
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	g, err := l.buildGraph(root, manifest.Nodes)
	if err != nil {
		return nil, zerr.With(err, "manifest", path)
	}

	cachePath := manifest.Cache
	if cachePath == "" {
		cachePath = domain.DefaultCachePath()
	}
	if !filepath.IsAbs(cachePath) {
		cachePath = filepath.Join(root, cachePath)
	}

	return &domain.Manifest{Graph: g, CachePath: cachePath}, nil
}

func (l *Loader) buildGraph(root string, dtos []NodeDTO) (*domain.Graph, error) {
	g := domain.NewGraph()

	// First pass: create every declared node so dependencies can refer forward.
	for _, dto := range dtos {
		if dto.Path == "" {
			return nil, domain.ErrEmptyFilename
		}
		path := resolve(root, dto.Path)

		ts, err := l.fs.ModTime(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			ts = 0
		}

		node := &domain.Node{
			Filename:    domain.NewInternedString(path),
			HashID:      l.hasher.HashPath(path),
			CommandHash: l.hasher.HashCommand(dto.Command),
			Timestamp:   ts,
			Scan:        dto.Scan,
		}
		if err := g.AddNode(node); err != nil {
			return nil, err
		}
	}

	// Second pass: link declared dependencies in declaration order.
	for _, dto := range dtos {
		node, _ := g.Lookup(resolve(root, dto.Path))
		for _, dep := range dto.Deps {
			target, ok := g.Lookup(resolve(root, dep))
			if !ok {
				return nil, zerr.With(zerr.With(domain.ErrMissingDependency,
					"node", dto.Path),
					"missing_dependency", dep)
			}
			node.AddDependency(target)
		}
	}

	return g, nil
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
