package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bam/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/bam/internal/adapters/depcache" //nolint:depguard // Wired in app layer
	"go.trai.ch/bam/internal/adapters/fs"       //nolint:depguard // Wired in app layer
	"go.trai.ch/bam/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/bam/internal/adapters/metrics"  //nolint:depguard // Wired in app layer
	"go.trai.ch/bam/internal/core/ports"
	"go.trai.ch/bam/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			depcache.NodeID,
			resolver.NodeID,
			metrics.NodeID,
			logger.NodeID,
			fs.FileSystemNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.CacheStore](ctx)
	if err != nil {
		return nil, err
	}

	expander, err := graft.Dep[*resolver.Expander](ctx)
	if err != nil {
		return nil, err
	}

	recorder, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, store, expander, recorder, log, fsys), nil
}
