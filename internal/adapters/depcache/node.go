package depcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bam/internal/adapters/fs"
	"go.trai.ch/bam/internal/adapters/logger"
	"go.trai.ch/bam/internal/adapters/telemetry"
	"go.trai.ch/bam/internal/core/ports"
)

// NodeID is the unique identifier for the cache store Graft node.
const NodeID graft.ID = "adapter.depcache"

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.FileSystemNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (ports.CacheStore, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(fsys, log, tracer), nil
		},
	})
}
