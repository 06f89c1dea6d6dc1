package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bam/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bam/internal/adapters/metrics"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bam/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bam/internal/core/ports"
)

// NodeID is the unique identifier for the expander Graft node.
const NodeID graft.ID = "engine.expander"

func init() {
	graft.Register(graft.Node[*Expander]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.ScannerNodeID,
			fs.HasherNodeID,
			fs.FileSystemNodeID,
			metrics.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Expander, error) {
			scanner, err := graft.Dep[ports.DependencyScanner](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			recorder, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewExpander(scanner, hasher, fsys, recorder, tracer), nil
		},
	})
}
