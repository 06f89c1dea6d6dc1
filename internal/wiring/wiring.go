// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/bam/internal/adapters/config"
	_ "go.trai.ch/bam/internal/adapters/depcache"
	_ "go.trai.ch/bam/internal/adapters/fs"
	_ "go.trai.ch/bam/internal/adapters/logger"
	_ "go.trai.ch/bam/internal/adapters/metrics"
	_ "go.trai.ch/bam/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/bam/internal/app"
	_ "go.trai.ch/bam/internal/engine/resolver"
)
