package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bam/internal/app"
	_ "go.trai.ch/bam/internal/wiring"
)

// TestGraftDependencies checks that every node declaring a dependency uses it.
func TestGraftDependencies(t *testing.T) {
	// graft.AssertDepsValid infers dependency IDs from the package of the type passed
	// to Dep[T]. Every node here resolves a type from the shared ports package, so the
	// static check cannot tell them apart.
	t.Skip("graft static analysis cannot distinguish nodes sharing the ports package")
	graft.AssertDepsValid(t, "../../internal")
}

// TestGraftResolvesComponents builds the full production graph.
func TestGraftResolvesComponents(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
