package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bam/internal/adapters/metrics"
)

func TestRecorder_ObserveLookup(t *testing.T) {
	r := metrics.NewRecorder()

	r.ObserveLookup("hit")
	r.ObserveLookup("hit")
	r.ObserveLookup("miss")

	expected := `
# HELP bam_cache_lookups_total Dependency cache lookups by outcome.
# TYPE bam_cache_lookups_total counter
bam_cache_lookups_total{outcome="hit"} 2
bam_cache_lookups_total{outcome="miss"} 1
`
	err := testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "bam_cache_lookups_total")
	require.NoError(t, err)
}

func TestRecorder_IsolatedRegistries(t *testing.T) {
	a := metrics.NewRecorder()
	b := metrics.NewRecorder()

	a.ObserveLookup("stale")

	count, err := testutil.GatherAndCount(b.Registry())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := metrics.NewRecorder()
	r.ObserveLookup("replayed")

	path := filepath.Join(t.TempDir(), "bam.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bam_cache_lookups_total{outcome="replayed"} 1`)
}

func TestRecorder_WriteTextfileError(t *testing.T) {
	r := metrics.NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "bam.prom"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to write metrics file")
}
