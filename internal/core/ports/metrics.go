package ports

// Metrics records cache effectiveness.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveLookup counts one cache lookup with the given outcome (e.g. "hit", "miss").
	ObserveLookup(outcome string)

	// WriteTextfile exports the collected metrics in the Prometheus text format.
	WriteTextfile(path string) error
}
