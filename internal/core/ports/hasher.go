package ports

// Hasher computes the identifiers stored in the cache.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashPath returns the hash id of a node path.
	HashPath(path string) uint64
	// HashCommand returns the fingerprint of a command line.
	HashCommand(argv []string) uint64
}
