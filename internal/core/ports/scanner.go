package ports

import "context"

// DependencyScanner discovers the dependencies of a file from its contents.
//
//go:generate go run go.uber.org/mock/mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type DependencyScanner interface {
	// Scan returns the paths path depends on, in the order they were found.
	Scan(ctx context.Context, path string) ([]string, error)
}
