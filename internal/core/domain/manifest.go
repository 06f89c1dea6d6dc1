package domain

// Manifest is a loaded build manifest.
type Manifest struct {
	// Graph holds the declared nodes and edges.
	Graph *Graph
	// CachePath is the cache location requested by the manifest, or "" for the default.
	CachePath string
}
