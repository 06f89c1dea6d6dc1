package domain

import "go.trai.ch/zerr"

var (
	// ErrNodeAlreadyExists is returned when a node with the same filename is added twice.
	ErrNodeAlreadyExists = zerr.New("node already exists")

	// ErrEmptyFilename is returned when a node is declared without a path.
	ErrEmptyFilename = zerr.New("node filename is empty")

	// ErrMissingDependency is returned when a node references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCacheHeaderMismatch is returned when a cache file does not carry the expected signature.
	ErrCacheHeaderMismatch = zerr.New("cache header mismatch")

	// ErrCacheTruncated is returned when a cache file is shorter than its header declares.
	ErrCacheTruncated = zerr.New("cache file truncated")

	// ErrCacheShortRead is returned when fewer bytes were read than the file reports.
	ErrCacheShortRead = zerr.New("cache file short read")

	// ErrCacheDependencyRange is returned when a node's dependency slice exceeds the dependency table.
	ErrCacheDependencyRange = zerr.New("cache dependency range out of bounds")

	// ErrCacheDependencyIndex is returned when a dependency entry points past the node table.
	ErrCacheDependencyIndex = zerr.New("cache dependency index out of bounds")

	// ErrCacheFilenameRange is returned when filename offsets do not split the string blob into non-empty names.
	ErrCacheFilenameRange = zerr.New("cache filename offset out of bounds")

	// ErrCacheDuplicateHash is returned when two cache nodes share a hash id.
	ErrCacheDuplicateHash = zerr.New("duplicate hash id in cache")

	// ErrCacheTooLarge is returned when a graph cannot be represented with 32-bit table counts.
	ErrCacheTooLarge = zerr.New("graph too large for cache format")

	// ErrCacheOpenFailed is returned when the cache file cannot be opened.
	ErrCacheOpenFailed = zerr.New("failed to open cache file")

	// ErrCacheReadFailed is returned when the cache file cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cache file")

	// ErrCacheWriteFailed is returned when writing the cache file fails.
	ErrCacheWriteFailed = zerr.New("failed to write cache file")

	// ErrCacheTruncateFailed is returned when a failed save could not empty the destination file.
	ErrCacheTruncateFailed = zerr.New("failed to truncate cache file after write error")

	// ErrCacheRemoveFailed is returned when the cache file cannot be removed.
	ErrCacheRemoveFailed = zerr.New("failed to remove cache file")

	// ErrConfigReadFailed is returned when the manifest cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read manifest")

	// ErrConfigParseFailed is returned when the manifest cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse manifest")

	// ErrScanFailed is returned when a dependency scanner cannot read a source file.
	ErrScanFailed = zerr.New("failed to scan dependencies")

	// ErrMetricsWriteFailed is returned when the metrics textfile cannot be written.
	ErrMetricsWriteFailed = zerr.New("failed to write metrics file")
)
