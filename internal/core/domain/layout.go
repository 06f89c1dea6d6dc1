package domain

import "path/filepath"

const (
	// BamDirName is the name of the internal workspace directory.
	BamDirName = ".bam"

	// CacheFileName is the name of the dependency cache file.
	CacheFileName = "cache.bam"

	// ManifestFileName is the name of the build manifest.
	ManifestFileName = "bam.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default path of the dependency cache.
// It joins .bam and cache.bam.
func DefaultCachePath() string {
	return filepath.Join(BamDirName, CacheFileName)
}
