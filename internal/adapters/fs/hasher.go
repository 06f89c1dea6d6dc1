package fs

import (
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/bam/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher derives cache identifiers with XXHash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashPath returns the XXHash of a node path.
func (h *Hasher) HashPath(path string) uint64 {
	return xxhash.Sum64String(path)
}

// HashCommand returns the XXHash of a command line. Arguments are NUL terminated so
// that {"a b"} and {"a", "b"} hash differently. An empty command hashes to 0.
func (h *Hasher) HashCommand(argv []string) uint64 {
	if len(argv) == 0 {
		return 0
	}
	hasher := xxhash.New()
	for _, arg := range argv {
		_, _ = hasher.WriteString(arg)
		_, _ = hasher.Write([]byte{0})
	}
	return hasher.Sum64()
}
