package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// CacheSignatureSize is the size of the signature that opens every cache file.
const CacheSignatureSize = 8

// CacheHeader is the fixed-size header of a cache file.
type CacheHeader struct {
	Signature       [CacheSignatureSize]byte
	NodeCount       uint32
	DependencyCount uint32
}

// CacheRecord is a node record as stored on disk. Its offsets are relative to the
// dependency table and the string blob of the same file.
type CacheRecord struct {
	HashID           uint64
	CommandHash      uint64
	Timestamp        int64
	DependencyOffset uint32
	DependencyCount  uint32
	FilenameOffset   uint64
}

// CacheNode is a relocated cache record. Filename is a view into the cache's string
// blob and Dependencies a view into its dependency table; both share the backing
// storage of the Cache they belong to.
type CacheNode struct {
	HashID      uint64
	CommandHash uint64
	Timestamp   int64
	Filename    string
	// Dependencies holds node-table indices, in the order they were saved.
	Dependencies []uint32
}

// Cache is the dependency cache loaded from a previous build.
// It is immutable once constructed and safe for concurrent use.
type Cache struct {
	header  CacheHeader
	nodes   []CacheNode
	deps    []uint32
	strings string
	index   hashIndex
}

// NewCache relocates records against the dependency table and string blob and builds
// the hash index. Any offset or index that falls outside its table, any empty or
// unaccounted filename bytes, and any duplicate hash id, are reported as an error instead of producing a partially usable cache.
func NewCache(header CacheHeader, records []CacheRecord, deps []uint32, blob string) (*Cache, error) {
	if int(header.NodeCount) != len(records) || int(header.DependencyCount) != len(deps) {
		return nil, zerr.With(zerr.With(ErrCacheTruncated,
			"declared_nodes", header.NodeCount),
			"declared_dependencies", header.DependencyCount)
	}

	nodes := make([]CacheNode, len(records))
	for i, r := range records {
		depEnd := uint64(r.DependencyOffset) + uint64(r.DependencyCount)
		if depEnd > uint64(len(deps)) {
			return nil, zerr.With(ErrCacheDependencyRange, "node", i)
		}

		// Filenames tile the blob: the first starts at 0 and none is empty.
		nameEnd := uint64(len(blob))
		if i+1 < len(records) {
			nameEnd = records[i+1].FilenameOffset
		}
		if (i == 0 && r.FilenameOffset != 0) || r.FilenameOffset >= nameEnd || nameEnd > uint64(len(blob)) {
			return nil, zerr.With(ErrCacheFilenameRange, "node", i)
		}

		nodes[i] = CacheNode{
			HashID:       r.HashID,
			CommandHash:  r.CommandHash,
			Timestamp:    r.Timestamp,
			Filename:     blob[r.FilenameOffset:nameEnd],
			Dependencies: deps[r.DependencyOffset:depEnd:depEnd],
		}
	}

	for i, d := range deps {
		if uint64(d) >= uint64(len(records)) {
			return nil, zerr.With(ErrCacheDependencyIndex, "entry", i)
		}
	}

	index, err := newHashIndex(nodes)
	if err != nil {
		return nil, err
	}

	return &Cache{
		header:  header,
		nodes:   nodes,
		deps:    deps,
		strings: blob,
		index:   index,
	}, nil
}

// Header returns the header the cache was loaded with.
func (c *Cache) Header() CacheHeader {
	return c.header
}

// Len returns the number of nodes in the cache.
func (c *Cache) Len() int {
	return len(c.nodes)
}

// DependencyLen returns the total number of dependency edges in the cache.
func (c *Cache) DependencyLen() int {
	return len(c.deps)
}

// FindByHash returns the node with the given hash id.
func (c *Cache) FindByHash(hashID uint64) (*CacheNode, bool) {
	if c == nil {
		return nil, false
	}
	slot, ok := c.index.find(hashID)
	if !ok {
		return nil, false
	}
	return &c.nodes[slot], true
}

// FindByIndex returns the node stored at table index i, or nil if i is out of range.
func (c *Cache) FindByIndex(i int) *CacheNode {
	if c == nil || i < 0 || i >= len(c.nodes) {
		return nil
	}
	return &c.nodes[i]
}

// Nodes returns an iterator over the cache's nodes in table order.
func (c *Cache) Nodes() iter.Seq2[int, *CacheNode] {
	return func(yield func(int, *CacheNode) bool) {
		for i := range c.nodes {
			if !yield(i, &c.nodes[i]) {
				return
			}
		}
	}
}
