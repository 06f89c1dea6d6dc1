package domain

import (
	"cmp"
	"slices"

	"go.trai.ch/zerr"
)

type hashSlot struct {
	hash uint64
	slot uint32
}

// hashIndex maps hash ids to node-table slots. It is sorted by hash once at load time
// and queried with binary search.
type hashIndex []hashSlot

func compareSlot(a, b hashSlot) int {
	return cmp.Compare(a.hash, b.hash)
}

func newHashIndex(nodes []CacheNode) (hashIndex, error) {
	index := make(hashIndex, len(nodes))
	for i := range nodes {
		index[i] = hashSlot{hash: nodes[i].HashID, slot: uint32(i)} //nolint:gosec // Bounded by the uint32 node count.
	}
	slices.SortFunc(index, compareSlot)

	for i := 1; i < len(index); i++ {
		if index[i].hash == index[i-1].hash {
			return nil, zerr.With(zerr.With(ErrCacheDuplicateHash,
				"hash_id", index[i].hash),
				"filename", nodes[index[i].slot].Filename)
		}
	}
	return index, nil
}

func (ix hashIndex) find(hash uint64) (int, bool) {
	i, found := slices.BinarySearchFunc(ix, hash, func(e hashSlot, target uint64) int {
		return cmp.Compare(e.hash, target)
	})
	if !found {
		return 0, false
	}
	return int(ix[i].slot), true
}
