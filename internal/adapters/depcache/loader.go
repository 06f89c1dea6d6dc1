package depcache

import (
	"bytes"
	"unsafe"

	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/zerr"
)

// decodeCache validates data as a complete cache file and relocates it into a
// domain.Cache. Every failure means the file is unusable. The cache keeps data alive
// through its filenames, so callers must hand over a buffer they no longer modify.
func decodeCache(data []byte) (*domain.Cache, error) {
	if len(data) < headerSize {
		return nil, zerr.With(domain.ErrCacheTruncated, "size", len(data))
	}

	header := readHeader(data)
	if !bytes.Equal(header.Signature[:], signature[:]) {
		return nil, zerr.With(domain.ErrCacheHeaderMismatch, "signature", header.Signature)
	}

	tablesEnd := tablesSize(header)
	if tablesEnd > uint64(len(data)) {
		return nil, zerr.With(zerr.With(domain.ErrCacheTruncated,
			"size", len(data)),
			"required", tablesEnd)
	}

	pos := headerSize
	records := make([]domain.CacheRecord, header.NodeCount)
	for i := range records {
		records[i] = readRecord(data[pos:])
		pos += recordSize
	}

	deps := make([]uint32, header.DependencyCount)
	for i := range deps {
		deps[i] = readDependency(data[pos:])
		pos += depEntrySize
	}

	// Filenames are views into data, which is never written after the read.
	var blob string
	if tail := data[tablesEnd:]; len(tail) > 0 {
		blob = unsafe.String(&tail[0], len(tail))
	}

	return domain.NewCache(header, records, deps, blob)
}
