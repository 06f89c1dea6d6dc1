// Package depcache persists the dependency graph in a compact binary file and loads
// it back as a read-only domain.Cache.
//
// A cache file is laid out as
//
//	header | node table | dependency table | string blob
//
// All integers are stored in the byte order of the host that wrote the file. The
// header signature records that byte order and the host pointer width, so a file
// produced elsewhere fails the signature check and is ignored.
package depcache

import (
	"encoding/binary"
	"strconv"

	"go.trai.ch/bam/internal/core/domain"
)

const (
	formatMajor = 0
	formatMinor = 4

	headerSize   = domain.CacheSignatureSize + 4 + 4
	recordSize   = 8 + 8 + 8 + 4 + 4 + 8
	depEntrySize = 4

	// bufferSize bounds the memory used while writing a cache file.
	bufferSize = 32 * 1024
)

const (
	littleEndianTag byte = 1
	bigEndianTag    byte = 2
)

// signature is the exact byte sequence every readable cache file starts with.
var signature = [domain.CacheSignatureSize]byte{
	'B', 'A', 'M', 0,
	formatMajor, formatMinor,
	strconv.IntSize / 8,
	hostEndianTag(),
}

func hostEndianTag() byte {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] == 1 {
		return littleEndianTag
	}
	return bigEndianTag
}

// Signature returns the signature written by this host.
func Signature() [domain.CacheSignatureSize]byte {
	return signature
}

func putHeader(b []byte, h domain.CacheHeader) {
	copy(b, h.Signature[:])
	binary.NativeEndian.PutUint32(b[8:], h.NodeCount)
	binary.NativeEndian.PutUint32(b[12:], h.DependencyCount)
}

func readHeader(b []byte) domain.CacheHeader {
	var h domain.CacheHeader
	copy(h.Signature[:], b[:domain.CacheSignatureSize])
	h.NodeCount = binary.NativeEndian.Uint32(b[8:])
	h.DependencyCount = binary.NativeEndian.Uint32(b[12:])
	return h
}

func putRecord(b []byte, r domain.CacheRecord) {
	binary.NativeEndian.PutUint64(b[0:], r.HashID)
	binary.NativeEndian.PutUint64(b[8:], r.CommandHash)
	binary.NativeEndian.PutUint64(b[16:], uint64(r.Timestamp)) //nolint:gosec // Bit pattern is preserved.
	binary.NativeEndian.PutUint32(b[24:], r.DependencyOffset)
	binary.NativeEndian.PutUint32(b[28:], r.DependencyCount)
	binary.NativeEndian.PutUint64(b[32:], r.FilenameOffset)
}

func readRecord(b []byte) domain.CacheRecord {
	return domain.CacheRecord{
		HashID:           binary.NativeEndian.Uint64(b[0:]),
		CommandHash:      binary.NativeEndian.Uint64(b[8:]),
		Timestamp:        int64(binary.NativeEndian.Uint64(b[16:])), //nolint:gosec // Bit pattern is preserved.
		DependencyOffset: binary.NativeEndian.Uint32(b[24:]),
		DependencyCount:  binary.NativeEndian.Uint32(b[28:]),
		FilenameOffset:   binary.NativeEndian.Uint64(b[32:]),
	}
}

// tablesSize returns the number of bytes taken by the header and both tables.
func tablesSize(h domain.CacheHeader) uint64 {
	return headerSize +
		uint64(h.NodeCount)*recordSize +
		uint64(h.DependencyCount)*depEntrySize
}

func putDependency(b []byte, index uint32) {
	binary.NativeEndian.PutUint32(b, index)
}

func readDependency(b []byte) uint32 {
	return binary.NativeEndian.Uint32(b)
}
