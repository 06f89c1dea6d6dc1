package depcache

import (
	"io"
	"math"

	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/zerr"
)

// blockWriter stages fixed-size records in a bounded buffer. A record is never split
// across two flushes. The first write error sticks and turns later calls into no-ops.
type blockWriter struct {
	w   io.Writer
	buf []byte
	err error
}

func newBlockWriter(w io.Writer) *blockWriter {
	return &blockWriter{w: w, buf: make([]byte, 0, bufferSize)}
}

// next returns a zeroed slot of n bytes at the end of the buffer, flushing first if
// the slot would not fit. It returns nil once an error has occurred.
func (b *blockWriter) next(n int) []byte {
	if b.err != nil {
		return nil
	}
	if len(b.buf)+n > cap(b.buf) {
		b.flush()
		if b.err != nil {
			return nil
		}
	}
	start := len(b.buf)
	b.buf = b.buf[:start+n]
	clear(b.buf[start:])
	return b.buf[start:]
}

// writeString stages s. A string larger than the whole buffer bypasses it.
func (b *blockWriter) writeString(s string) {
	if b.err != nil {
		return
	}
	if len(b.buf)+len(s) > cap(b.buf) {
		b.flush()
		if b.err != nil {
			return
		}
	}
	if len(s) > cap(b.buf) {
		_, b.err = io.WriteString(b.w, s)
		return
	}
	b.buf = append(b.buf, s...)
}

func (b *blockWriter) flush() {
	if b.err != nil || len(b.buf) == 0 {
		return
	}
	_, b.err = b.w.Write(b.buf)
	b.buf = b.buf[:0]
}

// encodeGraph streams nodes in table order: header, node records, dependency
// entries, then the filenames. nodes[i].ID must equal i.
func encodeGraph(w io.Writer, nodes []*domain.Node) error {
	header, err := graphHeader(nodes)
	if err != nil {
		return err
	}

	bw := newBlockWriter(w)

	if slot := bw.next(headerSize); slot != nil {
		putHeader(slot, header)
	}

	var depOffset uint32
	var nameOffset uint64
	for _, n := range nodes {
		depCount := uint32(len(n.Dependencies())) //nolint:gosec // Checked by graphHeader.
		if slot := bw.next(recordSize); slot != nil {
			putRecord(slot, domain.CacheRecord{
				HashID:           n.HashID,
				CommandHash:      n.CommandHash,
				Timestamp:        n.Timestamp,
				DependencyOffset: depOffset,
				DependencyCount:  depCount,
				FilenameOffset:   nameOffset,
			})
		}
		depOffset += depCount
		nameOffset += uint64(n.Filename.Len())
	}

	for _, n := range nodes {
		for _, dep := range n.Dependencies() {
			if slot := bw.next(depEntrySize); slot != nil {
				putDependency(slot, uint32(dep.ID)) //nolint:gosec // Bounded by the node count.
			}
		}
	}

	for _, n := range nodes {
		bw.writeString(n.Filename.String())
	}

	bw.flush()
	return bw.err
}

// graphHeader sizes the tables and checks that every edge points into nodes, so that
// nothing is written for a graph the loader would reject.
func graphHeader(nodes []*domain.Node) (domain.CacheHeader, error) {
	deps := 0
	for _, n := range nodes {
		for _, dep := range n.Dependencies() {
			if dep.ID < 0 || dep.ID >= len(nodes) || nodes[dep.ID] != dep {
				return domain.CacheHeader{}, zerr.With(zerr.With(domain.ErrCacheDependencyIndex,
					"node", n.Filename.String()),
					"dependency", dep.Filename.String())
			}
		}
		deps += len(n.Dependencies())
	}
	if uint64(len(nodes)) > math.MaxUint32 || uint64(deps) > math.MaxUint32 {
		return domain.CacheHeader{}, zerr.With(zerr.With(domain.ErrCacheTooLarge,
			"nodes", len(nodes)),
			"dependencies", deps)
	}
	return domain.CacheHeader{
		Signature:       signature,
		NodeCount:       uint32(len(nodes)), //nolint:gosec // Checked above.
		DependencyCount: uint32(deps),       //nolint:gosec // Checked above.
	}, nil
}
