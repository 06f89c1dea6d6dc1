package depcache

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bam/internal/core/domain"
)

// recordingWriter keeps every Write call separately.
type recordingWriter struct {
	writes [][]byte
}

func (r *recordingWriter) Write(p []byte) (int, error) {
	r.writes = append(r.writes, bytes.Clone(p))
	return len(p), nil
}

func (r *recordingWriter) joined() []byte {
	return bytes.Join(r.writes, nil)
}

func TestSignature(t *testing.T) {
	sig := Signature()
	assert.Equal(t, []byte{'B', 'A', 'M', 0}, sig[:4])
	assert.Equal(t, byte(formatMajor), sig[4])
	assert.Equal(t, byte(formatMinor), sig[5])
	assert.Contains(t, []byte{4, 8}, sig[6])
	assert.Contains(t, []byte{littleEndianTag, bigEndianTag}, sig[7])
}

func TestRecordCodec(t *testing.T) {
	r := domain.CacheRecord{
		HashID:           0xdeadbeefcafebabe,
		CommandHash:      42,
		Timestamp:        -7,
		DependencyOffset: 3,
		DependencyCount:  2,
		FilenameOffset:   1 << 40,
	}
	buf := make([]byte, recordSize)
	putRecord(buf, r)
	assert.Equal(t, r, readRecord(buf))
}

func TestEncodeGraph_FlushesWholeRecords(t *testing.T) {
	g := domain.NewGraph()
	const count = 2000
	var prev *domain.Node
	for i := range count {
		n := &domain.Node{
			Filename: domain.NewInternedString(fmt.Sprintf("src/file_%04d.h", i)),
			HashID:   uint64(i + 1),
		}
		require.NoError(t, g.AddNode(n))
		if prev != nil {
			prev.AddDependency(n)
		}
		prev = n
	}
	nodes := collect(g)

	w := &recordingWriter{}
	require.NoError(t, encodeGraph(w, nodes))
	require.Greater(t, len(w.writes), 1)

	// The first flush holds the header and as many whole records as fit.
	wholeRecords := (bufferSize - headerSize) / recordSize
	assert.Len(t, w.writes[0], headerSize+wholeRecords*recordSize)
	for _, chunk := range w.writes {
		assert.LessOrEqual(t, len(chunk), bufferSize)
	}

	cache, err := decodeCache(w.joined())
	require.NoError(t, err)
	assert.Equal(t, count, cache.Len())
	assert.Equal(t, count-1, cache.DependencyLen())

	last, ok := cache.FindByHash(count)
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("src/file_%04d.h", count-1), last.Filename)

	first, ok := cache.FindByHash(1)
	require.True(t, ok)
	assert.Equal(t, []uint32{1}, first.Dependencies)
}

func TestEncodeGraph_FlushesInsideDependencyTable(t *testing.T) {
	// Every node depends on every node, so the dependency table alone outgrows the buffer.
	const count = 100
	g := domain.NewGraph()
	for i := range count {
		require.NoError(t, g.AddNode(&domain.Node{
			Filename: domain.NewInternedString(fmt.Sprintf("h%03d.h", i)),
			HashID:   uint64(i + 1),
		}))
	}
	nodes := collect(g)
	for _, n := range nodes {
		for _, dep := range nodes {
			n.AddDependency(dep)
		}
	}

	w := &recordingWriter{}
	require.NoError(t, encodeGraph(w, nodes))

	tables := headerSize + count*recordSize + count*count*depEntrySize
	require.Greater(t, tables, bufferSize)

	// The first flush ends inside the dependency table, on an entry boundary.
	first := len(w.writes[0])
	depBytes := first - headerSize - count*recordSize
	assert.Positive(t, depBytes)
	assert.Less(t, first, tables)
	assert.Zero(t, depBytes%depEntrySize)
	for _, chunk := range w.writes {
		assert.LessOrEqual(t, len(chunk), bufferSize)
	}

	cache, err := decodeCache(w.joined())
	require.NoError(t, err)
	assert.Equal(t, count*count, cache.DependencyLen())

	want := make([]uint32, count)
	for i := range want {
		want[i] = uint32(i)
	}
	for i := range count {
		assert.Equal(t, want, cache.FindByIndex(i).Dependencies, "node %d", i)
	}
}

func TestDecodeCache_FilenamesViewBuffer(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(&domain.Node{Filename: domain.NewInternedString("main.c"), HashID: 1}))

	w := &recordingWriter{}
	require.NoError(t, encodeGraph(w, collect(g)))
	data := w.joined()

	cache, err := decodeCache(data)
	require.NoError(t, err)

	name := cache.FindByIndex(0).Filename
	require.Equal(t, "main.c", name)
	assert.Same(t, &data[len(data)-len(name)], unsafe.StringData(name))
}

func TestEncodeGraph_OversizedFilename(t *testing.T) {
	g := domain.NewGraph()
	long := strings.Repeat("d/", bufferSize) + "x.h"
	require.NoError(t, g.AddNode(&domain.Node{Filename: domain.NewInternedString("a.c"), HashID: 1}))
	require.NoError(t, g.AddNode(&domain.Node{Filename: domain.NewInternedString(long), HashID: 2}))

	w := &recordingWriter{}
	require.NoError(t, encodeGraph(w, collect(g)))

	require.Len(t, w.writes, 2)
	assert.Equal(t, long, string(w.writes[1]))

	cache, err := decodeCache(w.joined())
	require.NoError(t, err)
	n, ok := cache.FindByHash(2)
	require.True(t, ok)
	assert.Equal(t, long, n.Filename)
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestBlockWriter_StickyError(t *testing.T) {
	bw := newBlockWriter(errWriter{})
	bw.writeString(strings.Repeat("x", bufferSize+1))
	require.EqualError(t, bw.err, "broken pipe")

	assert.Nil(t, bw.next(recordSize))
	bw.flush()
	assert.EqualError(t, bw.err, "broken pipe")
}

func TestDecodeCache_DeclaredCountsPastEnd(t *testing.T) {
	buf := make([]byte, headerSize)
	putHeader(buf, domain.CacheHeader{Signature: signature, NodeCount: 1 << 31, DependencyCount: 1 << 31})

	_, err := decodeCache(buf)
	assert.ErrorContains(t, err, domain.ErrCacheTruncated.Error())
}

func collect(g *domain.Graph) []*domain.Node {
	var nodes []*domain.Node
	for n := range g.Nodes() {
		nodes = append(nodes, n)
	}
	return nodes
}
