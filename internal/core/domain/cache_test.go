package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/zerr"
)

// chainCache builds the A -> B -> C cache: A depends on B, B on C.
func chainCache(t *testing.T) *domain.Cache {
	t.Helper()

	header := domain.CacheHeader{NodeCount: 3, DependencyCount: 2}
	records := []domain.CacheRecord{
		{HashID: 1, Timestamp: 100, DependencyOffset: 0, DependencyCount: 1, FilenameOffset: 0},
		{HashID: 2, Timestamp: 200, DependencyOffset: 1, DependencyCount: 1, FilenameOffset: 1},
		{HashID: 3, Timestamp: 300, DependencyOffset: 2, DependencyCount: 0, FilenameOffset: 2},
	}
	c, err := domain.NewCache(header, records, []uint32{1, 2}, "ABC")
	require.NoError(t, err)
	return c
}

func TestNewCache_Relocates(t *testing.T) {
	c := chainCache(t)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.DependencyLen())

	a := c.FindByIndex(0)
	require.NotNil(t, a)
	assert.Equal(t, "A", a.Filename)
	assert.Equal(t, []uint32{1}, a.Dependencies)

	last := c.FindByIndex(2)
	require.NotNil(t, last)
	assert.Equal(t, "C", last.Filename)
	assert.Empty(t, last.Dependencies)
	assert.Equal(t, int64(300), last.Timestamp)
}

func TestCache_FindByHash(t *testing.T) {
	c := chainCache(t)

	for _, tc := range []struct {
		hash uint64
		name string
	}{
		{1, "A"},
		{2, "B"},
		{3, "C"},
	} {
		n, ok := c.FindByHash(tc.hash)
		require.True(t, ok, "hash %d", tc.hash)
		assert.Equal(t, tc.name, n.Filename)
	}

	_, ok := c.FindByHash(42)
	assert.False(t, ok)
}

func TestCache_FindByHash_UnsortedInput(t *testing.T) {
	hashes := []uint64{900, 5, 77, 12, 1 << 63, 3}
	records := make([]domain.CacheRecord, len(hashes))
	for i, h := range hashes {
		records[i] = domain.CacheRecord{HashID: h, FilenameOffset: uint64(i)}
	}
	header := domain.CacheHeader{NodeCount: uint32(len(hashes))}

	c, err := domain.NewCache(header, records, nil, "abcdef")
	require.NoError(t, err)

	for i, h := range hashes {
		n, ok := c.FindByHash(h)
		require.True(t, ok)
		assert.Same(t, c.FindByIndex(i), n)
	}
}

func TestCache_NilSafe(t *testing.T) {
	var c *domain.Cache

	_, ok := c.FindByHash(1)
	assert.False(t, ok)
	assert.Nil(t, c.FindByIndex(0))
}

func TestCache_FindByIndex_OutOfRange(t *testing.T) {
	c := chainCache(t)
	assert.Nil(t, c.FindByIndex(-1))
	assert.Nil(t, c.FindByIndex(3))
}

func TestCache_Nodes(t *testing.T) {
	c := chainCache(t)

	var names []string
	for i, n := range c.Nodes() {
		assert.Same(t, c.FindByIndex(i), n)
		names = append(names, n.Filename)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestNewCache_Empty(t *testing.T) {
	c, err := domain.NewCache(domain.CacheHeader{}, nil, nil, "")
	require.NoError(t, err)
	assert.Zero(t, c.Len())

	_, ok := c.FindByHash(0)
	assert.False(t, ok)
}

func TestNewCache_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		header  domain.CacheHeader
		records []domain.CacheRecord
		deps    []uint32
		blob    string
		wantErr error
	}{
		{
			name:    "count mismatch",
			header:  domain.CacheHeader{NodeCount: 2},
			records: []domain.CacheRecord{{HashID: 1}},
			blob:    "a",
			wantErr: domain.ErrCacheTruncated,
		},
		{
			name:   "dependency range past table",
			header: domain.CacheHeader{NodeCount: 1, DependencyCount: 1},
			records: []domain.CacheRecord{
				{HashID: 1, DependencyOffset: 1, DependencyCount: 1},
			},
			deps:    []uint32{0},
			blob:    "a",
			wantErr: domain.ErrCacheDependencyRange,
		},
		{
			name:   "dependency index past node table",
			header: domain.CacheHeader{NodeCount: 1, DependencyCount: 1},
			records: []domain.CacheRecord{
				{HashID: 1, DependencyCount: 1},
			},
			deps:    []uint32{5},
			blob:    "a",
			wantErr: domain.ErrCacheDependencyIndex,
		},
		{
			name:   "filename offsets decreasing",
			header: domain.CacheHeader{NodeCount: 2},
			records: []domain.CacheRecord{
				{HashID: 1, FilenameOffset: 2},
				{HashID: 2, FilenameOffset: 1},
			},
			blob:    "abc",
			wantErr: domain.ErrCacheFilenameRange,
		},
		{
			name:   "filename offset past blob",
			header: domain.CacheHeader{NodeCount: 1},
			records: []domain.CacheRecord{
				{HashID: 1, FilenameOffset: 4},
			},
			blob:    "abc",
			wantErr: domain.ErrCacheFilenameRange,
		},
		{
			name:   "empty last filename",
			header: domain.CacheHeader{NodeCount: 2},
			records: []domain.CacheRecord{
				{HashID: 1, FilenameOffset: 0},
				{HashID: 2, FilenameOffset: 2},
			},
			blob:    "ab",
			wantErr: domain.ErrCacheFilenameRange,
		},
		{
			name:   "empty inner filename",
			header: domain.CacheHeader{NodeCount: 3},
			records: []domain.CacheRecord{
				{HashID: 1, FilenameOffset: 0},
				{HashID: 2, FilenameOffset: 1},
				{HashID: 3, FilenameOffset: 1},
			},
			blob:    "ab",
			wantErr: domain.ErrCacheFilenameRange,
		},
		{
			name:   "blob bytes before first filename",
			header: domain.CacheHeader{NodeCount: 1},
			records: []domain.CacheRecord{
				{HashID: 1, FilenameOffset: 1},
			},
			blob:    "xa",
			wantErr: domain.ErrCacheFilenameRange,
		},
		{
			name:   "duplicate hash",
			header: domain.CacheHeader{NodeCount: 2},
			records: []domain.CacheRecord{
				{HashID: 7, FilenameOffset: 0},
				{HashID: 7, FilenameOffset: 1},
			},
			blob:    "ab",
			wantErr: domain.ErrCacheDuplicateHash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := domain.NewCache(tt.header, tt.records, tt.deps, tt.blob)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestNewCache_DuplicateHashMetadata(t *testing.T) {
	header := domain.CacheHeader{NodeCount: 2}
	records := []domain.CacheRecord{
		{HashID: 7, FilenameOffset: 0},
		{HashID: 7, FilenameOffset: 3},
	}

	_, err := domain.NewCache(header, records, nil, "foobar")
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	meta := zErr.Metadata()
	assert.Equal(t, uint64(7), meta["hash_id"])
	assert.Contains(t, []any{"foo", "bar"}, meta["filename"])
}
