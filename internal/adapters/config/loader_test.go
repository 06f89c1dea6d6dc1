package config_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bam/internal/adapters/config"
	bamfs "go.trai.ch/bam/internal/adapters/fs"
	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/bam/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.ManifestFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeManifest(t, `
version: "1"
nodes:
  - path: app
    command: [cc, -o, app, main.o]
    deps: [main.o]
  - path: main.o
    command: [cc, -c, main.c]
    deps: [main.c]
  - path: main.c
    scan: true
`)
	root := filepath.Dir(path)

	ctrl := gomock.NewController(t)
	fsys := mocks.NewMockFileSystem(ctrl)
	fsys.EXPECT().ModTime(filepath.Join(root, "app")).Return(int64(0), fs.ErrNotExist)
	fsys.EXPECT().ModTime(filepath.Join(root, "main.o")).Return(int64(200), nil)
	fsys.EXPECT().ModTime(filepath.Join(root, "main.c")).Return(int64(100), nil)

	hasher := bamfs.NewHasher()
	manifest, err := config.NewLoader(fsys, hasher).Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, ".bam", "cache.bam"), manifest.CachePath)

	g := manifest.Graph
	require.Equal(t, 3, g.Len())

	app, ok := g.Lookup(filepath.Join(root, "app"))
	require.True(t, ok)
	assert.Equal(t, 0, app.ID)
	assert.Zero(t, app.Timestamp)
	assert.Equal(t, hasher.HashPath(filepath.Join(root, "app")), app.HashID)
	assert.Equal(t, hasher.HashCommand([]string{"cc", "-o", "app", "main.o"}), app.CommandHash)
	require.Len(t, app.Dependencies(), 1)
	assert.Equal(t, filepath.Join(root, "main.o"), app.Dependencies()[0].Filename.String())

	src, ok := g.Lookup(filepath.Join(root, "main.c"))
	require.True(t, ok)
	assert.True(t, src.Scan)
	assert.Equal(t, int64(100), src.Timestamp)
	assert.Zero(t, src.CommandHash)
}

func TestLoader_CustomCachePath(t *testing.T) {
	path := writeManifest(t, `
cache: out/deps.bam
nodes: []
`)

	ctrl := gomock.NewController(t)
	manifest, err := config.NewLoader(mocks.NewMockFileSystem(ctrl), bamfs.NewHasher()).Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "out", "deps.bam"), manifest.CachePath)
	assert.Zero(t, manifest.Graph.Len())
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "nodes: [",
			wantErr: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:    "unsupported version",
			content: "version: \"2\"\nnodes: []\n",
			wantErr: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:    "missing dependency",
			content: "nodes:\n  - path: app\n    deps: [lib.a]\n",
			wantErr: domain.ErrMissingDependency.Error(),
		},
		{
			name:    "duplicate path",
			content: "nodes:\n  - path: app\n  - path: app\n",
			wantErr: domain.ErrNodeAlreadyExists.Error(),
		},
		{
			name:    "empty path",
			content: "nodes:\n  - command: [make]\n",
			wantErr: domain.ErrEmptyFilename.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)

			ctrl := gomock.NewController(t)
			fsys := mocks.NewMockFileSystem(ctrl)
			fsys.EXPECT().ModTime(gomock.Any()).Return(int64(0), fs.ErrNotExist).AnyTimes()

			_, err := config.NewLoader(fsys, bamfs.NewHasher()).Load(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoader_StatError(t *testing.T) {
	path := writeManifest(t, "nodes:\n  - path: app\n")

	ctrl := gomock.NewController(t)
	fsys := mocks.NewMockFileSystem(ctrl)
	fsys.EXPECT().ModTime(gomock.Any()).Return(int64(0), errors.New("permission denied"))

	_, err := config.NewLoader(fsys, bamfs.NewHasher()).Load(path)
	assert.ErrorContains(t, err, "permission denied")
}

func TestLoader_MissingManifest(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := config.NewLoader(mocks.NewMockFileSystem(ctrl), bamfs.NewHasher()).
		Load(filepath.Join(t.TempDir(), domain.ManifestFileName))

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoader_PathsIndependentOfWorkingDirectory(t *testing.T) {
	path := writeManifest(t, "nodes:\n  - path: main.c\n    scan: true\n")
	root := filepath.Dir(path)

	load := func(manifestPath string) *domain.Node {
		t.Helper()
		ctrl := gomock.NewController(t)
		fsys := mocks.NewMockFileSystem(ctrl)
		fsys.EXPECT().ModTime(filepath.Join(root, "main.c")).Return(int64(100), nil)

		manifest, err := config.NewLoader(fsys, bamfs.NewHasher()).Load(manifestPath)
		require.NoError(t, err)
		nodes := slices.Collect(manifest.Graph.Nodes())
		require.Len(t, nodes, 1)
		return nodes[0]
	}

	fromAbs := load(path)

	t.Chdir(root)
	fromRel := load(domain.ManifestFileName)

	assert.Equal(t, filepath.Join(root, "main.c"), fromAbs.Filename.String())
	assert.Equal(t, fromAbs.Filename.String(), fromRel.Filename.String())
	assert.Equal(t, fromAbs.HashID, fromRel.HashID)
}
