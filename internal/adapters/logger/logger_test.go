package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bam/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)
	return l, &buf
}

func TestLogger_Info(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Info("cache loaded")
	assert.Equal(t, "cache loaded\n", buf.String())
}

func TestLogger_Warn(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Warn("cache failed to load, not using cache")
	assert.Equal(t, "! cache failed to load, not using cache\n", buf.String())
}

func TestLogger_Error(t *testing.T) {
	l, buf := newTestLogger(t)

	err := zerr.With(zerr.Wrap(errors.New("disk full"), "failed to write cache file"), "path", ".bam/cache.bam")
	l.Error(err)

	want := "✗ Error: failed to write cache file\n" +
		"       path: .bam/cache.bam\n\n" +
		"  Caused by:\n" +
		"    → disk full\n"
	assert.Equal(t, want, buf.String())
}

func TestLogger_ErrorNil(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	l, buf := newTestLogger(t)
	l.SetJSON(true)

	l.Info("build finished")
	l.Error(zerr.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "build finished", info["msg"])

	var failure map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failure))
	assert.Equal(t, "ERROR", failure["level"])
	assert.Equal(t, "boom", failure["error"])
}

func TestLogger_SetJSONKeepsOutput(t *testing.T) {
	l, buf := newTestLogger(t)
	l.SetJSON(true)
	l.SetJSON(false)

	l.Info("pretty again")
	assert.Equal(t, "pretty again\n", buf.String())
}
