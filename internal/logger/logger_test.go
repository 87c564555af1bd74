package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoutesByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	log, cleanup, err := New(Options{Level: "info", Out: &out, Err: &errOut})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("page loaded")
	log.Warn("fetch failed")
	log.Error("render failed")
	cleanup()

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "page loaded")
	assert.Contains(t, out.String(), "fetch failed")
	assert.NotContains(t, out.String(), "render failed")
	assert.Contains(t, errOut.String(), "render failed")
	assert.NotContains(t, errOut.String(), "page loaded")
}

func TestNewWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "magasin.log")
	var out, errOut bytes.Buffer

	log, cleanup, err := New(Options{Level: "warn", File: path, Out: &out, Err: &errOut})
	require.NoError(t, err)
	log.Info("ignored")
	log.Warn("kept")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.NotContains(t, string(data), "ignored")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNamedNil(t *testing.T) {
	assert.NotNil(t, Named(nil, "gateway"))
}
