package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mxbridge/internal/filter"
	"mxbridge/internal/status"
)

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"-in", "a.png", "-out", "b.png", "-filter", "kmeans-overlay", "-view"}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "a.png", opts.input)
	assert.Equal(t, "b.png", opts.output)
	assert.Equal(t, "kmeans-overlay", opts.colorFilter)
	assert.True(t, opts.view)
	assert.False(t, opts.showEngine)
}

func TestParseFlagsRequiresInput(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags(nil, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "-in is required")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 10+int(status.KindEngineUnavailable),
		exitCode(status.Wrap("start", status.ErrEngineUnavailable)))
	assert.Equal(t, 10+int(status.KindUnspecified), exitCode(errors.New("boom")))
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mxbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filters:\n  color: object-centroids\nlog:\n  level: info\n"), 0o600))

	cfg, err := loadConfig(options{
		configPath:  path,
		colorFilter: string(filter.KMeansOverlay),
		logLevel:    "debug",
		showEngine:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, string(filter.KMeansOverlay), cfg.Filters.Color)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Engine.ShowUI)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(options{configPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestPrintCentroids(t *testing.T) {
	var out bytes.Buffer
	printCentroids(&out, filter.Centroids{{X: 1.5, Y: 2}, {X: 10, Y: 20.25}})

	assert.Equal(t, "objects: 2\n1\t1.50\t2.00\n2\t10.00\t20.25\n", out.String())
}
