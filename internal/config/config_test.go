package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mxbridge/internal/filter"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, filter.DefaultParams(), cfg.FilterParams())
	assert.Equal(t, "none", cfg.Filters.Color)
	assert.Equal(t, "none", cfg.Filters.Depth)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
engine:
  show_ui: true
filters:
  color: object-centroids
centroids:
  min_object_area: 120
`))
	require.NoError(t, err)

	assert.True(t, cfg.Engine.ShowUI)
	assert.Equal(t, "object-centroids", cfg.Filters.Color)
	assert.Equal(t, "none", cfg.Filters.Depth)
	assert.Equal(t, 120, cfg.Centroids.MinObjectArea)
	assert.Equal(t, 10, cfg.Centroids.ErosionSize)
	assert.Equal(t, "green", cfg.Centroids.MarkerColor)
	assert.Equal(t, 120, cfg.FilterParams().Centroids.MinObjectArea)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown filter", "filters:\n  color: sepia\n", "filters.color"},
		{"negative area", "centroids:\n  min_object_area: -1\n", "centroids.min_object_area"},
		{"zero erosion", "centroids:\n  erosion_size: 0\n", "centroids.erosion_size"},
		{"bad color", "centroids:\n  marker_color: \"green'); exit; %\"\n", "centroids.marker_color"},
		{"one cluster", "segmentation:\n  clusters: 1\n", "segmentation.clusters"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"unknown key", "engine:\n  show_gui: true\n", "show_gui"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "mxbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filters:\n  color: kmeans-overlay\nsegmentation:\n  clusters: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kmeans-overlay", cfg.Filters.Color)
	assert.Equal(t, 3, cfg.Segmentation.Clusters)

	_, err = Load(filepath.Join(dir, "config.json"))
	assert.ErrorContains(t, err, "extension")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
