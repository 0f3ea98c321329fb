package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mxbridge/internal/filter"
	"mxbridge/internal/logger"
)

const maxFileSize = 1 * 1024 * 1024

type Config struct {
	Engine       EngineConfig       `yaml:"engine"`
	Filters      FiltersConfig      `yaml:"filters"`
	Centroids    CentroidsConfig    `yaml:"centroids"`
	Segmentation SegmentationConfig `yaml:"segmentation"`
	Log          LogConfig          `yaml:"log"`
}

type EngineConfig struct {
	// StartCommand is handed to the engine launcher; empty uses the default.
	StartCommand string `yaml:"start_command"`
	ShowUI       bool   `yaml:"show_ui"`
}

type FiltersConfig struct {
	Color string `yaml:"color"`
	Depth string `yaml:"depth"`
}

type CentroidsConfig struct {
	MinObjectArea   int    `yaml:"min_object_area"`
	ErosionSize     int    `yaml:"erosion_size"`
	MarkerRadius    int    `yaml:"marker_radius"`
	MarkerLineWidth int    `yaml:"marker_line_width"`
	MarkerColor     string `yaml:"marker_color"`
}

type SegmentationConfig struct {
	Clusters int `yaml:"clusters"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

func Default() *Config {
	params := filter.DefaultParams()
	return &Config{
		Filters: FiltersConfig{
			Color: string(filter.None),
			Depth: string(filter.None),
		},
		Centroids: CentroidsConfig{
			MinObjectArea:   params.Centroids.MinObjectArea,
			ErosionSize:     params.Centroids.ErosionSize,
			MarkerRadius:    params.Centroids.MarkerRadius,
			MarkerLineWidth: params.Centroids.MarkerLineWidth,
			MarkerColor:     params.Centroids.MarkerColor,
		},
		Segmentation: SegmentationConfig{
			Clusters: params.Segmentation.Clusters,
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if !filter.Known(filter.ID(c.Filters.Color)) {
		errs = append(errs, fmt.Errorf("filters.color: unknown filter %q", c.Filters.Color))
	}
	if c.Filters.Depth == "" {
		errs = append(errs, errors.New("filters.depth: must not be empty"))
	}
	if c.Centroids.MinObjectArea < 0 {
		errs = append(errs, fmt.Errorf("centroids.min_object_area: must be >= 0, got %d", c.Centroids.MinObjectArea))
	}
	if c.Centroids.ErosionSize < 1 {
		errs = append(errs, fmt.Errorf("centroids.erosion_size: must be >= 1, got %d", c.Centroids.ErosionSize))
	}
	if c.Centroids.MarkerRadius < 1 {
		errs = append(errs, fmt.Errorf("centroids.marker_radius: must be >= 1, got %d", c.Centroids.MarkerRadius))
	}
	if c.Centroids.MarkerLineWidth < 1 {
		errs = append(errs, fmt.Errorf("centroids.marker_line_width: must be >= 1, got %d", c.Centroids.MarkerLineWidth))
	}
	if !validColorName(c.Centroids.MarkerColor) {
		errs = append(errs, fmt.Errorf("centroids.marker_color: unsupported color %q", c.Centroids.MarkerColor))
	}
	if c.Segmentation.Clusters < 2 {
		errs = append(errs, fmt.Errorf("segmentation.clusters: must be >= 2, got %d", c.Segmentation.Clusters))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// FilterParams converts the tuning sections into pipeline parameters.
func (c *Config) FilterParams() filter.Params {
	return filter.Params{
		Centroids: filter.CentroidParams{
			MinObjectArea:   c.Centroids.MinObjectArea,
			ErosionSize:     c.Centroids.ErosionSize,
			MarkerRadius:    c.Centroids.MarkerRadius,
			MarkerLineWidth: c.Centroids.MarkerLineWidth,
			MarkerColor:     c.Centroids.MarkerColor,
		},
		Segmentation: filter.SegmentationParams{
			Clusters: c.Segmentation.Clusters,
		},
	}
}

// Marker colours accepted by the engine's shape inserter.
var markerColors = map[string]bool{
	"blue": true, "green": true, "red": true, "cyan": true,
	"magenta": true, "yellow": true, "black": true, "white": true,
}

func validColorName(name string) bool {
	return markerColors[name]
}
