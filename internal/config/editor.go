package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EditorConfigFileName is looked up in the working directory when no path is given.
const EditorConfigFileName = "erd.yaml"

// EditorEnvPrefix prefixes environment overrides, e.g. ERD_MIN_WIDTH=200.
const EditorEnvPrefix = "ERD_"

const (
	BoundsDynamic = "dynamic"
	BoundsStatic  = "static"
)

// EditorConfig holds every tunable of the diagram editor.
type EditorConfig struct {
	MinWidth          float64 `koanf:"min_width"`
	MaxWidth          float64 `koanf:"max_width"`
	BaseHeight        float64 `koanf:"base_height"`
	RowHeight         float64 `koanf:"row_height"`
	Padding           float64 `koanf:"padding"`
	WindowWidth       float64 `koanf:"window_width"`
	WindowHeight      float64 `koanf:"window_height"`
	ViewportWidth     float64 `koanf:"viewport_width"`
	ViewportHeight    float64 `koanf:"viewport_height"`
	MinZoom           float64 `koanf:"min_zoom"`
	MaxZoom           float64 `koanf:"max_zoom"`
	LayoutOriginX     float64 `koanf:"layout_origin_x"`
	LayoutOriginY     float64 `koanf:"layout_origin_y"`
	ResizeHandleWidth float64 `koanf:"resize_handle_width"`
	AnchorRadius      float64 `koanf:"anchor_radius"`
	BoundsPolicy      string  `koanf:"bounds_policy"`
	DefaultKind       string  `koanf:"default_kind"`
}

// DefaultEditorConfig mirrors the look of the original canvas.
func DefaultEditorConfig() EditorConfig {
	return EditorConfig{
		MinWidth:          150,
		MaxWidth:          900,
		BaseHeight:        48,
		RowHeight:         32,
		Padding:           80,
		WindowWidth:       2600,
		WindowHeight:      1600,
		ViewportWidth:     1280,
		ViewportHeight:    800,
		MinZoom:           0.3,
		MaxZoom:           1.5,
		LayoutOriginX:     80,
		LayoutOriginY:     40,
		ResizeHandleWidth: 8,
		AnchorRadius:      6,
		BoundsPolicy:      BoundsDynamic,
		DefaultKind:       "1-N",
	}
}

func (c EditorConfig) Validate() error {
	if c.MinWidth <= 0 || c.MaxWidth < c.MinWidth {
		return fmt.Errorf("invalid width range [%v, %v]", c.MinWidth, c.MaxWidth)
	}
	if c.MinZoom <= 0 || c.MaxZoom < c.MinZoom {
		return fmt.Errorf("invalid zoom range [%v, %v]", c.MinZoom, c.MaxZoom)
	}
	if c.RowHeight <= 0 || c.BaseHeight < 0 {
		return fmt.Errorf("invalid row geometry: base %v, row %v", c.BaseHeight, c.RowHeight)
	}
	if c.BoundsPolicy != BoundsDynamic && c.BoundsPolicy != BoundsStatic {
		return fmt.Errorf("invalid bounds_policy %q: must be %q or %q", c.BoundsPolicy, BoundsDynamic, BoundsStatic)
	}
	return nil
}

// LoadEditorConfig loads the editor config from path (or ./erd.yaml when path is
// empty and the file exists), then applies ERD_* environment overrides.
func LoadEditorConfig(path string) (EditorConfig, error) {
	k := koanf.New(".")

	if path == "" {
		if _, err := os.Stat(EditorConfigFileName); err == nil {
			path = EditorConfigFileName
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return EditorConfig{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EditorEnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EditorEnvPrefix))
	}), nil)
	if err != nil {
		return EditorConfig{}, fmt.Errorf("failed to load environment: %w", err)
	}

	// Keys absent from file and environment keep their default; an explicit
	// zero is honored.
	cfg := DefaultEditorConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return EditorConfig{}, fmt.Errorf("failed to decode editor config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return EditorConfig{}, err
	}
	return cfg, nil
}
