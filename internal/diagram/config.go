package diagram

import (
	"relmap/internal/config"
	"relmap/internal/models"
)

type BoundsPolicy int

const (
	// BoundsDynamic grows the canvas so it always contains every node plus Padding.
	BoundsDynamic BoundsPolicy = iota
	// BoundsStatic keeps the canvas at WindowWidth x WindowHeight.
	BoundsStatic
)

// Config carries the editor geometry. Zero fields are replaced by the
// defaults of config.DefaultEditorConfig.
type Config struct {
	MinWidth          float64
	MaxWidth          float64
	BaseHeight        float64
	RowHeight         float64
	Padding           float64
	WindowWidth       float64
	WindowHeight      float64
	ViewportWidth     float64
	ViewportHeight    float64
	MinZoom           float64
	MaxZoom           float64
	LayoutOrigin      Point
	ResizeHandleWidth float64
	AnchorRadius      float64
	Bounds            BoundsPolicy
	DefaultKind       models.RelationshipKind

	// FetchConcurrency bounds the parallel column fetches during Load.
	FetchConcurrency int
}

// ConfigFromEditor converts the file/env backed editor config.
func ConfigFromEditor(ec config.EditorConfig) Config {
	cfg := Config{
		MinWidth:          ec.MinWidth,
		MaxWidth:          ec.MaxWidth,
		BaseHeight:        ec.BaseHeight,
		RowHeight:         ec.RowHeight,
		Padding:           ec.Padding,
		WindowWidth:       ec.WindowWidth,
		WindowHeight:      ec.WindowHeight,
		ViewportWidth:     ec.ViewportWidth,
		ViewportHeight:    ec.ViewportHeight,
		MinZoom:           ec.MinZoom,
		MaxZoom:           ec.MaxZoom,
		LayoutOrigin:      Point{X: ec.LayoutOriginX, Y: ec.LayoutOriginY},
		ResizeHandleWidth: ec.ResizeHandleWidth,
		AnchorRadius:      ec.AnchorRadius,
		DefaultKind:       models.RelationshipKind(ec.DefaultKind),
	}
	if ec.BoundsPolicy == config.BoundsStatic {
		cfg.Bounds = BoundsStatic
	}
	return cfg
}

// DefaultConfig is ConfigFromEditor(config.DefaultEditorConfig()).
func DefaultConfig() Config {
	return ConfigFromEditor(config.DefaultEditorConfig())
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	fill := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&c.MinWidth, d.MinWidth)
	fill(&c.MaxWidth, d.MaxWidth)
	fill(&c.RowHeight, d.RowHeight)
	fill(&c.WindowWidth, d.WindowWidth)
	fill(&c.WindowHeight, d.WindowHeight)
	fill(&c.ViewportWidth, d.ViewportWidth)
	fill(&c.ViewportHeight, d.ViewportHeight)
	fill(&c.MinZoom, d.MinZoom)
	fill(&c.MaxZoom, d.MaxZoom)
	fill(&c.ResizeHandleWidth, d.ResizeHandleWidth)
	fill(&c.AnchorRadius, d.AnchorRadius)
	if c.BaseHeight < 0 {
		c.BaseHeight = d.BaseHeight
	}
	if c.Padding < 0 {
		c.Padding = 0
	}
	if c.MaxWidth < c.MinWidth {
		c.MaxWidth = c.MinWidth
	}
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
	if !c.DefaultKind.Valid() {
		c.DefaultKind = models.DefaultRelationshipKind
	}
	if c.FetchConcurrency <= 0 {
		c.FetchConcurrency = 8
	}
	return c
}

// NodeHeight is the derived height of a node with n column rows.
func (c Config) NodeHeight(n int) float64 {
	return c.BaseHeight + float64(n)*c.RowHeight
}
