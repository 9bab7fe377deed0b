package diagram

import "math"

// Viewport maps canvas space to screen space: screen = canvas*Zoom + Pan.
type Viewport struct {
	Pan  Point   `json:"pan"`
	Zoom float64 `json:"zoom"`
}

func (v Viewport) ScreenToCanvas(p Point) Point {
	z := v.zoom()
	return Point{X: (p.X - v.Pan.X) / z, Y: (p.Y - v.Pan.Y) / z}
}

func (v Viewport) CanvasToScreen(p Point) Point {
	z := v.zoom()
	return Point{X: p.X*z + v.Pan.X, Y: p.Y*z + v.Pan.Y}
}

func (v Viewport) zoom() float64 {
	if !positive(v.Zoom) {
		return 1
	}
	return v.Zoom
}

// Viewport returns the current pan/zoom.
func (c *Controller) Viewport() Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// FitView frames every node. With no nodes the viewport is reset.
func (c *Controller) FitView() Viewport {
	c.mu.Lock()
	box, ok := BoundingBoxOf(c.nodeValuesLocked())
	if !ok {
		c.view = Viewport{Zoom: 1}
	} else {
		v := FitToView(box, c.cfg.ViewportWidth, c.cfg.ViewportHeight, c.cfg.Padding)
		if clamped := Clamp(v.Zoom, c.cfg.MinZoom, math.Min(1, c.cfg.MaxZoom)); clamped != v.Zoom {
			v = centerOn(box.Expand(c.cfg.Padding), c.cfg.ViewportWidth, c.cfg.ViewportHeight, clamped)
		}
		c.view = v
	}
	v := c.view
	c.mu.Unlock()
	c.changed()
	return v
}

// PanBy shifts the viewport by a screen-space delta.
func (c *Controller) PanBy(dx, dy float64) Viewport {
	c.mu.Lock()
	c.view.Pan = c.view.Pan.Add(Point{X: sanitize(dx), Y: sanitize(dy)})
	v := c.view
	c.mu.Unlock()
	c.changed()
	return v
}

// ZoomAt multiplies the zoom by factor, keeping the canvas point under the
// screen point fixed. The result stays within [MinZoom, MaxZoom].
func (c *Controller) ZoomAt(factor float64, screen Point) Viewport {
	c.mu.Lock()
	if positive(factor) {
		anchor := c.view.ScreenToCanvas(screen)
		zoom := Clamp(c.view.zoom()*factor, c.cfg.MinZoom, c.cfg.MaxZoom)
		c.view = Viewport{
			Pan:  Point{X: screen.X - anchor.X*zoom, Y: screen.Y - anchor.Y*zoom},
			Zoom: zoom,
		}
	}
	v := c.view
	c.mu.Unlock()
	c.changed()
	return v
}
