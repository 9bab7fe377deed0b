package diagram

import "math"

// Point is a coordinate. Node positions are in canvas space; pointer events
// arrive in screen space and are converted through the viewport.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle with Left <= Right and Top <= Bottom.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Expand grows the rectangle by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{Left: r.Left - d, Top: r.Top - d, Right: r.Right + d, Bottom: r.Bottom + d}
}

func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}

func rectOf(p Point, s Size) Rect {
	return Rect{Left: p.X, Top: p.Y, Right: p.X + s.Width, Bottom: p.Y + s.Height}
}

// Clamp limits v to [lo, hi]. When hi < lo the lower limit wins, and a NaN
// input collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if hi < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BoundingBoxOf returns the smallest rectangle containing every node box.
// ok is false for an empty slice; callers must not derive a scale from it.
func BoundingBoxOf(nodes []TableNode) (box Rect, ok bool) {
	for i, n := range nodes {
		r := n.Rect()
		if i == 0 {
			box = r
			continue
		}
		box = box.Union(r)
	}
	return box, len(nodes) > 0
}

// FitToView computes the viewport that shows box, grown by padding on all
// sides, centered inside a viewport of the given size. The zoom is uniform
// and never exceeds 1: auto-fit only ever zooms out.
func FitToView(box Rect, viewportWidth, viewportHeight, padding float64) Viewport {
	if !positive(viewportWidth) || !positive(viewportHeight) {
		return Viewport{Zoom: 1}
	}
	padded := box.Expand(math.Max(0, sanitize(padding)))
	w, h := padded.Width(), padded.Height()

	zoom := 1.0
	if positive(w) {
		zoom = math.Min(zoom, viewportWidth/w)
	}
	if positive(h) {
		zoom = math.Min(zoom, viewportHeight/h)
	}
	return centerOn(padded, viewportWidth, viewportHeight, zoom)
}

// centerOn returns the pan that places box in the middle of the viewport at zoom.
func centerOn(box Rect, viewportWidth, viewportHeight, zoom float64) Viewport {
	return Viewport{
		Pan: Point{
			X: -box.Left*zoom + (viewportWidth-box.Width()*zoom)/2,
			Y: -box.Top*zoom + (viewportHeight-box.Height()*zoom)/2,
		},
		Zoom: zoom,
	}
}

// ClampToCanvas keeps a box of the given size inside bounds. Bounds must be
// the current ones: with dynamic growth they change after every mutation.
func ClampToCanvas(p Point, s Size, bounds Rect) Point {
	w := math.Max(0, sanitize(s.Width))
	h := math.Max(0, sanitize(s.Height))
	return Point{
		X: Clamp(p.X, bounds.Left, bounds.Right-w),
		Y: Clamp(p.Y, bounds.Top, bounds.Bottom-h),
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
