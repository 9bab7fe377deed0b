package diagram

import (
	"context"
	"fmt"
	"math"
)

type Phase int

const (
	PointerDown Phase = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (p Phase) String() string {
	switch p {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// PointerEvent is a screen-space pointer sample. PointerID separates
// simultaneous pointers (mouse, touches, pens).
type PointerEvent struct {
	PointerID int
	Phase     Phase
	X, Y      float64
}

type gestureKind int

const (
	gestureDrag gestureKind = iota
	gestureResize
	gestureConnect
	gesturePan
)

type gesture struct {
	kind   gestureKind
	node   string
	offset Point // pointer minus node position at drag start
	from   Anchor
	role   AnchorRole
	last   Point // canvas point for connect, screen point for pan
}

// Connection is an in-progress connect gesture, drawn as a rubber band from
// the anchor to the pointer.
type Connection struct {
	From    Anchor     `json:"from"`
	Role    AnchorRole `json:"role"`
	Pointer Point      `json:"pointer"`
}

type hitKind int

const (
	hitNone hitKind = iota
	hitBody
	hitResize
	hitAnchor
)

type hit struct {
	kind   hitKind
	node   string
	anchor Anchor
	role   AnchorRole
}

// hitTestLocked reports what lies under a canvas point: an anchor, the resize
// handle on the right edge, or a node body. Later nodes are drawn on top and
// win.
func (c *Controller) hitTestLocked(p Point) hit {
	for i := len(c.order) - 1; i >= 0; i-- {
		n := c.nodes[c.order[i]]
		for row, col := range n.Columns {
			if dist(p, n.SourcePoint(row, c.cfg)) <= c.cfg.AnchorRadius {
				return hit{kind: hitAnchor, node: n.ID, anchor: Anchor{Table: n.ID, Column: col}, role: RoleSource}
			}
			if dist(p, n.TargetPoint(row, c.cfg)) <= c.cfg.AnchorRadius {
				return hit{kind: hitAnchor, node: n.ID, anchor: Anchor{Table: n.ID, Column: col}, role: RoleTarget}
			}
		}
		r := n.Rect()
		if !r.Contains(p) {
			continue
		}
		if p.X >= r.Right-c.cfg.ResizeHandleWidth {
			return hit{kind: hitResize, node: n.ID}
		}
		return hit{kind: hitBody, node: n.ID}
	}
	return hit{kind: hitNone}
}

// HandlePointer routes a pointer event to drag, resize, connect or pan.
// Each pointer drives at most one gesture; different pointers are
// independent. Releasing a connect gesture over another anchor creates the
// relationship, which is the only case that reaches the backend.
func (c *Controller) HandlePointer(ctx context.Context, ev PointerEvent) error {
	switch ev.Phase {
	case PointerDown:
		return c.pointerDown(ev)
	case PointerMove:
		return c.pointerMove(ev)
	case PointerUp:
		return c.pointerUp(ctx, ev)
	case PointerCancel:
		c.pointerCancel(ev.PointerID)
		return nil
	default:
		return fmt.Errorf("unknown pointer phase %v", ev.Phase)
	}
}

func (c *Controller) pointerDown(ev PointerEvent) error {
	c.pointerCancel(ev.PointerID)

	screen := Point{X: ev.X, Y: ev.Y}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	p := c.view.ScreenToCanvas(screen)
	h := c.hitTestLocked(p)
	var g *gesture
	switch h.kind {
	case hitAnchor:
		g = &gesture{kind: gestureConnect, from: h.anchor, role: h.role, last: p}
	case hitResize:
		g = &gesture{kind: gestureResize, node: h.node}
	case hitBody:
		g = &gesture{kind: gestureDrag, node: h.node, offset: p.Sub(c.nodes[h.node].Position)}
	default:
		g = &gesture{kind: gesturePan, last: screen}
	}
	c.mu.Unlock()

	switch g.kind {
	case gestureDrag:
		if err := c.StartDrag(g.node); err != nil {
			return err
		}
	case gestureResize:
		if err := c.StartResize(g.node); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.gestures[ev.PointerID] = g
	c.mu.Unlock()
	c.changed()
	return nil
}

func (c *Controller) pointerMove(ev PointerEvent) error {
	screen := Point{X: ev.X, Y: ev.Y}
	c.mu.Lock()
	g, ok := c.gestures[ev.PointerID]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	p := c.view.ScreenToCanvas(screen)
	kind, node, offset := g.kind, g.node, g.offset
	var pan Point
	switch kind {
	case gestureConnect:
		g.last = p
	case gesturePan:
		pan = screen.Sub(g.last)
		g.last = screen
	}
	c.mu.Unlock()

	switch kind {
	case gestureDrag:
		_, err := c.UpdateDrag(node, p.Sub(offset))
		return err
	case gestureResize:
		_, err := c.UpdateResize(node, p.X)
		return err
	case gesturePan:
		c.PanBy(pan.X, pan.Y)
	default:
		c.changed()
	}
	return nil
}

func (c *Controller) pointerUp(ctx context.Context, ev PointerEvent) error {
	screen := Point{X: ev.X, Y: ev.Y}
	c.mu.Lock()
	g, ok := c.gestures[ev.PointerID]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	delete(c.gestures, ev.PointerID)
	p := c.view.ScreenToCanvas(screen)
	h := c.hitTestLocked(p)
	c.mu.Unlock()

	switch g.kind {
	case gestureDrag:
		return c.EndDrag(g.node)
	case gestureResize:
		return c.EndResize(g.node)
	case gestureConnect:
		c.changed()
		if h.kind != hitAnchor || h.anchor == g.from {
			return nil
		}
		source, target := g.from, h.anchor
		if g.role == RoleTarget {
			source, target = h.anchor, g.from
		}
		_, err := c.Connect(ctx, source, target)
		return err
	}
	return nil
}

// pointerCancel abandons the gesture of a pointer without side effects.
func (c *Controller) pointerCancel(pointerID int) {
	c.mu.Lock()
	g, ok := c.gestures[pointerID]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.gestures, pointerID)
	c.mu.Unlock()

	switch g.kind {
	case gestureDrag:
		_ = c.EndDrag(g.node)
	case gestureResize:
		_ = c.EndResize(g.node)
	default:
		c.changed()
	}
}

func (c *Controller) connectionsLocked() []Connection {
	var out []Connection
	for _, g := range c.gestures {
		if g.kind == gestureConnect {
			out = append(out, Connection{From: g.from, Role: g.role, Pointer: g.last})
		}
	}
	return out
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
