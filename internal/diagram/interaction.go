package diagram

import "fmt"

// StartDrag puts a node into Dragging. A node that is being resized rejects it.
func (c *Controller) StartDrag(id string) error {
	return c.transition(id, Dragging)
}

// UpdateDrag moves a dragging node to the proposed canvas position, clamped
// to the current canvas bounds before it is stored.
func (c *Controller) UpdateDrag(id string, proposed Point) (Point, error) {
	c.mu.Lock()
	n, ok := c.nodes[id]
	if !ok {
		c.mu.Unlock()
		return Point{}, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if n.State != Dragging {
		c.mu.Unlock()
		return n.Position, fmt.Errorf("%w: %s", ErrNotDragging, id)
	}
	n.Position = ClampToCanvas(proposed, n.Size, c.bounds)
	c.bounds = c.computeBoundsLocked()
	pos := n.Position
	c.mu.Unlock()
	c.changed()
	return pos, nil
}

// EndDrag returns the node to Idle. Positions are view state only and are
// never sent to the backend.
func (c *Controller) EndDrag(id string) error {
	return c.finish(id, Dragging, ErrNotDragging)
}

// StartResize puts a node into Resizing. A node that is being dragged rejects it.
func (c *Controller) StartResize(id string) error {
	return c.transition(id, Resizing)
}

// UpdateResize sets the width from the pointer x. The left edge stays where
// it is; only the right edge follows the pointer.
func (c *Controller) UpdateResize(id string, pointerX float64) (float64, error) {
	c.mu.Lock()
	n, ok := c.nodes[id]
	if !ok {
		c.mu.Unlock()
		return 0, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if n.State != Resizing {
		c.mu.Unlock()
		return n.Size.Width, fmt.Errorf("%w: %s", ErrNotResizing, id)
	}
	n.Size.Width = Clamp(pointerX-n.Position.X, c.cfg.MinWidth, c.cfg.MaxWidth)
	c.bounds = c.computeBoundsLocked()
	w := n.Size.Width
	c.mu.Unlock()
	c.changed()
	return w, nil
}

// EndResize returns the node to Idle and recomputes its height.
func (c *Controller) EndResize(id string) error {
	return c.finish(id, Resizing, ErrNotResizing)
}

func (c *Controller) transition(id string, to InteractionState) error {
	c.mu.Lock()
	n, ok := c.nodes[id]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if n.State != Idle && n.State != to {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s is %s", ErrInteractionConflict, id, n.State)
	}
	n.State = to
	c.mu.Unlock()
	c.changed()
	return nil
}

func (c *Controller) finish(id string, from InteractionState, notIn error) error {
	c.mu.Lock()
	n, ok := c.nodes[id]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if n.State != from {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", notIn, id)
	}
	n.State = Idle
	n.recomputeHeight(c.cfg)
	c.bounds = c.computeBoundsLocked()
	c.mu.Unlock()
	c.changed()
	return nil
}
