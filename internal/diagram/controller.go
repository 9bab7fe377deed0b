// Package diagram is the interactive entity-relationship editor: table nodes
// that can be dragged and resized on a canvas, column anchors that are
// connected into relationship edges, and the synchronization of those edges
// with the backend gateway.
//
// A Controller owns all editor state. Local mutations (drag, resize, pan,
// zoom) apply synchronously; backend calls run without holding the state
// lock and their results are applied only while the controller is alive.
package diagram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"relmap/internal/logger"
	"relmap/internal/models"
	"relmap/internal/notifier"
)

type Controller struct {
	gw      Gateway
	session models.Session
	cfg     Config
	log     logger.LoggerI
	pings   *notifier.Notifier
	flight  singleflight.Group
	now     func() time.Time

	mu       sync.Mutex
	closed   bool
	order    []string
	nodes    map[string]*TableNode
	edges    []Edge
	edgeSeq  uint64
	// listGen numbers relationship listings as they are issued; a response
	// numbered at or below appliedGen is older than the edge set and dropped.
	listGen    uint64
	appliedGen uint64
	view     Viewport
	bounds   Rect
	status   map[string]OpStatus
	notes    []Notification
	noteSeq  uint64
	gestures map[int]*gesture
}

func New(gw Gateway, session models.Session, cfg Config, log logger.LoggerI) *Controller {
	if log == nil {
		log = logger.NewNop()
	}
	c := &Controller{
		gw:       gw,
		session:  session,
		cfg:      cfg.withDefaults(),
		log:      log.With(logger.String("company_id", session.CompanyID.String())),
		pings:    notifier.New(),
		now:      time.Now,
		nodes:    make(map[string]*TableNode),
		view:     Viewport{Zoom: 1},
		status:   make(map[string]OpStatus),
		gestures: make(map[int]*gesture),
	}
	c.bounds = c.computeBoundsLocked()
	return c
}

// Close tears the editor down. Responses that arrive afterwards are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.pings.Close()
}

func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Subscribe returns a channel pinged after every state change.
func (c *Controller) Subscribe() chan struct{} { return c.pings.Subscribe() }

func (c *Controller) Unsubscribe(ch chan struct{}) { c.pings.Unsubscribe(ch) }

func (c *Controller) changed() { c.pings.Broadcast() }

// Status reports the state of the last operation on a resource key.
func (c *Controller) Status(resource string) OpStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status[resource]
}

// LoadStatus distinguishes "never loaded" and "failed to load" from an
// empty but successfully loaded canvas.
func (c *Controller) LoadStatus() OpStatus { return c.Status(ResourceTables) }

func (c *Controller) setStatus(resource string, s OpStatus) {
	c.mu.Lock()
	if !c.closed {
		c.status[resource] = s
	}
	c.mu.Unlock()
}

// Load fetches tables, their columns and the relationships, and rebuilds the
// canvas. Concurrent calls share one in-flight load.
func (c *Controller) Load(ctx context.Context) error {
	_, err, _ := c.flight.Do(ResourceTables, func() (any, error) {
		return nil, c.load(ctx)
	})
	return err
}

func (c *Controller) load(ctx context.Context) error {
	if c.Closed() {
		return ErrClosed
	}
	c.setStatus(ResourceTables, StatusLoading)
	c.changed()

	tables, err := c.gw.ListTables(ctx, c.session)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		c.status[ResourceTables] = StatusFailed
		c.notifyLocked(LevelError, "Failed to load tables", err)
		c.mu.Unlock()
		c.log.Error("list tables failed", logger.Error(err))
		c.changed()
		return fmt.Errorf("failed to list tables: %w", err)
	}
	c.mu.Unlock()

	columns, colErrs := c.fetchColumns(ctx, tables)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.rebuildNodesLocked(tables, columns, colErrs)
	c.status[ResourceTables] = StatusSuccess
	c.mu.Unlock()
	c.changed()

	if _, err := c.ReloadRelationships(ctx); err != nil {
		return err
	}
	return nil
}

// fetchColumns fans out one ListColumns per table and waits for all of them.
// A failure is recorded per table and never aborts its siblings.
func (c *Controller) fetchColumns(ctx context.Context, tables []string) ([][]string, []error) {
	columns := make([][]string, len(tables))
	errs := make([]error, len(tables))

	var g errgroup.Group
	g.SetLimit(c.cfg.FetchConcurrency)
	for i, table := range tables {
		g.Go(func() error {
			key := ResourceColumns(table)
			c.setStatus(key, StatusLoading)
			cols, err := c.gw.ListColumns(ctx, c.session, table)
			if err != nil {
				c.setStatus(key, StatusFailed)
				errs[i] = err
				return nil
			}
			c.setStatus(key, StatusSuccess)
			columns[i] = cols
			return nil
		})
	}
	_ = g.Wait()
	return columns, errs
}

// rebuildNodesLocked replaces the node set. Tables that were already on the
// canvas keep their position and width; new tables go on the grid.
func (c *Controller) rebuildNodesLocked(tables []string, columns [][]string, colErrs []error) {
	grid := GridLayout(len(tables), c.cfg.WindowWidth, c.cfg.WindowHeight, c.cfg.LayoutOrigin)

	nodes := make(map[string]*TableNode, len(tables))
	order := make([]string, 0, len(tables))
	for i, name := range tables {
		if _, dup := nodes[name]; dup {
			c.log.Warn("duplicate table name from gateway", logger.String("table", name))
			continue
		}
		cols := columns[i]
		if cols == nil {
			cols = []string{}
		}
		n := newTableNode(name, cols, colErrs[i], c.cfg)
		n.Position = Point{X: max(0, grid[i].X), Y: max(0, grid[i].Y)}
		if c.cfg.Bounds == BoundsStatic {
			n.Position = ClampToCanvas(n.Position, n.Size, c.computeBoundsLocked())
		}
		if prev, ok := c.nodes[name]; ok {
			n.Position = prev.Position
			n.Size.Width = prev.Size.Width
			n.State = prev.State
		}
		if colErrs[i] != nil {
			c.notifyLocked(LevelWarning, fmt.Sprintf("Failed to load columns of %s", name), colErrs[i])
			c.log.Warn("list columns failed", logger.String("table", name), logger.Error(colErrs[i]))
		}
		nodes[name] = n
		order = append(order, name)
	}

	c.nodes = nodes
	c.order = order
	c.dropOrphanEdgesLocked()
	c.bounds = c.computeBoundsLocked()
}

// RemoveNode drops a node and every edge that references it.
func (c *Controller) RemoveNode(id string) error {
	c.mu.Lock()
	if _, ok := c.nodes[id]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	delete(c.nodes, id)
	for i, name := range c.order {
		if name == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	for gid, g := range c.gestures {
		if g.node == id || g.from.Table == id {
			delete(c.gestures, gid)
		}
	}
	c.dropOrphanEdgesLocked()
	c.bounds = c.computeBoundsLocked()
	c.mu.Unlock()
	c.changed()
	return nil
}

// dropOrphanEdgesLocked removes edges whose anchors are no longer on the canvas.
func (c *Controller) dropOrphanEdgesLocked() {
	kept := c.edges[:0]
	for _, e := range c.edges {
		if c.anchorExistsLocked(e.Source) && c.anchorExistsLocked(e.Target) {
			kept = append(kept, e)
		}
	}
	c.edges = kept
}

func (c *Controller) anchorExistsLocked(a Anchor) bool {
	n, ok := c.nodes[a.Table]
	return ok && n.HasColumn(a.Column)
}

// computeBoundsLocked applies the bounds policy to the current nodes.
func (c *Controller) computeBoundsLocked() Rect {
	b := Rect{Right: c.cfg.WindowWidth, Bottom: c.cfg.WindowHeight}
	if c.cfg.Bounds == BoundsStatic {
		return b
	}
	for _, n := range c.nodes {
		r := n.Rect()
		b.Right = max(b.Right, r.Right+c.cfg.Padding)
		b.Bottom = max(b.Bottom, r.Bottom+c.cfg.Padding)
	}
	return b
}

// Bounds is the rectangle node positions are clamped to.
func (c *Controller) Bounds() Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds
}

func (c *Controller) nodeValuesLocked() []TableNode {
	out := make([]TableNode, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.nodes[id].clone())
	}
	return out
}

// Node returns a copy of one node.
func (c *Controller) Node(id string) (TableNode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.nodes[id]
	if !ok {
		return TableNode{}, false
	}
	return n.clone(), true
}

// Nodes returns copies of all nodes in layout order.
func (c *Controller) Nodes() []TableNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nodeValuesLocked()
}

func (c *Controller) Edges() []Edge {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Edge, len(c.edges))
	copy(out, c.edges)
	return out
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	Nodes         []TableNode    `json:"nodes"`
	Edges         []Edge         `json:"edges"`
	Viewport      Viewport       `json:"viewport"`
	Bounds        Rect           `json:"bounds"`
	LoadStatus    OpStatus       `json:"load_status"`
	Connections   []Connection   `json:"connections,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Nodes:      c.nodeValuesLocked(),
		Edges:      make([]Edge, len(c.edges)),
		Viewport:   c.view,
		Bounds:     c.bounds,
		LoadStatus: c.status[ResourceTables],
	}
	copy(s.Edges, c.edges)
	s.Connections = c.connectionsLocked()
	s.Notifications = make([]Notification, len(c.notes))
	copy(s.Notifications, c.notes)
	return s
}

// isClosedErr reports whether err means the editor went away mid-call.
func isClosedErr(err error) bool { return errors.Is(err, ErrClosed) }
