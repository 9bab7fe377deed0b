package diagram

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, c *Controller, id int, phase Phase, p Point) {
	t.Helper()
	require.NoError(t, c.HandlePointer(context.Background(), PointerEvent{PointerID: id, Phase: phase, X: p.X, Y: p.Y}))
}

func sourceAnchor(t *testing.T, c *Controller, table string, row int) Point {
	t.Helper()
	n, ok := c.Node(table)
	require.True(t, ok)
	return n.SourcePoint(row, c.cfg)
}

func targetAnchor(t *testing.T, c *Controller, table string, row int) Point {
	t.Helper()
	n, ok := c.Node(table)
	require.True(t, ok)
	return n.TargetPoint(row, c.cfg)
}

func TestPointer_DragBody(t *testing.T) {
	c := loadedController(t, shopGateway())
	start, _ := c.Node("Pedidos")

	grab := start.Position.Add(Point{X: 20, Y: 20})
	press(t, c, 1, PointerDown, grab)
	n, _ := c.Node("Pedidos")
	assert.Equal(t, Dragging, n.State)

	press(t, c, 1, PointerMove, grab.Add(Point{X: 100, Y: 100}))
	press(t, c, 1, PointerUp, grab.Add(Point{X: 100, Y: 100}))

	n, _ = c.Node("Pedidos")
	assert.Equal(t, Idle, n.State)
	assert.Equal(t, start.Position.Add(Point{X: 100, Y: 100}), n.Position)
}

func TestPointer_DragUnderZoom(t *testing.T) {
	c := loadedController(t, shopGateway())
	c.ZoomAt(0.5, Point{})
	start, _ := c.Node("Pedidos")

	grab := c.Viewport().CanvasToScreen(start.Position.Add(Point{X: 20, Y: 20}))
	press(t, c, 1, PointerDown, grab)
	press(t, c, 1, PointerMove, grab.Add(Point{X: 50, Y: 0}))
	press(t, c, 1, PointerUp, grab.Add(Point{X: 50, Y: 0}))

	n, _ := c.Node("Pedidos")
	assert.InDelta(t, start.Position.X+100, n.Position.X, 1e-9)
}

func TestPointer_ResizeHandle(t *testing.T) {
	c := loadedController(t, shopGateway())
	start, _ := c.Node("Pedidos")

	handle := Point{X: start.Position.X + start.Size.Width - 2, Y: start.Position.Y + 10}
	press(t, c, 1, PointerDown, handle)
	n, _ := c.Node("Pedidos")
	assert.Equal(t, Resizing, n.State)

	press(t, c, 1, PointerMove, Point{X: start.Position.X + 320, Y: handle.Y})
	press(t, c, 1, PointerUp, Point{X: start.Position.X + 320, Y: handle.Y})

	n, _ = c.Node("Pedidos")
	assert.Equal(t, Idle, n.State)
	assert.Equal(t, 320.0, n.Size.Width)
	assert.Equal(t, start.Position, n.Position)
}

func TestPointer_ConnectSourceToTarget(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)

	press(t, c, 1, PointerDown, sourceAnchor(t, c, "Pedidos", 1))
	press(t, c, 1, PointerMove, Point{X: 300, Y: 300})

	conns := c.Snapshot().Connections
	require.Len(t, conns, 1)
	assert.Equal(t, Anchor{Table: "Pedidos", Column: "ClienteID"}, conns[0].From)
	assert.Equal(t, RoleSource, conns[0].Role)
	assert.Equal(t, Point{X: 300, Y: 300}, conns[0].Pointer)

	press(t, c, 1, PointerUp, targetAnchor(t, c, "Clientes", 0))

	assert.Empty(t, c.Snapshot().Connections)
	edges := c.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, Anchor{Table: "Pedidos", Column: "ClienteID"}, edges[0].Source)
	assert.Equal(t, Anchor{Table: "Clientes", Column: "ID"}, edges[0].Target)
}

func TestPointer_ConnectFromTargetSide(t *testing.T) {
	c := loadedController(t, shopGateway())

	press(t, c, 1, PointerDown, targetAnchor(t, c, "Clientes", 0))
	press(t, c, 1, PointerUp, sourceAnchor(t, c, "Pedidos", 1))

	edges := c.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, Anchor{Table: "Pedidos", Column: "ClienteID"}, edges[0].Source)
	assert.Equal(t, Anchor{Table: "Clientes", Column: "ID"}, edges[0].Target)
}

func TestPointer_ConnectDroppedOnNothing(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)

	press(t, c, 1, PointerDown, sourceAnchor(t, c, "Pedidos", 1))
	press(t, c, 1, PointerUp, Point{X: 900, Y: 700})

	assert.Zero(t, gw.count("CreateRelationship"))
	assert.Empty(t, c.Edges())
}

func TestPointer_PanOnEmptyCanvas(t *testing.T) {
	c := loadedController(t, shopGateway())

	press(t, c, 1, PointerDown, Point{X: 900, Y: 700})
	press(t, c, 1, PointerMove, Point{X: 910, Y: 690})
	press(t, c, 1, PointerMove, Point{X: 930, Y: 690})
	press(t, c, 1, PointerUp, Point{X: 930, Y: 690})

	assert.Equal(t, Point{X: 30, Y: -10}, c.Viewport().Pan)
}

func TestPointer_IndependentPointers(t *testing.T) {
	c := loadedController(t, shopGateway())
	a, _ := c.Node("Pedidos")
	b, _ := c.Node("Clientes")

	grabA := a.Position.Add(Point{X: 20, Y: 20})
	grabB := b.Position.Add(Point{X: 20, Y: 20})
	press(t, c, 1, PointerDown, grabA)
	press(t, c, 2, PointerDown, grabB)
	press(t, c, 1, PointerMove, grabA.Add(Point{X: 0, Y: 50}))
	press(t, c, 2, PointerMove, grabB.Add(Point{X: 0, Y: 80}))
	press(t, c, 2, PointerUp, grabB.Add(Point{X: 0, Y: 80}))

	na, _ := c.Node("Pedidos")
	nb, _ := c.Node("Clientes")
	assert.Equal(t, Dragging, na.State)
	assert.Equal(t, Idle, nb.State)
	assert.Equal(t, a.Position.Y+50, na.Position.Y)
	assert.Equal(t, b.Position.Y+80, nb.Position.Y)

	press(t, c, 1, PointerUp, grabA.Add(Point{X: 0, Y: 50}))
	na, _ = c.Node("Pedidos")
	assert.Equal(t, Idle, na.State)
}

func TestPointer_ConflictingGestureRejected(t *testing.T) {
	c := loadedController(t, shopGateway())
	n, _ := c.Node("Pedidos")

	press(t, c, 1, PointerDown, Point{X: n.Position.X + n.Size.Width - 2, Y: n.Position.Y + 10})
	err := c.HandlePointer(context.Background(), PointerEvent{PointerID: 2, Phase: PointerDown, X: n.Position.X + 20, Y: n.Position.Y + 20})
	assert.ErrorIs(t, err, ErrInteractionConflict)

	n, _ = c.Node("Pedidos")
	assert.Equal(t, Resizing, n.State)
}

func TestPointer_Cancel(t *testing.T) {
	c := loadedController(t, shopGateway())
	start, _ := c.Node("Pedidos")
	grab := start.Position.Add(Point{X: 20, Y: 20})

	press(t, c, 1, PointerDown, grab)
	press(t, c, 1, PointerMove, grab.Add(Point{X: 40, Y: 0}))
	press(t, c, 1, PointerCancel, Point{})

	n, _ := c.Node("Pedidos")
	assert.Equal(t, Idle, n.State)
	assert.Equal(t, start.Position.X+40, n.Position.X)

	// moves for a pointer without a gesture are ignored
	press(t, c, 1, PointerMove, grab.Add(Point{X: 400, Y: 0}))
	n, _ = c.Node("Pedidos")
	assert.Equal(t, start.Position.X+40, n.Position.X)
}
