package diagram

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relmap/internal/models"
)

func shopGateway() *fakeGateway {
	return newFakeGateway().
		addTable("Pedidos", "ID", "ClienteID").
		addTable("Clientes", "ID", "Nome")
}

func loadedController(t *testing.T, gw *fakeGateway) *Controller {
	t.Helper()
	c := newTestController(gw)
	t.Cleanup(c.Close)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestController_ConnectCreatesOneEdge(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)

	nodes := c.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "Pedidos", nodes[0].ID)
	assert.Equal(t, []string{"ID", "ClienteID"}, nodes[0].Columns)
	assert.Equal(t, "Clientes", nodes[1].ID)
	assert.Empty(t, c.Edges())
	assert.Equal(t, StatusSuccess, c.LoadStatus())

	edge, err := c.Connect(context.Background(),
		Anchor{Table: "Pedidos", Column: "ClienteID"},
		Anchor{Table: "Clientes", Column: "ID"},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, gw.count("CreateRelationship"))
	assert.Equal(t, models.OneToMany, gw.rels[0].Kind)
	assert.False(t, edge.Pending)
	assert.NotZero(t, edge.ID)

	edges := c.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, Anchor{Table: "Pedidos", Column: "ClienteID"}, edges[0].Source)
	assert.Equal(t, Anchor{Table: "Clientes", Column: "ID"}, edges[0].Target)
	assert.Equal(t, StatusSuccess, c.Status(ResourceCreate))
}

func TestController_DeleteRemovesOnlyThatEdge(t *testing.T) {
	gw := newFakeGateway().
		addTable("orders", "id", "customer_id", "product_id").
		addTable("customers", "id").
		addTable("products", "id")
	gw.nextID = 7
	gw.addRelationship("orders", "customer_id", "customers", "id")
	gw.addRelationship("orders", "product_id", "products", "id")
	c := loadedController(t, gw)
	require.Len(t, c.Edges(), 2)

	var prompt string
	deleted, err := c.DeleteEdge(context.Background(), 7, ConfirmFunc(func(p string) bool {
		prompt = p
		return true
	}))
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Contains(t, prompt, "orders.customer_id -> customers.id")

	edges := c.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, int64(8), edges[0].ID)
	assert.Equal(t, StatusSuccess, c.Status(ResourceDelete(7)))
}

func TestController_ColumnFailureDegradesOneNode(t *testing.T) {
	gw := newFakeGateway().
		addTable("a", "id").
		addTable("b", "id", "a_id").
		addTable("c", "id")
	gw.failColumns("b", errBackend)
	c := newTestController(gw)
	defer c.Close()

	require.NotPanics(t, func() {
		require.NoError(t, c.Load(context.Background()))
	})

	nodes := c.Nodes()
	require.Len(t, nodes, 3)
	for _, n := range nodes {
		assert.NotNil(t, n.Columns, n.ID)
	}
	b, ok := c.Node("b")
	require.True(t, ok)
	assert.True(t, b.Degraded())
	assert.Empty(t, b.Columns)
	assert.ErrorIs(t, b.LoadErr, errBackend)
	assert.Equal(t, StatusFailed, c.Status(ResourceColumns("b")))

	a, _ := c.Node("a")
	assert.False(t, a.Degraded())
	assert.Equal(t, StatusSuccess, c.Status(ResourceColumns("a")))

	notes := c.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelWarning, notes[0].Level)
	assert.Contains(t, notes[0].Message, "b")
}

func TestController_LoadTablesFailure(t *testing.T) {
	gw := shopGateway()
	gw.fail("ListTables", errBackend)
	c := newTestController(gw)
	defer c.Close()

	assert.Equal(t, StatusIdle, c.LoadStatus())
	err := c.Load(context.Background())
	require.ErrorIs(t, err, errBackend)

	assert.Equal(t, StatusFailed, c.LoadStatus())
	assert.Empty(t, c.Nodes())
	notes := c.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelError, notes[0].Level)

	gw.fail("ListTables", nil)
	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.Nodes(), 2)
}

func TestController_ReloadKeepsLayout(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)

	require.NoError(t, c.StartDrag("Pedidos"))
	_, err := c.UpdateDrag("Pedidos", Point{X: 300, Y: 300})
	require.NoError(t, err)
	require.NoError(t, c.EndDrag("Pedidos"))

	gw.addTable("Produtos", "ID")
	require.NoError(t, c.Load(context.Background()))

	p, ok := c.Node("Pedidos")
	require.True(t, ok)
	assert.Equal(t, Point{X: 300, Y: 300}, p.Position)
	assert.Len(t, c.Nodes(), 3)
}

func TestController_DropsRelationshipsWithUnknownAnchors(t *testing.T) {
	gw := shopGateway()
	gw.addRelationship("Pedidos", "ClienteID", "Clientes", "ID")
	gw.addRelationship("Pedidos", "Gone", "Clientes", "ID")
	gw.addRelationship("Ghost", "ID", "Clientes", "ID")
	c := loadedController(t, gw)

	edges := c.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, int64(1), edges[0].ID)
}

func TestController_ConnectShowsProvisionalEdge(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)

	var during []Edge
	gw.beforeCreate = func() { during = c.Edges() }

	_, err := c.Connect(context.Background(),
		Anchor{Table: "Pedidos", Column: "ClienteID"},
		Anchor{Table: "Clientes", Column: "ID"},
	)
	require.NoError(t, err)

	require.Len(t, during, 1)
	assert.True(t, during[0].Pending)
	assert.Zero(t, during[0].ID)
	for _, e := range c.Edges() {
		assert.False(t, e.Pending)
	}
}

func TestController_ConnectFailureRollsBack(t *testing.T) {
	gw := shopGateway()
	gw.addRelationship("Pedidos", "ID", "Clientes", "ID")
	c := loadedController(t, gw)
	before := c.Edges()

	gw.fail("CreateRelationship", errBackend)
	_, err := c.Connect(context.Background(),
		Anchor{Table: "Pedidos", Column: "ClienteID"},
		Anchor{Table: "Clientes", Column: "ID"},
	)
	require.ErrorIs(t, err, errBackend)

	assert.Equal(t, before, c.Edges())
	assert.Equal(t, StatusFailed, c.Status(ResourceCreate))
	notes := c.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelError, notes[0].Level)
	assert.Contains(t, notes[0].Message, "Pedidos.ClienteID -> Clientes.ID")
}

func TestController_ConnectKeepsCreatedEdgeWhenReloadFails(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)

	gw.fail("ListRelationships", errBackend)
	edge, err := c.Connect(context.Background(),
		Anchor{Table: "Pedidos", Column: "ClienteID"},
		Anchor{Table: "Clientes", Column: "ID"},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), edge.ID)

	edges := c.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, int64(1), edges[0].ID)
	assert.False(t, edges[0].Pending)
	assert.Equal(t, StatusFailed, c.Status(ResourceRelationships))

	gw.fail("ListRelationships", nil)
	_, err = c.ReloadRelationships(context.Background())
	require.NoError(t, err)
	assert.Len(t, c.Edges(), 1)
}

func TestController_ConnectValidation(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)
	ctx := context.Background()
	src := Anchor{Table: "Pedidos", Column: "ClienteID"}

	_, err := c.Connect(ctx, src, src)
	assert.ErrorIs(t, err, ErrSelfConnection)

	_, err = c.Connect(ctx, src, Anchor{Table: "Clientes", Column: "Missing"})
	assert.ErrorIs(t, err, ErrUnknownAnchor)

	_, err = c.ConnectKind(ctx, src, Anchor{Table: "Clientes", Column: "ID"}, "2-N")
	assert.ErrorIs(t, err, ErrInvalidKind)

	assert.Zero(t, gw.count("CreateRelationship"))
	assert.Empty(t, c.Edges())
}

func TestController_ConnectKind(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)

	edge, err := c.ConnectKind(context.Background(),
		Anchor{Table: "Clientes", Column: "ID"},
		Anchor{Table: "Pedidos", Column: "ClienteID"},
		models.OneToOne,
	)
	require.NoError(t, err)
	assert.Equal(t, models.OneToOne, edge.Kind)
}

func TestController_DeleteDeclined(t *testing.T) {
	gw := shopGateway()
	gw.addRelationship("Pedidos", "ClienteID", "Clientes", "ID")
	c := loadedController(t, gw)

	deleted, err := c.DeleteEdge(context.Background(), 1, ConfirmFunc(func(string) bool { return false }))
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Zero(t, gw.count("DeleteRelationship"))
	assert.Len(t, c.Edges(), 1)

	deleted, err = c.DeleteEdge(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestController_DeleteFailureKeepsEdge(t *testing.T) {
	gw := shopGateway()
	gw.addRelationship("Pedidos", "ClienteID", "Clientes", "ID")
	c := loadedController(t, gw)

	gw.fail("DeleteRelationship", errBackend)
	deleted, err := c.DeleteEdge(context.Background(), 1, AlwaysConfirm)
	require.ErrorIs(t, err, errBackend)
	assert.False(t, deleted)
	assert.Len(t, c.Edges(), 1)
	assert.Equal(t, StatusFailed, c.Status(ResourceDelete(1)))
	assert.Len(t, c.Notifications(), 1)
}

func TestController_DeleteUnknownEdge(t *testing.T) {
	c := loadedController(t, shopGateway())

	_, err := c.DeleteEdge(context.Background(), 42, AlwaysConfirm)
	assert.ErrorIs(t, err, ErrUnknownEdge)
}

func TestController_ResponsesAfterCloseAreDropped(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)

	gw.beforeCreate = c.Close
	_, err := c.Connect(context.Background(),
		Anchor{Table: "Pedidos", Column: "ClienteID"},
		Anchor{Table: "Clientes", Column: "ID"},
	)
	require.ErrorIs(t, err, ErrClosed)
	assert.True(t, c.Closed())
	assert.Equal(t, 1, gw.count("ListRelationships"), "no reload after close")

	err = c.Load(context.Background())
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestController_RemoveNodeDropsEdges(t *testing.T) {
	gw := shopGateway()
	gw.addRelationship("Pedidos", "ClienteID", "Clientes", "ID")
	c := loadedController(t, gw)

	require.NoError(t, c.RemoveNode("Clientes"))
	assert.Empty(t, c.Edges())
	assert.Len(t, c.Nodes(), 1)
	assert.ErrorIs(t, c.RemoveNode("Clientes"), ErrUnknownNode)
}

func TestController_Notifications(t *testing.T) {
	gw := shopGateway()
	gw.fail("ListTables", errBackend)
	c := newTestController(gw)
	defer c.Close()

	_ = c.Load(context.Background())
	_ = c.Load(context.Background())
	notes := c.Notifications()
	require.Len(t, notes, 2)
	assert.NotEqual(t, notes[0].ID, notes[1].ID)

	assert.True(t, c.Dismiss(notes[0].ID))
	assert.False(t, c.Dismiss(notes[0].ID))
	assert.Len(t, c.Notifications(), 1)
}

func TestController_SubscribeIsPinged(t *testing.T) {
	c := loadedController(t, shopGateway())
	ch := c.Subscribe()
	defer c.Unsubscribe(ch)

	c.PanBy(10, 0)

	select {
	case <-ch:
	default:
		t.Fatal("expected a change notification")
	}
}

func TestController_Snapshot(t *testing.T) {
	gw := shopGateway()
	gw.addRelationship("Pedidos", "ClienteID", "Clientes", "ID")
	c := loadedController(t, gw)

	s := c.Snapshot()
	assert.Len(t, s.Nodes, 2)
	assert.Len(t, s.Edges, 1)
	assert.Equal(t, StatusSuccess, s.LoadStatus)
	assert.Equal(t, c.Bounds(), s.Bounds)

	// snapshots are copies
	s.Nodes[0].Columns[0] = "mutated"
	n, _ := c.Node(s.Nodes[0].ID)
	assert.NotEqual(t, "mutated", n.Columns[0])
}

func tallTablesGateway(tables, columns int) *fakeGateway {
	cols := make([]string, columns)
	for i := range cols {
		cols[i] = fmt.Sprintf("c%02d", i)
	}
	gw := newFakeGateway()
	for i := range tables {
		gw.addTable(fmt.Sprintf("t%02d", i), cols...)
	}
	return gw
}

func TestController_InitialLayoutInsideBounds(t *testing.T) {
	for name, policy := range map[string]BoundsPolicy{"static": BoundsStatic, "dynamic": BoundsDynamic} {
		t.Run(name, func(t *testing.T) {
			c := newTestController(tallTablesGateway(12, 20))
			c.cfg.Bounds = policy
			t.Cleanup(c.Close)
			require.NoError(t, c.Load(context.Background()))

			bounds := c.Bounds()
			if policy == BoundsStatic {
				assert.Equal(t, Rect{Right: 1000, Bottom: 800}, bounds)
			}
			for _, n := range c.Nodes() {
				r := n.Rect()
				assert.GreaterOrEqual(t, r.Left, bounds.Left, n.ID)
				assert.GreaterOrEqual(t, r.Top, bounds.Top, n.ID)
				assert.LessOrEqual(t, r.Right, bounds.Right, n.ID)
				assert.LessOrEqual(t, r.Bottom, bounds.Bottom, n.ID)
			}
		})
	}
}
