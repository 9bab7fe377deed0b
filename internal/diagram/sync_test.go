package diagram

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// holdFirst returns a gateway hook that parks its first caller until release
// is closed. entered is closed once that caller is parked.
func holdFirst() (hook func(), entered <-chan struct{}, release chan struct{}) {
	var once sync.Once
	in := make(chan struct{})
	release = make(chan struct{})
	hook = func() {
		first := false
		once.Do(func() { first = true })
		if first {
			close(in)
			<-release
		}
	}
	return hook, in, release
}

func TestReload_OlderListingDoesNotUndoConnect(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)
	ctx := context.Background()

	hook, entered, release := holdFirst()
	gw.afterList = hook

	done := make(chan error, 1)
	go func() {
		_, err := c.ReloadRelationships(ctx)
		done <- err
	}()
	<-entered

	edge, err := c.Connect(ctx,
		Anchor{Table: "Pedidos", Column: "ClienteID"},
		Anchor{Table: "Clientes", Column: "ID"},
	)
	require.NoError(t, err)
	require.Len(t, c.Edges(), 1)

	close(release)
	require.NoError(t, <-done)

	edges := c.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, edge.ID, edges[0].ID)
	assert.False(t, edges[0].Pending)
	assert.Equal(t, StatusSuccess, c.Status(ResourceRelationships))
}

func TestReload_OlderListingDoesNotRestoreDeletedEdge(t *testing.T) {
	gw := shopGateway()
	rel := gw.addRelationship("Pedidos", "ClienteID", "Clientes", "ID")
	c := loadedController(t, gw)
	ctx := context.Background()
	require.Len(t, c.Edges(), 1)

	hook, entered, release := holdFirst()
	gw.afterList = hook

	done := make(chan error, 1)
	go func() {
		_, err := c.ReloadRelationships(ctx)
		done <- err
	}()
	<-entered

	deleted, err := c.DeleteEdge(ctx, rel.ID, AlwaysConfirm)
	require.NoError(t, err)
	require.True(t, deleted)

	close(release)
	require.NoError(t, <-done)
	assert.Empty(t, c.Edges())
	assert.Equal(t, StatusSuccess, c.Status(ResourceRelationships))
}

func TestReload_LaterListingStillApplies(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)

	gw.addRelationship("Pedidos", "ClienteID", "Clientes", "ID")
	edges, err := c.ReloadRelationships(context.Background())
	require.NoError(t, err)
	assert.Len(t, edges, 1)
	assert.Len(t, c.Edges(), 1)
}

func TestLoad_ConcurrentCallsShareOneRequest(t *testing.T) {
	gw := shopGateway()
	c := newTestController(gw)
	t.Cleanup(c.Close)

	hook, entered, release := holdFirst()
	gw.beforeTables = hook

	const callers = 5
	var started, finished sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		started.Add(1)
		finished.Add(1)
		go func() {
			defer finished.Done()
			started.Done()
			errs <- c.Load(context.Background())
		}()
	}
	<-entered
	started.Wait()
	assert.Equal(t, StatusLoading, c.LoadStatus())
	// Give the remaining callers time to join the load in flight.
	time.Sleep(20 * time.Millisecond)
	close(release)

	finished.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, gw.count("ListTables"))
	assert.Equal(t, 2, gw.count("ListColumns"))
	assert.Equal(t, 1, gw.count("ListRelationships"))
	assert.Len(t, c.Nodes(), 2)
}

func TestReloadRelationships_ConcurrentCallsShareOneRequest(t *testing.T) {
	gw := shopGateway()
	c := loadedController(t, gw)
	require.Equal(t, 1, gw.count("ListRelationships"))

	hook, entered, release := holdFirst()
	gw.beforeList = hook

	const callers = 5
	var started, finished sync.WaitGroup
	for range callers {
		started.Add(1)
		finished.Add(1)
		go func() {
			defer finished.Done()
			started.Done()
			_, err := c.ReloadRelationships(context.Background())
			assert.NoError(t, err)
		}()
	}
	<-entered
	started.Wait()
	assert.Equal(t, StatusLoading, c.Status(ResourceRelationships))
	time.Sleep(20 * time.Millisecond)
	close(release)
	finished.Wait()

	assert.Equal(t, 2, gw.count("ListRelationships"))
}
