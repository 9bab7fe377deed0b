package diagram

import (
	"context"
	"fmt"

	"relmap/internal/logger"
	"relmap/internal/models"
)

// ReloadRelationships lists the relationships and replaces the edge set with
// them. Concurrent calls share one request.
func (c *Controller) ReloadRelationships(ctx context.Context) ([]Edge, error) {
	v, err, _ := c.flight.Do(ResourceRelationships, func() (any, error) {
		return c.reloadRelationships(ctx, 0)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Edge), nil
}

// refreshAfterMutation forces a fresh listing: joining a request that was
// issued before the mutation completed could miss it.
func (c *Controller) refreshAfterMutation(ctx context.Context, settled uint64) ([]Edge, error) {
	c.flight.Forget(ResourceRelationships)
	v, err, _ := c.flight.Do(ResourceRelationships, func() (any, error) {
		return c.reloadRelationships(ctx, settled)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Edge), nil
}

// reloadRelationships replaces backend edges wholesale. Provisional edges of
// creates still in flight are kept, except settled, whose create just returned.
func (c *Controller) reloadRelationships(ctx context.Context, settled uint64) ([]Edge, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.listGen++
	gen := c.listGen
	c.status[ResourceRelationships] = StatusLoading
	c.mu.Unlock()

	rels, err := c.gw.ListRelationships(ctx, c.session)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if gen <= c.appliedGen {
		if gen == c.listGen {
			c.status[ResourceRelationships] = StatusSuccess
		}
		out := make([]Edge, len(c.edges))
		copy(out, c.edges)
		c.mu.Unlock()
		c.log.Debug("dropping stale relationship listing", logger.Int64("generation", int64(gen)))
		return out, nil
	}
	if err != nil {
		c.status[ResourceRelationships] = StatusFailed
		c.notifyLocked(LevelError, "Failed to load relationships", err)
		c.mu.Unlock()
		c.log.Error("list relationships failed", logger.Error(err))
		c.changed()
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}

	edges := make([]Edge, 0, len(rels))
	for _, r := range rels {
		e := edgeFromRelationship(r)
		if !c.anchorExistsLocked(e.Source) || !c.anchorExistsLocked(e.Target) {
			c.log.Warn("dropping relationship with unknown anchor", logger.Int64("relationship_id", r.ID), logger.String("edge", e.String()))
			continue
		}
		c.edgeSeq++
		e.seq = c.edgeSeq
		edges = append(edges, e)
	}
	for _, e := range c.edges {
		if e.Pending && e.seq != settled {
			edges = append(edges, e)
		}
	}
	c.edges = edges
	c.appliedGen = gen
	c.status[ResourceRelationships] = StatusSuccess
	out := make([]Edge, len(edges))
	copy(out, edges)
	c.mu.Unlock()
	c.changed()
	return out, nil
}

// Connect creates a relationship of the configured default kind.
func (c *Controller) Connect(ctx context.Context, source, target Anchor) (Edge, error) {
	return c.ConnectKind(ctx, source, target, c.cfg.DefaultKind)
}

// ConnectKind shows a provisional edge at once, asks the backend to create
// the relationship and then re-derives the edge set from a fresh listing.
// On failure the provisional edge is removed and a notification is raised.
func (c *Controller) ConnectKind(ctx context.Context, source, target Anchor, kind models.RelationshipKind) (Edge, error) {
	if !kind.Valid() {
		return Edge{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if source == target {
		return Edge{}, fmt.Errorf("%w: %s", ErrSelfConnection, source)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Edge{}, ErrClosed
	}
	for _, a := range []Anchor{source, target} {
		if !c.anchorExistsLocked(a) {
			c.mu.Unlock()
			return Edge{}, fmt.Errorf("%w: %s", ErrUnknownAnchor, a)
		}
	}
	c.edgeSeq++
	provisional := Edge{Source: source, Target: target, Kind: kind, Pending: true, seq: c.edgeSeq}
	c.edges = append(c.edges, provisional)
	c.status[ResourceCreate] = StatusLoading
	c.mu.Unlock()
	c.changed()

	created, err := c.gw.CreateRelationship(ctx, c.session, provisional.input())

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Edge{}, ErrClosed
	}
	if err != nil {
		c.removeEdgeLocked(func(e Edge) bool { return e.seq == provisional.seq })
		c.status[ResourceCreate] = StatusFailed
		c.notifyLocked(LevelError, fmt.Sprintf("Failed to create relationship %s -> %s", source, target), err)
		c.mu.Unlock()
		c.log.Error("create relationship failed", logger.String("source", source.String()), logger.String("target", target.String()), logger.Error(err))
		c.changed()
		return Edge{}, fmt.Errorf("failed to create relationship: %w", err)
	}
	c.status[ResourceCreate] = StatusSuccess
	c.appliedGen = c.listGen
	c.mu.Unlock()

	result := edgeFromRelationship(created)
	edges, err := c.refreshAfterMutation(ctx, provisional.seq)
	if isClosedErr(err) {
		return Edge{}, err
	}
	if err == nil {
		for _, e := range edges {
			if e.ID == created.ID && created.ID != 0 {
				return e, nil
			}
		}
	}

	// The listing failed or predates the create. The create response carries
	// the assigned id, so it stands in until the next successful reload.
	c.mu.Lock()
	if !c.closed {
		c.removeEdgeLocked(func(e Edge) bool { return e.seq == provisional.seq })
		if created.ID != 0 && !c.hasEdgeIDLocked(created.ID) {
			result.seq = provisional.seq
			c.edges = append(c.edges, result)
		}
	}
	c.mu.Unlock()
	c.changed()
	return result, nil
}

// DeleteEdge asks confirm before deleting the relationship behind edge id.
// It reports whether the edge was deleted; a declined prompt is not an error.
// On failure the edge stays and a notification is raised.
func (c *Controller) DeleteEdge(ctx context.Context, id int64, confirm Confirmer) (bool, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, ErrClosed
	}
	var target *Edge
	for i := range c.edges {
		if !c.edges[i].Pending && c.edges[i].ID == id {
			e := c.edges[i]
			target = &e
			break
		}
	}
	c.mu.Unlock()
	if target == nil {
		return false, fmt.Errorf("%w: %d", ErrUnknownEdge, id)
	}

	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Remove relationship %s -> %s?", target.Source, target.Target)) {
		return false, nil
	}

	key := ResourceDelete(id)
	_, err, _ := c.flight.Do(key, func() (any, error) {
		c.setStatus(key, StatusLoading)
		return nil, c.gw.DeleteRelationship(ctx, c.session, id)
	})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, ErrClosed
	}
	if err != nil {
		c.status[key] = StatusFailed
		c.notifyLocked(LevelError, fmt.Sprintf("Failed to remove relationship %s -> %s", target.Source, target.Target), err)
		c.mu.Unlock()
		c.log.Error("delete relationship failed", logger.Int64("relationship_id", id), logger.Error(err))
		c.changed()
		return false, fmt.Errorf("failed to delete relationship %d: %w", id, err)
	}
	c.removeEdgeLocked(func(e Edge) bool { return !e.Pending && e.ID == id })
	c.status[key] = StatusSuccess
	c.appliedGen = c.listGen
	c.mu.Unlock()
	c.changed()
	return true, nil
}

func (c *Controller) removeEdgeLocked(match func(Edge) bool) {
	kept := c.edges[:0]
	for _, e := range c.edges {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	c.edges = kept
}

func (c *Controller) hasEdgeIDLocked(id int64) bool {
	for _, e := range c.edges {
		if !e.Pending && e.ID == id {
			return true
		}
	}
	return false
}
