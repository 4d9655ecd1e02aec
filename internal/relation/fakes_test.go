package relation_test

import (
	"context"
	"sort"
	"sync"

	"github.com/mural-social/mural/internal/domains/entities"
	"github.com/mural-social/mural/internal/relation"
)

// memStore is an in-memory Store with the same conditional-write contract
// as the DynamoDB adapter. conflictsBefore injects version conflicts to
// exercise the coordinator retry loop.
type memStore struct {
	mu              sync.Mutex
	edges           map[string]entities.RelationshipEdge
	conflictsBefore int
	getErr          error
}

func newMemStore() *memStore {
	return &memStore{edges: make(map[string]entities.RelationshipEdge)}
}

func (s *memStore) GetEdge(_ context.Context, pairKey string) (entities.RelationshipEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return entities.RelationshipEdge{}, s.getErr
	}
	edge, ok := s.edges[pairKey]
	if !ok {
		return entities.RelationshipEdge{}, relation.ErrEdgeNotFound
	}
	return edge, nil
}

func (s *memStore) PutEdgeIfVersion(_ context.Context, edge entities.RelationshipEdge, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflictsBefore > 0 {
		s.conflictsBefore--
		return relation.ErrEdgeVersionConflict
	}
	current, exists := s.edges[edge.PairKey]
	if expectedVersion == 0 {
		if exists {
			return relation.ErrEdgeVersionConflict
		}
	} else if !exists || current.Version != expectedVersion {
		return relation.ErrEdgeVersionConflict
	}
	s.edges[edge.PairKey] = edge
	return nil
}

func (s *memStore) DeleteEdgeIfVersion(_ context.Context, pairKey string, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflictsBefore > 0 {
		s.conflictsBefore--
		return relation.ErrEdgeVersionConflict
	}
	current, exists := s.edges[pairKey]
	if !exists || current.Version != expectedVersion {
		return relation.ErrEdgeVersionConflict
	}
	delete(s.edges, pairKey)
	return nil
}

// QueryByViewerAndState pages in pair-key order with the last returned key
// as the cursor, matching the stability contract of the real adapter.
func (s *memStore) QueryByViewerAndState(
	_ context.Context,
	viewer string,
	state entities.RelationshipState,
	initiator relation.InitiatorFilter,
	cursor string,
	limit int32,
) (relation.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []entities.RelationshipEdge
	for _, edge := range s.edges {
		if !edge.Involves(viewer) || edge.State != state {
			continue
		}
		if !initiatorMatches(edge, viewer, initiator) {
			continue
		}
		matched = append(matched, edge)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].PairKey < matched[j].PairKey
	})

	page := relation.Page{}
	for _, edge := range matched {
		if cursor != "" && edge.PairKey <= cursor {
			continue
		}
		if int32(len(page.Edges)) == limit {
			page.NextCursor = page.Edges[len(page.Edges)-1].PairKey
			return page, nil
		}
		page.Edges = append(page.Edges, edge)
	}
	return page, nil
}

func initiatorMatches(edge entities.RelationshipEdge, viewer string, initiator relation.InitiatorFilter) bool {
	if initiator == relation.InitiatorAny {
		return true
	}
	recorded := edge.RequestedBy
	if edge.State == entities.RelationshipBlocked {
		recorded = edge.BlockedBy
	}
	if initiator == relation.InitiatorViewer {
		return recorded == viewer
	}
	return recorded != viewer
}

func (s *memStore) edge(pairKey string) (entities.RelationshipEdge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	edge, ok := s.edges[pairKey]
	return edge, ok
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edges)
}

// recordingDispatcher captures dispatched effects per call.
type recordingDispatcher struct {
	mu      sync.Mutex
	actors  []string
	batches [][]relation.Effect
}

func (d *recordingDispatcher) Dispatch(_ context.Context, actor string, effects []relation.Effect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actors = append(d.actors, actor)
	d.batches = append(d.batches, effects)
}

func (d *recordingDispatcher) all() []relation.Effect {
	d.mu.Lock()
	defer d.mu.Unlock()
	var effects []relation.Effect
	for _, batch := range d.batches {
		effects = append(effects, batch...)
	}
	return effects
}
