package relation

import (
	"context"

	"github.com/mural-social/mural/internal/domains/entities"
)

// InitiatorFilter narrows a listing query by who initiated the recorded
// state (RequestedBy for pending edges, BlockedBy for blocked edges).
type InitiatorFilter string

const (
	InitiatorAny    InitiatorFilter = ""
	InitiatorViewer InitiatorFilter = "viewer"
	InitiatorOther  InitiatorFilter = "other"
)

// Page is one slice of a listing query. NextCursor is an opaque token; an
// empty token means the listing is exhausted. A page may hold fewer than
// the requested number of edges even when more pages remain.
type Page struct {
	Edges      []entities.RelationshipEdge
	NextCursor string
}

// Store is the durable edge store. Implementations must provide
// read-after-write consistency for GetEdge and atomic version-conditioned
// writes; all business logic stays out of the store.
type Store interface {
	// GetEdge returns ErrEdgeNotFound when no record exists for the pair.
	GetEdge(ctx context.Context, pairKey string) (entities.RelationshipEdge, error)

	// PutEdgeIfVersion writes the edge only if the stored version still
	// equals expectedVersion. expectedVersion 0 asserts the record does not
	// exist yet. Returns ErrEdgeVersionConflict when the condition fails.
	PutEdgeIfVersion(ctx context.Context, edge entities.RelationshipEdge, expectedVersion int64) error

	// DeleteEdgeIfVersion removes the record only if the stored version
	// still equals expectedVersion. Returns ErrEdgeVersionConflict when the
	// condition fails.
	DeleteEdgeIfVersion(ctx context.Context, pairKey string, expectedVersion int64) error

	// QueryByViewerAndState lists edges involving the viewer in the given
	// state. Cursors are stable under concurrent mutation of other edges:
	// an edge that does not change is neither skipped nor repeated across
	// pages.
	QueryByViewerAndState(
		ctx context.Context,
		viewer string,
		state entities.RelationshipState,
		initiator InitiatorFilter,
		cursor string,
		limit int32,
	) (Page, error)
}
