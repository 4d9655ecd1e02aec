package relation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mural-social/mural/internal/domains/entities"
)

// Label is the relationship as perceived by one participant. The same
// stored edge yields different labels for its two viewers.
type Label string

const (
	LabelNone            Label = "none"
	LabelPendingSent     Label = "pending_sent"
	LabelPendingReceived Label = "pending_received"
	LabelFriends         Label = "friends"
	LabelBlocked         Label = "blocked"
	LabelBlockedBy       Label = "blocked_by"
)

// LabelFor projects the stored edge into the viewer's label. Pure and total
// over all reachable states; unreachable input falls through to LabelNone.
func LabelFor(viewer string, edge *entities.RelationshipEdge) Label {
	if edge == nil {
		return LabelNone
	}
	switch edge.State {
	case entities.RelationshipPending:
		if edge.RequestedBy == viewer {
			return LabelPendingSent
		}
		return LabelPendingReceived
	case entities.RelationshipFriends:
		return LabelFriends
	case entities.RelationshipBlocked:
		if edge.BlockedBy == viewer {
			return LabelBlocked
		}
		return LabelBlockedBy
	}
	return LabelNone
}

// ListItem is one entry of a relationship listing.
type ListItem struct {
	UserId string
	Label  Label
	Since  time.Time
}

// Projector serves the read-only views of the relationship graph: point
// lookups of the viewer's label and the four list endpoints.
type Projector struct {
	store Store
}

func NewProjector(store Store) *Projector {
	return &Projector{store: store}
}

// Relationship returns the viewer's label for a single target user.
func (p *Projector) Relationship(ctx context.Context, viewer, other string) (Label, error) {
	if viewer == other {
		return LabelNone, &RejectionError{Code: RejectSelfAction, Label: LabelNone}
	}
	edge, err := p.store.GetEdge(ctx, entities.RelationshipPairKey(viewer, other))
	if errors.Is(err, ErrEdgeNotFound) {
		return LabelNone, nil
	}
	if err != nil {
		return LabelNone, fmt.Errorf("failed to get edge: %w", err)
	}
	return LabelFor(viewer, &edge), nil
}

func (p *Projector) ListFriends(ctx context.Context, viewer, cursor string, limit int32) ([]ListItem, string, error) {
	return p.list(ctx, viewer, entities.RelationshipFriends, InitiatorAny, cursor, limit)
}

func (p *Projector) ListPendingSent(ctx context.Context, viewer, cursor string, limit int32) ([]ListItem, string, error) {
	return p.list(ctx, viewer, entities.RelationshipPending, InitiatorViewer, cursor, limit)
}

func (p *Projector) ListPendingReceived(ctx context.Context, viewer, cursor string, limit int32) ([]ListItem, string, error) {
	return p.list(ctx, viewer, entities.RelationshipPending, InitiatorOther, cursor, limit)
}

// ListBlocked returns only edges the viewer blocked; being blocked by
// someone is never listed for the blocked party.
func (p *Projector) ListBlocked(ctx context.Context, viewer, cursor string, limit int32) ([]ListItem, string, error) {
	return p.list(ctx, viewer, entities.RelationshipBlocked, InitiatorViewer, cursor, limit)
}

func (p *Projector) list(
	ctx context.Context,
	viewer string,
	state entities.RelationshipState,
	initiator InitiatorFilter,
	cursor string,
	limit int32,
) ([]ListItem, string, error) {
	page, err := p.store.QueryByViewerAndState(ctx, viewer, state, initiator, cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query edges: %w", err)
	}
	items := make([]ListItem, 0, len(page.Edges))
	for i := range page.Edges {
		edge := page.Edges[i]
		items = append(items, ListItem{
			UserId: edge.Other(viewer),
			Label:  LabelFor(viewer, &edge),
			Since:  sinceOf(edge),
		})
	}
	return items, page.NextCursor, nil
}

// sinceOf picks the timestamp shown in listings: request age for pending
// edges, time of the last transition otherwise.
func sinceOf(edge entities.RelationshipEdge) time.Time {
	if edge.State == entities.RelationshipPending {
		return edge.CreatedAt
	}
	return edge.UpdatedAt
}
