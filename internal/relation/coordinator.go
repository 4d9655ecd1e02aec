package relation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mural-social/mural/internal/domains/entities"
)

// maxWriteAttempts bounds the optimistic-concurrency retry loop. Conflicts
// only occur when both participants mutate the same edge at once, so the
// budget is small and there is no backoff.
const maxWriteAttempts = 5

// Coordinator runs one relationship action end to end: read the edge,
// decide the transition, commit it with a version-conditioned write, then
// hand side effects to the dispatcher. It holds no in-process lock; all
// concurrency safety comes from the conditional write.
type Coordinator struct {
	store      Store
	dispatcher Dispatcher
	now        func() time.Time
}

func NewCoordinator(store Store, dispatcher Dispatcher) *Coordinator {
	return &Coordinator{
		store:      store,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Execute applies the action for actor against other and returns the
// actor's relationship label after the transition. Business refusals come
// back as *RejectionError carrying the actor's current label; only store
// faults propagate as plain errors.
func (c *Coordinator) Execute(
	ctx context.Context,
	actor string,
	other string,
	action Action,
) (Label, error) {
	if actor == other {
		return LabelNone, &RejectionError{Code: RejectSelfAction, Label: LabelNone}
	}
	pairKey := entities.RelationshipPairKey(actor, other)

	lastLabel := LabelNone
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return lastLabel, err
		}

		var edge *entities.RelationshipEdge
		current, err := c.store.GetEdge(ctx, pairKey)
		switch {
		case err == nil:
			edge = &current
		case errors.Is(err, ErrEdgeNotFound):
			edge = nil
		default:
			return lastLabel, fmt.Errorf("failed to read edge: %w", err)
		}
		lastLabel = LabelFor(actor, edge)

		decision, err := Decide(edge, action, actor, other)
		if err != nil {
			var rejection *RejectionError
			if errors.As(err, &rejection) {
				rejection.Label = lastLabel
			}
			return lastLabel, err
		}

		next, err := c.commit(ctx, pairKey, edge, decision, actor, other)
		if errors.Is(err, ErrEdgeVersionConflict) {
			continue
		}
		if err != nil {
			return lastLabel, fmt.Errorf("failed to write edge: %w", err)
		}

		if len(decision.Effects) > 0 {
			c.dispatcher.Dispatch(ctx, actor, decision.Effects)
		}
		return LabelFor(actor, next), nil
	}
	return lastLabel, &RejectionError{Code: RejectContention, Label: lastLabel}
}

// commit performs the version-conditioned write for one decision and
// returns the edge as it now stands (nil when removed).
func (c *Coordinator) commit(
	ctx context.Context,
	pairKey string,
	edge *entities.RelationshipEdge,
	decision Decision,
	actor string,
	other string,
) (*entities.RelationshipEdge, error) {
	if decision.State == entities.RelationshipNone {
		// Every transition to NONE starts from an existing record.
		if err := c.store.DeleteEdgeIfVersion(ctx, pairKey, edge.Version); err != nil {
			return nil, err
		}
		return nil, nil
	}

	now := c.now().UTC()
	userA, userB := entities.CanonicalPair(actor, other)
	next := entities.RelationshipEdge{
		PairKey:     pairKey,
		UserA:       userA,
		UserB:       userB,
		State:       decision.State,
		RequestedBy: decision.RequestedBy,
		BlockedBy:   decision.BlockedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}
	var expectedVersion int64
	if edge != nil {
		expectedVersion = edge.Version
		next.CreatedAt = edge.CreatedAt
		next.Version = edge.Version + 1
	}
	if err := c.store.PutEdgeIfVersion(ctx, next, expectedVersion); err != nil {
		return nil, err
	}
	return &next, nil
}
