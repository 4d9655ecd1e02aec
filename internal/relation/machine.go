package relation

import "github.com/mural-social/mural/internal/domains/entities"

// EffectKind tags a side effect produced by a committed transition.
type EffectKind string

const (
	EffectNotify      EffectKind = "notify"
	EffectFriendCount EffectKind = "friend_count"
)

// Relationship event types published to the notification collaborator.
const (
	EventFriendRequest  = "friend_request"
	EventFriendAccepted = "friend_accepted"
)

// Effect is one best-effort unit of post-commit work. Notify effects carry
// EventType; friend-count effects carry Delta.
type Effect struct {
	Kind      EffectKind
	UserId    string
	EventType string
	Delta     int64
}

// Decision is the outcome of a permitted transition. State
// entities.RelationshipNone means the edge record is removed.
type Decision struct {
	State       entities.RelationshipState
	RequestedBy string
	BlockedBy   string
	Effects     []Effect
}

// Decide maps (current edge, action, actor) to the next edge state. It is
// pure: no clocks, no I/O, no mutation of the given edge. edge == nil means
// no record exists (entities.RelationshipNone).
//
// Blocking is a one-sided override: once BlockedBy is set, every action by
// the other participant is refused until the blocker unblocks.
func Decide(
	edge *entities.RelationshipEdge,
	action Action,
	actor string,
	other string,
) (Decision, error) {
	if actor == other {
		return Decision{}, &RejectionError{Code: RejectSelfAction}
	}

	state := entities.RelationshipNone
	if edge != nil {
		state = edge.State
	}

	switch state {
	case entities.RelationshipNone:
		switch action {
		case ActionSend:
			return Decision{
				State:       entities.RelationshipPending,
				RequestedBy: actor,
				Effects: []Effect{
					{Kind: EffectNotify, UserId: other, EventType: EventFriendRequest},
				},
			}, nil
		case ActionBlock:
			return Decision{
				State:     entities.RelationshipBlocked,
				BlockedBy: actor,
			}, nil
		case ActionAccept, ActionReject, ActionCancel, ActionRemove, ActionUnblock:
			return Decision{}, &RejectionError{Code: RejectNotFound}
		}

	case entities.RelationshipPending:
		switch action {
		case ActionSend:
			// A second send from either side leaves the first request
			// standing, including the mutual-request case.
			return Decision{}, &RejectionError{Code: RejectAlreadyPending}
		case ActionAccept:
			if edge.RequestedBy == actor {
				return Decision{}, &RejectionError{Code: RejectInvalidTransition}
			}
			return Decision{
				State: entities.RelationshipFriends,
				Effects: []Effect{
					{Kind: EffectNotify, UserId: other, EventType: EventFriendAccepted},
					{Kind: EffectFriendCount, UserId: actor, Delta: 1},
					{Kind: EffectFriendCount, UserId: other, Delta: 1},
				},
			}, nil
		case ActionReject:
			if edge.RequestedBy == actor {
				return Decision{}, &RejectionError{Code: RejectInvalidTransition}
			}
			return Decision{State: entities.RelationshipNone}, nil
		case ActionCancel:
			if edge.RequestedBy != actor {
				return Decision{}, &RejectionError{Code: RejectInvalidTransition}
			}
			return Decision{State: entities.RelationshipNone}, nil
		case ActionBlock:
			return Decision{
				State:     entities.RelationshipBlocked,
				BlockedBy: actor,
			}, nil
		}

	case entities.RelationshipFriends:
		switch action {
		case ActionSend, ActionAccept:
			return Decision{}, &RejectionError{Code: RejectAlreadyFriends}
		case ActionRemove:
			return Decision{
				State: entities.RelationshipNone,
				Effects: []Effect{
					{Kind: EffectFriendCount, UserId: actor, Delta: -1},
					{Kind: EffectFriendCount, UserId: other, Delta: -1},
				},
			}, nil
		case ActionBlock:
			return Decision{
				State:     entities.RelationshipBlocked,
				BlockedBy: actor,
				Effects: []Effect{
					{Kind: EffectFriendCount, UserId: actor, Delta: -1},
					{Kind: EffectFriendCount, UserId: other, Delta: -1},
				},
			}, nil
		}

	case entities.RelationshipBlocked:
		if edge.BlockedBy != actor {
			return Decision{}, &RejectionError{Code: RejectBlocked}
		}
		if action == ActionUnblock {
			return Decision{State: entities.RelationshipNone}, nil
		}
	}

	return Decision{}, &RejectionError{Code: RejectInvalidTransition}
}
