package relation_test

import (
	"testing"

	"github.com/mural-social/mural/internal/domains/entities"
	"github.com/mural-social/mural/internal/relation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice"
	bob   = "bob"
)

func pendingEdge(requestedBy string) *entities.RelationshipEdge {
	return &entities.RelationshipEdge{
		PairKey:     entities.RelationshipPairKey(alice, bob),
		UserA:       alice,
		UserB:       bob,
		State:       entities.RelationshipPending,
		RequestedBy: requestedBy,
		Version:     1,
	}
}

func friendsEdge() *entities.RelationshipEdge {
	return &entities.RelationshipEdge{
		PairKey: entities.RelationshipPairKey(alice, bob),
		UserA:   alice,
		UserB:   bob,
		State:   entities.RelationshipFriends,
		Version: 2,
	}
}

func blockedEdge(blockedBy string) *entities.RelationshipEdge {
	return &entities.RelationshipEdge{
		PairKey:   entities.RelationshipPairKey(alice, bob),
		UserA:     alice,
		UserB:     bob,
		State:     entities.RelationshipBlocked,
		BlockedBy: blockedBy,
		Version:   3,
	}
}

func requireRejection(t *testing.T, err error, code relation.RejectionCode) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, relation.RejectionCodeOf(err))
}

func TestDecideSelfAction(t *testing.T) {
	for _, action := range []relation.Action{
		relation.ActionSend, relation.ActionAccept, relation.ActionReject,
		relation.ActionCancel, relation.ActionRemove, relation.ActionBlock,
		relation.ActionUnblock,
	} {
		_, err := relation.Decide(nil, action, alice, alice)
		requireRejection(t, err, relation.RejectSelfAction)
	}
}

func TestDecideFromNone(t *testing.T) {
	t.Run("send opens a pending request", func(t *testing.T) {
		decision, err := relation.Decide(nil, relation.ActionSend, alice, bob)
		require.NoError(t, err)
		assert.Equal(t, entities.RelationshipPending, decision.State)
		assert.Equal(t, alice, decision.RequestedBy)
		require.Len(t, decision.Effects, 1)
		assert.Equal(t, relation.EffectNotify, decision.Effects[0].Kind)
		assert.Equal(t, bob, decision.Effects[0].UserId)
		assert.Equal(t, relation.EventFriendRequest, decision.Effects[0].EventType)
	})

	t.Run("block needs no prior edge", func(t *testing.T) {
		decision, err := relation.Decide(nil, relation.ActionBlock, alice, bob)
		require.NoError(t, err)
		assert.Equal(t, entities.RelationshipBlocked, decision.State)
		assert.Equal(t, alice, decision.BlockedBy)
		assert.Empty(t, decision.Effects)
	})

	t.Run("everything else presumes an edge", func(t *testing.T) {
		for _, action := range []relation.Action{
			relation.ActionAccept, relation.ActionReject, relation.ActionCancel,
			relation.ActionRemove, relation.ActionUnblock,
		} {
			_, err := relation.Decide(nil, action, alice, bob)
			requireRejection(t, err, relation.RejectNotFound)
		}
	})
}

func TestDecideFromPending(t *testing.T) {
	t.Run("requester can cancel", func(t *testing.T) {
		decision, err := relation.Decide(pendingEdge(alice), relation.ActionCancel, alice, bob)
		require.NoError(t, err)
		assert.Equal(t, entities.RelationshipNone, decision.State)
		assert.Empty(t, decision.Effects)
	})

	t.Run("requester cannot accept or reject own request", func(t *testing.T) {
		_, err := relation.Decide(pendingEdge(alice), relation.ActionAccept, alice, bob)
		requireRejection(t, err, relation.RejectInvalidTransition)
		_, err = relation.Decide(pendingEdge(alice), relation.ActionReject, alice, bob)
		requireRejection(t, err, relation.RejectInvalidTransition)
	})

	t.Run("recipient accepts into friendship", func(t *testing.T) {
		decision, err := relation.Decide(pendingEdge(alice), relation.ActionAccept, bob, alice)
		require.NoError(t, err)
		assert.Equal(t, entities.RelationshipFriends, decision.State)
		assert.Empty(t, decision.RequestedBy)
		require.Len(t, decision.Effects, 3)
		assert.Equal(t, relation.EffectNotify, decision.Effects[0].Kind)
		assert.Equal(t, relation.EventFriendAccepted, decision.Effects[0].EventType)
		assert.Equal(t, alice, decision.Effects[0].UserId)
		for _, effect := range decision.Effects[1:] {
			assert.Equal(t, relation.EffectFriendCount, effect.Kind)
			assert.Equal(t, int64(1), effect.Delta)
		}
	})

	t.Run("recipient rejects back to none", func(t *testing.T) {
		decision, err := relation.Decide(pendingEdge(alice), relation.ActionReject, bob, alice)
		require.NoError(t, err)
		assert.Equal(t, entities.RelationshipNone, decision.State)
		assert.Empty(t, decision.Effects)
	})

	t.Run("recipient cannot cancel", func(t *testing.T) {
		_, err := relation.Decide(pendingEdge(alice), relation.ActionCancel, bob, alice)
		requireRejection(t, err, relation.RejectInvalidTransition)
	})

	t.Run("second send from either side is already pending", func(t *testing.T) {
		_, err := relation.Decide(pendingEdge(alice), relation.ActionSend, alice, bob)
		requireRejection(t, err, relation.RejectAlreadyPending)

		// Mutual simultaneous request: the first request stands.
		_, err = relation.Decide(pendingEdge(alice), relation.ActionSend, bob, alice)
		requireRejection(t, err, relation.RejectAlreadyPending)
	})

	t.Run("either side can block", func(t *testing.T) {
		for _, actor := range []string{alice, bob} {
			decision, err := relation.Decide(pendingEdge(alice), relation.ActionBlock, actor, pendingEdge(alice).Other(actor))
			require.NoError(t, err)
			assert.Equal(t, entities.RelationshipBlocked, decision.State)
			assert.Equal(t, actor, decision.BlockedBy)
		}
	})

	t.Run("remove and unblock are invalid", func(t *testing.T) {
		_, err := relation.Decide(pendingEdge(alice), relation.ActionRemove, bob, alice)
		requireRejection(t, err, relation.RejectInvalidTransition)
		_, err = relation.Decide(pendingEdge(alice), relation.ActionUnblock, bob, alice)
		requireRejection(t, err, relation.RejectInvalidTransition)
	})
}

func TestDecideFromFriends(t *testing.T) {
	t.Run("send and accept are already friends", func(t *testing.T) {
		_, err := relation.Decide(friendsEdge(), relation.ActionSend, alice, bob)
		requireRejection(t, err, relation.RejectAlreadyFriends)
		_, err = relation.Decide(friendsEdge(), relation.ActionAccept, bob, alice)
		requireRejection(t, err, relation.RejectAlreadyFriends)
	})

	t.Run("either side removes, decrementing both counters", func(t *testing.T) {
		for _, actor := range []string{alice, bob} {
			decision, err := relation.Decide(friendsEdge(), relation.ActionRemove, actor, friendsEdge().Other(actor))
			require.NoError(t, err)
			assert.Equal(t, entities.RelationshipNone, decision.State)
			require.Len(t, decision.Effects, 2)
			for _, effect := range decision.Effects {
				assert.Equal(t, relation.EffectFriendCount, effect.Kind)
				assert.Equal(t, int64(-1), effect.Delta)
			}
		}
	})

	t.Run("block ends the friendship and decrements counters", func(t *testing.T) {
		decision, err := relation.Decide(friendsEdge(), relation.ActionBlock, bob, alice)
		require.NoError(t, err)
		assert.Equal(t, entities.RelationshipBlocked, decision.State)
		assert.Equal(t, bob, decision.BlockedBy)
		require.Len(t, decision.Effects, 2)
		for _, effect := range decision.Effects {
			assert.Equal(t, relation.EffectFriendCount, effect.Kind)
			assert.Equal(t, int64(-1), effect.Delta)
		}
	})

	t.Run("reject cancel unblock are invalid", func(t *testing.T) {
		for _, action := range []relation.Action{
			relation.ActionReject, relation.ActionCancel, relation.ActionUnblock,
		} {
			_, err := relation.Decide(friendsEdge(), action, alice, bob)
			requireRejection(t, err, relation.RejectInvalidTransition)
		}
	})
}

func TestDecideFromBlocked(t *testing.T) {
	t.Run("blocker can unblock", func(t *testing.T) {
		decision, err := relation.Decide(blockedEdge(alice), relation.ActionUnblock, alice, bob)
		require.NoError(t, err)
		assert.Equal(t, entities.RelationshipNone, decision.State)
		assert.Empty(t, decision.Effects)
	})

	t.Run("blocker cannot act otherwise", func(t *testing.T) {
		for _, action := range []relation.Action{
			relation.ActionSend, relation.ActionAccept, relation.ActionReject,
			relation.ActionCancel, relation.ActionRemove, relation.ActionBlock,
		} {
			_, err := relation.Decide(blockedEdge(alice), action, alice, bob)
			requireRejection(t, err, relation.RejectInvalidTransition)
		}
	})

	t.Run("blocked party is refused every action", func(t *testing.T) {
		for _, action := range []relation.Action{
			relation.ActionSend, relation.ActionAccept, relation.ActionReject,
			relation.ActionCancel, relation.ActionRemove, relation.ActionBlock,
			relation.ActionUnblock,
		} {
			_, err := relation.Decide(blockedEdge(alice), action, bob, alice)
			requireRejection(t, err, relation.RejectBlocked)
		}
	})
}

func TestDecideDoesNotMutateEdge(t *testing.T) {
	edge := pendingEdge(alice)
	before := *edge
	_, err := relation.Decide(edge, relation.ActionAccept, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, before, *edge)
}
