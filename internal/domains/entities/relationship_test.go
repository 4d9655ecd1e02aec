package entities_test

import (
	"testing"

	"github.com/mural-social/mural/internal/domains/entities"
	"github.com/stretchr/testify/assert"
)

func TestRelationshipPairKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t,
		entities.RelationshipPairKey("alice", "bob"),
		entities.RelationshipPairKey("bob", "alice"),
	)
	assert.Equal(t, "alice#bob", entities.RelationshipPairKey("bob", "alice"))
}

func TestCanonicalPair(t *testing.T) {
	a, b := entities.CanonicalPair("zoe", "adam")
	assert.Equal(t, "adam", a)
	assert.Equal(t, "zoe", b)

	a, b = entities.CanonicalPair("adam", "zoe")
	assert.Equal(t, "adam", a)
	assert.Equal(t, "zoe", b)
}

func TestEdgeParticipants(t *testing.T) {
	edge := entities.RelationshipEdge{UserA: "alice", UserB: "bob"}
	assert.Equal(t, "bob", edge.Other("alice"))
	assert.Equal(t, "alice", edge.Other("bob"))
	assert.True(t, edge.Involves("alice"))
	assert.True(t, edge.Involves("bob"))
	assert.False(t, edge.Involves("carol"))
}
