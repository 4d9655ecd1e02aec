package entities

import "time"

type RelationshipState string

const (
	RelationshipNone    RelationshipState = "NONE"
	RelationshipPending RelationshipState = "PENDING"
	RelationshipFriends RelationshipState = "FRIENDS"
	RelationshipBlocked RelationshipState = "BLOCKED"
)

// RelationshipEdge is the single record describing the relationship between
// an unordered pair of users. UserA and UserB are stored in canonical order
// (UserA < UserB), so exactly one record exists per pair. An absent record
// means RelationshipNone.
type RelationshipEdge struct {
	PairKey     string            `dynamodbav:"PairKey"`
	UserA       string            `dynamodbav:"UserA"`
	UserB       string            `dynamodbav:"UserB"`
	State       RelationshipState `dynamodbav:"State"`
	RequestedBy string            `dynamodbav:"RequestedBy,omitempty"`
	BlockedBy   string            `dynamodbav:"BlockedBy,omitempty"`
	CreatedAt   time.Time         `dynamodbav:"CreatedAt"`
	UpdatedAt   time.Time         `dynamodbav:"UpdatedAt"`
	Version     int64             `dynamodbav:"Version"`
}

// RelationshipPairKey builds the order-independent key for a user pair.
func RelationshipPairKey(userId, otherId string) string {
	a, b := CanonicalPair(userId, otherId)
	return a + "#" + b
}

// CanonicalPair returns the two user ids in storage order.
func CanonicalPair(userId, otherId string) (string, string) {
	if userId < otherId {
		return userId, otherId
	}
	return otherId, userId
}

// Other returns the participant that is not the given user.
func (edge RelationshipEdge) Other(userId string) string {
	if edge.UserA == userId {
		return edge.UserB
	}
	return edge.UserA
}

// Involves reports whether the given user is one of the two participants.
func (edge RelationshipEdge) Involves(userId string) bool {
	return edge.UserA == userId || edge.UserB == userId
}
