package entities

import "time"

type UserStats struct {
	UserId      string    `dynamodbav:"UserId"`
	FriendCount int64     `dynamodbav:"FriendCount"`
	UpdatedAt   time.Time `dynamodbav:"UpdatedAt"`
}
