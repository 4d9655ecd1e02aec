package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mural-social/mural/internal/domains/entities"
)

// AddFriendCount applies a friend-count delta as a single atomic ADD, never
// read-modify-write, so concurrent transitions cannot lose updates.
func (client *Client) AddFriendCount(ctx context.Context, userId string, delta int64) error {
	_, err := client.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: client.cfg.UserStatsTableName,
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{
				Value: userId,
			},
		},
		UpdateExpression: aws.String("ADD FriendCount :delta"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta": &types.AttributeValueMemberN{
				Value: fmt.Sprintf("%d", delta),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add friend count: %w", err)
	}
	return nil
}

// GetUserStats returns zeroed stats for users with no record yet.
func (client *Client) GetUserStats(ctx context.Context, userId string) (entities.UserStats, error) {
	output, err := client.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: client.cfg.UserStatsTableName,
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{
				Value: userId,
			},
		},
	})
	if err != nil {
		return entities.UserStats{}, err
	}
	if output.Item == nil {
		return entities.UserStats{UserId: userId}, nil
	}
	var stats entities.UserStats
	if err := attributevalue.UnmarshalMap(output.Item, &stats); err != nil {
		return entities.UserStats{}, err
	}
	return stats, nil
}
