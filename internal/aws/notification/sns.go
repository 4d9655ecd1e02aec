package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/mural-social/mural/internal/relation"
)

// PublishRelationshipEvent publishes a relationship event to the shared
// topic. Delivery is at-least-once; downstream consumers dedupe on the
// event id if they care.
func (client *Client) PublishRelationshipEvent(
	ctx context.Context,
	event relation.Event,
) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = client.sns.Publish(ctx, &sns.PublishInput{
		Message:  aws.String(string(message)),
		TopicArn: client.cfg.RelationshipEventsTopicArn,
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Type),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}
