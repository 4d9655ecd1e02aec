package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mural-social/mural/internal/domains/entities"
	"github.com/mural-social/mural/internal/relation"
)

// GSI names on the Relationships table. Each participant slot of the
// canonical pair has its own index, hash key on the slot, range key State.
const (
	userASlotIndexName = "UserAStateIndex"
	userBSlotIndexName = "UserBStateIndex"
)

func (client *Client) GetEdge(
	ctx context.Context,
	pairKey string,
) (entities.RelationshipEdge, error) {
	output, err := client.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: client.cfg.RelationshipsTableName,
		Key: map[string]types.AttributeValue{
			"PairKey": &types.AttributeValueMemberS{
				Value: pairKey,
			},
		},
		// The coordinator conditions its write on the version it read, so
		// the read must see the latest committed write.
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.RelationshipEdge{}, err
	}
	if output.Item == nil {
		return entities.RelationshipEdge{}, relation.ErrEdgeNotFound
	}
	var edge entities.RelationshipEdge
	if err := attributevalue.UnmarshalMap(output.Item, &edge); err != nil {
		return entities.RelationshipEdge{}, err
	}
	return edge, nil
}

// PutEdgeIfVersion writes the edge conditioned on the stored version.
// expectedVersion 0 asserts the record does not exist yet.
func (client *Client) PutEdgeIfVersion(
	ctx context.Context,
	edge entities.RelationshipEdge,
	expectedVersion int64,
) error {
	av, err := attributevalue.MarshalMap(edge)
	if err != nil {
		return fmt.Errorf("failed to marshal edge map: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: client.cfg.RelationshipsTableName,
		Item:      av,
	}
	if expectedVersion == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(PairKey)")
	} else {
		input.ConditionExpression = aws.String("#version = :expectedVersion")
		input.ExpressionAttributeNames = map[string]string{
			"#version": "Version",
		}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expectedVersion": &types.AttributeValueMemberN{
				Value: fmt.Sprintf("%d", expectedVersion),
			},
		}
	}

	_, err = client.dynamodb.PutItem(ctx, input)
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return relation.ErrEdgeVersionConflict
		}
		return fmt.Errorf("failed to put edge: %w", err)
	}
	return nil
}

func (client *Client) DeleteEdgeIfVersion(
	ctx context.Context,
	pairKey string,
	expectedVersion int64,
) error {
	_, err := client.dynamodb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: client.cfg.RelationshipsTableName,
		Key: map[string]types.AttributeValue{
			"PairKey": &types.AttributeValueMemberS{Value: pairKey},
		},
		ConditionExpression: aws.String("#version = :expectedVersion"),
		ExpressionAttributeNames: map[string]string{
			"#version": "Version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expectedVersion": &types.AttributeValueMemberN{
				Value: fmt.Sprintf("%d", expectedVersion),
			},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return relation.ErrEdgeVersionConflict
		}
		return fmt.Errorf("failed to delete edge: %w", err)
	}
	return nil
}

// pageCursor is the opaque listing token. The viewer may sit in either
// slot of the canonical pair, so a listing drains the UserA-slot index
// (stage "a") before the UserB-slot index (stage "b"). LastKey is the
// DynamoDB ExclusiveStartKey of the in-progress index; being a key rather
// than an offset keeps pages stable for edges that do not change.
type pageCursor struct {
	Stage   string            `json:"s"`
	LastKey map[string]string `json:"k,omitempty"`
}

func (client *Client) QueryByViewerAndState(
	ctx context.Context,
	viewer string,
	state entities.RelationshipState,
	initiator relation.InitiatorFilter,
	cursor string,
	limit int32,
) (relation.Page, error) {
	cur, err := decodePageCursor(cursor)
	if err != nil {
		return relation.Page{}, err
	}

	edges := []entities.RelationshipEdge{}
	for int32(len(edges)) < limit && cur.Stage != "" {
		batch, lastKey, err := client.queryViewerSlot(
			ctx, viewer, state, initiator, cur, limit-int32(len(edges)),
		)
		if err != nil {
			return relation.Page{}, err
		}
		edges = append(edges, batch...)
		if lastKey != nil {
			cur.LastKey = lastKey
		} else {
			cur.LastKey = nil
			if cur.Stage == "a" {
				cur.Stage = "b"
			} else {
				cur.Stage = ""
			}
		}
	}

	page := relation.Page{Edges: edges}
	if cur.Stage != "" {
		token, err := encodePageCursor(cur)
		if err != nil {
			return relation.Page{}, err
		}
		page.NextCursor = token
	}
	return page, nil
}

func (client *Client) queryViewerSlot(
	ctx context.Context,
	viewer string,
	state entities.RelationshipState,
	initiator relation.InitiatorFilter,
	cur pageCursor,
	limit int32,
) (
	[]entities.RelationshipEdge,
	map[string]string,
	error,
) {
	indexName, slotAttribute := userASlotIndexName, "UserA"
	if cur.Stage == "b" {
		indexName, slotAttribute = userBSlotIndexName, "UserB"
	}

	input := &dynamodb.QueryInput{
		TableName:              client.cfg.RelationshipsTableName,
		IndexName:              aws.String(indexName),
		KeyConditionExpression: aws.String("#slot = :viewer AND #state = :state"),
		ExpressionAttributeNames: map[string]string{
			"#slot":  slotAttribute,
			"#state": "State",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":viewer": &types.AttributeValueMemberS{Value: viewer},
			":state":  &types.AttributeValueMemberS{Value: string(state)},
		},
		ScanIndexForward: aws.Bool(true),
		Limit:            aws.Int32(limit),
	}
	if expr, ok := initiatorFilterExpression(state, initiator); ok {
		input.FilterExpression = aws.String(expr)
	}
	if cur.LastKey != nil {
		input.ExclusiveStartKey = startKeyFromCursor(cur.LastKey)
	}

	output, err := client.dynamodb.Query(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query edges: %w", err)
	}
	var edges []entities.RelationshipEdge
	if err := attributevalue.UnmarshalListOfMaps(output.Items, &edges); err != nil {
		return nil, nil, err
	}
	return edges, cursorFromLastKey(output.LastEvaluatedKey), nil
}

// initiatorFilterExpression narrows pending edges by RequestedBy and
// blocked edges by BlockedBy. Friends edges carry neither attribute.
func initiatorFilterExpression(
	state entities.RelationshipState,
	initiator relation.InitiatorFilter,
) (string, bool) {
	if initiator == relation.InitiatorAny {
		return "", false
	}
	attribute := ""
	switch state {
	case entities.RelationshipPending:
		attribute = "RequestedBy"
	case entities.RelationshipBlocked:
		attribute = "BlockedBy"
	default:
		return "", false
	}
	if initiator == relation.InitiatorViewer {
		return attribute + " = :viewer", true
	}
	return attribute + " <> :viewer", true
}

// All key attributes of the Relationships table and its indexes are
// strings, so cursors round-trip through a plain string map.
func cursorFromLastKey(lastKey map[string]types.AttributeValue) map[string]string {
	if lastKey == nil {
		return nil
	}
	key := make(map[string]string, len(lastKey))
	for name, value := range lastKey {
		if s, ok := value.(*types.AttributeValueMemberS); ok {
			key[name] = s.Value
		}
	}
	return key
}

func startKeyFromCursor(key map[string]string) map[string]types.AttributeValue {
	startKey := make(map[string]types.AttributeValue, len(key))
	for name, value := range key {
		startKey[name] = &types.AttributeValueMemberS{Value: value}
	}
	return startKey
}

func decodePageCursor(cursor string) (pageCursor, error) {
	if cursor == "" {
		return pageCursor{Stage: "a"}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return pageCursor{}, fmt.Errorf("invalid page token: %w", err)
	}
	var cur pageCursor
	if err := json.Unmarshal(raw, &cur); err != nil {
		return pageCursor{}, fmt.Errorf("invalid page token: %w", err)
	}
	if cur.Stage != "a" && cur.Stage != "b" {
		return pageCursor{}, fmt.Errorf("invalid page token stage: %q", cur.Stage)
	}
	return cur, nil
}

func encodePageCursor(cur pageCursor) (string, error) {
	raw, err := json.Marshal(cur)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
