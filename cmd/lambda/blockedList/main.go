package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/mural-social/mural/internal/aws/auth"
	"github.com/mural-social/mural/internal/aws/storage"
	"github.com/mural-social/mural/internal/domains/dtos"
	"github.com/mural-social/mural/internal/relation"
	"github.com/mural-social/mural/pkg/logging"
	"go.uber.org/zap"
)

var projector *relation.Projector

func init() {
	cfg, _ := config.LoadDefaultConfig(context.TODO())
	projector = relation.NewProjector(storage.NewClient(dynamodb.NewFromConfig(cfg)))
}

func handler(
	ctx context.Context,
	event events.APIGatewayProxyRequest,
) (
	events.APIGatewayProxyResponse,
	error,
) {
	userId := auth.MustAuth(event.RequestContext.Authorizer)
	pageToken, limit, err := extractPageParameters(event.QueryStringParameters)
	if err != nil {
		logging.Error("Failed to list blocked users", zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}, nil
	}

	items, nextPageToken, err := projector.ListBlocked(ctx, userId, pageToken, limit)
	if err != nil {
		logging.Error("Failed to list blocked users", zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}

	listJson, err := json.Marshal(dtos.RelationshipListResponseFromItems(items, nextPageToken))
	if err != nil {
		logging.Error("Failed to list blocked users", zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: string(listJson)}, nil
}

func extractPageParameters(params map[string]string) (string, int32, error) {
	limit := int32(20)
	if v, ok := params["limit"]; ok {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil || parsed < 1 {
			return "", 0, fmt.Errorf("invalid limit: %q", v)
		}
		if parsed > 100 {
			parsed = 100
		}
		limit = int32(parsed)
	}
	return params["pageToken"], limit, nil
}

func main() {
	lambda.Start(handler)
}
