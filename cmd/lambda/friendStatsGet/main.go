package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/mural-social/mural/internal/aws/auth"
	"github.com/mural-social/mural/internal/aws/storage"
	"github.com/mural-social/mural/internal/domains/dtos"
	"github.com/mural-social/mural/pkg/logging"
	"go.uber.org/zap"
)

var storageClient *storage.Client

func init() {
	cfg, _ := config.LoadDefaultConfig(context.TODO())
	storageClient = storage.NewClient(dynamodb.NewFromConfig(cfg))
}

func handler(
	ctx context.Context,
	event events.APIGatewayProxyRequest,
) (
	events.APIGatewayProxyResponse,
	error,
) {
	userId := auth.MustAuth(event.RequestContext.Authorizer)
	targetId := event.PathParameters["id"]
	if targetId == "" {
		targetId = userId
	}

	stats, err := storageClient.GetUserStats(ctx, targetId)
	if err != nil {
		logging.Error("Failed to get friend stats", zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}

	respJson, err := json.Marshal(dtos.FriendStatsResponse{
		UserId:      stats.UserId,
		FriendCount: stats.FriendCount,
	})
	if err != nil {
		logging.Error("Failed to get friend stats", zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: string(respJson)}, nil
}

func main() {
	lambda.Start(handler)
}
