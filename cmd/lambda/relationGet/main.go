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
	targetId := event.PathParameters["id"]

	label, err := projector.Relationship(ctx, userId, targetId)
	if err != nil {
		status, errResp := dtos.RelationshipErrorResponse(err)
		if status == http.StatusInternalServerError {
			logging.Error("Failed to get relationship", zap.Error(err))
		}
		errJson, _ := json.Marshal(errResp)
		return events.APIGatewayProxyResponse{StatusCode: status, Body: string(errJson)}, nil
	}

	respJson, err := json.Marshal(dtos.RelationshipResponseFromLabel(targetId, label))
	if err != nil {
		logging.Error("Failed to get relationship", zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: string(respJson)}, nil
}

func main() {
	lambda.Start(handler)
}
