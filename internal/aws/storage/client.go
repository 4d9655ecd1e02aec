package storage

import (
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type Client struct {
	dynamodb *dynamodb.Client
	cfg      config
}

type config struct {
	RelationshipsTableName *string
	UserStatsTableName     *string
}

func NewClient(dynamoClient *dynamodb.Client) *Client {
	return &Client{
		dynamodb: dynamoClient,
		cfg:      loadConfig(),
	}
}

func loadConfig() config {
	return config{
		RelationshipsTableName: aws.String(envOr("RELATIONSHIPS_TABLE_NAME", "Relationships")),
		UserStatsTableName:     aws.String(envOr("USER_STATS_TABLE_NAME", "UserStats")),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
