package notification

import (
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type Client struct {
	sns *sns.Client
	cfg config
}

type config struct {
	RelationshipEventsTopicArn *string
}

func NewClient(snsClient *sns.Client) *Client {
	return &Client{
		sns: snsClient,
		cfg: loadConfig(),
	}
}

func loadConfig() config {
	var cfg config
	cfg.RelationshipEventsTopicArn = aws.String(
		os.Getenv("RELATIONSHIP_EVENTS_TOPIC_ARN"),
	)
	return cfg
}
