// Package aws builds the AWS SDK clients for the managed services the
// chatbot talks to.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimeservice"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/zatekoja/diningconcierge/pkg/config"
)

// Client holds the resolved AWS configuration and builds service clients from it
type Client struct {
	cfg      aws.Config
	endpoint string
}

// NewClient loads the default credential chain for the configured region.
// A non-empty Endpoint points every service at a local emulator.
func NewClient(ctx context.Context, cfg *config.AWSConfig) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &Client{cfg: awsCfg, endpoint: cfg.Endpoint}, nil
}

// Config returns the resolved SDK configuration
func (c *Client) Config() aws.Config {
	return c.cfg
}

// DynamoDB returns a DynamoDB client
func (c *Client) DynamoDB() *dynamodb.Client {
	return dynamodb.NewFromConfig(c.cfg, func(o *dynamodb.Options) {
		if c.endpoint != "" {
			o.BaseEndpoint = aws.String(c.endpoint)
		}
	})
}

// SQS returns an SQS client
func (c *Client) SQS() *sqs.Client {
	return sqs.NewFromConfig(c.cfg, func(o *sqs.Options) {
		if c.endpoint != "" {
			o.BaseEndpoint = aws.String(c.endpoint)
		}
	})
}

// SES returns an SES client
func (c *Client) SES() *ses.Client {
	return ses.NewFromConfig(c.cfg, func(o *ses.Options) {
		if c.endpoint != "" {
			o.BaseEndpoint = aws.String(c.endpoint)
		}
	})
}

// Lex returns a Lex runtime client
func (c *Client) Lex() *lexruntimeservice.Client {
	return lexruntimeservice.NewFromConfig(c.cfg, func(o *lexruntimeservice.Options) {
		if c.endpoint != "" {
			o.BaseEndpoint = aws.String(c.endpoint)
		}
	})
}
