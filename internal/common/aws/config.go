// internal/common/aws/config.go
package aws

import (
	"context"
	"fmt"

	appconfig "dining-concierge/internal/common/config"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// LoadConfig resolves credentials from the default chain. When an endpoint
// override is configured (localstack and similar) every service is pointed at it.
func LoadConfig(ctx context.Context, cfg appconfig.AWSConfig) (awssdk.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}

	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		resolver := awssdk.EndpointResolverWithOptionsFunc(
			func(service, region string, _ ...interface{}) (awssdk.Endpoint, error) {
				return awssdk.Endpoint{
					URL:               endpoint,
					SigningRegion:     region,
					HostnameImmutable: true,
				}, nil
			})
		opts = append(opts, config.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}
	return awsCfg, nil
}

func NewSQSClient(cfg awssdk.Config) *sqs.Client {
	return sqs.NewFromConfig(cfg)
}

func NewSESClient(cfg awssdk.Config) *ses.Client {
	return ses.NewFromConfig(cfg)
}

func NewSNSClient(cfg awssdk.Config) *sns.Client {
	return sns.NewFromConfig(cfg)
}

func NewDynamoDBClient(cfg awssdk.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}
