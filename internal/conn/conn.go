// Package conn builds DynamoDB clients from explicit connection options.
package conn

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Options selects the AWS endpoint and credentials. Zero values fall
// back to the default credential chain and regional endpoint.
type Options struct {
	Region      string
	EndpointURL string

	// AccessKey/SecretKey switch to static credentials when both are
	// set, e.g. against DynamoDB Local.
	AccessKey string
	SecretKey string
}

// NewClient loads AWS configuration and returns a DynamoDB client.
func NewClient(ctx context.Context, opts Options) (*dynamodb.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	var clientOpts []func(*dynamodb.Options)
	if opts.EndpointURL != "" {
		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		})
	}
	return dynamodb.NewFromConfig(cfg, clientOpts...), nil
}
