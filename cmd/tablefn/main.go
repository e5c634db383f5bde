// Command tablefn is the Lambda entry point. Table identity is resolved
// here, at the outer edge, and passed into the core as explicit
// configuration; the store itself never reads the environment.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/arcadialabs/dynatable/handler"
	"github.com/arcadialabs/dynatable/internal/conn"
	"github.com/arcadialabs/dynatable/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	client, err := conn.NewClient(ctx, conn.Options{
		Region: os.Getenv("AWS_REGION"),
	})
	if err != nil {
		logger.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	cfg := store.DefaultConfig()
	cfg.TableName = os.Getenv("TABLE_NAME")
	cfg.PartitionKey = os.Getenv("PARTITION_KEY")
	cfg.SortKey = os.Getenv("SORT_KEY")
	if counter := os.Getenv("COUNTER_ATTRIBUTE"); counter != "" {
		cfg.CounterAttribute = counter
	}

	s, err := store.New(client, cfg)
	if err != nil {
		logger.Error("failed to create store", "error", err)
		os.Exit(1)
	}

	lambda.Start(handler.NewHandler(s, logger).Invoke)
}
