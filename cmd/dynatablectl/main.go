// Command dynatablectl performs bulk table maintenance from the shell:
// truncating a table, resetting counters across a partition, and
// counting items.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcadialabs/dynatable/internal/conn"
	"github.com/arcadialabs/dynatable/store"
)

type flags struct {
	table        string
	partitionKey string
	sortKey      string
	counterAttr  string
	region       string
	endpointURL  string
}

func main() {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	var f flags

	rootCmd := &cobra.Command{
		Use:           "dynatablectl",
		Short:         "Bulk maintenance for partitioned DynamoDB tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&f.table, "table", "", "table name (required)")
	pf.StringVar(&f.partitionKey, "partition-key", "", "partition key attribute name (required)")
	pf.StringVar(&f.sortKey, "sort-key", "", "sort key attribute name, if the table has one")
	pf.StringVar(&f.counterAttr, "counter", "counter", "counter attribute name")
	pf.StringVar(&f.region, "region", "", "AWS region")
	pf.StringVar(&f.endpointURL, "endpoint-url", "", "override endpoint, e.g. http://localhost:8000")

	rootCmd.AddCommand(
		truncateCmd(&f, logger),
		resetCmd(&f, logger),
		countCmd(&f, logger),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	return logger
}

func newStore(cmd *cobra.Command, f *flags, logger *zap.Logger) (*store.Store, error) {
	client, err := conn.NewClient(cmd.Context(), conn.Options{
		Region:      f.region,
		EndpointURL: f.endpointURL,
	})
	if err != nil {
		return nil, err
	}

	cfg := store.DefaultConfig()
	cfg.TableName = f.table
	cfg.PartitionKey = f.partitionKey
	cfg.SortKey = f.sortKey
	cfg.CounterAttribute = f.counterAttr
	cfg.Logger = logger
	return store.New(client, cfg)
}

func truncateCmd(f *flags, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "truncate",
		Short: "Delete every item in the table (best-effort as of scan time)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore(cmd, f, logger)
			if err != nil {
				return err
			}
			deleted, err := s.Truncate(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("table truncated",
				zap.String("table", f.table),
				zap.Int("deleted", deleted),
			)
			return nil
		},
	}
}

func resetCmd(f *flags, logger *zap.Logger) *cobra.Command {
	var partition string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the counter attribute to 0 across a partition",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore(cmd, f, logger)
			if err != nil {
				return err
			}
			reset, err := s.ResetCounters(cmd.Context(), store.NewKey(f.partitionKey, partition))
			if err != nil {
				return err
			}
			logger.Info("counters reset",
				zap.String("table", f.table),
				zap.String("partition", partition),
				zap.Int("reset", reset),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&partition, "partition", "", "partition key value (required)")
	cmd.MarkFlagRequired("partition") //nolint:errcheck
	return cmd
}

func countCmd(f *flags, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count items by scanning the whole table",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newStore(cmd, f, logger)
			if err != nil {
				return err
			}
			items, err := s.ScanTable(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("scan count",
				zap.String("table", f.table),
				zap.Int("items", len(items)),
			)
			return nil
		},
	}
}
