package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Truncate deletes every item in the table and returns how many were
// deleted. It scans only the key attributes, then issues batched deletes
// with the same unprocessed-entry retry discipline as PutItems.
//
// This is a best-effort truncate as of scan time, not a linearizable
// snapshot delete: items inserted concurrently with the truncation may
// survive it. Each committed batch stays committed, so cancelling
// mid-run leaves the table in a valid, partially-truncated state.
func (s *Store) Truncate(ctx context.Context) (int, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	reqs := make([]types.WriteRequest, 0, len(keys))
	for _, key := range keys {
		reqs = append(reqs, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: key},
		})
	}

	failed, cause := s.writeBatches(ctx, "truncate", reqs)
	deleted := len(keys) - len(failed)

	s.log.Info("truncate complete",
		zap.String("table", s.config.TableName),
		zap.Int("deleted", deleted),
		zap.Int("failed", len(failed)),
	)

	if len(failed) == 0 && cause == nil {
		return deleted, nil
	}

	pf := &PartialFailureError{
		Op:        "truncate",
		Processed: deleted,
		Err:       cause,
	}
	for _, req := range failed {
		if req.DeleteRequest == nil {
			continue
		}
		key, err := DecodeItem(req.DeleteRequest.Key)
		if err != nil {
			continue
		}
		pf.FailedItems = append(pf.FailedItems, key)
	}
	return deleted, pf
}

// scanKeys enumerates the primary key of every item in the table,
// projecting only the key attributes to minimize data transfer.
func (s *Store) scanKeys(ctx context.Context) ([]map[string]types.AttributeValue, error) {
	names := map[string]string{"#pk": s.config.PartitionKey}
	projection := "#pk"
	if s.config.SortKey != "" {
		names["#sk"] = s.config.SortKey
		projection = "#pk, #sk"
	}

	input := &dynamodb.ScanInput{
		TableName:                aws.String(s.config.TableName),
		ProjectionExpression:     aws.String(projection),
		ExpressionAttributeNames: names,
	}

	var keys []map[string]types.AttributeValue
	paginator := dynamodb.NewScanPaginator(s.client, input)
	pages := 0
	for paginator.HasMorePages() {
		if pages >= s.config.MaxPages {
			return nil, fmt.Errorf("truncate scan after %d pages: %w", pages, ErrPageLimit)
		}
		var page *dynamodb.ScanOutput
		err := s.do(ctx, "truncate scan", func(rctx context.Context) error {
			var err error
			page, err = paginator.NextPage(rctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		keys = append(keys, page.Items...)
		pages++
	}

	s.log.Debug("truncate scan complete",
		zap.String("table", s.config.TableName),
		zap.Int("pages", pages),
		zap.Int("keys", len(keys)),
	)
	return keys, nil
}
