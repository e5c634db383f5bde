package store

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/arcadialabs/dynatable/internal/batch"
)

// PutItem writes a single item unconditionally. This is a put, not an
// insert-if-absent: an existing item with the same key is silently
// overwritten.
func (s *Store) PutItem(ctx context.Context, item Item) error {
	raw, err := EncodeItem(item)
	if err != nil {
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      raw,
	}
	return s.do(ctx, "put item", func(rctx context.Context) error {
		_, err := s.client.PutItem(rctx, input)
		return err
	})
}

// PutItems writes items in batches no larger than Config.BatchSize,
// retrying entries the store reports as unprocessed with exponential
// backoff. Items that never commit after retries are exhausted are
// reported through a PartialFailureError; like PutItem, committed items
// overwrite any existing item with the same key.
func (s *Store) PutItems(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	reqs := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		raw, err := EncodeItem(item)
		if err != nil {
			return err
		}
		reqs = append(reqs, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: raw},
		})
	}

	failed, cause := s.writeBatches(ctx, "put items", reqs)
	if len(failed) == 0 && cause == nil {
		return nil
	}

	pf := &PartialFailureError{
		Op:        "put items",
		Processed: len(items) - len(failed),
		Err:       cause,
	}
	for _, req := range failed {
		if req.PutRequest == nil {
			continue
		}
		item, err := DecodeItem(req.PutRequest.Item)
		if err != nil {
			continue
		}
		pf.FailedItems = append(pf.FailedItems, item)
	}
	return pf
}

// DeleteItem removes the item matching the exact key. Deleting an absent
// item is a no-op, mirroring the store's own semantics.
func (s *Store) DeleteItem(ctx context.Context, partition Key, sort *Key) error {
	if !partition.valid() || (sort != nil && !sort.valid()) {
		return ErrInvalidKey
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       primaryKey(partition, sort),
	}
	return s.do(ctx, "delete item", func(rctx context.Context) error {
		_, err := s.client.DeleteItem(rctx, input)
		return err
	})
}

// writeBatches pushes write requests through BatchWriteItem in chunks,
// re-queuing unprocessed entries with backoff. It returns the requests
// that never committed and, when the run was cut short by a transport
// failure, the cause. Each committed batch stays committed regardless of
// later failures; cancellation between batches leaves the store valid.
func (s *Store) writeBatches(ctx context.Context, op string, reqs []types.WriteRequest) ([]types.WriteRequest, error) {
	var failed []types.WriteRequest

	chunks := batch.Chunk(reqs, s.config.BatchSize)
	for ci, pending := range chunks {
		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt >= s.config.MaxRetries {
				failed = append(failed, pending...)
				break
			}
			if attempt > 0 {
				delay := batch.Delay(attempt-1, s.config.RetryBaseDelay)
				s.log.Debug("retrying unprocessed batch entries",
					zap.String("op", op),
					zap.Int("remaining", len(pending)),
					zap.Duration("delay", delay),
				)
				select {
				case <-ctx.Done():
					failed = append(failed, pending...)
					failed = appendRemaining(failed, chunks[ci+1:])
					return failed, ctx.Err()
				case <-time.After(delay):
				}
			}

			input := &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					s.config.TableName: pending,
				},
			}
			var out *dynamodb.BatchWriteItemOutput
			err := s.do(ctx, op, func(rctx context.Context) error {
				var err error
				out, err = s.client.BatchWriteItem(rctx, input)
				return err
			})
			if err != nil {
				// Transport failure after per-request retries: everything
				// not yet committed is reported, nothing is rolled back.
				failed = append(failed, pending...)
				failed = appendRemaining(failed, chunks[ci+1:])
				return failed, err
			}
			pending = out.UnprocessedItems[s.config.TableName]
		}
	}
	return failed, nil
}

func appendRemaining(failed []types.WriteRequest, chunks [][]types.WriteRequest) []types.WriteRequest {
	for _, c := range chunks {
		failed = append(failed, c...)
	}
	return failed
}
