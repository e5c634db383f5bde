package store

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// IncrementCounter atomically adds 1 to the counter attribute of the
// item matching the exact key and returns the new value. An absent
// counter attribute counts as 0. The increment is the store's native ADD
// update, not read-then-write, so concurrent callers cannot lose
// updates. Returns ErrNotFound when no item exists at the key.
func (s *Store) IncrementCounter(ctx context.Context, partition Key, sort *Key) (int64, error) {
	if !partition.valid() || (sort != nil && !sort.valid()) {
		return 0, ErrInvalidKey
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.config.TableName),
		Key:                 primaryKey(partition, sort),
		UpdateExpression:    aws.String("ADD #counter :incr"),
		ConditionExpression: aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{
			"#counter": s.config.CounterAttribute,
			"#pk":      partition.Name,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":incr": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	}

	var out *dynamodb.UpdateItemOutput
	err := s.do(ctx, "increment counter", func(rctx context.Context) error {
		var err error
		out, err = s.client.UpdateItem(rctx, input)
		return err
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	updated, err := DecodeItem(out.Attributes)
	if err != nil {
		return 0, err
	}
	value, _ := updated[s.config.CounterAttribute].(int64)
	return value, nil
}

// ResetCounters sets the counter attribute to 0 on every item in the
// partition, preserving all other attributes. The reset is partition
// scoped: sort-key values are not filtered. Idempotent — re-running it
// on an already-zeroed partition changes nothing. Returns how many items
// were reset; when some items fail after the enumeration succeeded, the
// count and the failed keys are reported through a PartialFailureError
// so the caller always learns about partial completion.
func (s *Store) ResetCounters(ctx context.Context, partition Key) (int, error) {
	items, err := s.SelectItems(ctx, partition)
	if err != nil {
		return 0, err
	}

	reset := 0
	var failed []Item
	var cause error
	for _, item := range items {
		key, err := s.itemKey(item)
		if err != nil {
			failed = append(failed, s.keyItem(item))
			cause = err
			continue
		}

		input := &dynamodb.UpdateItemInput{
			TableName:           aws.String(s.config.TableName),
			Key:                 key,
			UpdateExpression:    aws.String("SET #counter = :zero"),
			ConditionExpression: aws.String("attribute_exists(#pk)"),
			ExpressionAttributeNames: map[string]string{
				"#counter": s.config.CounterAttribute,
				"#pk":      s.config.PartitionKey,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":zero": &types.AttributeValueMemberN{Value: "0"},
			},
		}
		err = s.do(ctx, "reset counter", func(rctx context.Context) error {
			_, err := s.client.UpdateItem(rctx, input)
			return err
		})
		if err != nil {
			var condErr *types.ConditionalCheckFailedException
			if errors.As(err, &condErr) {
				// Item vanished between enumeration and update; nothing
				// left to reset.
				continue
			}
			failed = append(failed, s.keyItem(item))
			cause = err
			continue
		}
		reset++
	}

	s.log.Info("counter reset complete",
		zap.String("table", s.config.TableName),
		zap.String("partition", partition.Value),
		zap.Int("reset", reset),
		zap.Int("failed", len(failed)),
	)

	if len(failed) > 0 {
		return reset, &PartialFailureError{
			Op:          "reset counters",
			Processed:   reset,
			FailedItems: failed,
			Err:         cause,
		}
	}
	return reset, nil
}
