package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// GetItem fetches the single item matching the exact partition (and,
// when the table defines one, sort) key. Returns ErrNotFound when no row
// matches; that is expected absence, not a failure.
func (s *Store) GetItem(ctx context.Context, partition Key, sort *Key) (Item, error) {
	if !partition.valid() || (sort != nil && !sort.valid()) {
		return nil, ErrInvalidKey
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       primaryKey(partition, sort),
	}

	var out *dynamodb.GetItemOutput
	err := s.do(ctx, "get item", func(rctx context.Context) error {
		var err error
		out, err = s.client.GetItem(rctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	return DecodeItem(out.Item)
}

// SelectItems returns every item sharing the given partition key,
// regardless of sort-key value, in the store's natural order (sort key
// ascending). It follows continuation tokens until the result set is
// exhausted, so callers never see a partial page; memory cost is
// O(items returned).
func (s *Store) SelectItems(ctx context.Context, partition Key) ([]Item, error) {
	if !partition.valid() {
		return nil, ErrInvalidKey
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		KeyConditionExpression: aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": partition.Name,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: partition.Value},
		},
	}

	var items []Item
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	pages := 0
	for paginator.HasMorePages() {
		if pages >= s.config.MaxPages {
			return nil, fmt.Errorf("select items after %d pages: %w", pages, ErrPageLimit)
		}
		var page *dynamodb.QueryOutput
		err := s.do(ctx, "select items", func(rctx context.Context) error {
			var err error
			page, err = paginator.NextPage(rctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			item, err := DecodeItem(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		pages++
	}

	s.log.Debug("select items complete",
		zap.String("table", s.config.TableName),
		zap.String("partition", partition.Value),
		zap.Int("pages", pages),
		zap.Int("items", len(items)),
	)
	return items, nil
}

// ScanTable returns every item in the table, following continuation
// tokens across however many pages the store splits the result into.
// Memory cost is O(total items); large tables that cannot be held in
// memory need a streaming variant this layer does not provide.
func (s *Store) ScanTable(ctx context.Context) ([]Item, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.config.TableName),
	}

	var items []Item
	paginator := dynamodb.NewScanPaginator(s.client, input)
	pages := 0
	for paginator.HasMorePages() {
		if pages >= s.config.MaxPages {
			return nil, fmt.Errorf("scan table after %d pages: %w", pages, ErrPageLimit)
		}
		var page *dynamodb.ScanOutput
		err := s.do(ctx, "scan table", func(rctx context.Context) error {
			var err error
			page, err = paginator.NextPage(rctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			item, err := DecodeItem(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		pages++
	}

	s.log.Debug("scan complete",
		zap.String("table", s.config.TableName),
		zap.Int("pages", pages),
		zap.Int("items", len(items)),
	)
	return items, nil
}
