package storefake

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/arcadialabs/dynatable/store"
)

var _ store.Client = (*Client)(nil)

// GetItem implements store.Client.
func (c *Client) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("GetItem"); err != nil {
		return nil, err
	}

	item, ok := c.items[c.compositeKey(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

// Query implements store.Client. It understands the single-condition
// form the store issues: "#pk = :pk".
func (c *Client) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("Query"); err != nil {
		return nil, err
	}

	attr := params.ExpressionAttributeNames["#pk"]
	if attr == "" {
		attr = c.partitionKey
	}
	want := scalarString(params.ExpressionAttributeValues[":pk"])

	var matching []string
	for _, k := range c.sortedKeys() {
		if scalarString(c.items[k][attr]) == want {
			matching = append(matching, k)
		}
	}

	pageKeys, next := c.page(matching, params.ExclusiveStartKey)
	out := &dynamodb.QueryOutput{Count: int32(len(pageKeys))}
	for _, k := range pageKeys {
		out.Items = append(out.Items, copyItem(c.items[k]))
	}
	if next != "" {
		out.LastEvaluatedKey = c.lastEvaluatedKey(next)
	}
	return out, nil
}

// Scan implements store.Client, honoring ProjectionExpression and
// PageSize-driven pagination.
func (c *Client) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("Scan"); err != nil {
		return nil, err
	}

	attrs := resolveProjection(aws.ToString(params.ProjectionExpression), params.ExpressionAttributeNames)

	pageKeys, next := c.page(c.sortedKeys(), params.ExclusiveStartKey)
	out := &dynamodb.ScanOutput{Count: int32(len(pageKeys))}
	for _, k := range pageKeys {
		out.Items = append(out.Items, project(c.items[k], attrs))
	}
	if next != "" {
		out.LastEvaluatedKey = c.lastEvaluatedKey(next)
	}
	return out, nil
}

// PutItem implements store.Client.
func (c *Client) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("PutItem"); err != nil {
		return nil, err
	}

	c.items[c.compositeKey(params.Item)] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// UpdateItem implements store.Client. It evaluates the two expression
// shapes the store issues — "ADD <attr> :incr" and "SET <attr> = :zero" —
// and the "attribute_exists(#pk)" condition.
func (c *Client) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("UpdateItem"); err != nil {
		return nil, err
	}

	composite := c.compositeKey(params.Key)
	item, exists := c.items[composite]
	if aws.ToString(params.ConditionExpression) != "" && !exists {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
	}
	if !exists {
		item = copyItem(params.Key)
		c.items[composite] = item
	}

	expr := aws.ToString(params.UpdateExpression)
	switch {
	case strings.HasPrefix(expr, "ADD "):
		attr := resolveName(strings.Fields(expr)[1], params.ExpressionAttributeNames)
		incr, _ := strconv.ParseInt(scalarString(params.ExpressionAttributeValues[":incr"]), 10, 64)
		current := int64(0)
		if n, ok := item[attr].(*types.AttributeValueMemberN); ok {
			current, _ = strconv.ParseInt(n.Value, 10, 64)
		}
		item[attr] = &types.AttributeValueMemberN{Value: strconv.FormatInt(current+incr, 10)}
		return updatedNew(params, attr, item), nil
	case strings.HasPrefix(expr, "SET "):
		attr := resolveName(strings.Fields(expr)[1], params.ExpressionAttributeNames)
		item[attr] = params.ExpressionAttributeValues[":zero"]
		return updatedNew(params, attr, item), nil
	default:
		return nil, fmt.Errorf("storefake: unsupported update expression %q", expr)
	}
}

func resolveName(placeholder string, names map[string]string) string {
	if resolved, ok := names[placeholder]; ok {
		return resolved
	}
	return placeholder
}

func updatedNew(params *dynamodb.UpdateItemInput, attr string, item map[string]types.AttributeValue) *dynamodb.UpdateItemOutput {
	out := &dynamodb.UpdateItemOutput{}
	if params.ReturnValues == types.ReturnValueUpdatedNew {
		out.Attributes = map[string]types.AttributeValue{attr: item[attr]}
	}
	return out
}

// DeleteItem implements store.Client. Deleting an absent key is a no-op.
func (c *Client) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("DeleteItem"); err != nil {
		return nil, err
	}

	delete(c.items, c.compositeKey(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

// BatchWriteItem implements store.Client. UnprocessedCalls and
// AlwaysUnprocessed simulate a store that does not commit a batch.
func (c *Client) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("BatchWriteItem"); err != nil {
		return nil, err
	}

	out := &dynamodb.BatchWriteItemOutput{}
	if c.AlwaysUnprocessed || c.UnprocessedCalls > 0 {
		if c.UnprocessedCalls > 0 {
			c.UnprocessedCalls--
		}
		out.UnprocessedItems = params.RequestItems
		return out, nil
	}

	for _, reqs := range params.RequestItems {
		for _, req := range reqs {
			switch {
			case req.PutRequest != nil:
				c.items[c.compositeKey(req.PutRequest.Item)] = copyItem(req.PutRequest.Item)
			case req.DeleteRequest != nil:
				delete(c.items, c.compositeKey(req.DeleteRequest.Key))
			}
		}
	}
	return out, nil
}

// ExecuteStatement implements store.Client. Statements are not
// interpreted; the call succeeds with no items.
func (c *Client) ExecuteStatement(ctx context.Context, params *dynamodb.ExecuteStatementInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ExecuteStatementOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("ExecuteStatement"); err != nil {
		return nil, err
	}
	return &dynamodb.ExecuteStatementOutput{}, nil
}

// BatchExecuteStatement implements store.Client. Every statement is
// reported as succeeded.
func (c *Client) BatchExecuteStatement(ctx context.Context, params *dynamodb.BatchExecuteStatementInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchExecuteStatementOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("BatchExecuteStatement"); err != nil {
		return nil, err
	}
	return &dynamodb.BatchExecuteStatementOutput{
		Responses: make([]types.BatchStatementResponse, len(params.Statements)),
	}, nil
}
