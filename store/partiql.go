package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// InsertStatement builds a PartiQL INSERT statement for the given item.
// Attribute order is sorted so statements are deterministic. Values must
// be scalars from the supported union (string, number, bool, null).
func InsertStatement(item Item, table string) (string, error) {
	names := make([]string, 0, len(item))
	for name := range item {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %q VALUE {", table)
	for i, name := range names {
		lit, err := partiqlLiteral(name, item[name])
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "'%s' : %s", name, lit)
	}
	b.WriteString("}")
	return b.String(), nil
}

// UpdateStatement builds a PartiQL UPDATE statement setting the given
// non-key attributes on the item matching the key. The item must already
// exist; PartiQL UPDATE does not insert.
func UpdateStatement(table string, partition Key, sortKey *Key, values Item) (string, error) {
	if !partition.valid() || (sortKey != nil && !sortKey.valid()) {
		return "", ErrInvalidKey
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %q", table)
	for _, name := range names {
		lit, err := partiqlLiteral(name, values[name])
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, " SET %s = %s", name, lit)
	}
	fmt.Fprintf(&b, " WHERE %s = '%s'", partition.Name, escapeQuotes(partition.Value))
	if sortKey != nil {
		fmt.Fprintf(&b, " AND %s = '%s'", sortKey.Name, escapeQuotes(sortKey.Value))
	}
	return b.String(), nil
}

func partiqlLiteral(attr string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + escapeQuotes(v) + "'", nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", &UnsupportedTypeError{Attribute: attr, GoType: fmt.Sprintf("%T", value)}
	}
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// ExecuteStatement runs one PartiQL statement and decodes any items it
// returns.
func (s *Store) ExecuteStatement(ctx context.Context, statement string) ([]Item, error) {
	input := &dynamodb.ExecuteStatementInput{
		Statement: aws.String(statement),
	}

	var out *dynamodb.ExecuteStatementOutput
	err := s.do(ctx, "execute statement", func(rctx context.Context) error {
		var err error
		out, err = s.client.ExecuteStatement(rctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(out.Items))
	for _, raw := range out.Items {
		item, err := DecodeItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// BatchExecuteStatements runs up to Config.BatchSize PartiQL statements
// in one batch call. Statements the store rejects are reported through a
// PartialFailureError carrying their zero-based positions as items.
func (s *Store) BatchExecuteStatements(ctx context.Context, statements []string) error {
	if len(statements) == 0 {
		return nil
	}
	if len(statements) > s.config.BatchSize {
		return fmt.Errorf("dynatable: batch of %d statements exceeds limit %d", len(statements), s.config.BatchSize)
	}

	input := &dynamodb.BatchExecuteStatementInput{
		Statements: make([]types.BatchStatementRequest, 0, len(statements)),
	}
	for _, stmt := range statements {
		input.Statements = append(input.Statements, types.BatchStatementRequest{
			Statement: aws.String(stmt),
		})
	}

	var out *dynamodb.BatchExecuteStatementOutput
	err := s.do(ctx, "batch execute statements", func(rctx context.Context) error {
		var err error
		out, err = s.client.BatchExecuteStatement(rctx, input)
		return err
	})
	if err != nil {
		return err
	}

	var failed []Item
	for i, resp := range out.Responses {
		if resp.Error != nil {
			failed = append(failed, Item{
				"position": int64(i),
				"message":  aws.ToString(resp.Error.Message),
			})
		}
	}
	if len(failed) > 0 {
		return &PartialFailureError{
			Op:          "batch execute statements",
			Processed:   len(statements) - len(failed),
			FailedItems: failed,
		}
	}
	return nil
}
