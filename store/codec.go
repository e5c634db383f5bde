package store

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item maps attribute names to values drawn from the supported union:
// string, int64/float64, bool, []byte, nil, []any, map[string]any
// (recursively). Values outside the union fail to encode with
// ErrUnsupportedType.
type Item map[string]any

// EncodeItem converts an Item to the store's native attribute
// representation. All raw serialization in this package goes through
// EncodeItem/DecodeItem.
func EncodeItem(item Item) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(item))
	for name, value := range item {
		av, err := encodeValue(name, value)
		if err != nil {
			return nil, err
		}
		out[name] = av
	}
	return out, nil
}

// DecodeItem converts a native attribute map back into an Item. Numbers
// decode to int64 when they parse as integers, float64 otherwise.
// DynamoDB set types are outside the supported union and fail with
// ErrUnsupportedType.
func DecodeItem(raw map[string]types.AttributeValue) (Item, error) {
	item := make(Item, len(raw))
	for name, av := range raw {
		v, err := decodeValue(name, av)
		if err != nil {
			return nil, err
		}
		item[name] = v
	}
	return item, nil
}

func encodeValue(attr string, value any) (types.AttributeValue, error) {
	switch v := value.(type) {
	case nil:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case string:
		return &types.AttributeValueMemberS{Value: v}, nil
	case bool:
		return &types.AttributeValueMemberBOOL{Value: v}, nil
	case int:
		return &types.AttributeValueMemberN{Value: strconv.FormatInt(int64(v), 10)}, nil
	case int32:
		return &types.AttributeValueMemberN{Value: strconv.FormatInt(int64(v), 10)}, nil
	case int64:
		return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}, nil
	case float32:
		return &types.AttributeValueMemberN{Value: strconv.FormatFloat(float64(v), 'g', -1, 32)}, nil
	case float64:
		return &types.AttributeValueMemberN{Value: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case []byte:
		return &types.AttributeValueMemberB{Value: v}, nil
	case []any:
		list := make([]types.AttributeValue, 0, len(v))
		for _, elem := range v {
			av, err := encodeValue(attr, elem)
			if err != nil {
				return nil, err
			}
			list = append(list, av)
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case map[string]any:
		m, err := EncodeItem(v)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	case Item:
		m, err := EncodeItem(v)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, &UnsupportedTypeError{Attribute: attr, GoType: fmt.Sprintf("%T", value)}
	}
}

func decodeValue(attr string, av types.AttributeValue) (any, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberBOOL:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		if n, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return nil, &UnsupportedTypeError{Attribute: attr, GoType: "non-numeric N value"}
		}
		return f, nil
	case *types.AttributeValueMemberB:
		return v.Value, nil
	case *types.AttributeValueMemberL:
		list := make([]any, 0, len(v.Value))
		for _, elem := range v.Value {
			dv, err := decodeValue(attr, elem)
			if err != nil {
				return nil, err
			}
			list = append(list, dv)
		}
		return list, nil
	case *types.AttributeValueMemberM:
		m, err := DecodeItem(v.Value)
		if err != nil {
			return nil, err
		}
		return map[string]any(m), nil
	default:
		return nil, &UnsupportedTypeError{Attribute: attr, GoType: fmt.Sprintf("%T", av)}
	}
}

// MarshalItem converts an arbitrary struct or map into an Item via the
// SDK's attributevalue marshaler. Convenience for callers that keep typed
// models; values must still land inside the supported union.
func MarshalItem(v any) (Item, error) {
	raw, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	return DecodeItem(raw)
}

// UnmarshalItem decodes an Item into a typed destination via the SDK's
// attributevalue unmarshaler.
func UnmarshalItem(item Item, dest any) error {
	raw, err := EncodeItem(item)
	if err != nil {
		return err
	}
	if err := attributevalue.UnmarshalMap(raw, dest); err != nil {
		return fmt.Errorf("unmarshal item: %w", err)
	}
	return nil
}
