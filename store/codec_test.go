package store_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/arcadialabs/dynatable/store"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := store.Item{
		"tenant_id": "1",
		"user_id":   "42",
		"counter":   int64(7),
		"ratio":     0.5,
		"active":    true,
		"blob":      []byte{0x01, 0x02},
		"note":      nil,
		"tags":      []any{"a", "b", int64(3)},
		"profile": map[string]any{
			"city":  "Oslo",
			"score": int64(10),
		},
	}

	raw, err := store.EncodeItem(original)
	if err != nil {
		t.Fatalf("EncodeItem failed: %v", err)
	}
	decoded, err := store.DecodeItem(raw)
	if err != nil {
		t.Fatalf("DecodeItem failed: %v", err)
	}

	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("round trip mismatch:\n got  %#v\n want %#v", decoded, original)
	}
}

func TestEncodeIntWidths(t *testing.T) {
	raw, err := store.EncodeItem(store.Item{"a": 3, "b": int32(4), "c": int64(5)})
	if err != nil {
		t.Fatalf("EncodeItem failed: %v", err)
	}
	for attr, want := range map[string]string{"a": "3", "b": "4", "c": "5"} {
		n, ok := raw[attr].(*types.AttributeValueMemberN)
		if !ok {
			t.Fatalf("attribute %q: expected N, got %T", attr, raw[attr])
		}
		if n.Value != want {
			t.Errorf("attribute %q: expected %q, got %q", attr, want, n.Value)
		}
	}
}

func TestEncodeUnsupportedType(t *testing.T) {
	type custom struct{ X int }

	tests := []struct {
		name string
		item store.Item
	}{
		{"struct value", store.Item{"bad": custom{X: 1}}},
		{"nested struct", store.Item{"list": []any{"ok", custom{}}}},
		{"channel", store.Item{"ch": make(chan int)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.EncodeItem(tt.item)
			if !errors.Is(err, store.ErrUnsupportedType) {
				t.Errorf("expected ErrUnsupportedType, got %v", err)
			}
		})
	}
}

func TestDecodeNumbers(t *testing.T) {
	raw := map[string]types.AttributeValue{
		"whole":    &types.AttributeValueMemberN{Value: "12"},
		"negative": &types.AttributeValueMemberN{Value: "-3"},
		"fraction": &types.AttributeValueMemberN{Value: "2.25"},
	}

	item, err := store.DecodeItem(raw)
	if err != nil {
		t.Fatalf("DecodeItem failed: %v", err)
	}
	if v, ok := item["whole"].(int64); !ok || v != 12 {
		t.Errorf("expected int64 12, got %#v", item["whole"])
	}
	if v, ok := item["negative"].(int64); !ok || v != -3 {
		t.Errorf("expected int64 -3, got %#v", item["negative"])
	}
	if v, ok := item["fraction"].(float64); !ok || v != 2.25 {
		t.Errorf("expected float64 2.25, got %#v", item["fraction"])
	}
}

func TestDecodeSetTypesUnsupported(t *testing.T) {
	raw := map[string]types.AttributeValue{
		"set": &types.AttributeValueMemberSS{Value: []string{"a"}},
	}
	_, err := store.DecodeItem(raw)
	if !errors.Is(err, store.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType for string set, got %v", err)
	}

	var typed *store.UnsupportedTypeError
	if !errors.As(err, &typed) {
		t.Fatalf("expected *UnsupportedTypeError, got %T", err)
	}
	if typed.Attribute != "set" {
		t.Errorf("expected attribute 'set', got %q", typed.Attribute)
	}
}

func TestMarshalItem(t *testing.T) {
	type row struct {
		TenantID string `dynamodbav:"tenant_id"`
		UserID   string `dynamodbav:"user_id"`
		Counter  int64  `dynamodbav:"counter"`
	}

	item, err := store.MarshalItem(row{TenantID: "1", UserID: "2", Counter: 9})
	if err != nil {
		t.Fatalf("MarshalItem failed: %v", err)
	}
	if item["tenant_id"] != "1" || item["user_id"] != "2" {
		t.Errorf("unexpected keys: %#v", item)
	}
	if v, ok := item["counter"].(int64); !ok || v != 9 {
		t.Errorf("expected counter 9, got %#v", item["counter"])
	}

	var back row
	if err := store.UnmarshalItem(item, &back); err != nil {
		t.Fatalf("UnmarshalItem failed: %v", err)
	}
	if back.TenantID != "1" || back.UserID != "2" || back.Counter != 9 {
		t.Errorf("unexpected round trip: %+v", back)
	}
}
