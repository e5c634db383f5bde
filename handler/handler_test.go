package handler_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/arcadialabs/dynatable/handler"
	"github.com/arcadialabs/dynatable/store"
	"github.com/arcadialabs/dynatable/storefake"
)

func newTestHandler(t *testing.T) (*handler.Handler, *storefake.Client) {
	t.Helper()
	fake := storefake.New("tenant_id", "user_id")
	cfg := store.DefaultConfig()
	cfg.TableName = "shared_memory"
	cfg.PartitionKey = "tenant_id"
	cfg.SortKey = "user_id"
	cfg.RetryBaseDelay = time.Millisecond
	s, err := store.New(fake, cfg)
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	return handler.NewHandler(s, slog.New(slog.NewTextHandler(io.Discard, nil))), fake
}

func TestInvoke_InsertAndGet(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.Invoke(ctx, handler.Request{
		Op:   handler.OpInsert,
		Item: store.Item{"tenant_id": "1", "user_id": "1", "name": "alpha"},
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if resp.RequestID == "" {
		t.Error("expected a request id")
	}

	resp, err = h.Invoke(ctx, handler.Request{
		Op:           handler.OpGet,
		PartitionKey: &handler.KeyRef{Name: "tenant_id", Value: "1"},
		SortKey:      &handler.KeyRef{Name: "user_id", Value: "1"},
	})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if resp.Item["name"] != "alpha" {
		t.Errorf("unexpected item: %#v", resp.Item)
	}
}

func TestInvoke_Select(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		_, err := h.Invoke(ctx, handler.Request{
			Op:   handler.OpInsert,
			Item: store.Item{"tenant_id": "1", "user_id": id},
		})
		if err != nil {
			t.Fatalf("insert %s failed: %v", id, err)
		}
	}

	resp, err := h.Invoke(ctx, handler.Request{
		Op:           handler.OpSelect,
		PartitionKey: &handler.KeyRef{Name: "tenant_id", Value: "1"},
	})
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if resp.Count != 3 || len(resp.Items) != 3 {
		t.Errorf("expected 3 items, got count %d / %d items", resp.Count, len(resp.Items))
	}
}

func TestInvoke_UpdateCounter(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	_, err := h.Invoke(ctx, handler.Request{
		Op:   handler.OpInsert,
		Item: store.Item{"tenant_id": "1", "user_id": "1"},
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	resp, err := h.Invoke(ctx, handler.Request{
		Op:           handler.OpUpdateCounter,
		PartitionKey: &handler.KeyRef{Name: "tenant_id", Value: "1"},
		SortKey:      &handler.KeyRef{Name: "user_id", Value: "1"},
	})
	if err != nil {
		t.Fatalf("update_counter failed: %v", err)
	}
	if resp.Counter != 1 {
		t.Errorf("expected counter 1, got %d", resp.Counter)
	}
}

func TestInvoke_TruncateAndScan(t *testing.T) {
	h, fake := newTestHandler(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2"} {
		_, err := h.Invoke(ctx, handler.Request{
			Op:   handler.OpInsert,
			Item: store.Item{"tenant_id": "1", "user_id": id},
		})
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	resp, err := h.Invoke(ctx, handler.Request{Op: handler.OpTruncate})
	if err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("expected 2 deleted, got %d", resp.Count)
	}
	if fake.Len() != 0 {
		t.Errorf("expected empty table, got %d items", fake.Len())
	}

	resp, err = h.Invoke(ctx, handler.Request{Op: handler.OpScan})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("expected empty scan, got %d", resp.Count)
	}
}

func TestInvoke_UnknownOp(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Invoke(context.Background(), handler.Request{Op: "explode"})
	if err == nil || !strings.Contains(err.Error(), "unknown operation") {
		t.Errorf("expected unknown operation error, got %v", err)
	}
}

func TestInvoke_MissingPartitionKey(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, op := range []string{
		handler.OpGet,
		handler.OpSelect,
		handler.OpDelete,
		handler.OpUpdateCounter,
		handler.OpResetCounter,
	} {
		_, err := h.Invoke(context.Background(), handler.Request{Op: op})
		if err == nil || !strings.Contains(err.Error(), "requires partition_key") {
			t.Errorf("op %s: expected missing partition_key error, got %v", op, err)
		}
	}
}
