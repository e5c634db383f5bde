package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arcadialabs/dynatable/store"
	"github.com/arcadialabs/dynatable/storefake"
)

func TestInsertStatement(t *testing.T) {
	item := store.Item{
		"tenant_id": "1",
		"user_id":   "2",
		"counter":   int64(0),
		"active":    true,
		"ratio":     0.5,
		"note":      nil,
	}

	stmt, err := store.InsertStatement(item, "shared_memory")
	if err != nil {
		t.Fatalf("InsertStatement failed: %v", err)
	}

	// Attributes sorted by name keeps the statement deterministic.
	want := `INSERT INTO "shared_memory" VALUE {'active' : true, 'counter' : 0, 'note' : NULL, 'ratio' : 0.5, 'tenant_id' : '1', 'user_id' : '2'}`
	if stmt != want {
		t.Errorf("statement mismatch:\n got  %s\n want %s", stmt, want)
	}
}

func TestInsertStatement_EscapesQuotes(t *testing.T) {
	stmt, err := store.InsertStatement(store.Item{"name": "O'Brien"}, "t")
	if err != nil {
		t.Fatalf("InsertStatement failed: %v", err)
	}
	want := `INSERT INTO "t" VALUE {'name' : 'O''Brien'}`
	if stmt != want {
		t.Errorf("expected %s, got %s", want, stmt)
	}
}

func TestInsertStatement_UnsupportedValue(t *testing.T) {
	_, err := store.InsertStatement(store.Item{"bad": []any{"no lists"}}, "t")
	if !errors.Is(err, store.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestUpdateStatement(t *testing.T) {
	sort := store.NewKey("user_id", "2")
	stmt, err := store.UpdateStatement("shared_memory",
		store.NewKey("tenant_id", "1"), &sort,
		store.Item{"counter": int64(3), "active": false},
	)
	if err != nil {
		t.Fatalf("UpdateStatement failed: %v", err)
	}

	want := `UPDATE "shared_memory" SET active = false SET counter = 3 WHERE tenant_id = '1' AND user_id = '2'`
	if stmt != want {
		t.Errorf("statement mismatch:\n got  %s\n want %s", stmt, want)
	}
}

func TestUpdateStatement_PartitionOnly(t *testing.T) {
	stmt, err := store.UpdateStatement("t", store.NewKey("pk", "a"), nil, store.Item{"n": int64(1)})
	if err != nil {
		t.Fatalf("UpdateStatement failed: %v", err)
	}
	want := `UPDATE "t" SET n = 1 WHERE pk = 'a'`
	if stmt != want {
		t.Errorf("expected %s, got %s", want, stmt)
	}
}

func TestUpdateStatement_InvalidKey(t *testing.T) {
	_, err := store.UpdateStatement("t", store.NewKey("", "a"), nil, store.Item{"n": int64(1)})
	if !errors.Is(err, store.ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestBatchExecuteStatements_LimitEnforced(t *testing.T) {
	fake := storefake.New("tenant_id", "user_id")
	s := newTestStore(t, fake, func(cfg *store.Config) {
		cfg.BatchSize = 2
	})

	statements := []string{"a", "b", "c"}
	if err := s.BatchExecuteStatements(context.Background(), statements); err == nil {
		t.Error("expected error for batch over the limit, got nil")
	}
	if err := s.BatchExecuteStatements(context.Background(), nil); err != nil {
		t.Errorf("expected nil for empty batch, got %v", err)
	}
}
