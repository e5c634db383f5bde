// Package handler provides thin pass-through entry points over a
// store.Store, suitable for use as an AWS Lambda handler. Each operation
// is a one-line delegation; all engineering lives in the store package.
package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arcadialabs/dynatable/store"
)

// Operation names accepted by Invoke.
const (
	OpInsert        = "insert"
	OpGet           = "get"
	OpSelect        = "select"
	OpScan          = "scan"
	OpDelete        = "delete"
	OpUpdateCounter = "update_counter"
	OpResetCounter  = "reset_counter"
	OpTruncate      = "truncate"
)

// KeyRef names one key dimension in a request payload.
type KeyRef struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Request is the invocation payload. Op selects the operation; the other
// fields are consumed per operation.
type Request struct {
	Op           string     `json:"op"`
	Item         store.Item `json:"item,omitempty"`
	PartitionKey *KeyRef    `json:"partition_key,omitempty"`
	SortKey      *KeyRef    `json:"sort_key,omitempty"`
}

// Response carries whichever result the operation produces.
type Response struct {
	RequestID string       `json:"request_id"`
	Item      store.Item   `json:"item,omitempty"`
	Items     []store.Item `json:"items,omitempty"`
	Count     int          `json:"count,omitempty"`
	Counter   int64        `json:"counter,omitempty"`
}

// Handler dispatches invocation payloads to a Store.
type Handler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewHandler creates a handler over the given store.
func NewHandler(s *store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  s,
		logger: logger,
	}
}

// Invoke routes one request to the matching store operation. It is
// designed to be passed to lambda.Start.
func (h *Handler) Invoke(ctx context.Context, req Request) (*Response, error) {
	resp := &Response{RequestID: uuid.NewString()}
	log := h.logger.With("requestID", resp.RequestID, "op", req.Op)
	log.Info("request received")

	partition, sort, err := req.keys()
	if err != nil {
		return nil, err
	}

	switch req.Op {
	case OpInsert:
		err = h.store.PutItem(ctx, req.Item)
	case OpGet:
		resp.Item, err = h.store.GetItem(ctx, partition, sort)
	case OpSelect:
		resp.Items, err = h.store.SelectItems(ctx, partition)
		resp.Count = len(resp.Items)
	case OpScan:
		resp.Items, err = h.store.ScanTable(ctx)
		resp.Count = len(resp.Items)
	case OpDelete:
		err = h.store.DeleteItem(ctx, partition, sort)
	case OpUpdateCounter:
		resp.Counter, err = h.store.IncrementCounter(ctx, partition, sort)
	case OpResetCounter:
		resp.Count, err = h.store.ResetCounters(ctx, partition)
	case OpTruncate:
		resp.Count, err = h.store.Truncate(ctx)
	default:
		err = fmt.Errorf("unknown operation %q", req.Op)
	}

	if err != nil {
		log.Error("request failed", "error", err)
		return nil, err
	}
	log.Info("request complete", "count", resp.Count)
	return resp, nil
}

// keys extracts the request's key references. Operations that take no
// key ignore the zero values.
func (r Request) keys() (store.Key, *store.Key, error) {
	var partition store.Key
	if r.PartitionKey != nil {
		partition = store.NewKey(r.PartitionKey.Name, r.PartitionKey.Value)
	} else if keyedOp(r.Op) {
		return store.Key{}, nil, fmt.Errorf("operation %q requires partition_key", r.Op)
	}

	var sort *store.Key
	if r.SortKey != nil {
		k := store.NewKey(r.SortKey.Name, r.SortKey.Value)
		sort = &k
	}
	return partition, sort, nil
}

func keyedOp(op string) bool {
	switch op {
	case OpGet, OpSelect, OpDelete, OpUpdateCounter, OpResetCounter:
		return true
	}
	return false
}
