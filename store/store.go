package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/arcadialabs/dynatable/internal/batch"
)

// Store provides key-value table operations against one DynamoDB table.
// All methods are safe for concurrent use; the only shared state is the
// external table itself.
type Store struct {
	client Client
	config Config
	log    *zap.Logger
}

// New creates a Store for the table described by config.
func New(client Client, config Config) (*Store, error) {
	if client == nil {
		return nil, errors.New("dynatable: client must be non-nil")
	}
	if config.TableName == "" {
		return nil, errors.New("dynatable: config.TableName is required")
	}
	if config.PartitionKey == "" {
		return nil, errors.New("dynatable: config.PartitionKey is required")
	}
	config.validate()
	return &Store{
		client: client,
		config: config,
		log:    config.Logger,
	}, nil
}

// Config returns the store's effective configuration.
func (s *Store) Config() Config {
	return s.config
}

// requestCtx applies the per-request deadline, if configured.
func (s *Store) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.RequestTimeout > 0 {
		return context.WithTimeout(ctx, s.config.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

// do runs one request against the table client, retrying transient
// failures (timeouts, throttling) with exponential backoff up to
// MaxRetries. Non-transient failures surface immediately as AccessError.
func (s *Store) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < s.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return &AccessError{Op: op, Err: err}
		}

		rctx, cancel := s.requestCtx(ctx)
		err := fn(rctx)
		cancel()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return &AccessError{Op: op, Err: err}
		}
		lastErr = err

		delay := batch.Delay(attempt, s.config.RetryBaseDelay)
		s.log.Debug("retrying request",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return &AccessError{Op: op, Err: ctx.Err()}
		case <-time.After(delay):
		}
	}
	return &AccessError{Op: op, Err: fmt.Errorf("retries exhausted: %w", lastErr)}
}

// retryable reports whether a request failure is transient. Per-request
// deadline expiry and throttling retry; everything else is terminal.
func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var throttled *types.ProvisionedThroughputExceededException
	if errors.As(err, &throttled) {
		return true
	}
	var limited *types.RequestLimitExceeded
	if errors.As(err, &limited) {
		return true
	}
	var internal *types.InternalServerError
	return errors.As(err, &internal)
}

// itemKey extracts the primary key attributes from a decoded item.
// Fails with ErrInvalidKey when the partition key attribute is missing.
func (s *Store) itemKey(item Item) (map[string]types.AttributeValue, error) {
	pv, ok := item[s.config.PartitionKey]
	if !ok {
		return nil, fmt.Errorf("%w: item missing partition key %q", ErrInvalidKey, s.config.PartitionKey)
	}
	key := map[string]types.AttributeValue{}
	av, err := encodeValue(s.config.PartitionKey, pv)
	if err != nil {
		return nil, err
	}
	key[s.config.PartitionKey] = av

	if s.config.SortKey != "" {
		sv, ok := item[s.config.SortKey]
		if !ok {
			return nil, fmt.Errorf("%w: item missing sort key %q", ErrInvalidKey, s.config.SortKey)
		}
		av, err := encodeValue(s.config.SortKey, sv)
		if err != nil {
			return nil, err
		}
		key[s.config.SortKey] = av
	}
	return key, nil
}

// keyItem reduces a decoded item to just its primary key attributes,
// for failure reports.
func (s *Store) keyItem(item Item) Item {
	key := Item{s.config.PartitionKey: item[s.config.PartitionKey]}
	if s.config.SortKey != "" {
		key[s.config.SortKey] = item[s.config.SortKey]
	}
	return key
}
