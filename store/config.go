package store

import (
	"time"

	"go.uber.org/zap"
)

// DynamoDB rejects batch write requests larger than 25 entries.
const maxBatchSize = 25

// Config holds the table identity and tuning knobs for a Store.
// Table identity is always passed in explicitly; the store never reads
// environment variables or other ambient state.
type Config struct {
	// TableName is the DynamoDB table to operate on. Required.
	TableName string

	// PartitionKey is the table's partition key attribute name. Required.
	PartitionKey string

	// SortKey is the table's sort key attribute name.
	// Empty if the table has no sort key.
	SortKey string

	// CounterAttribute is the numeric attribute mutated by
	// IncrementCounter and ResetCounters.
	// Default: "counter"
	CounterAttribute string

	// BatchSize caps how many write requests go into one batch call.
	// Default and max: 25 (the DynamoDB limit).
	BatchSize int

	// MaxRetries bounds retry attempts for unprocessed batch entries and
	// transient per-request failures.
	// Default: 5
	MaxRetries int

	// RetryBaseDelay is the initial backoff delay; it doubles per attempt.
	// Default: 50ms
	RetryBaseDelay time.Duration

	// MaxPages bounds how many pages a single SelectItems/ScanTable call
	// will follow before failing with ErrPageLimit. Guards against a
	// misbehaving client that always reports more pages.
	// Default: 1000
	MaxPages int

	// RequestTimeout is the per-request deadline applied to each call to
	// the table client. Zero means no per-request deadline beyond the
	// caller's context. Timed-out requests are retried up to MaxRetries.
	RequestTimeout time.Duration

	// Logger receives debug/info output for multi-page and multi-batch
	// operations. Default: zap.NewNop()
	Logger *zap.Logger
}

// DefaultConfig returns a Config with defaults filled in for everything
// except table identity.
func DefaultConfig() Config {
	return Config{
		CounterAttribute: "counter",
		BatchSize:        maxBatchSize,
		MaxRetries:       5,
		RetryBaseDelay:   50 * time.Millisecond,
		MaxPages:         1000,
		Logger:           zap.NewNop(),
	}
}

// validate fills defaults and clamps values to acceptable bounds.
func (c *Config) validate() {
	if c.CounterAttribute == "" {
		c.CounterAttribute = "counter"
	}
	if c.BatchSize < 1 || c.BatchSize > maxBatchSize {
		c.BatchSize = maxBatchSize
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = 5
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = 50 * time.Millisecond
	}
	if c.MaxPages < 1 {
		c.MaxPages = 1000
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}
