// Package store provides a generic data-access layer over a partitioned
// DynamoDB table: point lookups, partition-scoped queries, full scans,
// atomic counter mutation, bulk counter reset, and table truncation.
//
// # Design
//
// All operations hang off [Store], which wraps a narrow [Client] interface
// satisfied by the AWS SDK v2 *dynamodb.Client. Table identity and key
// attribute names are threaded in explicitly via [Config] — the package
// never reads environment or global state, so it can be driven by a fake
// client in tests.
//
// Multi-item reads ([Store.SelectItems], [Store.ScanTable]) follow
// continuation tokens until exhausted and always return the fully
// materialized result, so callers never see a partial page. Multi-item
// writes ([Store.PutItems], [Store.Truncate]) chunk requests to the
// store's 25-item batch limit and retry unprocessed entries with bounded
// exponential backoff before reporting a [PartialFailureError].
//
// [Store.IncrementCounter] uses DynamoDB's native ADD update expression,
// not read-then-write, so concurrent increments against the same key
// cannot lose updates.
//
// # Errors
//
//   - [ErrNotFound] - item doesn't exist (expected absence, not a failure)
//   - [ErrUnsupportedType] - a value outside the supported attribute union
//   - [ErrPageLimit] - pagination safety bound exceeded
//   - [AccessError] - transport/auth failure, or retries exhausted
//   - [PartialFailureError] - some items in a bulk operation never committed
package store
