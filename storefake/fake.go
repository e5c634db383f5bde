// Package storefake provides an in-memory store.Client for tests. It
// implements enough of the DynamoDB surface to exercise pagination,
// batch-write retry, and conditional update behavior without a network:
// query/scan results split into configurable page sizes with real
// continuation tokens, batch writes that can report entries as
// unprocessed, and injectable per-call failures.
package storefake

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// keySep joins partition and sort key values into one map key. NUL is
// not expected inside key values.
const keySep = "\x00"

// Client is an in-memory fake of the DynamoDB subset the store uses.
// The zero value is not usable; construct with New.
type Client struct {
	mu sync.Mutex

	partitionKey string
	sortKey      string

	items map[string]map[string]types.AttributeValue

	// PageSize caps how many items one Query or Scan call returns.
	// Zero means everything in a single page.
	PageSize int

	// UnprocessedCalls makes the first N BatchWriteItem calls return all
	// their requests unprocessed without applying them, simulating a
	// throttled store that needs retries.
	UnprocessedCalls int

	// AlwaysUnprocessed makes every BatchWriteItem call report its
	// requests unprocessed, for retry-exhaustion tests.
	AlwaysUnprocessed bool

	// FailuresBeforeSuccess makes the next N calls fail with FailWith
	// before behaving normally again. FailOp limits the injection to one
	// operation name (e.g. "GetItem"); empty matches every operation.
	FailuresBeforeSuccess int
	FailWith              error
	FailOp                string

	calls map[string]int
}

// New creates an empty fake table with the given key schema. Pass an
// empty sortKey for a partition-key-only table.
func New(partitionKey, sortKey string) *Client {
	return &Client{
		partitionKey: partitionKey,
		sortKey:      sortKey,
		items:        make(map[string]map[string]types.AttributeValue),
		calls:        make(map[string]int),
	}
}

// Calls reports how many times the named operation was invoked.
func (c *Client) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// Len reports how many items the fake table holds.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// gate records the call and applies injected failures. Callers must hold mu.
func (c *Client) gate(op string) error {
	c.calls[op]++
	if c.FailuresBeforeSuccess > 0 && (c.FailOp == "" || c.FailOp == op) {
		c.FailuresBeforeSuccess--
		return c.FailWith
	}
	return nil
}

func (c *Client) compositeKey(key map[string]types.AttributeValue) string {
	pk := scalarString(key[c.partitionKey])
	if c.sortKey == "" {
		return pk
	}
	return pk + keySep + scalarString(key[c.sortKey])
}

func scalarString(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	case *types.AttributeValueMemberB:
		return string(v.Value)
	default:
		return ""
	}
}

// sortedKeys returns the composite keys of all items, ordered by
// partition value then sort-key value (numeric when both sides parse as
// numbers, lexicographic otherwise).
func (c *Client) sortedKeys() []string {
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, si, _ := strings.Cut(keys[i], keySep)
		pj, sj, _ := strings.Cut(keys[j], keySep)
		if pi != pj {
			return pi < pj
		}
		if ni, erri := strconv.ParseFloat(si, 64); erri == nil {
			if nj, errj := strconv.ParseFloat(sj, 64); errj == nil {
				return ni < nj
			}
		}
		return si < sj
	})
	return keys
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// page slices keys into one result page honoring PageSize and an
// exclusive start key, returning the page plus the continuation key
// (nil when the page is the last one).
func (c *Client) page(keys []string, startKey map[string]types.AttributeValue) ([]string, string) {
	start := 0
	if startKey != nil {
		resumeAfter := c.compositeKey(startKey)
		for i, k := range keys {
			if k == resumeAfter {
				start = i + 1
				break
			}
		}
	}
	end := len(keys)
	if c.PageSize > 0 && start+c.PageSize < end {
		end = start + c.PageSize
	}
	if end < len(keys) {
		return keys[start:end], keys[end-1]
	}
	return keys[start:end], ""
}

// lastEvaluatedKey rebuilds the key attribute map for a composite key.
func (c *Client) lastEvaluatedKey(composite string) map[string]types.AttributeValue {
	item := c.items[composite]
	key := map[string]types.AttributeValue{
		c.partitionKey: item[c.partitionKey],
	}
	if c.sortKey != "" {
		key[c.sortKey] = item[c.sortKey]
	}
	return key
}

// project reduces an item to the named attributes. An empty list keeps
// everything.
func project(item map[string]types.AttributeValue, attrs []string) map[string]types.AttributeValue {
	if len(attrs) == 0 {
		return copyItem(item)
	}
	out := make(map[string]types.AttributeValue, len(attrs))
	for _, a := range attrs {
		if v, ok := item[a]; ok {
			out[a] = v
		}
	}
	return out
}

// resolveProjection expands "#name" placeholders in a projection
// expression into attribute names.
func resolveProjection(expr string, names map[string]string) []string {
	if expr == "" {
		return nil
	}
	var attrs []string
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if resolved, ok := names[part]; ok {
			part = resolved
		}
		attrs = append(attrs, part)
	}
	return attrs
}
