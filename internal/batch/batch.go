// Package batch provides chunking and backoff helpers for DynamoDB
// batch write operations.
package batch

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxDelay caps the exponential backoff so retry loops stay bounded in
// wall-clock time as well as attempt count.
const maxDelay = 5 * time.Second

// Chunk splits write requests into groups of at most size entries.
// A size below 1 is treated as 1.
func Chunk(reqs []types.WriteRequest, size int) [][]types.WriteRequest {
	if size < 1 {
		size = 1
	}
	var chunks [][]types.WriteRequest
	for start := 0; start < len(reqs); start += size {
		end := start + size
		if end > len(reqs) {
			end = len(reqs)
		}
		chunks = append(chunks, reqs[start:end])
	}
	return chunks
}

// Delay returns the backoff delay for a zero-based retry attempt:
// base doubling per attempt, capped at maxDelay.
func Delay(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		base = time.Millisecond
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= maxDelay {
			return maxDelay
		}
	}
	return d
}
