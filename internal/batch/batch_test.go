package batch

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		total int
		size  int
		want  []int
	}{
		{"empty", 0, 25, nil},
		{"under one chunk", 10, 25, []int{10}},
		{"exact multiple", 50, 25, []int{25, 25}},
		{"remainder", 57, 25, []int{25, 25, 7}},
		{"size below one", 3, 0, []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs := make([]types.WriteRequest, tt.total)
			chunks := Chunk(reqs, tt.size)
			if len(chunks) != len(tt.want) {
				t.Fatalf("expected %d chunks, got %d", len(tt.want), len(chunks))
			}
			for i, want := range tt.want {
				if len(chunks[i]) != want {
					t.Errorf("chunk %d: expected %d entries, got %d", i, want, len(chunks[i]))
				}
			}
		})
	}
}

func TestDelay(t *testing.T) {
	base := 50 * time.Millisecond

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 50 * time.Millisecond},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{20, 5 * time.Second},
	}

	for _, tt := range tests {
		if got := Delay(tt.attempt, base); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestDelay_ZeroBase(t *testing.T) {
	if got := Delay(0, 0); got != time.Millisecond {
		t.Errorf("expected millisecond floor, got %v", got)
	}
}
