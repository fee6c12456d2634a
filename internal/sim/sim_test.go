package sim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestSimError(t *testing.T) {
	err := &SimError{Phase: "flight", Step: 150, Time: 1.5, Wrapped: ErrNonTerminating}
	expected := "flight step 150 (t=1.5000): sim: step limit reached before terminal condition"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrNonTerminating) {
		t.Error("expected SimError to unwrap to ErrNonTerminating")
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("dt", -0.1)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLimitsExceeded(t *testing.T) {
	tests := []struct {
		name     string
		limits   Limits
		step     int
		exceeded bool
	}{
		{"within", Limits{MaxSteps: 10}, 10, false},
		{"past", Limits{MaxSteps: 10}, 11, true},
		{"zero falls back", Limits{}, DefaultMaxSteps, false},
		{"zero falls back past", Limits{}, DefaultMaxSteps + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.limits.Exceeded(tt.step); got != tt.exceeded {
				t.Errorf("Exceeded(%d) = %v, want %v", tt.step, got, tt.exceeded)
			}
		})
	}
}

func TestParallelRunsEveryIndex(t *testing.T) {
	var count atomic.Int64
	seen := make([]bool, 50)

	err := Parallel(context.Background(), len(seen), 4, func(ctx context.Context, idx int) error {
		seen[idx] = true
		count.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Parallel failed: %v", err)
	}
	if count.Load() != 50 {
		t.Errorf("expected 50 calls, got %d", count.Load())
	}
	for i, ok := range seen {
		if !ok {
			t.Errorf("index %d never ran", i)
		}
	}
}

func TestParallelReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := Parallel(context.Background(), 20, 2, func(ctx context.Context, idx int) error {
		if idx == 3 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestParallelEmpty(t *testing.T) {
	if err := Parallel(context.Background(), 0, 4, nil); err != nil {
		t.Errorf("expected nil for empty range, got %v", err)
	}
}
