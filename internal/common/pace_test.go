package common

import (
	"context"
	"testing"
	"time"
)

func TestPacer_FirstWaitIsImmediate(t *testing.T) {
	pacer := NewPacer(time.Hour)

	start := time.Now()
	if err := pacer.Wait(context.Background()); err != nil {
		t.Fatalf("First wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("First wait should not block, took %v", elapsed)
	}
}

func TestPacer_ZeroDelayNeverBlocks(t *testing.T) {
	pacer := NewPacer(0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := pacer.Wait(ctx); err != nil {
			t.Fatalf("Wait %d failed: %v", i, err)
		}
	}
}

func TestPacer_CancelledContext(t *testing.T) {
	pacer := NewPacer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("First wait should not consult the context: %v", err)
	}
	if err := pacer.Wait(ctx); err == nil {
		t.Error("Expected context error on second wait")
	}
}

func TestPacer_DelayBetweenBatches(t *testing.T) {
	pacer := NewPacer(20 * time.Millisecond)
	ctx := context.Background()

	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("First wait failed: %v", err)
	}

	start := time.Now()
	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("Second wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("Expected roughly the configured delay, waited only %v", elapsed)
	}
}
