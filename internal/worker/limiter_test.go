package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowsWithinRate(t *testing.T) {
	l := NewLimiter(1000, 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := l.Wait(ctx, "https://www.ssa.gov/oact/STATS/table4c6.html", 0); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
}

func TestLimiter_PerHostBuckets(t *testing.T) {
	l := NewLimiter(1, 1)

	a := l.hostLimiter("www.ssa.gov")
	b := l.hostLimiter("www.lifetable.de")
	if a == b {
		t.Error("distinct hosts should get distinct limiters")
	}
	if a != l.hostLimiter("www.ssa.gov") {
		t.Error("same host should reuse its limiter")
	}
}

func TestLimiter_ContextCancellation(t *testing.T) {
	l := NewLimiter(0.001, 1)

	ctx, cancel := context.WithCancel(context.Background())
	// Drain the single burst token, then cancel while the next Wait is
	// blocked on the refill.
	if err := l.Wait(ctx, "https://example.com/", 0); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	cancel()
	if err := l.Wait(ctx, "https://example.com/", 0); err == nil {
		t.Error("Wait should fail once the context is canceled")
	}
}

func TestLimiter_ExtraDelayHonorsContext(t *testing.T) {
	l := NewLimiter(1000, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx, "https://example.com/", time.Minute)
	if err == nil {
		t.Error("a crawl delay past the deadline should abort with the context error")
	}
}

func TestLimiter_BadURL(t *testing.T) {
	l := NewLimiter(1, 1)
	if err := l.Wait(context.Background(), "://bad", 0); err == nil {
		t.Error("expected a parse error")
	}
}
