package daily

import (
	"errors"
	"testing"
)

func TestIndexQuantizesWholeDays(t *testing.T) {
	if got := Index(0); got != 0 {
		t.Fatalf("unexpected index at epoch: %d", got)
	}
	if got := Index(SecondsPerDay - 1); got != 0 {
		t.Fatalf("unexpected index just before rollover: %d", got)
	}
	if got := Index(SecondsPerDay); got != 1 {
		t.Fatalf("unexpected index at rollover: %d", got)
	}
	if got := Index(10*SecondsPerDay + 12_345); got != 10 {
		t.Fatalf("unexpected mid-day index: %d", got)
	}
}

func TestIndexSince(t *testing.T) {
	start := int64(1_000_000)
	if got := IndexSince(start-1, start); got != 0 {
		t.Fatalf("index before start must be zero, got %d", got)
	}
	if got := IndexSince(start+SecondsPerDay, start); got != 1 {
		t.Fatalf("unexpected relative index: %d", got)
	}
}

func TestSecondsUntilRollover(t *testing.T) {
	if got := SecondsUntilRollover(0); got != SecondsPerDay {
		t.Fatalf("unexpected remainder at bucket start: %d", got)
	}
	if got := SecondsUntilRollover(SecondsPerDay - 1); got != 1 {
		t.Fatalf("unexpected remainder before rollover: %d", got)
	}
}

func TestConsumeEnforcesCap(t *testing.T) {
	const limit = 3
	rec := UsageRecord{}
	for i := uint32(1); i <= limit; i++ {
		next, err := Consume(rec, 7, limit)
		if err != nil {
			t.Fatalf("consume %d: unexpected error: %v", i, err)
		}
		if next.Day != 7 || next.Count != i {
			t.Fatalf("consume %d: unexpected record %+v", i, next)
		}
		rec = next
	}

	denied, err := Consume(rec, 7, limit)
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	if denied != rec {
		t.Fatalf("record mutated on denial: %+v", denied)
	}
}

func TestConsumeResetsOnRollover(t *testing.T) {
	rec := UsageRecord{Day: 7, Count: 5}

	next, err := Consume(rec, 8, 5)
	if err != nil {
		t.Fatalf("unexpected error after rollover: %v", err)
	}
	if next.Day != 8 || next.Count != 1 {
		t.Fatalf("unexpected record after rollover: %+v", next)
	}
}

func TestConsumeRejectsZeroCap(t *testing.T) {
	if _, err := Consume(UsageRecord{}, 1, 0); !errors.Is(err, ErrInvalidCap) {
		t.Fatalf("expected ErrInvalidCap, got %v", err)
	}
	if err := ValidateCap(0); !errors.Is(err, ErrInvalidCap) {
		t.Fatalf("expected ErrInvalidCap from ValidateCap, got %v", err)
	}
}

func TestCountOnIgnoresStaleRecords(t *testing.T) {
	rec := UsageRecord{Day: 7, Count: 4}
	if got := rec.CountOn(7); got != 4 {
		t.Fatalf("unexpected same-day count: %d", got)
	}
	if got := rec.CountOn(8); got != 0 {
		t.Fatalf("stale record must read as zero, got %d", got)
	}
	if got := rec.CountOn(6); got != 0 {
		t.Fatalf("record for another day must read as zero, got %d", got)
	}
}
