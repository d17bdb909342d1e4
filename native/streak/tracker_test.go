package streak

import "testing"

func TestTouchFirstEverStartsAtOne(t *testing.T) {
	rec, changed := Touch(Record{}, 100)
	if !changed {
		t.Fatalf("expected first touch to change the record")
	}
	if rec.Current != 1 || rec.Max != 1 || rec.LastDay != 100 {
		t.Fatalf("unexpected record after first touch: %+v", rec)
	}
}

func TestTouchSameDayIsIdempotent(t *testing.T) {
	first, _ := Touch(Record{}, 100)
	second, changed := Touch(first, 100)
	if changed {
		t.Fatalf("expected same-day touch to be a no-op")
	}
	if second != first {
		t.Fatalf("same-day touch mutated the record: %+v vs %+v", second, first)
	}
}

func TestTouchConsecutiveDayExtends(t *testing.T) {
	rec, _ := Touch(Record{}, 100)
	rec, changed := Touch(rec, 101)
	if !changed {
		t.Fatalf("expected consecutive-day touch to change the record")
	}
	if rec.Current != 2 || rec.Max != 2 || rec.LastDay != 101 {
		t.Fatalf("unexpected record after extension: %+v", rec)
	}
}

func TestTouchGapResetsToOne(t *testing.T) {
	rec := Record{Current: 9, Max: 9, LastDay: 100}
	rec, _ = Touch(rec, 102)
	if rec.Current != 1 {
		t.Fatalf("expected gap to reset current to 1, got %d", rec.Current)
	}
	if rec.Max != 9 {
		t.Fatalf("max must survive a reset, got %d", rec.Max)
	}
	if rec.LastDay != 102 {
		t.Fatalf("unexpected last day: %d", rec.LastDay)
	}
}

func TestTouchMaxIsMonotone(t *testing.T) {
	days := []uint64{10, 11, 12, 20, 21, 22, 23, 40}
	var rec Record
	prevMax := uint64(0)
	for _, day := range days {
		rec, _ = Touch(rec, day)
		if rec.Max < prevMax {
			t.Fatalf("max decreased at day %d: %+v", day, rec)
		}
		if rec.Max < rec.Current {
			t.Fatalf("max below current at day %d: %+v", day, rec)
		}
		prevMax = rec.Max
	}
	if rec.Max != 4 {
		t.Fatalf("expected longest run of 4, got %d", rec.Max)
	}
	if rec.Current != 1 {
		t.Fatalf("expected final run of 1, got %d", rec.Current)
	}
}
