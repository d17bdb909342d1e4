package streak

// Record tracks consecutive-day activity for one identity. LastDay zero means
// the identity has never touched the streak; day zero itself is unreachable
// for any realistic clock, so the sentinel is unambiguous.
type Record struct {
	Current uint64 `json:"current"`
	Max     uint64 `json:"max"`
	LastDay uint64 `json:"lastDay"`
}

// Touch advances the streak for the given day bucket and reports whether the
// record changed. A second touch within the same day is an exact no-op, a
// touch on the immediately following day extends the streak, and any gap
// (including the first touch ever) restarts it at one. Max never decreases.
func Touch(rec Record, day uint64) (Record, bool) {
	if rec.LastDay == day && rec.LastDay != 0 {
		return rec, false
	}
	next := rec
	if rec.LastDay != 0 && rec.LastDay+1 == day {
		next.Current = rec.Current + 1
	} else {
		next.Current = 1
	}
	next.LastDay = day
	if next.Current > next.Max {
		next.Max = next.Current
	}
	return next, true
}
