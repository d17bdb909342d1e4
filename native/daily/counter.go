package daily

import "errors"

var (
	// ErrRateLimitExceeded indicates the identity already exhausted its
	// allowance for the current day bucket.
	ErrRateLimitExceeded = errors.New("daily: rate limit exceeded")
	// ErrInvalidCap indicates a zero daily cap was supplied at configuration
	// time. A cap of zero is rejected up front so "not configured" can never
	// masquerade as "always blocked".
	ErrInvalidCap = errors.New("daily: cap must be positive")
)

// UsageRecord captures per-identity consumption within a single day bucket.
// The stored count is only meaningful for the stored day; reads for any later
// day treat the record as empty. Records are reset lazily on the next write,
// never by a background job.
type UsageRecord struct {
	Day   uint64 `json:"day"`
	Count uint32 `json:"count"`
}

// CountOn reports the effective count for the given day. A record from an
// earlier (or different) day contributes nothing.
func (r UsageRecord) CountOn(day uint64) uint32 {
	if r.Day != day {
		return 0
	}
	return r.Count
}

// ValidateCap rejects caps that cannot gate anything.
func ValidateCap(limit uint32) error {
	if limit == 0 {
		return ErrInvalidCap
	}
	return nil
}

// Consume attempts to take one unit of the daily allowance. On success the
// returned record carries today's bucket and the incremented count. On
// denial the input record is returned unchanged alongside
// ErrRateLimitExceeded. The cap check makes counter wraparound unreachable.
func Consume(rec UsageRecord, today uint64, limit uint32) (UsageRecord, error) {
	if err := ValidateCap(limit); err != nil {
		return rec, err
	}
	next := rec
	if rec.Day != today {
		next = UsageRecord{Day: today}
	}
	if next.Count >= limit {
		return rec, ErrRateLimitExceeded
	}
	next.Count++
	return next, nil
}
