package daily

// SecondsPerDay is the fixed length of one day bucket.
const SecondsPerDay int64 = 86_400

// Index quantizes a unix timestamp into a whole-day bucket counted from the
// unix epoch. Timestamps before the epoch collapse to day zero; the host
// clock is monotonically non-decreasing so they never occur in practice.
func Index(now int64) uint64 {
	if now <= 0 {
		return 0
	}
	return uint64(now / SecondsPerDay)
}

// IndexSince quantizes a timestamp relative to a module-specific start time.
// Before the start the index is zero.
func IndexSince(now, start int64) uint64 {
	if now <= start {
		return 0
	}
	return uint64((now - start) / SecondsPerDay)
}

// SecondsUntilRollover reports how many seconds remain until the next day
// bucket begins, i.e. until every daily allowance resets.
func SecondsUntilRollover(now int64) int64 {
	if now < 0 {
		return -now
	}
	return SecondsPerDay - now%SecondsPerDay
}
