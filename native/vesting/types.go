package vesting

import "math/big"

// Schedule is a linear vesting grant for one beneficiary. At most one
// schedule ever exists per beneficiary; it is never deleted, only released
// against or revoked.
type Schedule struct {
	Beneficiary [20]byte `json:"beneficiary"`
	Start       int64    `json:"start"`
	Duration    int64    `json:"duration"`
	Total       *big.Int `json:"total"`
	Claimed     *big.Int `json:"claimed"`
	Revoked     bool     `json:"revoked"`
	CreatedAt   int64    `json:"createdAt"`
}

// Clone returns a deep copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Total != nil {
		clone.Total = new(big.Int).Set(s.Total)
	} else {
		clone.Total = big.NewInt(0)
	}
	if s.Claimed != nil {
		clone.Claimed = new(big.Int).Set(s.Claimed)
	} else {
		clone.Claimed = big.NewInt(0)
	}
	return &clone
}

// VestedAt computes the amount unlocked by the given time. Elapsed time is
// clamped to the schedule duration before the multiplication so the result
// never exceeds Total and the intermediate product stays bounded for very
// large grants.
func (s *Schedule) VestedAt(now int64) *big.Int {
	if s == nil || s.Total == nil || s.Duration <= 0 {
		return big.NewInt(0)
	}
	elapsed := now - s.Start
	if elapsed <= 0 {
		return big.NewInt(0)
	}
	if elapsed >= s.Duration {
		return new(big.Int).Set(s.Total)
	}
	vested := new(big.Int).Mul(s.Total, big.NewInt(elapsed))
	return vested.Quo(vested, big.NewInt(s.Duration))
}

// ReleasableAt computes what the beneficiary could claim at the given time.
// Revoked schedules release nothing.
func (s *Schedule) ReleasableAt(now int64) *big.Int {
	if s == nil || s.Revoked {
		return big.NewInt(0)
	}
	claimed := s.Claimed
	if claimed == nil {
		claimed = big.NewInt(0)
	}
	releasable := new(big.Int).Sub(s.VestedAt(now), claimed)
	if releasable.Sign() < 0 {
		return big.NewInt(0)
	}
	return releasable
}

// Remainder reports the still-unclaimed portion of the grant.
func (s *Schedule) Remainder() *big.Int {
	if s == nil || s.Total == nil {
		return big.NewInt(0)
	}
	claimed := s.Claimed
	if claimed == nil {
		claimed = big.NewInt(0)
	}
	remainder := new(big.Int).Sub(s.Total, claimed)
	if remainder.Sign() < 0 {
		return big.NewInt(0)
	}
	return remainder
}
