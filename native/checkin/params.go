package checkin

import (
	"fmt"
	"math/big"
)

// Params controls the daily engagement game. Caps gate how often each action
// may run per identity per day bucket; rewards apply to check-ins only.
type Params struct {
	Paused       bool     `json:"paused"`
	CheckInCap   uint32   `json:"checkInCap"`
	VoteCap      uint32   `json:"voteCap"`
	CheerCap     uint32   `json:"cheerCap"`
	PredictCap   uint32   `json:"predictCap"`
	BaseReward   *big.Int `json:"baseReward"`
	StreakBonus  *big.Int `json:"streakBonus"`
	MaxBonusDays uint64   `json:"maxBonusDays"`
}

// DefaultParams returns a configuration suitable for tests and development
// networks: one check-in per day with a small streak-scaled reward.
func DefaultParams() *Params {
	return &Params{
		CheckInCap:   1,
		VoteCap:      1,
		CheerCap:     3,
		PredictCap:   1,
		BaseReward:   big.NewInt(100),
		StreakBonus:  big.NewInt(10),
		MaxBonusDays: 30,
	}
}

// Clone produces a deep copy of the parameters.
func (p *Params) Clone() *Params {
	if p == nil {
		return nil
	}
	clone := *p
	if p.BaseReward != nil {
		clone.BaseReward = new(big.Int).Set(p.BaseReward)
	} else {
		clone.BaseReward = big.NewInt(0)
	}
	if p.StreakBonus != nil {
		clone.StreakBonus = new(big.Int).Set(p.StreakBonus)
	} else {
		clone.StreakBonus = big.NewInt(0)
	}
	return &clone
}

// Validate ensures the parameters fall within safe operating ranges.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("nil checkin params")
	}
	if p.CheckInCap == 0 {
		return fmt.Errorf("check-in cap must be positive")
	}
	if p.VoteCap == 0 {
		return fmt.Errorf("vote cap must be positive")
	}
	if p.CheerCap == 0 {
		return fmt.Errorf("cheer cap must be positive")
	}
	if p.PredictCap == 0 {
		return fmt.Errorf("predict cap must be positive")
	}
	if p.BaseReward == nil || p.BaseReward.Sign() < 0 {
		return fmt.Errorf("base reward must not be negative")
	}
	if p.StreakBonus == nil || p.StreakBonus.Sign() < 0 {
		return fmt.Errorf("streak bonus must not be negative")
	}
	return nil
}

// RewardFor computes the check-in payout for the given streak length: the
// base reward plus the per-day bonus for each consecutive day beyond the
// first, capped at MaxBonusDays.
func (p *Params) RewardFor(current uint64) *big.Int {
	if p == nil || p.BaseReward == nil {
		return big.NewInt(0)
	}
	reward := new(big.Int).Set(p.BaseReward)
	if p.StreakBonus == nil || p.StreakBonus.Sign() == 0 || current <= 1 {
		return reward
	}
	bonusDays := current - 1
	if p.MaxBonusDays > 0 && bonusDays > p.MaxBonusDays {
		bonusDays = p.MaxBonusDays
	}
	bonus := new(big.Int).Mul(p.StreakBonus, new(big.Int).SetUint64(bonusDays))
	return reward.Add(reward, bonus)
}
