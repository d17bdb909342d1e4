package garage

import (
	"fmt"
	"math/big"
)

// Params controls the garage module behaviour. All values are mutable only by
// the administrator; caps gate how often each action may run per identity per
// day bucket.
type Params struct {
	Paused        bool     `json:"paused"`
	PitStopCap    uint32   `json:"pitStopCap"`
	RaceCap       uint32   `json:"raceCap"`
	FuelClaimCap  uint32   `json:"fuelClaimCap"`
	PitStopPoints uint64   `json:"pitStopPoints"`
	RaceMinPoints uint64   `json:"raceMinPoints"`
	RaceMaxPoints uint64   `json:"raceMaxPoints"`
	FuelReward    *big.Int `json:"fuelReward"`
	Season        uint64   `json:"season"`
}

// DefaultParams returns a configuration suitable for tests and development
// networks.
func DefaultParams() *Params {
	return &Params{
		PitStopCap:    3,
		RaceCap:       5,
		FuelClaimCap:  1,
		PitStopPoints: 10,
		RaceMinPoints: 5,
		RaceMaxPoints: 50,
		FuelReward:    big.NewInt(1_000),
		Season:        1,
	}
}

// Clone produces a deep copy of the parameters.
func (p *Params) Clone() *Params {
	if p == nil {
		return nil
	}
	clone := *p
	if p.FuelReward != nil {
		clone.FuelReward = new(big.Int).Set(p.FuelReward)
	} else {
		clone.FuelReward = big.NewInt(0)
	}
	return &clone
}

// Validate ensures the parameters fall within safe operating ranges. A zero
// cap is rejected here rather than interpreted as "always blocked"; pausing
// the module is the explicit way to block actions.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("nil garage params")
	}
	if p.PitStopCap == 0 {
		return fmt.Errorf("pit stop cap must be positive")
	}
	if p.RaceCap == 0 {
		return fmt.Errorf("race cap must be positive")
	}
	if p.FuelClaimCap == 0 {
		return fmt.Errorf("fuel claim cap must be positive")
	}
	if p.RaceMinPoints > p.RaceMaxPoints {
		return fmt.Errorf("race min points must not exceed max points")
	}
	if p.FuelReward == nil || p.FuelReward.Sign() <= 0 {
		return fmt.Errorf("fuel reward must be positive")
	}
	if p.Season == 0 {
		return fmt.Errorf("season must be positive")
	}
	return nil
}

func (p *Params) capFor(action Action) uint32 {
	switch action {
	case ActionPitStop:
		return p.PitStopCap
	case ActionRace:
		return p.RaceCap
	case ActionFuelClaim:
		return p.FuelClaimCap
	default:
		return 0
	}
}
