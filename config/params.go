package config

import (
	"math/big"

	"wormychain/native/checkin"
	"wormychain/native/faucet"
	"wormychain/native/garage"
)

// Params converts the section into engine parameters.
func (c GarageConfig) Params() *garage.Params {
	return &garage.Params{
		Paused:        c.Paused,
		PitStopCap:    c.PitStopCap,
		RaceCap:       c.RaceCap,
		FuelClaimCap:  c.FuelClaimCap,
		PitStopPoints: c.PitStopPoints,
		RaceMinPoints: c.RaceMinPoints,
		RaceMaxPoints: c.RaceMaxPoints,
		FuelReward:    new(big.Int).SetUint64(c.FuelReward),
		Season:        c.Season,
	}
}

// Params converts the section into engine parameters.
func (c CheckinConfig) Params() *checkin.Params {
	return &checkin.Params{
		Paused:       c.Paused,
		CheckInCap:   c.CheckInCap,
		VoteCap:      c.VoteCap,
		CheerCap:     c.CheerCap,
		PredictCap:   c.PredictCap,
		BaseReward:   new(big.Int).SetUint64(c.BaseReward),
		StreakBonus:  new(big.Int).SetUint64(c.StreakBonus),
		MaxBonusDays: uint64(c.MaxBonusDays),
	}
}

// Params converts the section into engine parameters.
func (c FaucetConfig) Params() *faucet.Params {
	return &faucet.Params{
		Paused:       c.Paused,
		ClaimsPerDay: c.ClaimsPerDay,
		MinPayout:    c.MinPayout,
		MaxPayout:    c.MaxPayout,
	}
}
