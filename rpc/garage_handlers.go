package rpc

import (
	"math/big"
	"net/http"
	"strings"

	"wormychain/native/garage"
)

type garageActionParams struct {
	Driver    string `json:"driver"`
	Signature string `json:"signature,omitempty"`
}

type garageUsageParams struct {
	Driver string  `json:"driver"`
	Action string  `json:"action"`
	Day    *uint64 `json:"day,omitempty"`
}

type garageScoreParams struct {
	Driver string  `json:"driver"`
	Season *uint64 `json:"season,omitempty"`
}

type garageCapsParams struct {
	Caller       string `json:"caller"`
	PitStopCap   uint32 `json:"pitStopCap"`
	RaceCap      uint32 `json:"raceCap"`
	FuelClaimCap uint32 `json:"fuelClaimCap"`
}

type garageSeasonParams struct {
	Caller string `json:"caller"`
	Season uint64 `json:"season"`
}

type garageRacePointsParams struct {
	Caller    string `json:"caller"`
	MinPoints uint64 `json:"minPoints"`
	MaxPoints uint64 `json:"maxPoints"`
}

type garagePointsParams struct {
	Caller string `json:"caller"`
	Points uint64 `json:"points"`
}

type garageRewardParams struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

type garagePausedParams struct {
	Caller string `json:"caller"`
	Paused bool   `json:"paused"`
}

type garageActionResult struct {
	Day          uint64 `json:"day"`
	Count        uint32 `json:"count"`
	Points       uint64 `json:"points,omitempty"`
	Season       uint64 `json:"season,omitempty"`
	SeasonPoints uint64 `json:"seasonPoints,omitempty"`
	Amount       string `json:"amount,omitempty"`
}

type garageUsageResult struct {
	Day         uint64 `json:"day"`
	Count       uint32 `json:"count"`
	NextResetIn int64  `json:"nextResetIn"`
}

type garageScoreResult struct {
	Season        uint64 `json:"season,omitempty"`
	SeasonScore   uint64 `json:"seasonScore"`
	LifetimeScore uint64 `json:"lifetimeScore"`
}

type garageParamsResult struct {
	Paused        bool   `json:"paused"`
	PitStopCap    uint32 `json:"pitStopCap"`
	RaceCap       uint32 `json:"raceCap"`
	FuelClaimCap  uint32 `json:"fuelClaimCap"`
	PitStopPoints uint64 `json:"pitStopPoints"`
	RaceMinPoints uint64 `json:"raceMinPoints"`
	RaceMaxPoints uint64 `json:"raceMaxPoints"`
	FuelReward    string `json:"fuelReward"`
	Season        uint64 `json:"season"`
}

func garageParamsResultFrom(p *garage.Params) *garageParamsResult {
	reward := "0"
	if p.FuelReward != nil {
		reward = p.FuelReward.String()
	}
	return &garageParamsResult{
		Paused:        p.Paused,
		PitStopCap:    p.PitStopCap,
		RaceCap:       p.RaceCap,
		FuelClaimCap:  p.FuelClaimCap,
		PitStopPoints: p.PitStopPoints,
		RaceMinPoints: p.RaceMinPoints,
		RaceMaxPoints: p.RaceMaxPoints,
		FuelReward:    reward,
		Season:        p.Season,
	}
}

func parseGarageAction(name string) (garage.Action, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pitstop", "pit_stop":
		return garage.ActionPitStop, true
	case "race":
		return garage.ActionRace, true
	case "fuelclaim", "fuel_claim", "fuel":
		return garage.ActionFuelClaim, true
	}
	return 0, false
}

func (s *Server) handleGaragePitStop(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garageActionParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	driver, err := decodeAddress(params.Driver)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid driver address", err.Error())
		return
	}
	sig, err := decodeSignature(params.Signature)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid signature", err.Error())
		return
	}
	res, err := s.garage.PitStop(driver, sig)
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	s.metrics.ObserveAction("garage", garage.ActionPitStop.String())
	writeResult(w, req.ID, &garageActionResult{
		Day:          res.Day,
		Count:        res.Count,
		Points:       res.Points,
		SeasonPoints: res.SeasonPoints,
	})
}

func (s *Server) handleGarageRace(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garageActionParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	driver, err := decodeAddress(params.Driver)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid driver address", err.Error())
		return
	}
	sig, err := decodeSignature(params.Signature)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid signature", err.Error())
		return
	}
	res, err := s.garage.Race(driver, sig)
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	s.metrics.ObserveAction("garage", garage.ActionRace.String())
	writeResult(w, req.ID, &garageActionResult{
		Day:          res.Day,
		Count:        res.Count,
		Points:       res.Points,
		Season:       res.Season,
		SeasonPoints: res.SeasonPoints,
	})
}

func (s *Server) handleGarageClaimFuel(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garageActionParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	driver, err := decodeAddress(params.Driver)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid driver address", err.Error())
		return
	}
	sig, err := decodeSignature(params.Signature)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid signature", err.Error())
		return
	}
	res, err := s.garage.ClaimFuel(driver, sig)
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	s.metrics.ObserveAction("garage", garage.ActionFuelClaim.String())
	amount := new(big.Int)
	if res.Amount != nil {
		amount.Set(res.Amount)
	}
	s.metrics.ObservePayout("garage", float64(amount.Uint64()))
	writeResult(w, req.ID, &garageActionResult{
		Day:    res.Day,
		Count:  res.Count,
		Amount: amount.String(),
	})
}

func (s *Server) handleGarageGetUsage(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garageUsageParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	driver, err := decodeAddress(params.Driver)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid driver address", err.Error())
		return
	}
	action, ok := parseGarageAction(params.Action)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "unknown action", params.Action)
		return
	}
	var (
		day   uint64
		count uint32
	)
	if params.Day != nil {
		day = *params.Day
		count, err = s.garage.UsageOn(driver, action, day)
	} else {
		count, err = s.garage.UsageToday(driver, action)
	}
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	writeResult(w, req.ID, &garageUsageResult{
		Day:         day,
		Count:       count,
		NextResetIn: s.garage.NextResetIn(),
	})
}

func (s *Server) handleGarageGetScore(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garageScoreParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	driver, err := decodeAddress(params.Driver)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid driver address", err.Error())
		return
	}
	lifetime, err := s.garage.LifetimeScore(driver)
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	result := &garageScoreResult{LifetimeScore: lifetime}
	if params.Season != nil {
		score, err := s.garage.SeasonScore(driver, *params.Season)
		if err != nil {
			s.writeEngineError(w, req.ID, "garage", err)
			return
		}
		result.Season = *params.Season
		result.SeasonScore = score
	}
	writeResult(w, req.ID, result)
}

func (s *Server) handleGarageGetParams(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	params, err := s.garage.Params()
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	writeResult(w, req.ID, garageParamsResultFrom(params))
}

func (s *Server) handleGarageSetDailyCaps(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garageCapsParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	updated, err := s.garage.SetDailyCaps(caller, params.PitStopCap, params.RaceCap, params.FuelClaimCap)
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	writeResult(w, req.ID, garageParamsResultFrom(updated))
}

func (s *Server) handleGarageSetSeason(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garageSeasonParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	updated, err := s.garage.SetSeason(caller, params.Season)
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	writeResult(w, req.ID, garageParamsResultFrom(updated))
}

func (s *Server) handleGarageSetRacePoints(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garageRacePointsParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	updated, err := s.garage.SetRacePoints(caller, params.MinPoints, params.MaxPoints)
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	writeResult(w, req.ID, garageParamsResultFrom(updated))
}

func (s *Server) handleGarageSetPitStopPoints(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garagePointsParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	updated, err := s.garage.SetPitStopPoints(caller, params.Points)
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	writeResult(w, req.ID, garageParamsResultFrom(updated))
}

func (s *Server) handleGarageSetFuelReward(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garageRewardParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	amount, ok := new(big.Int).SetString(strings.TrimSpace(params.Amount), 10)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid amount", params.Amount)
		return
	}
	updated, err := s.garage.SetFuelReward(caller, amount)
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	writeResult(w, req.ID, garageParamsResultFrom(updated))
}

func (s *Server) handleGarageSetPaused(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params garagePausedParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	updated, err := s.garage.SetPaused(caller, params.Paused)
	if err != nil {
		s.writeEngineError(w, req.ID, "garage", err)
		return
	}
	writeResult(w, req.ID, garageParamsResultFrom(updated))
}
