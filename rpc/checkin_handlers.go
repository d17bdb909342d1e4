package rpc

import (
	"math/big"
	"net/http"
	"strings"

	"wormychain/native/checkin"
)

type checkinActionParams struct {
	Player    string `json:"player"`
	Signature string `json:"signature,omitempty"`
	Option    string `json:"option,omitempty"`
	Target    string `json:"target,omitempty"`
	Pick      string `json:"pick,omitempty"`
}

type checkinQueryParams struct {
	Player string `json:"player"`
}

type checkinCapsParams struct {
	Caller     string `json:"caller"`
	CheckInCap uint32 `json:"checkInCap"`
	VoteCap    uint32 `json:"voteCap"`
	CheerCap   uint32 `json:"cheerCap"`
	PredictCap uint32 `json:"predictCap"`
}

type checkinRewardsParams struct {
	Caller       string `json:"caller"`
	BaseReward   string `json:"baseReward"`
	StreakBonus  string `json:"streakBonus"`
	MaxBonusDays uint64 `json:"maxBonusDays"`
}

type checkinPausedParams struct {
	Caller string `json:"caller"`
	Paused bool   `json:"paused"`
}

type checkinResult struct {
	Day     uint64 `json:"day"`
	Current uint64 `json:"current"`
	Max     uint64 `json:"max"`
	Reward  string `json:"reward"`
}

type checkinActionResult struct {
	Day   uint64 `json:"day"`
	Count uint32 `json:"count"`
}

type checkinStreakResult struct {
	Current        uint64 `json:"current"`
	Max            uint64 `json:"max"`
	LastDay        uint64 `json:"lastDay"`
	CheckedInToday bool   `json:"checkedInToday"`
	NextResetIn    int64  `json:"nextResetIn"`
}

type checkinParamsResult struct {
	Paused       bool   `json:"paused"`
	CheckInCap   uint32 `json:"checkInCap"`
	VoteCap      uint32 `json:"voteCap"`
	CheerCap     uint32 `json:"cheerCap"`
	PredictCap   uint32 `json:"predictCap"`
	BaseReward   string `json:"baseReward"`
	StreakBonus  string `json:"streakBonus"`
	MaxBonusDays uint64 `json:"maxBonusDays"`
}

func checkinParamsResultFrom(p *checkin.Params) *checkinParamsResult {
	base, bonus := "0", "0"
	if p.BaseReward != nil {
		base = p.BaseReward.String()
	}
	if p.StreakBonus != nil {
		bonus = p.StreakBonus.String()
	}
	return &checkinParamsResult{
		Paused:       p.Paused,
		CheckInCap:   p.CheckInCap,
		VoteCap:      p.VoteCap,
		CheerCap:     p.CheerCap,
		PredictCap:   p.PredictCap,
		BaseReward:   base,
		StreakBonus:  bonus,
		MaxBonusDays: p.MaxBonusDays,
	}
}

func (s *Server) handleCheckinCheckIn(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params checkinActionParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	player, err := decodeAddress(params.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid player address", err.Error())
		return
	}
	sig, err := decodeSignature(params.Signature)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid signature", err.Error())
		return
	}
	res, err := s.checkin.CheckIn(player, sig)
	if err != nil {
		s.writeEngineError(w, req.ID, "checkin", err)
		return
	}
	s.metrics.ObserveAction("checkin", checkin.ActionCheckIn.String())
	s.metrics.ObserveStreak(strings.ToLower(params.Player), res.Current)
	reward := new(big.Int)
	if res.Reward != nil {
		reward.Set(res.Reward)
	}
	s.metrics.ObservePayout("checkin", float64(reward.Uint64()))
	writeResult(w, req.ID, &checkinResult{
		Day:     res.Day,
		Current: res.Current,
		Max:     res.Max,
		Reward:  reward.String(),
	})
}

func (s *Server) handleCheckinVote(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params checkinActionParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	player, err := decodeAddress(params.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid player address", err.Error())
		return
	}
	sig, err := decodeSignature(params.Signature)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid signature", err.Error())
		return
	}
	res, err := s.checkin.Vote(player, sig, params.Option)
	if err != nil {
		s.writeEngineError(w, req.ID, "checkin", err)
		return
	}
	s.metrics.ObserveAction("checkin", checkin.ActionVote.String())
	writeResult(w, req.ID, &checkinActionResult{Day: res.Day, Count: res.Count})
}

func (s *Server) handleCheckinCheer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params checkinActionParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	player, err := decodeAddress(params.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid player address", err.Error())
		return
	}
	target, err := decodeAddress(params.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid target address", err.Error())
		return
	}
	sig, err := decodeSignature(params.Signature)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid signature", err.Error())
		return
	}
	res, err := s.checkin.Cheer(player, sig, target)
	if err != nil {
		s.writeEngineError(w, req.ID, "checkin", err)
		return
	}
	s.metrics.ObserveAction("checkin", checkin.ActionCheer.String())
	writeResult(w, req.ID, &checkinActionResult{Day: res.Day, Count: res.Count})
}

func (s *Server) handleCheckinPredict(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params checkinActionParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	player, err := decodeAddress(params.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid player address", err.Error())
		return
	}
	sig, err := decodeSignature(params.Signature)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid signature", err.Error())
		return
	}
	res, err := s.checkin.Predict(player, sig, params.Pick)
	if err != nil {
		s.writeEngineError(w, req.ID, "checkin", err)
		return
	}
	s.metrics.ObserveAction("checkin", checkin.ActionPredict.String())
	writeResult(w, req.ID, &checkinActionResult{Day: res.Day, Count: res.Count})
}

func (s *Server) handleCheckinGetStreak(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params checkinQueryParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	player, err := decodeAddress(params.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid player address", err.Error())
		return
	}
	record, err := s.checkin.Streak(player)
	if err != nil {
		s.writeEngineError(w, req.ID, "checkin", err)
		return
	}
	today, err := s.checkin.CheckedInToday(player)
	if err != nil {
		s.writeEngineError(w, req.ID, "checkin", err)
		return
	}
	writeResult(w, req.ID, &checkinStreakResult{
		Current:        record.Current,
		Max:            record.Max,
		LastDay:        record.LastDay,
		CheckedInToday: today,
		NextResetIn:    s.checkin.NextResetIn(),
	})
}

func (s *Server) handleCheckinGetParams(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	params, err := s.checkin.Params()
	if err != nil {
		s.writeEngineError(w, req.ID, "checkin", err)
		return
	}
	writeResult(w, req.ID, checkinParamsResultFrom(params))
}

func (s *Server) handleCheckinSetDailyCaps(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params checkinCapsParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	updated, err := s.checkin.SetDailyCaps(caller, params.CheckInCap, params.VoteCap, params.CheerCap, params.PredictCap)
	if err != nil {
		s.writeEngineError(w, req.ID, "checkin", err)
		return
	}
	writeResult(w, req.ID, checkinParamsResultFrom(updated))
}

func (s *Server) handleCheckinSetRewards(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params checkinRewardsParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	base, ok := new(big.Int).SetString(strings.TrimSpace(params.BaseReward), 10)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid base reward", params.BaseReward)
		return
	}
	bonus, ok := new(big.Int).SetString(strings.TrimSpace(params.StreakBonus), 10)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid streak bonus", params.StreakBonus)
		return
	}
	updated, err := s.checkin.SetRewards(caller, base, bonus, params.MaxBonusDays)
	if err != nil {
		s.writeEngineError(w, req.ID, "checkin", err)
		return
	}
	writeResult(w, req.ID, checkinParamsResultFrom(updated))
}

func (s *Server) handleCheckinSetPaused(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params checkinPausedParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	updated, err := s.checkin.SetPaused(caller, params.Paused)
	if err != nil {
		s.writeEngineError(w, req.ID, "checkin", err)
		return
	}
	writeResult(w, req.ID, checkinParamsResultFrom(updated))
}
