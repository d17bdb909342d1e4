package rpc

import (
	"encoding/hex"
	"math/big"
	"net/http"
	"strings"

	"wormychain/native/vesting"
)

type vestingCreateParams struct {
	Caller      string `json:"caller"`
	Beneficiary string `json:"beneficiary"`
	Start       int64  `json:"start"`
	Duration    int64  `json:"duration"`
	Total       string `json:"total"`
}

type vestingBeneficiaryParams struct {
	Beneficiary string `json:"beneficiary"`
}

type vestingVestedAtParams struct {
	Beneficiary string `json:"beneficiary"`
	At          int64  `json:"at"`
}

type vestingRevokeParams struct {
	Caller      string `json:"caller"`
	Beneficiary string `json:"beneficiary"`
}

type vestingScheduleResult struct {
	Beneficiary string `json:"beneficiary"`
	Start       int64  `json:"start"`
	Duration    int64  `json:"duration"`
	Total       string `json:"total"`
	Claimed     string `json:"claimed"`
	Revoked     bool   `json:"revoked"`
	CreatedAt   int64  `json:"createdAt"`
}

type vestingAmountResult struct {
	Amount string `json:"amount"`
}

func vestingScheduleResultFrom(schedule *vesting.Schedule) *vestingScheduleResult {
	total, claimed := "0", "0"
	if schedule.Total != nil {
		total = schedule.Total.String()
	}
	if schedule.Claimed != nil {
		claimed = schedule.Claimed.String()
	}
	return &vestingScheduleResult{
		Beneficiary: "0x" + hex.EncodeToString(schedule.Beneficiary[:]),
		Start:       schedule.Start,
		Duration:    schedule.Duration,
		Total:       total,
		Claimed:     claimed,
		Revoked:     schedule.Revoked,
		CreatedAt:   schedule.CreatedAt,
	}
}

func (s *Server) handleVestingCreateSchedule(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params vestingCreateParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	beneficiary, err := decodeAddress(params.Beneficiary)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid beneficiary address", err.Error())
		return
	}
	total, ok := new(big.Int).SetString(strings.TrimSpace(params.Total), 10)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid total amount", params.Total)
		return
	}
	schedule, err := s.vesting.CreateSchedule(caller, beneficiary, params.Start, params.Duration, total)
	if err != nil {
		s.writeEngineError(w, req.ID, "vesting", err)
		return
	}
	s.metrics.ObserveAction("vesting", "create")
	writeResult(w, req.ID, vestingScheduleResultFrom(schedule))
}

func (s *Server) handleVestingRelease(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params vestingBeneficiaryParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	beneficiary, err := decodeAddress(params.Beneficiary)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid beneficiary address", err.Error())
		return
	}
	amount, err := s.vesting.Release(beneficiary)
	if err != nil {
		s.writeEngineError(w, req.ID, "vesting", err)
		return
	}
	s.metrics.ObserveAction("vesting", "release")
	s.metrics.ObservePayout("vesting", float64(amount.Uint64()))
	writeResult(w, req.ID, &vestingAmountResult{Amount: amount.String()})
}

func (s *Server) handleVestingRevoke(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params vestingRevokeParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	beneficiary, err := decodeAddress(params.Beneficiary)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid beneficiary address", err.Error())
		return
	}
	remainder, err := s.vesting.Revoke(caller, beneficiary)
	if err != nil {
		s.writeEngineError(w, req.ID, "vesting", err)
		return
	}
	s.metrics.ObserveAction("vesting", "revoke")
	writeResult(w, req.ID, &vestingAmountResult{Amount: remainder.String()})
}

func (s *Server) handleVestingGetSchedule(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params vestingBeneficiaryParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	beneficiary, err := decodeAddress(params.Beneficiary)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid beneficiary address", err.Error())
		return
	}
	schedule, err := s.vesting.Schedule(beneficiary)
	if err != nil {
		s.writeEngineError(w, req.ID, "vesting", err)
		return
	}
	writeResult(w, req.ID, vestingScheduleResultFrom(schedule))
}

func (s *Server) handleVestingGetVestedAt(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params vestingVestedAtParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	beneficiary, err := decodeAddress(params.Beneficiary)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid beneficiary address", err.Error())
		return
	}
	amount, err := s.vesting.VestedAt(beneficiary, params.At)
	if err != nil {
		s.writeEngineError(w, req.ID, "vesting", err)
		return
	}
	writeResult(w, req.ID, &vestingAmountResult{Amount: amount.String()})
}

func (s *Server) handleVestingGetReleasable(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params vestingBeneficiaryParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	beneficiary, err := decodeAddress(params.Beneficiary)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid beneficiary address", err.Error())
		return
	}
	amount, err := s.vesting.Releasable(beneficiary)
	if err != nil {
		s.writeEngineError(w, req.ID, "vesting", err)
		return
	}
	writeResult(w, req.ID, &vestingAmountResult{Amount: amount.String()})
}
