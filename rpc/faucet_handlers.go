package rpc

import (
	"math/big"
	"net/http"

	"wormychain/native/faucet"
)

type faucetClaimParams struct {
	Claimer   string `json:"claimer"`
	Signature string `json:"signature,omitempty"`
}

type faucetQueryParams struct {
	Claimer string  `json:"claimer"`
	Day     *uint64 `json:"day,omitempty"`
}

type faucetRangeParams struct {
	Caller    string `json:"caller"`
	MinPayout uint64 `json:"minPayout"`
	MaxPayout uint64 `json:"maxPayout"`
}

type faucetClaimsParams struct {
	Caller       string `json:"caller"`
	ClaimsPerDay uint32 `json:"claimsPerDay"`
}

type faucetPausedParams struct {
	Caller string `json:"caller"`
	Paused bool   `json:"paused"`
}

type faucetClaimResult struct {
	Day    uint64 `json:"day"`
	Count  uint32 `json:"count"`
	Amount string `json:"amount"`
}

type faucetClaimsResult struct {
	Count       uint32 `json:"count"`
	NextClaimIn int64  `json:"nextClaimIn"`
}

type faucetParamsResult struct {
	Paused       bool   `json:"paused"`
	ClaimsPerDay uint32 `json:"claimsPerDay"`
	MinPayout    uint64 `json:"minPayout"`
	MaxPayout    uint64 `json:"maxPayout"`
}

func faucetParamsResultFrom(p *faucet.Params) *faucetParamsResult {
	return &faucetParamsResult{
		Paused:       p.Paused,
		ClaimsPerDay: p.ClaimsPerDay,
		MinPayout:    p.MinPayout,
		MaxPayout:    p.MaxPayout,
	}
}

func (s *Server) handleFaucetClaim(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params faucetClaimParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	claimer, err := decodeAddress(params.Claimer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid claimer address", err.Error())
		return
	}
	sig, err := decodeSignature(params.Signature)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid signature", err.Error())
		return
	}
	res, err := s.faucet.Claim(claimer, sig)
	if err != nil {
		s.writeEngineError(w, req.ID, "faucet", err)
		return
	}
	s.metrics.ObserveAction("faucet", "claim")
	amount := new(big.Int)
	if res.Amount != nil {
		amount.Set(res.Amount)
	}
	s.metrics.ObservePayout("faucet", float64(amount.Uint64()))
	writeResult(w, req.ID, &faucetClaimResult{
		Day:    res.Day,
		Count:  res.Count,
		Amount: amount.String(),
	})
}

func (s *Server) handleFaucetGetClaims(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params faucetQueryParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	claimer, err := decodeAddress(params.Claimer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid claimer address", err.Error())
		return
	}
	var count uint32
	if params.Day != nil {
		count, err = s.faucet.ClaimsOn(claimer, *params.Day)
	} else {
		count, err = s.faucet.ClaimsToday(claimer)
	}
	if err != nil {
		s.writeEngineError(w, req.ID, "faucet", err)
		return
	}
	writeResult(w, req.ID, &faucetClaimsResult{
		Count:       count,
		NextClaimIn: s.faucet.NextClaimIn(),
	})
}

func (s *Server) handleFaucetGetParams(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	params, err := s.faucet.Params()
	if err != nil {
		s.writeEngineError(w, req.ID, "faucet", err)
		return
	}
	writeResult(w, req.ID, faucetParamsResultFrom(params))
}

func (s *Server) handleFaucetSetPayoutRange(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params faucetRangeParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	updated, err := s.faucet.SetPayoutRange(caller, params.MinPayout, params.MaxPayout)
	if err != nil {
		s.writeEngineError(w, req.ID, "faucet", err)
		return
	}
	writeResult(w, req.ID, faucetParamsResultFrom(updated))
}

func (s *Server) handleFaucetSetClaimsPerDay(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params faucetClaimsParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	updated, err := s.faucet.SetClaimsPerDay(caller, params.ClaimsPerDay)
	if err != nil {
		s.writeEngineError(w, req.ID, "faucet", err)
		return
	}
	writeResult(w, req.ID, faucetParamsResultFrom(updated))
}

func (s *Server) handleFaucetSetPaused(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params faucetPausedParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	updated, err := s.faucet.SetPaused(caller, params.Paused)
	if err != nil {
		s.writeEngineError(w, req.ID, "faucet", err)
		return
	}
	writeResult(w, req.ID, faucetParamsResultFrom(updated))
}
