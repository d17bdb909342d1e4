package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wormychain/native/checkin"
	"wormychain/native/common"
	"wormychain/native/daily"
	"wormychain/native/faucet"
	"wormychain/native/garage"
	"wormychain/native/lottery"
	"wormychain/native/vesting"
	"wormychain/observability/metrics"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeRateLimited    = -32020
	codePaused         = -32021
)

// Server exposes the native module engines over JSON-RPC.
type Server struct {
	garage  *garage.Engine
	checkin *checkin.Engine
	faucet  *faucet.Engine
	vesting *vesting.Engine

	logger  *slog.Logger
	metrics *metrics.WormyMetrics
}

// NewServer wires the engines into a server. A nil logger falls back to the
// process default.
func NewServer(garageEngine *garage.Engine, checkinEngine *checkin.Engine, faucetEngine *faucet.Engine, vestingEngine *vesting.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		garage:  garageEngine,
		checkin: checkinEngine,
		faucet:  faucetEngine,
		vesting: vestingEngine,
		logger:  logger,
		metrics: metrics.Wormy(),
	}
}

// Handler returns the HTTP handler serving the RPC endpoint together with the
// health and metrics endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start serves requests on addr until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting JSON-RPC server", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, nil, codeInvalidRequest, "POST required", nil)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "failed to read request body", err.Error())
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	started := time.Now()
	s.dispatch(w, r, &req)
	s.metrics.ObserveRequest(method, time.Since(started).Seconds())
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	switch req.Method {
	case "garage_pitStop":
		s.handleGaragePitStop(w, r, req)
	case "garage_race":
		s.handleGarageRace(w, r, req)
	case "garage_claimFuel":
		s.handleGarageClaimFuel(w, r, req)
	case "garage_getUsage":
		s.handleGarageGetUsage(w, r, req)
	case "garage_getScore":
		s.handleGarageGetScore(w, r, req)
	case "garage_getParams":
		s.handleGarageGetParams(w, r, req)
	case "garage_setDailyCaps":
		s.handleGarageSetDailyCaps(w, r, req)
	case "garage_setSeason":
		s.handleGarageSetSeason(w, r, req)
	case "garage_setRacePoints":
		s.handleGarageSetRacePoints(w, r, req)
	case "garage_setPitStopPoints":
		s.handleGarageSetPitStopPoints(w, r, req)
	case "garage_setFuelReward":
		s.handleGarageSetFuelReward(w, r, req)
	case "garage_setPaused":
		s.handleGarageSetPaused(w, r, req)
	case "checkin_checkIn":
		s.handleCheckinCheckIn(w, r, req)
	case "checkin_vote":
		s.handleCheckinVote(w, r, req)
	case "checkin_cheer":
		s.handleCheckinCheer(w, r, req)
	case "checkin_predict":
		s.handleCheckinPredict(w, r, req)
	case "checkin_getStreak":
		s.handleCheckinGetStreak(w, r, req)
	case "checkin_getParams":
		s.handleCheckinGetParams(w, r, req)
	case "checkin_setDailyCaps":
		s.handleCheckinSetDailyCaps(w, r, req)
	case "checkin_setRewards":
		s.handleCheckinSetRewards(w, r, req)
	case "checkin_setPaused":
		s.handleCheckinSetPaused(w, r, req)
	case "faucet_claim":
		s.handleFaucetClaim(w, r, req)
	case "faucet_getClaims":
		s.handleFaucetGetClaims(w, r, req)
	case "faucet_getParams":
		s.handleFaucetGetParams(w, r, req)
	case "faucet_setPayoutRange":
		s.handleFaucetSetPayoutRange(w, r, req)
	case "faucet_setClaimsPerDay":
		s.handleFaucetSetClaimsPerDay(w, r, req)
	case "faucet_setPaused":
		s.handleFaucetSetPaused(w, r, req)
	case "vesting_createSchedule":
		s.handleVestingCreateSchedule(w, r, req)
	case "vesting_release":
		s.handleVestingRelease(w, r, req)
	case "vesting_revoke":
		s.handleVestingRevoke(w, r, req)
	case "vesting_getSchedule":
		s.handleVestingGetSchedule(w, r, req)
	case "vesting_getReleasable":
		s.handleVestingGetReleasable(w, r, req)
	case "vesting_getVestedAt":
		s.handleVestingGetVestedAt(w, r, req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("unknown method %s", req.Method), nil)
	}
}

// decodeSingleParam unmarshals the single parameter object every method takes.
func decodeSingleParam(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("exactly one parameter object expected")
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return fmt.Errorf("invalid parameter object: %w", err)
	}
	return nil
}

func decodeAddress(s string) ([20]byte, error) {
	trimmed := strings.TrimSpace(s)
	if !gethcommon.IsHexAddress(trimmed) {
		return [20]byte{}, fmt.Errorf("invalid address %q", s)
	}
	return gethcommon.HexToAddress(trimmed), nil
}

func decodeSignature(s string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if trimmed == "" {
		return nil, nil
	}
	return hex.DecodeString(trimmed)
}

// writeEngineError maps module errors onto RPC error codes.
func (s *Server) writeEngineError(w http.ResponseWriter, id interface{}, module string, err error) {
	var (
		status = http.StatusInternalServerError
		code   = codeServerError
		reason = "internal"
	)
	switch {
	case errors.Is(err, daily.ErrRateLimitExceeded):
		status, code, reason = http.StatusTooManyRequests, codeRateLimited, "rate_limited"
	case errors.Is(err, garage.ErrPaused), errors.Is(err, checkin.ErrPaused), errors.Is(err, faucet.ErrPaused):
		status, code, reason = http.StatusServiceUnavailable, codePaused, "paused"
	case errors.Is(err, garage.ErrUnauthorized), errors.Is(err, checkin.ErrUnauthorized),
		errors.Is(err, faucet.ErrUnauthorized), errors.Is(err, vesting.ErrUnauthorized):
		status, code, reason = http.StatusForbidden, codeUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrIdentityRejected):
		status, code, reason = http.StatusForbidden, codeUnauthorized, "identity_rejected"
	case errors.Is(err, common.ErrInsufficientPool):
		status, code, reason = http.StatusConflict, codeServerError, "insufficient_pool"
	case errors.Is(err, common.ErrReentrantCall):
		status, code, reason = http.StatusConflict, codeServerError, "reentrant"
	case errors.Is(err, lottery.ErrInvalidRange), errors.Is(err, daily.ErrInvalidCap):
		status, code, reason = http.StatusBadRequest, codeInvalidParams, "invalid_params"
	case errors.Is(err, garage.ErrInvalidParams), errors.Is(err, checkin.ErrInvalidParams),
		errors.Is(err, faucet.ErrInvalidParams), errors.Is(err, vesting.ErrInvalidSchedule):
		status, code, reason = http.StatusBadRequest, codeInvalidParams, "invalid_params"
	case errors.Is(err, checkin.ErrEmptyChoice):
		status, code, reason = http.StatusBadRequest, codeInvalidParams, "empty_choice"
	case errors.Is(err, vesting.ErrScheduleNotFound):
		status, code, reason = http.StatusNotFound, codeServerError, "not_found"
	case errors.Is(err, vesting.ErrScheduleExists):
		status, code, reason = http.StatusConflict, codeServerError, "exists"
	case errors.Is(err, vesting.ErrScheduleRevoked):
		status, code, reason = http.StatusConflict, codeServerError, "revoked"
	case errors.Is(err, vesting.ErrNothingToRelease):
		status, code, reason = http.StatusConflict, codeServerError, "nothing_to_release"
	}
	s.metrics.ObserveRejection(module, reason)
	if status >= http.StatusInternalServerError {
		s.logger.Error("rpc call failed", "module", module, "error", err)
	}
	writeError(w, status, id, code, err.Error(), nil)
}
