package faucet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"wormychain/core/events"
	"wormychain/core/types"
	"wormychain/native/common"
	"wormychain/native/daily"
	"wormychain/native/lottery"
)

var (
	ErrNilState      = errors.New("faucet: state not configured")
	ErrUnauthorized  = errors.New("faucet: unauthorized")
	ErrPaused        = errors.New("faucet: module paused")
	ErrInvalidParams = errors.New("faucet: invalid params")
)

type engineState interface {
	FaucetParamsGet() (*Params, bool, error)
	FaucetParamsPut(params *Params) error
	FaucetUsageGet(claimer [20]byte) (daily.UsageRecord, bool, error)
	FaucetUsagePut(claimer [20]byte, rec daily.UsageRecord) error
}

// ClaimResult reports the outcome of a successful faucet claim.
type ClaimResult struct {
	Day    uint64
	Count  uint32
	Amount *big.Int
}

// Engine wires the randomized daily faucet with persistence, the identity
// oracle, the token ledger and event emission. Payout amounts come from the
// lottery package and inherit its documented entropy weakness.
type Engine struct {
	state     engineState
	verifier  common.Verifier
	ledger    common.Ledger
	emitter   events.Emitter
	guard     common.CallGuard
	nowFn     func() int64
	entropyFn func() [32]byte
	admin     [20]byte
	pool      [20]byte
	module    [20]byte
}

// NewEngine constructs a faucet engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter:   events.NoopEmitter{},
		nowFn:     func() int64 { return time.Now().Unix() },
		entropyFn: func() [32]byte { return [32]byte{} },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetVerifier configures the proof-of-humanity oracle.
func (e *Engine) SetVerifier(v common.Verifier) { e.verifier = v }

// SetLedger configures the token ledger collaborator.
func (e *Engine) SetLedger(ledger common.Ledger) { e.ledger = ledger }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEntropyFunc configures the block entropy source used for payout draws.
func (e *Engine) SetEntropyFunc(entropy func() [32]byte) {
	if entropy == nil {
		e.entropyFn = func() [32]byte { return [32]byte{} }
		return
	}
	e.entropyFn = entropy
}

// SetAdmin configures the administrator identity for parameter changes.
func (e *Engine) SetAdmin(addr [20]byte) { e.admin = addr }

// SetPool configures the funding account claims are paid from.
func (e *Engine) SetPool(addr [20]byte) { e.pool = addr }

// SetModuleAddress configures the module's own address mixed into draws.
func (e *Engine) SetModuleAddress(addr [20]byte) { e.module = addr }

func (e *Engine) emit(evt *types.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(WrapEvent(evt))
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func hexAddr(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}

func (e *Engine) params() (*Params, error) {
	params, ok, err := e.state.FaucetParamsGet()
	if err != nil {
		return nil, err
	}
	if !ok || params == nil {
		return DefaultParams(), nil
	}
	return params.Clone(), nil
}

// Claim draws a random payout and transfers it from the pool. A claimer may
// claim at most the configured number of times per day bucket; a failed claim
// leaves the allowance untouched.
func (e *Engine) Claim(claimer [20]byte, sig []byte) (*ClaimResult, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	params, err := e.params()
	if err != nil {
		return nil, err
	}
	if params.Paused {
		return nil, ErrPaused
	}
	if err := common.VerifyIdentity(e.verifier, sig, claimer); err != nil {
		return nil, err
	}
	if err := e.guard.Enter(); err != nil {
		return nil, err
	}
	defer e.guard.Exit()

	now := e.now()
	today := daily.Index(now)
	rec, _, err := e.state.FaucetUsageGet(claimer)
	if err != nil {
		return nil, err
	}
	next, err := daily.Consume(rec, today, params.ClaimsPerDay)
	if err != nil {
		return nil, err
	}

	seed := lottery.Seed{BlockTime: now, Entropy: e.entropyFn(), Module: e.module}
	drawn, err := lottery.Draw(claimer, seed, params.MinPayout, params.MaxPayout)
	if err != nil {
		return nil, err
	}
	amount := new(big.Int).SetUint64(drawn)
	if err := common.PayOut(e.ledger, e.pool, claimer, amount); err != nil {
		return nil, err
	}
	if err := e.state.FaucetUsagePut(claimer, next); err != nil {
		return nil, err
	}
	e.emit(ClaimedEvent(hexAddr(claimer), today, next.Count, amount.String()))
	return &ClaimResult{Day: today, Count: next.Count, Amount: amount}, nil
}

// ClaimsOn reports a claimer's usage for an arbitrary day index.
func (e *Engine) ClaimsOn(claimer [20]byte, day uint64) (uint32, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	rec, _, err := e.state.FaucetUsageGet(claimer)
	if err != nil {
		return 0, err
	}
	return rec.CountOn(day), nil
}

// ClaimsToday reports a claimer's usage for the current day.
func (e *Engine) ClaimsToday(claimer [20]byte) (uint32, error) {
	return e.ClaimsOn(claimer, daily.Index(e.now()))
}

// NextClaimIn reports the seconds remaining until the daily allowance resets.
func (e *Engine) NextClaimIn() int64 {
	return daily.SecondsUntilRollover(e.now())
}

// Params returns the current module configuration.
func (e *Engine) Params() (*Params, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	return e.params()
}

func (e *Engine) updateParams(caller [20]byte, field string, mutate func(p *Params) (string, string)) (*Params, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if caller != e.admin {
		return nil, ErrUnauthorized
	}
	params, err := e.params()
	if err != nil {
		return nil, err
	}
	before, after := mutate(params)
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := e.state.FaucetParamsPut(params); err != nil {
		return nil, err
	}
	e.emit(ParamsUpdatedEvent(hexAddr(caller), field, before, after))
	return params.Clone(), nil
}

// SetPayoutRange updates the inclusive payout bounds.
func (e *Engine) SetPayoutRange(caller [20]byte, min, max uint64) (*Params, error) {
	return e.updateParams(caller, "payoutRange", func(p *Params) (string, string) {
		before := fmt.Sprintf("[%d,%d]", p.MinPayout, p.MaxPayout)
		p.MinPayout, p.MaxPayout = min, max
		return before, fmt.Sprintf("[%d,%d]", min, max)
	})
}

// SetClaimsPerDay updates the daily claim allowance.
func (e *Engine) SetClaimsPerDay(caller [20]byte, claims uint32) (*Params, error) {
	return e.updateParams(caller, "claimsPerDay", func(p *Params) (string, string) {
		before := strconv.FormatUint(uint64(p.ClaimsPerDay), 10)
		p.ClaimsPerDay = claims
		return before, strconv.FormatUint(uint64(claims), 10)
	})
}

// SetPaused toggles the module on or off.
func (e *Engine) SetPaused(caller [20]byte, paused bool) (*Params, error) {
	return e.updateParams(caller, "paused", func(p *Params) (string, string) {
		before := strconv.FormatBool(p.Paused)
		p.Paused = paused
		return before, strconv.FormatBool(paused)
	})
}
