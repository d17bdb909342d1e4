package vesting

import (
	"encoding/hex"
	"math/big"
	"time"

	"wormychain/core/events"
	"wormychain/core/types"
	"wormychain/native/common"
)

type engineState interface {
	VestingScheduleGet(beneficiary [20]byte) (*Schedule, bool, error)
	VestingSchedulePut(schedule *Schedule) error
}

// Engine wires the vesting ledger business logic with persistence, the token
// ledger collaborator and event emission.
type Engine struct {
	state   engineState
	ledger  common.Ledger
	emitter events.Emitter
	guard   common.CallGuard
	nowFn   func() int64
	admin   [20]byte
	pool    [20]byte
}

// NewEngine constructs a vesting engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

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

// SetAdmin configures the administrator identity allowed to grant and revoke.
func (e *Engine) SetAdmin(addr [20]byte) { e.admin = addr }

// SetPool configures the funding account grants are paid from.
func (e *Engine) SetPool(addr [20]byte) { e.pool = addr }

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

// CreateSchedule grants a linear vesting schedule to the beneficiary. Only
// the administrator may grant; the start must lie strictly in the future and
// duration and total must both be positive. Re-creation for a beneficiary
// that already holds a schedule is rejected, revoked or not.
func (e *Engine) CreateSchedule(caller, beneficiary [20]byte, start, duration int64, total *big.Int) (*Schedule, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if caller != e.admin {
		return nil, ErrUnauthorized
	}
	now := e.now()
	if start <= now {
		return nil, ErrInvalidSchedule
	}
	if duration <= 0 {
		return nil, ErrInvalidSchedule
	}
	if total == nil || total.Sign() <= 0 {
		return nil, ErrInvalidSchedule
	}
	if _, ok, err := e.state.VestingScheduleGet(beneficiary); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrScheduleExists
	}
	schedule := &Schedule{
		Beneficiary: beneficiary,
		Start:       start,
		Duration:    duration,
		Total:       new(big.Int).Set(total),
		Claimed:     big.NewInt(0),
		CreatedAt:   now,
	}
	if err := e.state.VestingSchedulePut(schedule); err != nil {
		return nil, err
	}
	e.emit(ScheduleCreatedEvent(hexAddr(beneficiary), start, duration, schedule.Total.String()))
	return schedule.Clone(), nil
}

// Release pays the beneficiary everything vested but not yet claimed.
func (e *Engine) Release(beneficiary [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if err := e.guard.Enter(); err != nil {
		return nil, err
	}
	defer e.guard.Exit()

	schedule, ok, err := e.state.VestingScheduleGet(beneficiary)
	if err != nil {
		return nil, err
	}
	if !ok || schedule == nil {
		return nil, ErrScheduleNotFound
	}
	if schedule.Revoked {
		return nil, ErrScheduleRevoked
	}
	releasable := schedule.ReleasableAt(e.now())
	if releasable.Sign() <= 0 {
		return nil, ErrNothingToRelease
	}
	if err := common.PayOut(e.ledger, e.pool, beneficiary, releasable); err != nil {
		return nil, err
	}
	schedule.Claimed = new(big.Int).Add(schedule.Claimed, releasable)
	if err := e.state.VestingSchedulePut(schedule); err != nil {
		return nil, err
	}
	e.emit(ReleasedEvent(hexAddr(beneficiary), releasable.String(), schedule.Claimed.String()))
	return releasable, nil
}

// Revoke cancels a schedule irrevocably, sweeping the unclaimed remainder to
// the administrator. Only the administrator may revoke, only once, and only
// while something remains unclaimed.
func (e *Engine) Revoke(caller, beneficiary [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if caller != e.admin {
		return nil, ErrUnauthorized
	}
	if err := e.guard.Enter(); err != nil {
		return nil, err
	}
	defer e.guard.Exit()

	schedule, ok, err := e.state.VestingScheduleGet(beneficiary)
	if err != nil {
		return nil, err
	}
	if !ok || schedule == nil {
		return nil, ErrScheduleNotFound
	}
	if schedule.Revoked {
		return nil, ErrScheduleRevoked
	}
	remainder := schedule.Remainder()
	if remainder.Sign() <= 0 {
		return nil, ErrNothingToRelease
	}
	if err := common.PayOut(e.ledger, e.pool, e.admin, remainder); err != nil {
		return nil, err
	}
	schedule.Revoked = true
	schedule.Claimed = new(big.Int).Add(schedule.Claimed, remainder)
	if err := e.state.VestingSchedulePut(schedule); err != nil {
		return nil, err
	}
	e.emit(RevokedEvent(hexAddr(beneficiary), hexAddr(e.admin), remainder.String()))
	return remainder, nil
}

// Schedule returns a copy of the beneficiary's schedule.
func (e *Engine) Schedule(beneficiary [20]byte) (*Schedule, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	schedule, ok, err := e.state.VestingScheduleGet(beneficiary)
	if err != nil {
		return nil, err
	}
	if !ok || schedule == nil {
		return nil, ErrScheduleNotFound
	}
	return schedule.Clone(), nil
}

// Releasable reports what the beneficiary could claim right now.
func (e *Engine) Releasable(beneficiary [20]byte) (*big.Int, error) {
	schedule, err := e.Schedule(beneficiary)
	if err != nil {
		return nil, err
	}
	return schedule.ReleasableAt(e.now()), nil
}

// VestedAt reports the total vested amount at an arbitrary timestamp,
// revoked or not.
func (e *Engine) VestedAt(beneficiary [20]byte, at int64) (*big.Int, error) {
	schedule, err := e.Schedule(beneficiary)
	if err != nil {
		return nil, err
	}
	return schedule.VestedAt(at), nil
}
