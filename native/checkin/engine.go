package checkin

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"wormychain/core/events"
	"wormychain/core/types"
	"wormychain/native/common"
	"wormychain/native/daily"
	"wormychain/native/streak"
)

// Action enumerates the daily engagement actions.
type Action uint8

const (
	ActionCheckIn Action = iota
	ActionVote
	ActionCheer
	ActionPredict
)

// Valid reports whether the action is a known engagement action.
func (a Action) Valid() bool {
	switch a {
	case ActionCheckIn, ActionVote, ActionCheer, ActionPredict:
		return true
	default:
		return false
	}
}

func (a Action) String() string {
	switch a {
	case ActionCheckIn:
		return "checkin"
	case ActionVote:
		return "vote"
	case ActionCheer:
		return "cheer"
	case ActionPredict:
		return "predict"
	default:
		return "unknown"
	}
}

type engineState interface {
	CheckinParamsGet() (*Params, bool, error)
	CheckinParamsPut(params *Params) error
	CheckinUsageGet(player [20]byte, action Action) (daily.UsageRecord, bool, error)
	CheckinUsagePut(player [20]byte, action Action, rec daily.UsageRecord) error
	CheckinStreakGet(player [20]byte) (streak.Record, bool, error)
	CheckinStreakPut(player [20]byte, rec streak.Record) error
}

// CheckInResult reports the outcome of a successful check-in.
type CheckInResult struct {
	Day     uint64
	Current uint64
	Max     uint64
	Reward  *big.Int
}

// ActionResult reports the outcome of a successful vote, cheer or prediction.
type ActionResult struct {
	Day   uint64
	Count uint32
}

// Engine wires the daily engagement game with persistence, the identity
// oracle, the token ledger and event emission. Only check-ins drive the
// streak; votes, cheers and predictions burn their own daily allowances
// without touching it.
type Engine struct {
	state    engineState
	verifier common.Verifier
	ledger   common.Ledger
	emitter  events.Emitter
	guard    common.CallGuard
	nowFn    func() int64
	admin    [20]byte
	pool     [20]byte
}

// NewEngine constructs a check-in engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
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

// SetAdmin configures the administrator identity for parameter changes.
func (e *Engine) SetAdmin(addr [20]byte) { e.admin = addr }

// SetPool configures the funding account check-in rewards are paid from.
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

func (e *Engine) params() (*Params, error) {
	params, ok, err := e.state.CheckinParamsGet()
	if err != nil {
		return nil, err
	}
	if !ok || params == nil {
		return DefaultParams(), nil
	}
	return params.Clone(), nil
}

func (e *Engine) begin(player [20]byte, sig []byte) (*Params, uint64, error) {
	if e == nil || e.state == nil {
		return nil, 0, ErrNilState
	}
	params, err := e.params()
	if err != nil {
		return nil, 0, err
	}
	if params.Paused {
		return nil, 0, ErrPaused
	}
	if err := common.VerifyIdentity(e.verifier, sig, player); err != nil {
		return nil, 0, err
	}
	return params, daily.Index(e.now()), nil
}

func (e *Engine) consumeUsage(player [20]byte, action Action, today uint64, limit uint32) (daily.UsageRecord, error) {
	rec, _, err := e.state.CheckinUsageGet(player, action)
	if err != nil {
		return daily.UsageRecord{}, err
	}
	next, err := daily.Consume(rec, today, limit)
	if err != nil {
		return daily.UsageRecord{}, err
	}
	if err := e.state.CheckinUsagePut(player, action, next); err != nil {
		return daily.UsageRecord{}, err
	}
	return next, nil
}

// CheckIn performs the daily check-in: it burns the daily allowance, extends
// or restarts the streak and pays the streak-scaled reward from the pool.
func (e *Engine) CheckIn(player [20]byte, sig []byte) (*CheckInResult, error) {
	params, today, err := e.begin(player, sig)
	if err != nil {
		return nil, err
	}
	if err := e.guard.Enter(); err != nil {
		return nil, err
	}
	defer e.guard.Exit()

	usage, _, err := e.state.CheckinUsageGet(player, ActionCheckIn)
	if err != nil {
		return nil, err
	}
	nextUsage, err := daily.Consume(usage, today, params.CheckInCap)
	if err != nil {
		return nil, err
	}

	rec, _, err := e.state.CheckinStreakGet(player)
	if err != nil {
		return nil, err
	}
	nextRec, changed := streak.Touch(rec, today)

	reward := params.RewardFor(nextRec.Current)
	if reward.Sign() > 0 {
		if err := common.PayOut(e.ledger, e.pool, player, reward); err != nil {
			return nil, err
		}
	}
	if err := e.state.CheckinUsagePut(player, ActionCheckIn, nextUsage); err != nil {
		return nil, err
	}
	if changed {
		if err := e.state.CheckinStreakPut(player, nextRec); err != nil {
			return nil, err
		}
		e.emit(StreakUpdatedEvent(hexAddr(player), today, nextRec.Current, nextRec.Max))
	}
	e.emit(CheckedInEvent(hexAddr(player), today, reward.String()))
	return &CheckInResult{Day: today, Current: nextRec.Current, Max: nextRec.Max, Reward: reward}, nil
}

// Vote casts the daily vote for an option.
func (e *Engine) Vote(player [20]byte, sig []byte, option string) (*ActionResult, error) {
	option = strings.TrimSpace(option)
	if option == "" {
		return nil, ErrEmptyChoice
	}
	params, today, err := e.begin(player, sig)
	if err != nil {
		return nil, err
	}
	rec, err := e.consumeUsage(player, ActionVote, today, params.VoteCap)
	if err != nil {
		return nil, err
	}
	e.emit(VoteCastEvent(hexAddr(player), today, rec.Count, option))
	return &ActionResult{Day: today, Count: rec.Count}, nil
}

// Cheer sends one of the daily cheers to another player.
func (e *Engine) Cheer(player [20]byte, sig []byte, target [20]byte) (*ActionResult, error) {
	params, today, err := e.begin(player, sig)
	if err != nil {
		return nil, err
	}
	rec, err := e.consumeUsage(player, ActionCheer, today, params.CheerCap)
	if err != nil {
		return nil, err
	}
	e.emit(CheerSentEvent(hexAddr(player), hexAddr(target), today, rec.Count))
	return &ActionResult{Day: today, Count: rec.Count}, nil
}

// Predict locks the daily prediction.
func (e *Engine) Predict(player [20]byte, sig []byte, pick string) (*ActionResult, error) {
	pick = strings.TrimSpace(pick)
	if pick == "" {
		return nil, ErrEmptyChoice
	}
	params, today, err := e.begin(player, sig)
	if err != nil {
		return nil, err
	}
	rec, err := e.consumeUsage(player, ActionPredict, today, params.PredictCap)
	if err != nil {
		return nil, err
	}
	e.emit(PredictionMadeEvent(hexAddr(player), today, rec.Count, pick))
	return &ActionResult{Day: today, Count: rec.Count}, nil
}

// Streak returns the player's current streak record.
func (e *Engine) Streak(player [20]byte) (streak.Record, error) {
	if e == nil || e.state == nil {
		return streak.Record{}, ErrNilState
	}
	rec, _, err := e.state.CheckinStreakGet(player)
	if err != nil {
		return streak.Record{}, err
	}
	return rec, nil
}

// CheckedInToday reports whether the player already checked in today.
func (e *Engine) CheckedInToday(player [20]byte) (bool, error) {
	count, err := e.UsageOn(player, ActionCheckIn, daily.Index(e.now()))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UsageOn reports the player's consumption of an action for an arbitrary day
// index. Records from other days read as zero.
func (e *Engine) UsageOn(player [20]byte, action Action, day uint64) (uint32, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	if !action.Valid() {
		return 0, ErrUnknownAction
	}
	rec, _, err := e.state.CheckinUsageGet(player, action)
	if err != nil {
		return 0, err
	}
	return rec.CountOn(day), nil
}

// NextResetIn reports the seconds remaining until all daily allowances reset.
func (e *Engine) NextResetIn() int64 {
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
	if err := e.state.CheckinParamsPut(params); err != nil {
		return nil, err
	}
	e.emit(ParamsUpdatedEvent(hexAddr(caller), field, before, after))
	return params.Clone(), nil
}

// SetDailyCaps updates the per-action daily caps.
func (e *Engine) SetDailyCaps(caller [20]byte, checkIn, vote, cheer, predict uint32) (*Params, error) {
	return e.updateParams(caller, "dailyCaps", func(p *Params) (string, string) {
		before := fmt.Sprintf("%d/%d/%d/%d", p.CheckInCap, p.VoteCap, p.CheerCap, p.PredictCap)
		p.CheckInCap, p.VoteCap, p.CheerCap, p.PredictCap = checkIn, vote, cheer, predict
		return before, fmt.Sprintf("%d/%d/%d/%d", checkIn, vote, cheer, predict)
	})
}

// SetRewards updates the base reward, streak bonus and bonus cap.
func (e *Engine) SetRewards(caller [20]byte, base, bonus *big.Int, maxBonusDays uint64) (*Params, error) {
	return e.updateParams(caller, "rewards", func(p *Params) (string, string) {
		before := fmt.Sprintf("%s+%s*<=%d", p.BaseReward, p.StreakBonus, p.MaxBonusDays)
		if base != nil {
			p.BaseReward = new(big.Int).Set(base)
		} else {
			p.BaseReward = nil
		}
		if bonus != nil {
			p.StreakBonus = new(big.Int).Set(bonus)
		} else {
			p.StreakBonus = nil
		}
		p.MaxBonusDays = maxBonusDays
		return before, fmt.Sprintf("%s+%s*<=%d", p.BaseReward, p.StreakBonus, p.MaxBonusDays)
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
