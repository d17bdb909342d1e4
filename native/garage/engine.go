package garage

import (
	"encoding/hex"
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

type engineState interface {
	GarageParamsGet() (*Params, bool, error)
	GarageParamsPut(params *Params) error
	GarageUsageGet(driver [20]byte, action Action) (daily.UsageRecord, bool, error)
	GarageUsagePut(driver [20]byte, action Action, rec daily.UsageRecord) error
	GarageSeasonScoreGet(driver [20]byte, season uint64) (uint64, error)
	GarageSeasonScorePut(driver [20]byte, season uint64, points uint64) error
	GarageLifetimeScoreGet(driver [20]byte) (uint64, error)
	GarageLifetimeScorePut(driver [20]byte, points uint64) error
}

// PitStopResult reports the outcome of a successful pit stop.
type PitStopResult struct {
	Day          uint64
	Count        uint32
	Points       uint64
	SeasonPoints uint64
}

// RaceResult reports the outcome of a successful race.
type RaceResult struct {
	Day          uint64
	Count        uint32
	Season       uint64
	Points       uint64
	SeasonPoints uint64
}

// FuelClaimResult reports the outcome of a successful fuel claim.
type FuelClaimResult struct {
	Day    uint64
	Count  uint32
	Amount *big.Int
}

// Engine wires the garage business logic with persistence, the identity
// oracle, the token ledger and event emission.
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

// NewEngine constructs a garage engine with default dependencies.
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

// SetEntropyFunc configures the block entropy source used for race draws.
func (e *Engine) SetEntropyFunc(entropy func() [32]byte) {
	if entropy == nil {
		e.entropyFn = func() [32]byte { return [32]byte{} }
		return
	}
	e.entropyFn = entropy
}

// SetAdmin configures the administrator identity for parameter changes.
func (e *Engine) SetAdmin(addr [20]byte) { e.admin = addr }

// SetPool configures the funding account fuel rewards are paid from.
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
	params, ok, err := e.state.GarageParamsGet()
	if err != nil {
		return nil, err
	}
	if !ok || params == nil {
		return DefaultParams(), nil
	}
	return params.Clone(), nil
}

// begin runs the shared gates for every driver action: module active and
// identity verified. Now is sampled once here and reused for the whole call.
func (e *Engine) begin(driver [20]byte, sig []byte) (*Params, int64, uint64, error) {
	if e == nil || e.state == nil {
		return nil, 0, 0, ErrNilState
	}
	params, err := e.params()
	if err != nil {
		return nil, 0, 0, err
	}
	if params.Paused {
		return nil, 0, 0, ErrPaused
	}
	if err := common.VerifyIdentity(e.verifier, sig, driver); err != nil {
		return nil, 0, 0, err
	}
	now := e.now()
	return params, now, daily.Index(now), nil
}

func (e *Engine) consumeUsage(driver [20]byte, action Action, today uint64, params *Params) (daily.UsageRecord, error) {
	rec, _, err := e.state.GarageUsageGet(driver, action)
	if err != nil {
		return daily.UsageRecord{}, err
	}
	next, err := daily.Consume(rec, today, params.capFor(action))
	if err != nil {
		return daily.UsageRecord{}, err
	}
	if err := e.state.GarageUsagePut(driver, action, next); err != nil {
		return daily.UsageRecord{}, err
	}
	return next, nil
}

func (e *Engine) addPoints(driver [20]byte, season, points uint64) (uint64, error) {
	seasonTotal, err := e.state.GarageSeasonScoreGet(driver, season)
	if err != nil {
		return 0, err
	}
	seasonTotal += points
	if err := e.state.GarageSeasonScorePut(driver, season, seasonTotal); err != nil {
		return 0, err
	}
	lifetime, err := e.state.GarageLifetimeScoreGet(driver)
	if err != nil {
		return 0, err
	}
	if err := e.state.GarageLifetimeScorePut(driver, lifetime+points); err != nil {
		return 0, err
	}
	return seasonTotal, nil
}

// PitStop performs the daily pit-stop action, awarding the fixed pit-stop
// points toward the current season.
func (e *Engine) PitStop(driver [20]byte, sig []byte) (*PitStopResult, error) {
	params, _, today, err := e.begin(driver, sig)
	if err != nil {
		return nil, err
	}
	rec, err := e.consumeUsage(driver, ActionPitStop, today, params)
	if err != nil {
		return nil, err
	}
	seasonTotal, err := e.addPoints(driver, params.Season, params.PitStopPoints)
	if err != nil {
		return nil, err
	}
	e.emit(PitStopEvent(hexAddr(driver), today, rec.Count, params.PitStopPoints, seasonTotal))
	return &PitStopResult{Day: today, Count: rec.Count, Points: params.PitStopPoints, SeasonPoints: seasonTotal}, nil
}

// Race performs the daily race action. Race points are drawn uniformly from
// the configured range using block-level entropy; see the lottery package for
// the documented weakness of that source.
func (e *Engine) Race(driver [20]byte, sig []byte) (*RaceResult, error) {
	params, now, today, err := e.begin(driver, sig)
	if err != nil {
		return nil, err
	}
	rec, err := e.consumeUsage(driver, ActionRace, today, params)
	if err != nil {
		return nil, err
	}
	seed := lottery.Seed{BlockTime: now, Entropy: e.entropyFn(), Module: e.module}
	points, err := lottery.Draw(driver, seed, params.RaceMinPoints, params.RaceMaxPoints)
	if err != nil {
		return nil, err
	}
	seasonTotal, err := e.addPoints(driver, params.Season, points)
	if err != nil {
		return nil, err
	}
	e.emit(RaceFinishedEvent(hexAddr(driver), today, rec.Count, params.Season, points, seasonTotal))
	return &RaceResult{Day: today, Count: rec.Count, Season: params.Season, Points: points, SeasonPoints: seasonTotal}, nil
}

// ClaimFuel pays the configured fuel reward from the pool, at most the
// configured number of times per day.
func (e *Engine) ClaimFuel(driver [20]byte, sig []byte) (*FuelClaimResult, error) {
	params, _, today, err := e.begin(driver, sig)
	if err != nil {
		return nil, err
	}
	if err := e.guard.Enter(); err != nil {
		return nil, err
	}
	defer e.guard.Exit()

	rec, _, err := e.state.GarageUsageGet(driver, ActionFuelClaim)
	if err != nil {
		return nil, err
	}
	next, err := daily.Consume(rec, today, params.capFor(ActionFuelClaim))
	if err != nil {
		return nil, err
	}
	if err := common.PayOut(e.ledger, e.pool, driver, params.FuelReward); err != nil {
		return nil, err
	}
	if err := e.state.GarageUsagePut(driver, ActionFuelClaim, next); err != nil {
		return nil, err
	}
	e.emit(FuelClaimedEvent(hexAddr(driver), today, next.Count, params.FuelReward.String()))
	return &FuelClaimResult{Day: today, Count: next.Count, Amount: new(big.Int).Set(params.FuelReward)}, nil
}

// UsageOn reports a driver's consumption of an action for an arbitrary day
// index. Records from other days read as zero.
func (e *Engine) UsageOn(driver [20]byte, action Action, day uint64) (uint32, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	if !action.Valid() {
		return 0, ErrUnknownAction
	}
	rec, _, err := e.state.GarageUsageGet(driver, action)
	if err != nil {
		return 0, err
	}
	return rec.CountOn(day), nil
}

// UsageToday reports a driver's consumption of an action for the current day.
func (e *Engine) UsageToday(driver [20]byte, action Action) (uint32, error) {
	return e.UsageOn(driver, action, daily.Index(e.now()))
}

// NextResetIn reports the seconds remaining until all daily caps reset.
func (e *Engine) NextResetIn() int64 {
	return daily.SecondsUntilRollover(e.now())
}

// SeasonScore reports the accumulated race points for a driver and season.
func (e *Engine) SeasonScore(driver [20]byte, season uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	return e.state.GarageSeasonScoreGet(driver, season)
}

// LifetimeScore reports the driver's all-time points across every season.
func (e *Engine) LifetimeScore(driver [20]byte) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	return e.state.GarageLifetimeScoreGet(driver)
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
	if err := e.state.GarageParamsPut(params); err != nil {
		return nil, err
	}
	e.emit(ParamsUpdatedEvent(hexAddr(caller), field, before, after))
	return params.Clone(), nil
}

// SetDailyCaps updates the per-action daily caps.
func (e *Engine) SetDailyCaps(caller [20]byte, pitStop, race, fuel uint32) (*Params, error) {
	return e.updateParams(caller, "dailyCaps", func(p *Params) (string, string) {
		before := fmt.Sprintf("%d/%d/%d", p.PitStopCap, p.RaceCap, p.FuelClaimCap)
		p.PitStopCap, p.RaceCap, p.FuelClaimCap = pitStop, race, fuel
		return before, fmt.Sprintf("%d/%d/%d", pitStop, race, fuel)
	})
}

// SetSeason switches the active season. Season identifiers are conventionally
// monotonic but not enforced so an operator can correct a mistaken roll.
func (e *Engine) SetSeason(caller [20]byte, season uint64) (*Params, error) {
	return e.updateParams(caller, "season", func(p *Params) (string, string) {
		before := strconv.FormatUint(p.Season, 10)
		p.Season = season
		return before, strconv.FormatUint(season, 10)
	})
}

// SetRacePoints updates the race point draw range.
func (e *Engine) SetRacePoints(caller [20]byte, min, max uint64) (*Params, error) {
	return e.updateParams(caller, "racePoints", func(p *Params) (string, string) {
		before := fmt.Sprintf("[%d,%d]", p.RaceMinPoints, p.RaceMaxPoints)
		p.RaceMinPoints, p.RaceMaxPoints = min, max
		return before, fmt.Sprintf("[%d,%d]", min, max)
	})
}

// SetPitStopPoints updates the fixed points awarded per pit stop.
func (e *Engine) SetPitStopPoints(caller [20]byte, points uint64) (*Params, error) {
	return e.updateParams(caller, "pitStopPoints", func(p *Params) (string, string) {
		before := strconv.FormatUint(p.PitStopPoints, 10)
		p.PitStopPoints = points
		return before, strconv.FormatUint(points, 10)
	})
}

// SetFuelReward updates the per-claim fuel reward amount.
func (e *Engine) SetFuelReward(caller [20]byte, amount *big.Int) (*Params, error) {
	return e.updateParams(caller, "fuelReward", func(p *Params) (string, string) {
		before := "0"
		if p.FuelReward != nil {
			before = p.FuelReward.String()
		}
		if amount != nil {
			p.FuelReward = new(big.Int).Set(amount)
		} else {
			p.FuelReward = nil
		}
		after := "0"
		if p.FuelReward != nil {
			after = p.FuelReward.String()
		}
		return before, after
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
