package garage

import (
	"errors"
	"math/big"
	"testing"

	"wormychain/native/common"
	"wormychain/native/daily"
)

type usageKey struct {
	driver [20]byte
	action Action
}

type seasonKey struct {
	driver [20]byte
	season uint64
}

type mockState struct {
	params   *Params
	usage    map[usageKey]daily.UsageRecord
	seasons  map[seasonKey]uint64
	lifetime map[[20]byte]uint64
}

func newMockState() *mockState {
	return &mockState{
		usage:    make(map[usageKey]daily.UsageRecord),
		seasons:  make(map[seasonKey]uint64),
		lifetime: make(map[[20]byte]uint64),
	}
}

func (m *mockState) GarageParamsGet() (*Params, bool, error) {
	if m.params == nil {
		return nil, false, nil
	}
	return m.params.Clone(), true, nil
}

func (m *mockState) GarageParamsPut(params *Params) error {
	m.params = params.Clone()
	return nil
}

func (m *mockState) GarageUsageGet(driver [20]byte, action Action) (daily.UsageRecord, bool, error) {
	rec, ok := m.usage[usageKey{driver, action}]
	return rec, ok, nil
}

func (m *mockState) GarageUsagePut(driver [20]byte, action Action, rec daily.UsageRecord) error {
	m.usage[usageKey{driver, action}] = rec
	return nil
}

func (m *mockState) GarageSeasonScoreGet(driver [20]byte, season uint64) (uint64, error) {
	return m.seasons[seasonKey{driver, season}], nil
}

func (m *mockState) GarageSeasonScorePut(driver [20]byte, season uint64, points uint64) error {
	m.seasons[seasonKey{driver, season}] = points
	return nil
}

func (m *mockState) GarageLifetimeScoreGet(driver [20]byte) (uint64, error) {
	return m.lifetime[driver], nil
}

func (m *mockState) GarageLifetimeScorePut(driver [20]byte, points uint64) error {
	m.lifetime[driver] = points
	return nil
}

type mockLedger struct {
	balances map[[20]byte]*big.Int
}

func newMockLedger() *mockLedger {
	return &mockLedger{balances: make(map[[20]byte]*big.Int)}
}

func (l *mockLedger) BalanceOf(addr [20]byte) (*big.Int, error) {
	if bal, ok := l.balances[addr]; ok {
		return new(big.Int).Set(bal), nil
	}
	return big.NewInt(0), nil
}

func (l *mockLedger) Transfer(from, to [20]byte, amount *big.Int) error {
	l.balances[from] = new(big.Int).Sub(l.balances[from], amount)
	if l.balances[to] == nil {
		l.balances[to] = big.NewInt(0)
	}
	l.balances[to] = new(big.Int).Add(l.balances[to], amount)
	return nil
}

var (
	admin  = [20]byte{0xad}
	pool   = [20]byte{0xb0}
	driver = [20]byte{0xd0}
)

func acceptAll(sig []byte, addr [20]byte) bool { return true }

func newTestEngine(t *testing.T) (*Engine, *mockState, *mockLedger) {
	t.Helper()
	state := newMockState()
	ledger := newMockLedger()
	ledger.balances[pool] = big.NewInt(1_000_000)

	engine := NewEngine()
	engine.SetState(state)
	engine.SetVerifier(common.VerifierFunc(acceptAll))
	engine.SetLedger(ledger)
	engine.SetAdmin(admin)
	engine.SetPool(pool)
	engine.SetModuleAddress([20]byte{0x6a})
	engine.SetNowFunc(func() int64 { return 100 * daily.SecondsPerDay })
	engine.SetEntropyFunc(func() [32]byte { return [32]byte{0x01} })
	return engine, state, ledger
}

func TestPitStopCapEnforced(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	for i := uint32(1); i <= 3; i++ {
		result, err := engine.PitStop(driver, []byte("sig"))
		if err != nil {
			t.Fatalf("pit stop %d: unexpected error: %v", i, err)
		}
		if result.Count != i {
			t.Fatalf("pit stop %d: unexpected count %d", i, result.Count)
		}
	}

	if _, err := engine.PitStop(driver, []byte("sig")); !errors.Is(err, daily.ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}
	count, err := engine.UsageToday(driver, ActionPitStop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("denied call mutated usage: %d", count)
	}
}

func TestCapForMapsActionsToTheirCaps(t *testing.T) {
	params := &Params{PitStopCap: 3, RaceCap: 5, FuelClaimCap: 1}

	if got := params.capFor(ActionPitStop); got != 3 {
		t.Fatalf("pit stop cap: got %d", got)
	}
	if got := params.capFor(ActionRace); got != 5 {
		t.Fatalf("race cap: got %d", got)
	}
	if got := params.capFor(ActionFuelClaim); got != 1 {
		t.Fatalf("fuel claim cap: got %d", got)
	}
	if got := params.capFor(Action(99)); got != 0 {
		t.Fatalf("unknown action must map to zero, got %d", got)
	}
}

func TestEachActionConsumesItsOwnCap(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	for i := 0; i < 3; i++ {
		if _, err := engine.PitStop(driver, []byte("sig")); err != nil {
			t.Fatalf("pit stop: %v", err)
		}
	}
	if _, err := engine.PitStop(driver, []byte("sig")); !errors.Is(err, daily.ErrRateLimitExceeded) {
		t.Fatalf("expected pit stop cap hit, got %v", err)
	}

	// Exhausting pit stops must not touch the race or fuel allowances.
	if _, err := engine.Race(driver, []byte("sig")); err != nil {
		t.Fatalf("race: %v", err)
	}
	if _, err := engine.ClaimFuel(driver, []byte("sig")); err != nil {
		t.Fatalf("claim fuel: %v", err)
	}
}

func TestPitStopResetsAfterRollover(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	for i := 0; i < 3; i++ {
		if _, err := engine.PitStop(driver, []byte("sig")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := engine.PitStop(driver, []byte("sig")); !errors.Is(err, daily.ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded, got %v", err)
	}

	engine.SetNowFunc(func() int64 { return 101 * daily.SecondsPerDay })
	result, err := engine.PitStop(driver, []byte("sig"))
	if err != nil {
		t.Fatalf("unexpected error after rollover: %v", err)
	}
	if result.Day != 101 || result.Count != 1 {
		t.Fatalf("unexpected result after rollover: %+v", result)
	}
}

func TestRaceAwardsPointsInRange(t *testing.T) {
	engine, state, _ := newTestEngine(t)

	result, err := engine.Race(driver, []byte("sig"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Points < 5 || result.Points > 50 {
		t.Fatalf("race points %d outside configured range", result.Points)
	}
	if result.Season != 1 {
		t.Fatalf("unexpected season: %d", result.Season)
	}
	if state.seasons[seasonKey{driver, 1}] != result.Points {
		t.Fatalf("season score not credited: %+v", state.seasons)
	}
	if state.lifetime[driver] != result.Points {
		t.Fatalf("lifetime score not credited: %d", state.lifetime[driver])
	}
}

func TestSeasonRollKeepsOldScores(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	first, err := engine.Race(driver, []byte("sig"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := engine.SetSeason(admin, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.Race(driver, []byte("sig"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Season != 2 {
		t.Fatalf("unexpected season after roll: %d", second.Season)
	}

	oldScore, err := engine.SeasonScore(driver, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if oldScore != first.Points {
		t.Fatalf("season 1 score changed after roll: %d", oldScore)
	}
	lifetime, err := engine.LifetimeScore(driver)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lifetime != first.Points+second.Points {
		t.Fatalf("lifetime %d does not aggregate across seasons", lifetime)
	}
}

func TestClaimFuelPaysReward(t *testing.T) {
	engine, _, ledger := newTestEngine(t)

	result, err := engine.ClaimFuel(driver, []byte("sig"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Amount.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("unexpected fuel amount: %s", result.Amount)
	}
	if ledger.balances[driver].Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("unexpected driver balance: %s", ledger.balances[driver])
	}

	if _, err := engine.ClaimFuel(driver, []byte("sig")); !errors.Is(err, daily.ErrRateLimitExceeded) {
		t.Fatalf("expected ErrRateLimitExceeded on second claim, got %v", err)
	}
}

func TestClaimFuelInsufficientPoolLeavesUsageUntouched(t *testing.T) {
	engine, state, ledger := newTestEngine(t)
	ledger.balances[pool] = big.NewInt(1)

	if _, err := engine.ClaimFuel(driver, []byte("sig")); !errors.Is(err, common.ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool, got %v", err)
	}
	if rec := state.usage[usageKey{driver, ActionFuelClaim}]; rec.Count != 0 {
		t.Fatalf("failed claim consumed the allowance: %+v", rec)
	}
}

func TestIdentityGate(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	engine.SetVerifier(common.VerifierFunc(func(sig []byte, addr [20]byte) bool { return false }))

	if _, err := engine.PitStop(driver, []byte("sig")); !errors.Is(err, common.ErrIdentityRejected) {
		t.Fatalf("expected ErrIdentityRejected, got %v", err)
	}
}

func TestPausedModuleRejectsActions(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	if _, err := engine.SetPaused(admin, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := engine.PitStop(driver, []byte("sig")); !errors.Is(err, ErrPaused) {
		t.Fatalf("expected ErrPaused, got %v", err)
	}
	if _, err := engine.SetPaused(admin, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := engine.PitStop(driver, []byte("sig")); err != nil {
		t.Fatalf("unexpected error after resume: %v", err)
	}
}

func TestParamSettersRequireAdmin(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	if _, err := engine.SetSeason(driver, 2); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := engine.SetDailyCaps(admin, 0, 5, 1); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("zero cap must be rejected, got %v", err)
	}
	if _, err := engine.SetRacePoints(admin, 60, 50); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("inverted range must be rejected, got %v", err)
	}
	if _, err := engine.SetFuelReward(admin, big.NewInt(0)); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("zero reward must be rejected, got %v", err)
	}

	params, err := engine.SetDailyCaps(admin, 10, 10, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.PitStopCap != 10 || params.RaceCap != 10 || params.FuelClaimCap != 2 {
		t.Fatalf("caps not applied: %+v", params)
	}
}
