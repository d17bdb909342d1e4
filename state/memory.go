// Package state provides an in-memory implementation of every module
// engine's state interface, suitable for tests and development nodes. All
// reads and writes copy records so callers never alias internal storage.
package state

import (
	"sync"

	"wormychain/native/checkin"
	"wormychain/native/daily"
	"wormychain/native/faucet"
	"wormychain/native/garage"
	"wormychain/native/streak"
	"wormychain/native/vesting"
)

type garageUsageKey struct {
	driver [20]byte
	action garage.Action
}

type checkinUsageKey struct {
	player [20]byte
	action checkin.Action
}

type seasonKey struct {
	driver [20]byte
	season uint64
}

// Memory is a map-backed state store shared by all module engines.
type Memory struct {
	mu sync.Mutex

	garageParams   *garage.Params
	garageUsage    map[garageUsageKey]daily.UsageRecord
	seasonScores   map[seasonKey]uint64
	lifetimeScores map[[20]byte]uint64

	checkinParams *checkin.Params
	checkinUsage  map[checkinUsageKey]daily.UsageRecord
	streaks       map[[20]byte]streak.Record

	faucetParams *faucet.Params
	faucetUsage  map[[20]byte]daily.UsageRecord

	schedules map[[20]byte]*vesting.Schedule
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		garageUsage:    make(map[garageUsageKey]daily.UsageRecord),
		seasonScores:   make(map[seasonKey]uint64),
		lifetimeScores: make(map[[20]byte]uint64),
		checkinUsage:   make(map[checkinUsageKey]daily.UsageRecord),
		streaks:        make(map[[20]byte]streak.Record),
		faucetUsage:    make(map[[20]byte]daily.UsageRecord),
		schedules:      make(map[[20]byte]*vesting.Schedule),
	}
}

func (m *Memory) GarageParamsGet() (*garage.Params, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.garageParams == nil {
		return nil, false, nil
	}
	return m.garageParams.Clone(), true, nil
}

func (m *Memory) GarageParamsPut(params *garage.Params) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.garageParams = params.Clone()
	return nil
}

func (m *Memory) GarageUsageGet(driver [20]byte, action garage.Action) (daily.UsageRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.garageUsage[garageUsageKey{driver, action}]
	return rec, ok, nil
}

func (m *Memory) GarageUsagePut(driver [20]byte, action garage.Action, rec daily.UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.garageUsage[garageUsageKey{driver, action}] = rec
	return nil
}

func (m *Memory) GarageSeasonScoreGet(driver [20]byte, season uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seasonScores[seasonKey{driver, season}], nil
}

func (m *Memory) GarageSeasonScorePut(driver [20]byte, season uint64, points uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seasonScores[seasonKey{driver, season}] = points
	return nil
}

func (m *Memory) GarageLifetimeScoreGet(driver [20]byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lifetimeScores[driver], nil
}

func (m *Memory) GarageLifetimeScorePut(driver [20]byte, points uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lifetimeScores[driver] = points
	return nil
}

func (m *Memory) CheckinParamsGet() (*checkin.Params, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkinParams == nil {
		return nil, false, nil
	}
	return m.checkinParams.Clone(), true, nil
}

func (m *Memory) CheckinParamsPut(params *checkin.Params) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkinParams = params.Clone()
	return nil
}

func (m *Memory) CheckinUsageGet(player [20]byte, action checkin.Action) (daily.UsageRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.checkinUsage[checkinUsageKey{player, action}]
	return rec, ok, nil
}

func (m *Memory) CheckinUsagePut(player [20]byte, action checkin.Action, rec daily.UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkinUsage[checkinUsageKey{player, action}] = rec
	return nil
}

func (m *Memory) CheckinStreakGet(player [20]byte) (streak.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.streaks[player]
	return rec, ok, nil
}

func (m *Memory) CheckinStreakPut(player [20]byte, rec streak.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streaks[player] = rec
	return nil
}

func (m *Memory) FaucetParamsGet() (*faucet.Params, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.faucetParams == nil {
		return nil, false, nil
	}
	return m.faucetParams.Clone(), true, nil
}

func (m *Memory) FaucetParamsPut(params *faucet.Params) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faucetParams = params.Clone()
	return nil
}

func (m *Memory) FaucetUsageGet(claimer [20]byte) (daily.UsageRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.faucetUsage[claimer]
	return rec, ok, nil
}

func (m *Memory) FaucetUsagePut(claimer [20]byte, rec daily.UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faucetUsage[claimer] = rec
	return nil
}

func (m *Memory) VestingScheduleGet(beneficiary [20]byte) (*vesting.Schedule, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	schedule, ok := m.schedules[beneficiary]
	if !ok {
		return nil, false, nil
	}
	return schedule.Clone(), true, nil
}

func (m *Memory) VestingSchedulePut(schedule *vesting.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if schedule == nil {
		return nil
	}
	m.schedules[schedule.Beneficiary] = schedule.Clone()
	return nil
}
