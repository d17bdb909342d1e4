package storage

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"wormychain/native/checkin"
	"wormychain/native/daily"
	"wormychain/native/garage"
	"wormychain/native/streak"
	"wormychain/native/vesting"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "wormy.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestUsageRoundTrip(t *testing.T) {
	store := newTestStore(t)
	driver := [20]byte{0x01}

	_, ok, err := store.GarageUsageGet(driver, garage.ActionRace)
	require.NoError(t, err)
	require.False(t, ok)

	rec := daily.UsageRecord{Day: 42, Count: 3}
	require.NoError(t, store.GarageUsagePut(driver, garage.ActionRace, rec))

	got, ok, err := store.GarageUsageGet(driver, garage.ActionRace)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rec, got)

	// Actions are keyed independently.
	_, ok, err = store.GarageUsageGet(driver, garage.ActionPitStop)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSeasonScoresKeyedPerSeason(t *testing.T) {
	store := newTestStore(t)
	driver := [20]byte{0x02}

	require.NoError(t, store.GarageSeasonScorePut(driver, 1, 150))
	require.NoError(t, store.GarageSeasonScorePut(driver, 2, 30))
	require.NoError(t, store.GarageLifetimeScorePut(driver, 180))

	s1, err := store.GarageSeasonScoreGet(driver, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(150), s1)

	s2, err := store.GarageSeasonScoreGet(driver, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(30), s2)

	lifetime, err := store.GarageLifetimeScoreGet(driver)
	require.NoError(t, err)
	require.Equal(t, uint64(180), lifetime)

	missing, err := store.GarageSeasonScoreGet(driver, 9)
	require.NoError(t, err)
	require.Zero(t, missing)
}

func TestStreakRoundTrip(t *testing.T) {
	store := newTestStore(t)
	player := [20]byte{0x03}

	rec := streak.Record{Current: 4, Max: 9, LastDay: 123}
	require.NoError(t, store.CheckinStreakPut(player, rec))

	got, ok, err := store.CheckinStreakGet(player)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rec, got)
}

func TestParamsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.CheckinParamsGet()
	require.NoError(t, err)
	require.False(t, ok)

	params := checkin.DefaultParams()
	params.CheerCap = 7
	require.NoError(t, store.CheckinParamsPut(params))

	got, ok, err := store.CheckinParamsGet()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(7), got.CheerCap)
	require.Zero(t, got.BaseReward.Cmp(params.BaseReward))
}

func TestScheduleSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wormy.db")
	store, err := NewStore(path, nil)
	require.NoError(t, err)

	beneficiary := [20]byte{0x04}
	schedule := &vesting.Schedule{
		Beneficiary: beneficiary,
		Start:       1000,
		Duration:    500,
		Total:       big.NewInt(12_345),
		Claimed:     big.NewInt(45),
		CreatedAt:   900,
	}
	require.NoError(t, store.VestingSchedulePut(schedule))
	require.NoError(t, store.Close())

	reopened, err := NewStore(path, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	got, ok, err := reopened.VestingScheduleGet(beneficiary)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, schedule.Start, got.Start)
	require.Zero(t, got.Total.Cmp(schedule.Total))
	require.Zero(t, got.Claimed.Cmp(schedule.Claimed))
	require.False(t, got.Revoked)
}
