// Package storage persists module state in a BoltDB file. It satisfies the
// same per-engine state interfaces as the in-memory store, with one bucket
// per record family and JSON-encoded values.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"wormychain/native/checkin"
	"wormychain/native/daily"
	"wormychain/native/faucet"
	"wormychain/native/garage"
	"wormychain/native/streak"
	"wormychain/native/vesting"
)

var (
	bucketGarageParams   = []byte("garage_params")
	bucketGarageUsage    = []byte("garage_usage")
	bucketSeasonScores   = []byte("garage_season_scores")
	bucketLifetimeScores = []byte("garage_lifetime_scores")
	bucketCheckinParams  = []byte("checkin_params")
	bucketCheckinUsage   = []byte("checkin_usage")
	bucketStreaks        = []byte("checkin_streaks")
	bucketFaucetParams   = []byte("faucet_params")
	bucketFaucetUsage    = []byte("faucet_usage")
	bucketSchedules      = []byte("vesting_schedules")

	keyParams = []byte("params")
)

// Store is a BoltDB-backed state store shared by all module engines.
type Store struct {
	db *bolt.DB
}

// NewStore opens (and initialises) the BoltDB-backed store at path.
func NewStore(path string, options *bolt.Options) (*Store, error) {
	if options == nil {
		options = &bolt.Options{Timeout: time.Second}
	} else if options.Timeout == 0 {
		options.Timeout = time.Second
	}
	db, err := bolt.Open(path, 0o600, options)
	if err != nil {
		return nil, err
	}
	buckets := [][]byte{
		bucketGarageParams, bucketGarageUsage, bucketSeasonScores,
		bucketLifetimeScores, bucketCheckinParams, bucketCheckinUsage,
		bucketStreaks, bucketFaucetParams, bucketFaucetUsage, bucketSchedules,
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) getJSON(bucket, key []byte, out any) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucket).Get(key)
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, out)
	})
	return found, err
}

func (s *Store) putJSON(bucket, key []byte, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(key, raw)
	})
}

func usageKey(addr [20]byte, action uint8) []byte {
	key := make([]byte, 21)
	copy(key, addr[:])
	key[20] = action
	return key
}

func seasonScoreKey(driver [20]byte, season uint64) []byte {
	key := make([]byte, 28)
	copy(key, driver[:])
	binary.BigEndian.PutUint64(key[20:], season)
	return key
}

func (s *Store) GarageParamsGet() (*garage.Params, bool, error) {
	params := &garage.Params{}
	ok, err := s.getJSON(bucketGarageParams, keyParams, params)
	if err != nil || !ok {
		return nil, false, err
	}
	return params, true, nil
}

func (s *Store) GarageParamsPut(params *garage.Params) error {
	return s.putJSON(bucketGarageParams, keyParams, params)
}

func (s *Store) GarageUsageGet(driver [20]byte, action garage.Action) (daily.UsageRecord, bool, error) {
	var rec daily.UsageRecord
	ok, err := s.getJSON(bucketGarageUsage, usageKey(driver, uint8(action)), &rec)
	return rec, ok, err
}

func (s *Store) GarageUsagePut(driver [20]byte, action garage.Action, rec daily.UsageRecord) error {
	return s.putJSON(bucketGarageUsage, usageKey(driver, uint8(action)), rec)
}

func (s *Store) GarageSeasonScoreGet(driver [20]byte, season uint64) (uint64, error) {
	var points uint64
	_, err := s.getJSON(bucketSeasonScores, seasonScoreKey(driver, season), &points)
	return points, err
}

func (s *Store) GarageSeasonScorePut(driver [20]byte, season uint64, points uint64) error {
	return s.putJSON(bucketSeasonScores, seasonScoreKey(driver, season), points)
}

func (s *Store) GarageLifetimeScoreGet(driver [20]byte) (uint64, error) {
	var points uint64
	_, err := s.getJSON(bucketLifetimeScores, driver[:], &points)
	return points, err
}

func (s *Store) GarageLifetimeScorePut(driver [20]byte, points uint64) error {
	return s.putJSON(bucketLifetimeScores, driver[:], points)
}

func (s *Store) CheckinParamsGet() (*checkin.Params, bool, error) {
	params := &checkin.Params{}
	ok, err := s.getJSON(bucketCheckinParams, keyParams, params)
	if err != nil || !ok {
		return nil, false, err
	}
	return params, true, nil
}

func (s *Store) CheckinParamsPut(params *checkin.Params) error {
	return s.putJSON(bucketCheckinParams, keyParams, params)
}

func (s *Store) CheckinUsageGet(player [20]byte, action checkin.Action) (daily.UsageRecord, bool, error) {
	var rec daily.UsageRecord
	ok, err := s.getJSON(bucketCheckinUsage, usageKey(player, uint8(action)), &rec)
	return rec, ok, err
}

func (s *Store) CheckinUsagePut(player [20]byte, action checkin.Action, rec daily.UsageRecord) error {
	return s.putJSON(bucketCheckinUsage, usageKey(player, uint8(action)), rec)
}

func (s *Store) CheckinStreakGet(player [20]byte) (streak.Record, bool, error) {
	var rec streak.Record
	ok, err := s.getJSON(bucketStreaks, player[:], &rec)
	return rec, ok, err
}

func (s *Store) CheckinStreakPut(player [20]byte, rec streak.Record) error {
	return s.putJSON(bucketStreaks, player[:], rec)
}

func (s *Store) FaucetParamsGet() (*faucet.Params, bool, error) {
	params := &faucet.Params{}
	ok, err := s.getJSON(bucketFaucetParams, keyParams, params)
	if err != nil || !ok {
		return nil, false, err
	}
	return params, true, nil
}

func (s *Store) FaucetParamsPut(params *faucet.Params) error {
	return s.putJSON(bucketFaucetParams, keyParams, params)
}

func (s *Store) FaucetUsageGet(claimer [20]byte) (daily.UsageRecord, bool, error) {
	var rec daily.UsageRecord
	ok, err := s.getJSON(bucketFaucetUsage, claimer[:], &rec)
	return rec, ok, err
}

func (s *Store) FaucetUsagePut(claimer [20]byte, rec daily.UsageRecord) error {
	return s.putJSON(bucketFaucetUsage, claimer[:], rec)
}

func (s *Store) VestingScheduleGet(beneficiary [20]byte) (*vesting.Schedule, bool, error) {
	schedule := &vesting.Schedule{}
	ok, err := s.getJSON(bucketSchedules, beneficiary[:], schedule)
	if err != nil || !ok {
		return nil, false, err
	}
	return schedule, true, nil
}

func (s *Store) VestingSchedulePut(schedule *vesting.Schedule) error {
	if schedule == nil {
		return nil
	}
	return s.putJSON(bucketSchedules, schedule.Beneficiary[:], schedule)
}
