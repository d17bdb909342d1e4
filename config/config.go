package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	gethcommon "github.com/ethereum/go-ethereum/common"
)

// Config carries the node settings together with the parameters of every
// native module. The module sections map one to one onto the engine params.
type Config struct {
	RPCAddress  string `toml:"RPCAddress"`
	DataDir     string `toml:"DataDir"`
	NetworkName string `toml:"NetworkName"`

	Admin string `toml:"Admin"`
	Pool  string `toml:"Pool"`

	Garage  GarageConfig  `toml:"Garage"`
	Checkin CheckinConfig `toml:"Checkin"`
	Faucet  FaucetConfig  `toml:"Faucet"`
}

// GarageConfig mirrors garage.Params.
type GarageConfig struct {
	Paused        bool   `toml:"Paused"`
	PitStopCap    uint32 `toml:"PitStopCap"`
	RaceCap       uint32 `toml:"RaceCap"`
	FuelClaimCap  uint32 `toml:"FuelClaimCap"`
	PitStopPoints uint64 `toml:"PitStopPoints"`
	RaceMinPoints uint64 `toml:"RaceMinPoints"`
	RaceMaxPoints uint64 `toml:"RaceMaxPoints"`
	FuelReward    uint64 `toml:"FuelReward"`
	Season        uint64 `toml:"Season"`
}

// CheckinConfig mirrors checkin.Params.
type CheckinConfig struct {
	Paused       bool   `toml:"Paused"`
	CheckInCap   uint32 `toml:"CheckInCap"`
	VoteCap      uint32 `toml:"VoteCap"`
	CheerCap     uint32 `toml:"CheerCap"`
	PredictCap   uint32 `toml:"PredictCap"`
	BaseReward   uint64 `toml:"BaseReward"`
	StreakBonus  uint64 `toml:"StreakBonus"`
	MaxBonusDays uint32 `toml:"MaxBonusDays"`
}

// FaucetConfig mirrors faucet.Params.
type FaucetConfig struct {
	Paused       bool   `toml:"Paused"`
	ClaimsPerDay uint32 `toml:"ClaimsPerDay"`
	MinPayout    uint64 `toml:"MinPayout"`
	MaxPayout    uint64 `toml:"MaxPayout"`
}

// Load loads the configuration from the given path. A missing file is
// replaced with a default configuration which is persisted back to disk.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	for _, undecoded := range meta.Undecoded() {
		fmt.Fprintf(os.Stderr, "config: unknown key %q in %s\n", undecoded.String(), path)
	}

	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "wormy-local"
	}

	return cfg, nil
}

// Validate checks the configuration for values no engine would accept.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RPCAddress) == "" {
		return fmt.Errorf("config: RPCAddress must not be empty")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: DataDir must not be empty")
	}
	if _, err := ParseAddress(c.Admin); err != nil {
		return fmt.Errorf("config: Admin: %w", err)
	}
	if _, err := ParseAddress(c.Pool); err != nil {
		return fmt.Errorf("config: Pool: %w", err)
	}
	// Each section must satisfy the same rules the engine setters enforce,
	// so a config that validates can never seed parameters an engine would
	// reject.
	if err := c.Garage.Params().Validate(); err != nil {
		return fmt.Errorf("config: Garage: %w", err)
	}
	if err := c.Checkin.Params().Validate(); err != nil {
		return fmt.Errorf("config: Checkin: %w", err)
	}
	if err := c.Faucet.Params().Validate(); err != nil {
		return fmt.Errorf("config: Faucet: %w", err)
	}
	return nil
}

// ParseAddress decodes a 0x-prefixed hex account address.
func ParseAddress(s string) ([20]byte, error) {
	trimmed := strings.TrimSpace(s)
	if !gethcommon.IsHexAddress(trimmed) {
		return [20]byte{}, fmt.Errorf("invalid address %q", s)
	}
	return gethcommon.HexToAddress(trimmed), nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress:  ":8080",
		DataDir:     "./wormy-data",
		NetworkName: "wormy-local",
		Admin:       "0x0000000000000000000000000000000000000001",
		Pool:        "0x0000000000000000000000000000000000000002",
		Garage: GarageConfig{
			PitStopCap:    3,
			RaceCap:       5,
			FuelClaimCap:  1,
			PitStopPoints: 10,
			RaceMinPoints: 5,
			RaceMaxPoints: 50,
			FuelReward:    1000,
			Season:        1,
		},
		Checkin: CheckinConfig{
			CheckInCap:   1,
			VoteCap:      1,
			CheerCap:     3,
			PredictCap:   1,
			BaseReward:   100,
			StreakBonus:  10,
			MaxBonusDays: 30,
		},
		Faucet: FaucetConfig{
			ClaimsPerDay: 1,
			MinPayout:    50,
			MaxPayout:    500,
		},
	}

	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
