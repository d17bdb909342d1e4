package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"wormychain/config"
	"wormychain/core/events"
	"wormychain/core/types"
	"wormychain/native/checkin"
	"wormychain/native/common"
	"wormychain/native/faucet"
	"wormychain/native/garage"
	"wormychain/native/vesting"
	"wormychain/observability/logging"
	"wormychain/rpc"
	"wormychain/state"
	"wormychain/storage"
)

const devPoolSupply = 1_000_000_000

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup("wormyd", cfg.NetworkName)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	admin, err := config.ParseAddress(cfg.Admin)
	if err != nil {
		logger.Error("invalid admin address", slog.Any("error", err))
		os.Exit(1)
	}
	pool, err := config.ParseAddress(cfg.Pool)
	if err != nil {
		logger.Error("invalid pool address", slog.Any("error", err))
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to create data directory", slog.Any("error", err))
		os.Exit(1)
	}
	store, err := storage.NewStore(filepath.Join(cfg.DataDir, "wormy.db"), nil)
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	if err := seedParams(store, cfg); err != nil {
		logger.Error("failed to seed module parameters", slog.Any("error", err))
		os.Exit(1)
	}

	ledger := state.NewLedger()
	ledger.Mint(pool, big.NewInt(devPoolSupply))

	// Dev oracle: accept every non-empty signature. Production deployments
	// plug in a real proof-of-humanity verifier here.
	verifier := common.VerifierFunc(func(signature []byte, addr [20]byte) bool {
		return len(signature) > 0
	})

	emitter := &logEmitter{logger: logger}

	garageEngine := garage.NewEngine()
	garageEngine.SetState(store)
	garageEngine.SetLedger(ledger)
	garageEngine.SetVerifier(verifier)
	garageEngine.SetEmitter(emitter)
	garageEngine.SetEntropyFunc(blockEntropy)
	garageEngine.SetAdmin(admin)
	garageEngine.SetPool(pool)

	checkinEngine := checkin.NewEngine()
	checkinEngine.SetState(store)
	checkinEngine.SetLedger(ledger)
	checkinEngine.SetVerifier(verifier)
	checkinEngine.SetEmitter(emitter)
	checkinEngine.SetAdmin(admin)
	checkinEngine.SetPool(pool)

	faucetEngine := faucet.NewEngine()
	faucetEngine.SetState(store)
	faucetEngine.SetLedger(ledger)
	faucetEngine.SetVerifier(verifier)
	faucetEngine.SetEmitter(emitter)
	faucetEngine.SetEntropyFunc(blockEntropy)
	faucetEngine.SetAdmin(admin)
	faucetEngine.SetPool(pool)

	vestingEngine := vesting.NewEngine()
	vestingEngine.SetState(store)
	vestingEngine.SetLedger(ledger)
	vestingEngine.SetEmitter(emitter)
	vestingEngine.SetAdmin(admin)
	vestingEngine.SetPool(pool)

	server := rpc.NewServer(garageEngine, checkinEngine, faucetEngine, vestingEngine, logger)
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("rpc server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// seedParams writes the configured module parameters into the store unless a
// previous run already persisted a (possibly admin-tuned) set.
func seedParams(store *storage.Store, cfg *config.Config) error {
	if _, ok, err := store.GarageParamsGet(); err != nil {
		return err
	} else if !ok {
		params := cfg.Garage.Params()
		if err := params.Validate(); err != nil {
			return fmt.Errorf("garage params: %w", err)
		}
		if err := store.GarageParamsPut(params); err != nil {
			return err
		}
	}
	if _, ok, err := store.CheckinParamsGet(); err != nil {
		return err
	} else if !ok {
		params := cfg.Checkin.Params()
		if err := params.Validate(); err != nil {
			return fmt.Errorf("checkin params: %w", err)
		}
		if err := store.CheckinParamsPut(params); err != nil {
			return err
		}
	}
	if _, ok, err := store.FaucetParamsGet(); err != nil {
		return err
	} else if !ok {
		params := cfg.Faucet.Params()
		if err := params.Validate(); err != nil {
			return fmt.Errorf("faucet params: %w", err)
		}
		if err := store.FaucetParamsPut(params); err != nil {
			return err
		}
	}
	return nil
}

// blockEntropy derives the per-draw entropy from the current wall clock the
// way block producers derive it from the previous block hash. It is weak and
// predictable; payout draws accept that trade-off.
func blockEntropy() [32]byte {
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(time.Now().UnixNano()))
	var out [32]byte
	copy(out[:], gethcrypto.Keccak256(nonce[:]))
	return out
}

// logEmitter forwards module events to the structured log.
type logEmitter struct {
	logger *slog.Logger
}

func (l *logEmitter) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	attrs := []any{"event", evt.EventType()}
	if carrier, ok := evt.(interface{ Event() *types.Event }); ok {
		if payload := carrier.Event(); payload != nil {
			for key, value := range payload.Attributes {
				attrs = append(attrs, strings.ReplaceAll(key, ".", "_"), value)
			}
		}
	}
	l.logger.Info("module event", attrs...)
}
