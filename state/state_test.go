package state

import (
	"math/big"
	"testing"

	"wormychain/native/daily"
	"wormychain/native/garage"
)

func TestLedgerTransfer(t *testing.T) {
	ledger := NewLedger()
	var alice, bob [20]byte
	alice[0], bob[0] = 0xa1, 0xb2

	ledger.Mint(alice, big.NewInt(100))

	if err := ledger.Transfer(alice, bob, big.NewInt(60)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	balance, err := ledger.BalanceOf(bob)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Int64() != 60 {
		t.Fatalf("expected 60, got %s", balance)
	}

	if err := ledger.Transfer(alice, bob, big.NewInt(41)); err == nil {
		t.Fatal("expected insufficient balance")
	}
	balance, err = ledger.BalanceOf(alice)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Int64() != 40 {
		t.Fatalf("failed transfer must not move funds, got %s", balance)
	}
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	ledger := NewLedger()
	var alice, bob [20]byte
	alice[0], bob[0] = 0xa1, 0xb2
	ledger.Mint(alice, big.NewInt(10))

	if err := ledger.Transfer(alice, bob, big.NewInt(0)); err == nil {
		t.Fatal("expected zero transfer to be rejected")
	}
	if err := ledger.Transfer(alice, bob, nil); err == nil {
		t.Fatal("expected nil transfer to be rejected")
	}
}

func TestMemoryUsageIsolatedPerAction(t *testing.T) {
	mem := NewMemory()
	var driver [20]byte
	driver[0] = 0xd1

	if err := mem.GarageUsagePut(driver, garage.ActionPitStop, daily.UsageRecord{Day: 7, Count: 2}); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec, ok, err := mem.GarageUsageGet(driver, garage.ActionPitStop)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if rec.Day != 7 || rec.Count != 2 {
		t.Fatalf("unexpected record %+v", rec)
	}

	if _, ok, err := mem.GarageUsageGet(driver, garage.ActionRace); err != nil || ok {
		t.Fatalf("race usage must be independent: ok=%v err=%v", ok, err)
	}
}

func TestMemoryParamsCloneOnRead(t *testing.T) {
	mem := NewMemory()
	if err := mem.GarageParamsPut(garage.DefaultParams()); err != nil {
		t.Fatalf("put: %v", err)
	}
	first, ok, err := mem.GarageParamsGet()
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	first.PitStopCap = 99

	second, _, err := mem.GarageParamsGet()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if second.PitStopCap == 99 {
		t.Fatal("stored params must not alias returned copies")
	}
}
