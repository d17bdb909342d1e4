package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"wormychain/native/checkin"
	"wormychain/native/common"
	"wormychain/native/faucet"
	"wormychain/native/garage"
	"wormychain/native/vesting"
	"wormychain/state"
)

const (
	testAdmin  = "0x00000000000000000000000000000000000000ad"
	testPool   = "0x00000000000000000000000000000000000000b0"
	testDriver = "0x00000000000000000000000000000000000000d1"
)

func newTestServer(t *testing.T) (*Server, *state.Memory, *state.Ledger) {
	t.Helper()

	mem := state.NewMemory()
	ledger := state.NewLedger()

	admin, err := decodeAddress(testAdmin)
	if err != nil {
		t.Fatalf("decode admin: %v", err)
	}
	pool, err := decodeAddress(testPool)
	if err != nil {
		t.Fatalf("decode pool: %v", err)
	}
	ledger.Mint(pool, big.NewInt(1_000_000))

	verifier := common.VerifierFunc(func(signature []byte, addr [20]byte) bool { return true })
	now := func() int64 { return 1_700_000_000 }
	entropy := func() [32]byte { return [32]byte{0x01} }

	garageEngine := garage.NewEngine()
	garageEngine.SetState(mem)
	garageEngine.SetLedger(ledger)
	garageEngine.SetVerifier(verifier)
	garageEngine.SetNowFunc(now)
	garageEngine.SetEntropyFunc(entropy)
	garageEngine.SetAdmin(admin)
	garageEngine.SetPool(pool)

	checkinEngine := checkin.NewEngine()
	checkinEngine.SetState(mem)
	checkinEngine.SetLedger(ledger)
	checkinEngine.SetVerifier(verifier)
	checkinEngine.SetNowFunc(now)
	checkinEngine.SetAdmin(admin)
	checkinEngine.SetPool(pool)

	faucetEngine := faucet.NewEngine()
	faucetEngine.SetState(mem)
	faucetEngine.SetLedger(ledger)
	faucetEngine.SetVerifier(verifier)
	faucetEngine.SetNowFunc(now)
	faucetEngine.SetEntropyFunc(entropy)
	faucetEngine.SetAdmin(admin)
	faucetEngine.SetPool(pool)

	vestingEngine := vesting.NewEngine()
	vestingEngine.SetState(mem)
	vestingEngine.SetLedger(ledger)
	vestingEngine.SetNowFunc(now)
	vestingEngine.SetAdmin(admin)
	vestingEngine.SetPool(pool)

	return NewServer(garageEngine, checkinEngine, faucetEngine, vestingEngine, nil), mem, ledger
}

func call(t *testing.T, handler http.Handler, method string, params interface{}) *RPCResponse {
	t.Helper()

	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	body := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":%q,"params":[%s]}`, method, raw)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	resp := &RPCResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), resp); err != nil {
		t.Fatalf("unmarshal response: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

func TestGaragePitStopOverHTTP(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	resp := call(t, handler, "garage_pitStop", map[string]string{"driver": testDriver})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var decoded garageActionResult
	if err := json.Unmarshal(result, &decoded); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if decoded.Count != 1 {
		t.Fatalf("expected count 1, got %d", decoded.Count)
	}
	if decoded.Points == 0 {
		t.Fatalf("expected points to be awarded")
	}
}

func TestGarageRateLimitMapsToRPCError(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	params, err := server.garage.Params()
	if err != nil {
		t.Fatalf("garage params: %v", err)
	}
	for i := uint32(0); i < params.PitStopCap; i++ {
		resp := call(t, handler, "garage_pitStop", map[string]string{"driver": testDriver})
		if resp.Error != nil {
			t.Fatalf("pit stop %d rejected: %+v", i+1, resp.Error)
		}
	}

	resp := call(t, handler, "garage_pitStop", map[string]string{"driver": testDriver})
	if resp.Error == nil {
		t.Fatal("expected rate limit error")
	}
	if resp.Error.Code != codeRateLimited {
		t.Fatalf("expected code %d, got %d", codeRateLimited, resp.Error.Code)
	}
}

func TestFaucetClaimPaysWithinRange(t *testing.T) {
	server, _, ledger := newTestServer(t)
	handler := server.Handler()

	resp := call(t, handler, "faucet_claim", map[string]string{"claimer": testDriver})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var decoded faucetClaimResult
	if err := json.Unmarshal(result, &decoded); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	amount, ok := new(big.Int).SetString(decoded.Amount, 10)
	if !ok {
		t.Fatalf("invalid amount %q", decoded.Amount)
	}
	params, err := server.faucet.Params()
	if err != nil {
		t.Fatalf("faucet params: %v", err)
	}
	if amount.Uint64() < params.MinPayout || amount.Uint64() > params.MaxPayout {
		t.Fatalf("amount %s outside [%d, %d]", amount, params.MinPayout, params.MaxPayout)
	}

	claimer, err := decodeAddress(testDriver)
	if err != nil {
		t.Fatalf("decode claimer: %v", err)
	}
	balance, err := ledger.BalanceOf(claimer)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cmp(amount) != 0 {
		t.Fatalf("balance %s does not match claimed %s", balance, amount)
	}
}

func TestCheckinAdminRequiresAuthority(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	resp := call(t, handler, "checkin_setPaused", map[string]interface{}{
		"caller": testDriver,
		"paused": true,
	})
	if resp.Error == nil {
		t.Fatal("expected unauthorized error")
	}
	if resp.Error.Code != codeUnauthorized {
		t.Fatalf("expected code %d, got %d", codeUnauthorized, resp.Error.Code)
	}

	resp = call(t, handler, "checkin_setPaused", map[string]interface{}{
		"caller": testAdmin,
		"paused": true,
	})
	if resp.Error != nil {
		t.Fatalf("admin rejected: %+v", resp.Error)
	}

	resp = call(t, handler, "checkin_checkIn", map[string]string{"player": testDriver})
	if resp.Error == nil {
		t.Fatal("expected paused error")
	}
	if resp.Error.Code != codePaused {
		t.Fatalf("expected code %d, got %d", codePaused, resp.Error.Code)
	}
}

func TestVestingLifecycleOverHTTP(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	resp := call(t, handler, "vesting_createSchedule", map[string]interface{}{
		"caller":      testAdmin,
		"beneficiary": testDriver,
		"start":       int64(1_700_000_100),
		"duration":    int64(1000),
		"total":       "5000",
	})
	if resp.Error != nil {
		t.Fatalf("create schedule: %+v", resp.Error)
	}

	resp = call(t, handler, "vesting_getSchedule", map[string]string{"beneficiary": testDriver})
	if resp.Error != nil {
		t.Fatalf("get schedule: %+v", resp.Error)
	}
	result, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var schedule vestingScheduleResult
	if err := json.Unmarshal(result, &schedule); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	if schedule.Total != "5000" {
		t.Fatalf("unexpected total %q", schedule.Total)
	}

	resp = call(t, handler, "vesting_release", map[string]string{"beneficiary": testDriver})
	if resp.Error == nil {
		t.Fatal("expected nothing-to-release before start")
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	resp := call(t, handler, "garage_unknown", map[string]string{})
	if resp.Error == nil {
		t.Fatal("expected method-not-found error")
	}
	if resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected code %d, got %d", codeMethodNotFound, resp.Error.Code)
	}
}
