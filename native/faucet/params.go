package faucet

import "fmt"

// Params controls the randomized daily faucet. Payout bounds are expressed in
// the smallest token denomination and drawn uniformly per claim.
type Params struct {
	Paused       bool   `json:"paused"`
	ClaimsPerDay uint32 `json:"claimsPerDay"`
	MinPayout    uint64 `json:"minPayout"`
	MaxPayout    uint64 `json:"maxPayout"`
}

// DefaultParams returns a configuration suitable for tests and development
// networks: one claim per day, payouts between 50 and 500 units.
func DefaultParams() *Params {
	return &Params{
		ClaimsPerDay: 1,
		MinPayout:    50,
		MaxPayout:    500,
	}
}

// Clone produces a copy of the parameters.
func (p *Params) Clone() *Params {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Validate ensures the parameters fall within safe operating ranges.
func (p *Params) Validate() error {
	if p == nil {
		return fmt.Errorf("nil faucet params")
	}
	if p.ClaimsPerDay == 0 {
		return fmt.Errorf("claims per day must be positive")
	}
	if p.MinPayout == 0 {
		return fmt.Errorf("min payout must be positive")
	}
	if p.MinPayout > p.MaxPayout {
		return fmt.Errorf("min payout must not exceed max payout")
	}
	return nil
}
