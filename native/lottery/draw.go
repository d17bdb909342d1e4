// Package lottery derives bounded pseudo-random values from chain-observable
// entropy. The inputs (block timestamp, block entropy word, module address,
// caller identity) are all public and the block producer can bias them within
// protocol tolerance, so draws are predictable to a motivated adversary. That
// is acceptable for low-stakes gamification payouts only; anything of
// adversarial value needs a verifiable-randomness collaborator instead.
package lottery

import (
	"encoding/binary"
	"errors"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// ErrInvalidRange indicates the caller supplied min > max.
var ErrInvalidRange = errors.New("lottery: min must not exceed max")

// Seed carries the chain state sampled once at call time for a draw.
type Seed struct {
	// BlockTime is the current block timestamp in seconds.
	BlockTime int64
	// Entropy is the block-level entropy word (difficulty or prevrandao).
	Entropy [32]byte
	// Module is the drawing module's own address, mixed in so distinct
	// modules sharing a block produce distinct draws.
	Module [20]byte
}

// Draw maps the keccak256 hash of the seed material and caller identity into
// the inclusive range [min, max]. Identical inputs always produce identical
// outputs. A range of one is valid and returns min.
func Draw(identity [20]byte, seed Seed, min, max uint64) (uint64, error) {
	if min > max {
		return 0, ErrInvalidRange
	}
	var material [8 + 32 + 20 + 20]byte
	binary.BigEndian.PutUint64(material[:8], uint64(seed.BlockTime))
	copy(material[8:40], seed.Entropy[:])
	copy(material[40:60], seed.Module[:])
	copy(material[60:80], identity[:])

	value := new(uint256.Int).SetBytes(gethcrypto.Keccak256(material[:]))

	span := max - min + 1
	if span == 0 {
		// min == 0 and max == MaxUint64: every uint64 is in range.
		return value.Uint64(), nil
	}
	value.Mod(value, uint256.NewInt(span))
	return min + value.Uint64(), nil
}
