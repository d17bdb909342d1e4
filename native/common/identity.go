package common

import "errors"

// ErrIdentityRejected indicates the proof-of-humanity oracle did not accept
// the presented signature for the claimed address.
var ErrIdentityRejected = errors.New("common: identity verification failed")

// Verifier is the external proof-of-humanity oracle. Implementations must be
// read-only; engines call Verify before any state mutation in gated actions.
type Verifier interface {
	Verify(signature []byte, addr [20]byte) bool
}

// VerifierFunc adapts a plain function to the Verifier interface.
type VerifierFunc func(signature []byte, addr [20]byte) bool

// Verify implements the Verifier interface.
func (f VerifierFunc) Verify(signature []byte, addr [20]byte) bool {
	return f(signature, addr)
}

// VerifyIdentity runs the oracle check and maps a rejection to the sentinel
// error. A nil verifier rejects everything rather than failing open.
func VerifyIdentity(v Verifier, signature []byte, addr [20]byte) error {
	if v == nil || !v.Verify(signature, addr) {
		return ErrIdentityRejected
	}
	return nil
}
