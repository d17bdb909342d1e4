package common

import "errors"

// ErrReentrantCall indicates a nested call entered a module while another
// mutating call was still in flight on the same instance.
var ErrReentrantCall = errors.New("common: reentrant call")

// CallGuard marks a module instance busy for the duration of a mutating call
// so nested invocations triggered by an external transfer fail fast. The host
// execution model is fully serialized, so a plain bool suffices; no atomics
// are needed.
type CallGuard struct {
	busy bool
}

// Enter acquires the guard. Callers must pair it with a deferred Exit so the
// guard is released on every exit path, including failures.
func (g *CallGuard) Enter() error {
	if g == nil {
		return nil
	}
	if g.busy {
		return ErrReentrantCall
	}
	g.busy = true
	return nil
}

// Exit releases the guard unconditionally.
func (g *CallGuard) Exit() {
	if g == nil {
		return
	}
	g.busy = false
}
