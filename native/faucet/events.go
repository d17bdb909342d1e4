package faucet

import (
	"strconv"

	"wormychain/core/events"
	"wormychain/core/types"
)

const (
	// EventTypeClaimed is emitted when a claimer receives a faucet payout.
	EventTypeClaimed = "faucet.claimed"
	// EventTypeParamsUpdated is emitted on every administrator parameter change.
	EventTypeParamsUpdated = "faucet.params.updated"
)

type eventEnvelope struct {
	evt *types.Event
}

func (e eventEnvelope) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e eventEnvelope) Event() *types.Event { return e.evt }

// WrapEvent converts a raw event payload into the emitter-friendly envelope.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

// ClaimedEvent reports a paid-out faucet claim with the day index and claim
// count so indexers can rebuild usage without reading state.
func ClaimedEvent(claimer string, day uint64, count uint32, amount string) *types.Event {
	return &types.Event{
		Type: EventTypeClaimed,
		Attributes: map[string]string{
			"claimer": claimer,
			"day":     strconv.FormatUint(day, 10),
			"count":   strconv.FormatUint(uint64(count), 10),
			"amount":  amount,
		},
	}
}

// ParamsUpdatedEvent carries the parameter name with its before and after
// values.
func ParamsUpdatedEvent(admin, field, before, after string) *types.Event {
	return &types.Event{
		Type: EventTypeParamsUpdated,
		Attributes: map[string]string{
			"admin":  admin,
			"field":  field,
			"before": before,
			"after":  after,
		},
	}
}
