package vesting

import (
	"strconv"

	"wormychain/core/events"
	"wormychain/core/types"
)

const (
	// EventTypeScheduleCreated is emitted when the administrator grants a schedule.
	EventTypeScheduleCreated = "vesting.schedule.created"
	// EventTypeReleased is emitted when a beneficiary claims vested tokens.
	EventTypeReleased = "vesting.released"
	// EventTypeRevoked is emitted when the administrator cancels a schedule.
	EventTypeRevoked = "vesting.revoked"
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

// ScheduleCreatedEvent describes a freshly granted vesting schedule.
func ScheduleCreatedEvent(beneficiary string, start, duration int64, total string) *types.Event {
	return &types.Event{
		Type: EventTypeScheduleCreated,
		Attributes: map[string]string{
			"beneficiary": beneficiary,
			"start":       strconv.FormatInt(start, 10),
			"duration":    strconv.FormatInt(duration, 10),
			"total":       total,
		},
	}
}

// ReleasedEvent describes a successful vested-token claim.
func ReleasedEvent(beneficiary string, amount, claimed string) *types.Event {
	return &types.Event{
		Type: EventTypeReleased,
		Attributes: map[string]string{
			"beneficiary": beneficiary,
			"amount":      amount,
			"claimed":     claimed,
		},
	}
}

// RevokedEvent describes an administrator revocation and the remainder swept
// back to the administrator.
func RevokedEvent(beneficiary string, admin string, remainder string) *types.Event {
	return &types.Event{
		Type: EventTypeRevoked,
		Attributes: map[string]string{
			"beneficiary": beneficiary,
			"admin":       admin,
			"remainder":   remainder,
		},
	}
}
