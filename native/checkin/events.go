package checkin

import (
	"strconv"

	"wormychain/core/events"
	"wormychain/core/types"
)

const (
	// EventTypeCheckedIn is emitted when a player completes the daily check-in.
	EventTypeCheckedIn = "checkin.completed"
	// EventTypeStreakUpdated is emitted whenever a check-in changes the streak.
	EventTypeStreakUpdated = "checkin.streak.updated"
	// EventTypeVoteCast is emitted when a player casts the daily vote.
	EventTypeVoteCast = "checkin.vote.cast"
	// EventTypeCheerSent is emitted when a player cheers another player.
	EventTypeCheerSent = "checkin.cheer.sent"
	// EventTypePredictionMade is emitted when a player locks a daily prediction.
	EventTypePredictionMade = "checkin.prediction.made"
	// EventTypeParamsUpdated is emitted on every administrator parameter change.
	EventTypeParamsUpdated = "checkin.params.updated"
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

// CheckedInEvent reports a completed check-in and its payout.
func CheckedInEvent(player string, day uint64, reward string) *types.Event {
	return &types.Event{
		Type: EventTypeCheckedIn,
		Attributes: map[string]string{
			"player": player,
			"day":    strconv.FormatUint(day, 10),
			"reward": reward,
		},
	}
}

// StreakUpdatedEvent carries the streak values after a check-in so observers
// can track runs without reading state.
func StreakUpdatedEvent(player string, day, current, max uint64) *types.Event {
	return &types.Event{
		Type: EventTypeStreakUpdated,
		Attributes: map[string]string{
			"player":  player,
			"day":     strconv.FormatUint(day, 10),
			"current": strconv.FormatUint(current, 10),
			"max":     strconv.FormatUint(max, 10),
		},
	}
}

// VoteCastEvent reports a daily vote.
func VoteCastEvent(player string, day uint64, count uint32, option string) *types.Event {
	return &types.Event{
		Type: EventTypeVoteCast,
		Attributes: map[string]string{
			"player": player,
			"day":    strconv.FormatUint(day, 10),
			"count":  strconv.FormatUint(uint64(count), 10),
			"option": option,
		},
	}
}

// CheerSentEvent reports a cheer directed at another player.
func CheerSentEvent(player, target string, day uint64, count uint32) *types.Event {
	return &types.Event{
		Type: EventTypeCheerSent,
		Attributes: map[string]string{
			"player": player,
			"target": target,
			"day":    strconv.FormatUint(day, 10),
			"count":  strconv.FormatUint(uint64(count), 10),
		},
	}
}

// PredictionMadeEvent reports a locked daily prediction.
func PredictionMadeEvent(player string, day uint64, count uint32, pick string) *types.Event {
	return &types.Event{
		Type: EventTypePredictionMade,
		Attributes: map[string]string{
			"player": player,
			"day":    strconv.FormatUint(day, 10),
			"count":  strconv.FormatUint(uint64(count), 10),
			"pick":   pick,
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
