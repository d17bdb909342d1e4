package garage

import (
	"strconv"

	"wormychain/core/events"
	"wormychain/core/types"
)

const (
	// EventTypePitStop is emitted when a driver completes a daily pit stop.
	EventTypePitStop = "garage.pitstop.completed"
	// EventTypeRaceFinished is emitted when a driver finishes a daily race.
	EventTypeRaceFinished = "garage.race.finished"
	// EventTypeFuelClaimed is emitted when a driver claims the daily fuel reward.
	EventTypeFuelClaimed = "garage.fuel.claimed"
	// EventTypeParamsUpdated is emitted on every administrator parameter change.
	EventTypeParamsUpdated = "garage.params.updated"
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

// PitStopEvent carries the day index and new counter so indexers can rebuild
// usage history without querying state.
func PitStopEvent(driver string, day uint64, count uint32, points, seasonPoints uint64) *types.Event {
	return &types.Event{
		Type: EventTypePitStop,
		Attributes: map[string]string{
			"driver":       driver,
			"day":          strconv.FormatUint(day, 10),
			"count":        strconv.FormatUint(uint64(count), 10),
			"points":       strconv.FormatUint(points, 10),
			"seasonPoints": strconv.FormatUint(seasonPoints, 10),
		},
	}
}

// RaceFinishedEvent reports the drawn race points and the season they count
// toward.
func RaceFinishedEvent(driver string, day uint64, count uint32, season, points, seasonPoints uint64) *types.Event {
	return &types.Event{
		Type: EventTypeRaceFinished,
		Attributes: map[string]string{
			"driver":       driver,
			"day":          strconv.FormatUint(day, 10),
			"count":        strconv.FormatUint(uint64(count), 10),
			"season":       strconv.FormatUint(season, 10),
			"points":       strconv.FormatUint(points, 10),
			"seasonPoints": strconv.FormatUint(seasonPoints, 10),
		},
	}
}

// FuelClaimedEvent reports a paid-out fuel claim.
func FuelClaimedEvent(driver string, day uint64, count uint32, amount string) *types.Event {
	return &types.Event{
		Type: EventTypeFuelClaimed,
		Attributes: map[string]string{
			"driver": driver,
			"day":    strconv.FormatUint(day, 10),
			"count":  strconv.FormatUint(uint64(count), 10),
			"amount": amount,
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
