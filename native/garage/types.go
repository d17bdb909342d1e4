package garage

// Action enumerates the daily rate-limited garage actions.
type Action uint8

const (
	ActionPitStop Action = iota
	ActionRace
	ActionFuelClaim
)

// Valid reports whether the action is a known garage action.
func (a Action) Valid() bool {
	switch a {
	case ActionPitStop, ActionRace, ActionFuelClaim:
		return true
	default:
		return false
	}
}

func (a Action) String() string {
	switch a {
	case ActionPitStop:
		return "pitstop"
	case ActionRace:
		return "race"
	case ActionFuelClaim:
		return "fuel"
	default:
		return "unknown"
	}
}

// SeasonScore accumulates race points for one identity within one season.
// Points never reset within a season; a season change simply opens a fresh
// accumulator while the lifetime total keeps growing.
type SeasonScore struct {
	Season uint64 `json:"season"`
	Points uint64 `json:"points"`
}
