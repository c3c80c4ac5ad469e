package combatlog

const (
	EventTypeCast      = "cast"
	EventTypeBeginCast = "begincast"
)

// CastEvent is a single cast as reported by the Warcraft Logs events API.
type CastEvent struct {
	Timestamp int    `json:"timestamp"`
	Type      string `json:"type"`
	SourceID  int    `json:"sourceID"`
	TargetID  int    `json:"targetID"`
	AbilityID int    `json:"abilityGameID"`
	Fight     int    `json:"fight"`

	ClassResources []ClassResource `json:"classResources,omitempty"`
}

type ClassResource struct {
	Type   int `json:"type"`
	Amount int `json:"amount"`
	Max    int `json:"max"`
}

// Resource returns the amount of the given resource type at cast time.
func (e *CastEvent) Resource(resourceType int) (amount int, ok bool) {
	for _, r := range e.ClassResources {
		if r.Type == resourceType {
			return r.Amount, true
		}
	}
	return 0, false
}

// Annotation marks a cast as inefficient for later display.
type Annotation struct {
	Inefficient bool   `json:"inefficient"`
	Reason      string `json:"reason"`
}
