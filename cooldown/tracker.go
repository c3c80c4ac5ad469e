package cooldown

import "combatlog_check/combatlog"

// Tracker keeps the cooldown state of a player's abilities during a replay.
// It is not safe for concurrent use; one Tracker belongs to one replay.
type Tracker struct {
	durations map[int]int
	ends      map[int]int
	now       int
}

// New returns a tracker for the given abilities, keyed by ability ID with the
// cooldown in milliseconds.
func New(durations map[int]int) *Tracker {
	t := &Tracker{
		durations: make(map[int]int, len(durations)),
		ends:      make(map[int]int, len(durations)),
	}
	for id, d := range durations {
		if d > 0 {
			t.durations[id] = d
		}
	}
	return t
}

// OnCast advances the clock and starts the cooldown of tracked abilities.
func (t *Tracker) OnCast(event *combatlog.CastEvent) *combatlog.Annotation {
	t.Advance(event.Timestamp)

	if d, ok := t.durations[event.AbilityID]; ok {
		t.ends[event.AbilityID] = event.Timestamp + d
	}
	return nil
}

// Advance moves the clock forward. The clock never goes back.
func (t *Tracker) Advance(timestamp int) {
	if timestamp > t.now {
		t.now = timestamp
	}
}

func (t *Tracker) IsOnCooldown(abilityID int) bool {
	return t.CooldownRemaining(abilityID) > 0
}

func (t *Tracker) CooldownRemaining(abilityID int) int {
	end, ok := t.ends[abilityID]
	if !ok || end <= t.now {
		return 0
	}
	return end - t.now
}

// ReduceCooldown removes up to amountMs from the remaining cooldown and
// reports how much was actually removed.
func (t *Tracker) ReduceCooldown(abilityID int, amountMs int) int {
	if amountMs <= 0 {
		return 0
	}

	remaining := t.CooldownRemaining(abilityID)
	if remaining == 0 {
		return 0
	}

	applied := amountMs
	if applied > remaining {
		applied = remaining
	}
	t.ends[abilityID] -= applied

	return applied
}
