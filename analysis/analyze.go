package analysis

import (
	"sort"

	"combatlog_check/analysis/efficiency"
	"combatlog_check/analysis/suggestion"
	"combatlog_check/combatlog"
	"combatlog_check/cooldown"
	"combatlog_check/wow"
)

type FightResult struct {
	FightID  int    `json:"fight_id"`
	Name     string `json:"name"`
	Kill     bool   `json:"kill"`
	Duration int    `json:"duration"`

	Counters    efficiency.Counters     `json:"counters"`
	Statistic   efficiency.Statistic    `json:"statistic"`
	Suggestions []suggestion.Suggestion `json:"suggestions"`
	Casts       []AnnotatedCast         `json:"casts"`
}

type AnnotatedCast struct {
	Timestamp int    `json:"timestamp"`
	Ability   string `json:"ability"`
	Icon      string `json:"icon,omitempty"`
	Reason    string `json:"reason"`
}

// AnalyzeEvents replays one fight of sourceID through a fresh cooldown
// tracker and accountant. The fight fields and Duration are left to the caller.
func AnalyzeEvents(cfg efficiency.Config, abilities wow.Abilities, events []combatlog.CastEvent, sourceID int) *FightResult {
	tracker := cooldown.New(abilities.Cooldowns())
	acc := efficiency.New(cfg, tracker, abilities)

	annotations := combatlog.Replay(events, sourceID, tracker, acc)

	r := &FightResult{
		Counters:    acc.Counters(),
		Statistic:   acc.Statistic(),
		Suggestions: acc.Suggestions(),
		Casts:       make([]AnnotatedCast, 0, len(annotations)),
	}

	for idx, a := range annotations {
		if !a.Inefficient {
			continue
		}
		r.Casts = append(
			r.Casts,
			AnnotatedCast{
				Timestamp: events[idx].Timestamp,
				Ability:   abilities.Name(events[idx].AbilityID),
				Icon:      abilities.IconURL(events[idx].AbilityID),
				Reason:    a.Reason,
			},
		)
	}
	sort.Slice(
		r.Casts,
		func(i, k int) bool {
			return r.Casts[i].Timestamp < r.Casts[k].Timestamp
		},
	)

	return r
}
