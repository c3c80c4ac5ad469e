package efficiency

import (
	"fmt"

	"combatlog_check/analysis/suggestion"
)

var (
	DefaultEfficiencyBands  = suggestion.Bands{Minor: 0.85, Average: 0.80, Major: 0.75}
	DefaultWastedCastsBands = suggestion.Bands{Minor: 0, Average: 1, Major: 2}
)

func (cfg *Config) EfficiencyThreshold(c Counters) suggestion.Threshold {
	return suggestion.Threshold{
		Actual:     c.Efficiency(cfg.ReductionMs),
		Minor:      cfg.Efficiency.Minor,
		Average:    cfg.Efficiency.Average,
		Major:      cfg.Efficiency.Major,
		Comparison: suggestion.LessThan,
		Style:      suggestion.StylePercentage,
	}
}

func (cfg *Config) WastedCastsThreshold(c Counters) suggestion.Threshold {
	return suggestion.Threshold{
		Actual:     float64(c.WastedCasts),
		Minor:      cfg.WastedCasts.Minor,
		Average:    cfg.WastedCasts.Average,
		Major:      cfg.WastedCasts.Major,
		Comparison: suggestion.GreaterThan,
		Style:      suggestion.StyleNumber,
	}
}

func (cfg *Config) Suggestions(c Counters) []suggestion.Suggestion {
	var r []suggestion.Suggestion

	s, ok := suggestion.When(cfg.EfficiencyThreshold(c)).Suggest(
		fmt.Sprintf(
			"Your %s casts are not reducing the cooldown of %s efficiently. Avoid casting %s when %s is about to come off cooldown.",
			cfg.FeederName, cfg.TargetName, cfg.FeederName, cfg.TargetName,
		),
		"%s cooldown reduction efficiency",
		"%s is recommended",
	)
	if ok {
		r = append(r, s)
	}

	s, ok = suggestion.When(cfg.WastedCastsThreshold(c)).Suggest(
		fmt.Sprintf(
			"You cast %s while %s was off cooldown. Those casts did not reduce any cooldown.",
			cfg.FeederName, cfg.TargetName,
		),
		"%s wasted casts",
		"%s is recommended",
	)
	if ok {
		r = append(r, s)
	}

	return r
}

func (a *Accountant) Suggestions() []suggestion.Suggestion {
	return a.cfg.Suggestions(a.Counters())
}
