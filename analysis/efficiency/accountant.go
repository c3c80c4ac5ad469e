package efficiency

import (
	"fmt"
	"time"

	"combatlog_check/analysis/suggestion"
	"combatlog_check/combatlog"
)

// Cooldowns is the cooldown state the accountant queries and commands. The
// implementation owns the state; the accountant never changes it directly.
type Cooldowns interface {
	IsOnCooldown(abilityID int) bool
	CooldownRemaining(abilityID int) int
	ReduceCooldown(abilityID int, amountMs int) int
}

type GCDLookup interface {
	GCD(abilityID int) int
}

type Config struct {
	Feeder     int
	FeederName string
	Target     int
	TargetName string

	ReductionMs int

	ResourceType      int
	ResourceName      string
	ResourceThreshold int

	Efficiency  suggestion.Bands
	WastedCasts suggestion.Bands
}

// Accountant tracks whether every cast of the feeder ability reduced the
// target's cooldown without overflow.
type Accountant struct {
	cfg       Config
	cooldowns Cooldowns
	gcd       GCDLookup

	effectiveReduction int
	wastedReduction    int
	wastedCasts        int
	totalCasts         int
}

func New(cfg Config, cooldowns Cooldowns, gcd GCDLookup) *Accountant {
	return &Accountant{
		cfg:       cfg,
		cooldowns: cooldowns,
		gcd:       gcd,
	}
}

// OnCast handles a single cast; casts of other abilities are ignored.
func (a *Accountant) OnCast(event *combatlog.CastEvent) *combatlog.Annotation {
	if event.AbilityID != a.cfg.Feeder {
		return nil
	}
	return a.Observe(event)
}

// Observe accounts for one feeder cast and returns the annotation to attach
// to it, if any.
func (a *Accountant) Observe(event *combatlog.CastEvent) *combatlog.Annotation {
	a.totalCasts++

	if !a.cooldowns.IsOnCooldown(a.cfg.Target) {
		a.wastedCasts++
		a.wastedReduction += a.cfg.ReductionMs

		return &combatlog.Annotation{
			Inefficient: true,
			Reason:      fmt.Sprintf("%s was cast while %s was off cooldown.", a.cfg.FeederName, a.cfg.TargetName),
		}
	}

	remaining := a.cooldowns.CooldownRemaining(a.cfg.Target)
	gcd := a.gcd.GCD(a.cfg.Feeder)
	cutoff := a.cfg.ReductionMs + gcd

	if remaining >= cutoff {
		a.effectiveReduction += a.cooldowns.ReduceCooldown(a.cfg.Target, a.cfg.ReductionMs)
		return nil
	}

	// the target comes back during the feeder's own GCD, so anything past
	// remaining - GCD is lost
	effective := remaining - gcd
	if effective < 0 {
		effective = 0
	}
	if effective > 0 {
		a.effectiveReduction += a.cooldowns.ReduceCooldown(a.cfg.Target, effective)
	}
	a.wastedReduction += a.cfg.ReductionMs - effective

	amount, ok := event.Resource(a.cfg.ResourceType)
	if !ok || amount >= a.cfg.ResourceThreshold {
		return nil
	}

	return &combatlog.Annotation{
		Inefficient: true,
		Reason: fmt.Sprintf(
			"%s was cast while %s had less than %.1fs of cooldown remaining and you had only %d %s.",
			a.cfg.FeederName, a.cfg.TargetName, float64(cutoff)/1000, amount, a.cfg.ResourceName,
		),
	}
}

type Counters struct {
	EffectiveReduction int `json:"effective_reduction_ms"`
	WastedReduction    int `json:"wasted_reduction_ms"`
	WastedCasts        int `json:"wasted_casts"`
	TotalCasts         int `json:"total_casts"`
}

func (a *Accountant) Counters() Counters {
	return Counters{
		EffectiveReduction: a.effectiveReduction,
		WastedReduction:    a.wastedReduction,
		WastedCasts:        a.wastedCasts,
		TotalCasts:         a.totalCasts,
	}
}

func (a *Accountant) TotalPossibleReduction() int {
	return a.Counters().TotalPossibleReduction(a.cfg.ReductionMs)
}

func (a *Accountant) Efficiency() float64 {
	return a.Counters().Efficiency(a.cfg.ReductionMs)
}

func (a *Accountant) WastedSeconds() float64 {
	return a.Counters().WastedSeconds()
}

// TotalPossibleReduction is floored at 1 so Efficiency never divides by zero.
func (c Counters) TotalPossibleReduction(reductionMs int) int {
	p := c.TotalCasts * reductionMs
	if p < 1 {
		return 1
	}
	return p
}

func (c Counters) Efficiency(reductionMs int) float64 {
	return float64(c.EffectiveReduction) / float64(c.TotalPossibleReduction(reductionMs))
}

func (c Counters) WastedSeconds() float64 {
	return float64(c.WastedReduction) / 1000
}

func (c Counters) Add(o Counters) Counters {
	return Counters{
		EffectiveReduction: c.EffectiveReduction + o.EffectiveReduction,
		WastedReduction:    c.WastedReduction + o.WastedReduction,
		WastedCasts:        c.WastedCasts + o.WastedCasts,
		TotalCasts:         c.TotalCasts + o.TotalCasts,
	}
}

type Statistic struct {
	EffectiveReduction time.Duration `json:"effective_reduction"`
	WastedReduction    time.Duration `json:"wasted_reduction"`
	Efficiency         float64       `json:"efficiency"` // percent
}

func (c Counters) Statistic(reductionMs int) Statistic {
	return Statistic{
		EffectiveReduction: time.Duration(c.EffectiveReduction) * time.Millisecond,
		WastedReduction:    time.Duration(c.WastedReduction) * time.Millisecond,
		Efficiency:         c.Efficiency(reductionMs) * 100,
	}
}

func (a *Accountant) Statistic() Statistic {
	return a.Counters().Statistic(a.cfg.ReductionMs)
}
