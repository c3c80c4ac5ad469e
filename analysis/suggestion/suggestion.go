package suggestion

import (
	"fmt"

	"github.com/pkg/errors"
)

type Importance int

const (
	ImportanceNone Importance = iota
	ImportanceMinor
	ImportanceAverage
	ImportanceMajor
)

func (i Importance) String() string {
	switch i {
	case ImportanceMinor:
		return "minor"
	case ImportanceAverage:
		return "average"
	case ImportanceMajor:
		return "major"
	}
	return "none"
}

func (i Importance) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Importance) UnmarshalText(b []byte) error {
	switch string(b) {
	case "minor":
		*i = ImportanceMinor
	case "average":
		*i = ImportanceAverage
	case "major":
		*i = ImportanceMajor
	case "none", "":
		*i = ImportanceNone
	default:
		return errors.Errorf("unknown importance %q", b)
	}
	return nil
}

type Comparison int

const (
	// LessThan: an actual value below the bands is bad.
	LessThan Comparison = iota
	// GreaterThan: an actual value above the bands is bad.
	GreaterThan
)

type Style int

const (
	StyleNumber Style = iota
	StylePercentage
)

type Threshold struct {
	Actual     float64
	Minor      float64
	Average    float64
	Major      float64
	Comparison Comparison
	Style      Style
}

// Bands are the three severity limits of a threshold, as configured.
type Bands struct {
	Minor   float64 `toml:"minor" json:"minor"`
	Average float64 `toml:"average" json:"average"`
	Major   float64 `toml:"major" json:"major"`
}

func (t Threshold) Evaluate() Importance {
	check := func(limit float64) bool {
		if t.Comparison == LessThan {
			return t.Actual < limit
		}
		return t.Actual > limit
	}

	switch {
	case check(t.Major):
		return ImportanceMajor
	case check(t.Average):
		return ImportanceAverage
	case check(t.Minor):
		return ImportanceMinor
	}
	return ImportanceNone
}

func (t Threshold) Format(v float64) string {
	switch t.Style {
	case StylePercentage:
		return fmt.Sprintf("%.2f%%", v*100)
	}
	return fmt.Sprintf("%g", v)
}

type Suggestion struct {
	Importance  Importance `json:"importance"`
	Text        string     `json:"text"`
	Actual      string     `json:"actual"`
	Recommended string     `json:"recommended"`
}

type Builder struct {
	threshold Threshold
}

func When(t Threshold) Builder {
	return Builder{threshold: t}
}

// Suggest returns the suggestion, or ok == false when the actual value is
// within all bands.
func (b Builder) Suggest(text string, actual string, recommended string) (s Suggestion, ok bool) {
	imp := b.threshold.Evaluate()
	if imp == ImportanceNone {
		return Suggestion{}, false
	}

	op := ">"
	if b.threshold.Comparison == GreaterThan {
		op = "<="
	}

	return Suggestion{
		Importance:  imp,
		Text:        text,
		Actual:      fmt.Sprintf(actual, b.threshold.Format(b.threshold.Actual)),
		Recommended: fmt.Sprintf(recommended, op+" "+b.threshold.Format(b.threshold.Minor)),
	}, true
}
