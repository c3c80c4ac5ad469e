package suggestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateLessThan(t *testing.T) {
	cases := []struct {
		actual float64
		want   Importance
	}{
		{0.95, ImportanceNone},
		{0.85, ImportanceNone},
		{0.84, ImportanceMinor},
		{0.80, ImportanceMinor},
		{0.79, ImportanceAverage},
		{0.74, ImportanceMajor},
		{0, ImportanceMajor},
	}

	for _, c := range cases {
		th := Threshold{Actual: c.actual, Minor: 0.85, Average: 0.80, Major: 0.75, Comparison: LessThan}
		assert.Equal(t, c.want, th.Evaluate(), "actual %v", c.actual)
	}
}

func TestEvaluateGreaterThan(t *testing.T) {
	cases := []struct {
		actual float64
		want   Importance
	}{
		{0, ImportanceNone},
		{1, ImportanceMinor},
		{2, ImportanceAverage},
		{3, ImportanceMajor},
	}

	for _, c := range cases {
		th := Threshold{Actual: c.actual, Minor: 0, Average: 1, Major: 2, Comparison: GreaterThan}
		assert.Equal(t, c.want, th.Evaluate(), "actual %v", c.actual)
	}
}

func TestSuggest(t *testing.T) {
	th := Threshold{Actual: 0.5, Minor: 0.85, Average: 0.80, Major: 0.75, Comparison: LessThan, Style: StylePercentage}

	s, ok := When(th).Suggest("Use it better.", "%s efficiency", "%s is recommended")
	require.True(t, ok)
	assert.Equal(t, ImportanceMajor, s.Importance)
	assert.Equal(t, "50.00% efficiency", s.Actual)
	assert.Equal(t, "> 85.00% is recommended", s.Recommended)

	th.Actual = 0.9
	_, ok = When(th).Suggest("", "%s", "%s")
	assert.False(t, ok)
}

func TestImportanceText(t *testing.T) {
	for _, imp := range []Importance{ImportanceNone, ImportanceMinor, ImportanceAverage, ImportanceMajor} {
		b, err := imp.MarshalText()
		require.NoError(t, err)

		var got Importance
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, imp, got)
	}

	var bad Importance
	assert.Error(t, bad.UnmarshalText([]byte("huge")))
}
