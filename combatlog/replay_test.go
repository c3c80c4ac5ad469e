package combatlog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	seen     []int
	annotate map[int]string
}

func (r *recorder) OnCast(e *CastEvent) *Annotation {
	r.seen = append(r.seen, e.Timestamp)
	if reason, ok := r.annotate[e.Timestamp]; ok {
		return &Annotation{Inefficient: true, Reason: reason}
	}
	return nil
}

func TestReplayOrdersAndFilters(t *testing.T) {
	events := []CastEvent{
		{Timestamp: 300, Type: EventTypeCast, SourceID: 1},
		{Timestamp: 100, Type: EventTypeCast, SourceID: 1},
		{Timestamp: 200, Type: EventTypeBeginCast, SourceID: 1},
		{Timestamp: 150, Type: EventTypeCast, SourceID: 2},
		{Timestamp: 200, Type: EventTypeCast, SourceID: 1},
	}

	r := &recorder{}
	Replay(events, 1, r)

	assert.Equal(t, []int{100, 200, 300}, r.seen)
}

func TestReplayKeepsFirstAnnotation(t *testing.T) {
	events := []CastEvent{
		{Timestamp: 100, Type: EventTypeCast, SourceID: 1},
		{Timestamp: 200, Type: EventTypeCast, SourceID: 1},
	}

	first := &recorder{annotate: map[int]string{200: "first"}}
	second := &recorder{annotate: map[int]string{100: "only", 200: "second"}}
	a := Replay(events, 1, first, second)

	require.Len(t, a, 2)
	assert.Equal(t, "only", a[0].Reason)
	assert.Equal(t, "first", a[1].Reason)
}

func TestDecode(t *testing.T) {
	src := `[
		{"timestamp": 1200, "type": "cast", "sourceID": 7, "targetID": 30, "abilityGameID": 100780, "fight": 3,
		 "classResources": [{"amount": 42, "max": 100, "type": 3}]},
		{"timestamp": 1300, "type": "begincast", "sourceID": 7, "abilityGameID": 1}
	]`

	events, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, 100780, events[0].AbilityID)
	amount, ok := events[0].Resource(3)
	assert.True(t, ok)
	assert.Equal(t, 42, amount)

	_, ok = events[1].Resource(3)
	assert.False(t, ok)
}

func TestDecodeRawEmpty(t *testing.T) {
	events, err := DecodeRaw(nil)
	assert.NoError(t, err)
	assert.Nil(t, events)

	_, err = DecodeRaw([]byte("{"))
	assert.Error(t, err)
}
