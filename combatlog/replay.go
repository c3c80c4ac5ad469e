package combatlog

import "sort"

// Listener is called once per replayed event, in chronological order.
// A non-nil annotation is attached to the event.
type Listener interface {
	OnCast(event *CastEvent) *Annotation
}

// Annotations maps an index into the replayed slice to its annotation.
type Annotations map[int]Annotation

// Replay sorts events by timestamp and feeds every cast by sourceID to the
// listeners in registration order. The events slice is reordered in place.
func Replay(events []CastEvent, sourceID int, listeners ...Listener) Annotations {
	sort.SliceStable(
		events,
		func(i, k int) bool {
			return events[i].Timestamp < events[k].Timestamp
		},
	)

	annotations := make(Annotations)
	for i := range events {
		event := &events[i]
		if event.Type != EventTypeCast || event.SourceID != sourceID {
			continue
		}

		for _, l := range listeners {
			a := l.OnCast(event)
			if a == nil {
				continue
			}
			if _, ok := annotations[i]; !ok {
				annotations[i] = *a
			}
		}
	}

	return annotations
}
