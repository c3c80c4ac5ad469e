package combatlog

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode reads a JSON array of events.
func Decode(r io.Reader) ([]CastEvent, error) {
	var events []CastEvent

	err := json.NewDecoder(r).Decode(&events)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode events")
	}

	return events, nil
}

// DecodeRaw decodes the raw `data` scalar returned by the events API.
func DecodeRaw(data []byte) ([]CastEvent, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var events []CastEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, errors.Wrap(err, "decode events")
	}
	return events, nil
}
