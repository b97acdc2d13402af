package statestore

import (
	"math"
	"strconv"
)

// Sample is one ring-buffer element: a numeric reading tagged with the
// engine clock (spec.md 4.8: "a monotonic timestamp from the engine clock,
// not the device clock"), in unix nanoseconds.
type Sample struct {
	TS    int64   `json:"ts"`
	Value float64 `json:"value"`
}

// NaN produces a Sample carrying "no data this tick" rather than a zero
// value, so a gap in a series is visible to consumers instead of silently
// reading as zero.
func NaN(ts int64) Sample {
	return Sample{TS: ts, Value: math.NaN()}
}

// MarshalJSON encodes a NaN/Inf value as JSON null: encoding/json refuses
// to marshal such floats directly, and the front-end needs a representable
// "no data" marker rather than a marshal error aborting the whole event.
func (s Sample) MarshalJSON() ([]byte, error) {
	val := "null"
	if !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0) {
		val = strconv.FormatFloat(s.Value, 'g', -1, 64)
	}
	return []byte(`{"ts":` + strconv.FormatInt(s.TS, 10) + `,"value":` + val + `}`), nil
}
