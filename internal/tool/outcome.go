// Package tool carries the boundary types handed to callers of the
// derivation service: tagged outcomes that never let an error escape as
// a panic, and helpers for normalizing arbitrary-precision values into
// transport-safe string leaves.
package tool

// Outcome is a tagged result. Exactly one of Data and Error is
// meaningful, discriminated by OK.
type Outcome struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Success wraps a derived view into a successful outcome.
func Success(data interface{}) Outcome {
	return Outcome{OK: true, Data: data}
}

// Failure wraps an error into a failed outcome with a human-readable
// message.
func Failure(err error) Outcome {
	return Outcome{OK: false, Error: err.Error()}
}
