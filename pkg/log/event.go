package log

import (
	"fmt"
	"strings"
	"time"
)

// Event is one trace record. CBOR encoding uses integer keys.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID identifies the discovery run (UUID).
	RunID string `cbor:"2,keyasint,omitempty"`

	// SessionID identifies the provisioning session (UUID).
	SessionID string `cbor:"3,keyasint,omitempty"`

	// Candidate is the advertised network name of the device.
	Candidate string `cbor:"4,keyasint,omitempty"`

	// Category classifies the event.
	Category Category `cbor:"5,keyasint"`

	// Step is the pipeline step name (STEP, READINESS and failed SESSION events).
	Step string `cbor:"6,keyasint,omitempty"`

	// Result is the outcome, e.g. "SUCCEEDED", "FAILED", "PROVISIONED".
	Result string `cbor:"7,keyasint,omitempty"`

	// Reason carries the diagnostic text for failures and skips.
	Reason string `cbor:"8,keyasint,omitempty"`

	// Status is the last HTTP status seen, if any.
	Status int `cbor:"9,keyasint,omitempty"`

	// Endpoint is the device control endpoint in use.
	Endpoint string `cbor:"10,keyasint,omitempty"`

	// Duration is how long the step or wait took.
	Duration time.Duration `cbor:"11,keyasint,omitempty"`
}

// Category classifies trace events.
type Category uint8

const (
	// CategoryRun marks the start or end of a discovery run.
	CategoryRun Category = 0
	// CategoryCandidate covers candidate discovery and network joins.
	CategoryCandidate Category = 1
	// CategoryStep is the result of one pipeline step.
	CategoryStep Category = 2
	// CategoryReadiness is the end of a readiness wait.
	CategoryReadiness Category = 3
	// CategorySession is a session reaching its terminal state.
	CategorySession Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryRun:
		return "RUN"
	case CategoryCandidate:
		return "CANDIDATE"
	case CategoryStep:
		return "STEP"
	case CategoryReadiness:
		return "READINESS"
	case CategorySession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RUN":
		return CategoryRun, nil
	case "CANDIDATE":
		return CategoryCandidate, nil
	case "STEP":
		return CategoryStep, nil
	case "READINESS":
		return CategoryReadiness, nil
	case "SESSION":
		return CategorySession, nil
	default:
		return 0, fmt.Errorf("unknown category %q (use: run, candidate, step, readiness, session)", s)
	}
}
