package provision

import (
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/unbox-go/pkg/device"
)

// Session is the state of one device's pipeline run. It is owned by the
// Pipeline for the duration of Provision and discarded afterwards.
type Session struct {
	ID        string
	Candidate Candidate
	Target    Target

	// DeviceID is derived from the candidate SSID.
	DeviceID string

	state    State
	endpoint string

	// relocate is set after a DHCP network join: the new address must be
	// looked up before the device can be probed.
	relocate bool

	history []StepRecord
}

func newSession(c Candidate, t Target, endpoint string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Candidate: c,
		Target:    t,
		DeviceID:  device.IDFromSSID(c.SSID),
		state:     StateFetchConfig,
		endpoint:  endpoint,
	}
}

// Result is the terminal report of a session.
type Result struct {
	SessionID string
	Candidate Candidate
	DeviceID  string

	// State is StateProvisioned or StateFailed.
	State State

	// FailedStep is the step at which the session failed.
	// Only meaningful when State is StateFailed.
	FailedStep Step

	// Reason is the last diagnostic for a failed session.
	Reason string

	// Err classifies the failure: *ValidationError, *UnreachableError,
	// *device.TransportError or *device.RejectedError.
	Err error

	// Endpoint is the last control endpoint used for the device.
	Endpoint string

	// History lists the recorded step outcomes in execution order.
	History []StepRecord

	Started  time.Time
	Finished time.Time
}

// Provisioned reports whether the session ended in the success state.
func (r Result) Provisioned() bool { return r.State == StateProvisioned }

// Warnings returns the recorded failures of best-effort steps.
func (r Result) Warnings() []StepRecord {
	var out []StepRecord
	for _, rec := range r.History {
		if rec.Result.Kind == ResultFailed && !rec.Step.Fatal() {
			out = append(out, rec)
		}
	}
	return out
}

// Last returns the most recent history entry for step.
func (r Result) Last(step Step) (StepRecord, bool) {
	for i := len(r.History) - 1; i >= 0; i-- {
		if r.History[i].Step == step {
			return r.History[i], true
		}
	}
	return StepRecord{}, false
}
