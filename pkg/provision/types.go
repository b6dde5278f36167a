package provision

import (
	"fmt"
	"time"
)

// Candidate is an unconfigured device found through its access point.
type Candidate struct {
	// SSID is the network name the device advertises.
	SSID string

	// DiscoveredAt is when the scan that found the device completed.
	DiscoveredAt time.Time
}

// Step identifies a pipeline step.
type Step uint8

const (
	// StepFetchConfig reads the current configuration for diagnostics.
	StepFetchConfig Step = iota

	// StepDisableAuxRadio switches off the short-range radio.
	StepDisableAuxRadio

	// StepSetNetworkJoin points the device at the target network.
	StepSetNetworkJoin

	// StepCheckAndApplyUpdate installs advertised firmware.
	StepCheckAndApplyUpdate

	// StepSetDeviceName sets the display name.
	StepSetDeviceName

	// StepReboot restarts the device.
	StepReboot

	// StepSetAuthCredentials enables authentication.
	StepSetAuthCredentials
)

// Steps lists all steps in execution order.
var Steps = []Step{
	StepFetchConfig,
	StepDisableAuxRadio,
	StepSetNetworkJoin,
	StepCheckAndApplyUpdate,
	StepSetDeviceName,
	StepReboot,
	StepSetAuthCredentials,
}

// String returns the step name.
func (s Step) String() string {
	switch s {
	case StepFetchConfig:
		return "FetchConfig"
	case StepDisableAuxRadio:
		return "DisableAuxRadio"
	case StepSetNetworkJoin:
		return "SetNetworkJoin"
	case StepCheckAndApplyUpdate:
		return "CheckAndApplyUpdate"
	case StepSetDeviceName:
		return "SetDeviceName"
	case StepReboot:
		return "Reboot"
	case StepSetAuthCredentials:
		return "SetAuthCredentials"
	default:
		return fmt.Sprintf("Step(%d)", uint8(s))
	}
}

// ResultKind is the tag of a StepResult.
type ResultKind uint8

const (
	// ResultSucceeded means the step's operation was accepted.
	ResultSucceeded ResultKind = iota

	// ResultFailed means the step's operation failed.
	ResultFailed

	// ResultSkipped means the step had nothing to do.
	ResultSkipped
)

// String returns the result name.
func (k ResultKind) String() string {
	switch k {
	case ResultSucceeded:
		return "SUCCEEDED"
	case ResultFailed:
		return "FAILED"
	case ResultSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// StepResult is the outcome of one step: Succeeded, Failed(reason) or
// Skipped(reason). It is a value; once produced it does not change.
type StepResult struct {
	Kind   ResultKind
	Reason string
}

// Succeeded returns a successful result.
func Succeeded() StepResult { return StepResult{Kind: ResultSucceeded} }

// Failed returns a failed result with a diagnostic reason.
func Failed(reason string) StepResult { return StepResult{Kind: ResultFailed, Reason: reason} }

// Skipped returns a skipped result explaining why nothing was done.
func Skipped(reason string) StepResult { return StepResult{Kind: ResultSkipped, Reason: reason} }

// String formats the result, e.g. "FAILED(status 500: boom)".
func (r StepResult) String() string {
	if r.Reason == "" {
		return r.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", r.Kind, r.Reason)
}

// StepRecord is one entry of a session's history. The history is for
// reporting only; the pipeline never reads it to make a decision.
type StepRecord struct {
	Step     Step
	Result   StepResult
	Status   int
	At       time.Time
	Duration time.Duration
}

// State is a pipeline state: one per step plus two terminal states.
type State uint8

const (
	StateFetchConfig State = iota
	StateDisableAuxRadio
	StateSetNetworkJoin
	StateCheckAndApplyUpdate
	StateSetDeviceName
	StateReboot
	StateSetAuthCredentials

	// StateProvisioned is the single terminal success state.
	StateProvisioned

	// StateFailed is the terminal failure state; the failing step is kept
	// on the Result.
	StateFailed
)

// Step returns the step run in this state. It is only meaningful for
// non-terminal states.
func (s State) Step() Step { return Step(s) }

// Terminal reports whether no further steps run from this state.
func (s State) Terminal() bool { return s >= StateProvisioned }

// String returns the state name.
func (s State) String() string {
	switch {
	case s == StateProvisioned:
		return "PROVISIONED"
	case s == StateFailed:
		return "FAILED"
	case s < StateProvisioned:
		return s.Step().String()
	default:
		return "UNKNOWN"
	}
}
