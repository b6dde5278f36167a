package provision

import (
	"context"
	"time"
)

// Fatal reports whether a failure of the step ends the session.
// FetchConfig and DisableAuxRadio are best-effort.
func (s Step) Fatal() bool { return s >= StepSetNetworkJoin }

// stepOutcome is what a step function hands back to the state machine.
type stepOutcome struct {
	result StepResult

	// status is the last HTTP status seen, 0 if none.
	status int

	// err is the classified error behind a failed result.
	err error

	// wait bounds the readiness wait that must pass before the next step.
	// Zero means no wait.
	wait time.Duration
}

type stepFunc func(p *Pipeline, ctx context.Context, s *Session) stepOutcome

// stepDef is one row of the transition table.
type stepDef struct {
	step Step
	run  stepFunc
}

// table holds the steps in their fixed execution order, indexed by State.
var table = [...]stepDef{
	StateFetchConfig:         {StepFetchConfig, (*Pipeline).fetchConfig},
	StateDisableAuxRadio:     {StepDisableAuxRadio, (*Pipeline).disableAuxRadio},
	StateSetNetworkJoin:      {StepSetNetworkJoin, (*Pipeline).setNetworkJoin},
	StateCheckAndApplyUpdate: {StepCheckAndApplyUpdate, (*Pipeline).checkAndApplyUpdate},
	StateSetDeviceName:       {StepSetDeviceName, (*Pipeline).setDeviceName},
	StateReboot:              {StepReboot, (*Pipeline).reboot},
	StateSetAuthCredentials:  {StepSetAuthCredentials, (*Pipeline).setAuthCredentials},
}

// next is the transition function. ready is the outcome of the readiness
// wait that followed the step, true when the step needed none.
//
//   - a terminal state stays put
//   - a fatal step that failed goes to StateFailed
//   - a step whose readiness wait ran out goes to StateFailed
//   - SetAuthCredentials goes to StateProvisioned
//   - anything else advances to the following step
func next(cur State, res StepResult, ready bool) State {
	if cur.Terminal() {
		return cur
	}
	switch {
	case res.Kind == ResultFailed && cur.Step().Fatal():
		return StateFailed
	case res.Kind == ResultSucceeded && !ready:
		return StateFailed
	case cur == StateSetAuthCredentials:
		return StateProvisioned
	default:
		return cur + 1
	}
}
