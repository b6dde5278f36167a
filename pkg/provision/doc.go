// Package provision drives one unconfigured appliance through its
// configuration sequence.
//
// A Pipeline runs a strict linear state machine per device:
//
//	FetchConfig -> DisableAuxRadio -> SetNetworkJoin (R) -> CheckAndApplyUpdate (R)
//	  -> SetDeviceName (R) -> Reboot (R) -> SetAuthCredentials -> Provisioned
//
// Steps marked (R) are followed by a readiness wait: the pipeline polls the
// device until it answers again before running the next step. A failed
// wait ends the session as Failed(step, "device unreachable"); the step
// itself is never retried, because re-sending a network change or a
// firmware flash to a device that may be mid-transition is unsafe.
//
// FetchConfig and DisableAuxRadio are best-effort: their failures are
// recorded in the session history as warnings. Every other step is fatal on
// failure. Validation of the target addressing happens before any request
// is sent.
//
// The pipeline reaches the device only through the Commander, Prober and
// Locator interfaces, so the transition table can be exercised without
// HTTP.
package provision
