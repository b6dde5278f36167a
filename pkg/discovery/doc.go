// Package discovery finds unconfigured devices and drives them, one at a
// time, through provisioning.
//
// # Candidates
//
// An unconfigured device advertises its own open access point. A scan of
// visible networks is filtered by a glob pattern on the network name
// (default "shelly*", case-insensitive); each distinct matching name is one
// candidate.
//
// # Loop
//
// For each candidate the Loop makes sure a join profile exists for its
// network, joins it, hands the candidate to a Runner (normally a
// provision.Pipeline), and releases the network again before moving on.
// The operator host has a single wireless interface, so candidates are
// processed strictly in sequence. A candidate whose network cannot be
// joined is recorded as failed and the loop continues with the next one.
//
// The wireless capability is an interface; pkg/wifi implements it with
// NetworkManager. Generated mocks live in the mocks subpackage.
package discovery
