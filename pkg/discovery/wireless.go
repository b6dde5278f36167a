package discovery

import (
	"context"
	"time"

	"github.com/mash-protocol/unbox-go/pkg/provision"
)

// Network is one access point seen in a scan.
type Network struct {
	SSID string

	// Signal strength in percent, 0 if unknown.
	Signal int

	// Security is the advertised security mode; empty for open networks.
	Security string
}

// Scanner lists visible wireless networks.
type Scanner interface {
	Scan(ctx context.Context) ([]Network, error)
}

// Joiner associates the operator host with a device network.
type Joiner interface {
	// EnsureProfile creates an open join profile for ssid if none exists.
	EnsureProfile(ctx context.Context, ssid string) error

	// Join connects to ssid and returns once the link is up or timeout
	// elapses.
	Join(ctx context.Context, ssid string, timeout time.Duration) error

	// Release disconnects from ssid.
	Release(ctx context.Context, ssid string) error
}

// Wireless is the full wireless capability the Loop needs.
type Wireless interface {
	Scanner
	Joiner
}

// Runner provisions a joined candidate. *provision.Pipeline implements it.
type Runner interface {
	Provision(ctx context.Context, c provision.Candidate) provision.Result
}

// ConfirmFunc asks the operator whether to provision a candidate. Returning
// false skips it; an error stops the run.
type ConfirmFunc func(ctx context.Context, c provision.Candidate) (bool, error)

var _ Runner = (*provision.Pipeline)(nil)
