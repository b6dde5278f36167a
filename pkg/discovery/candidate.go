package discovery

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/mash-protocol/unbox-go/pkg/provision"
)

// DefaultPattern matches the access points of unconfigured Gen2 devices.
const DefaultPattern = "shelly*"

// Match reports whether ssid matches the glob pattern, ignoring case.
// An empty pattern uses DefaultPattern.
func Match(pattern, ssid string) (bool, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	ok, err := path.Match(strings.ToLower(pattern), strings.ToLower(ssid))
	if err != nil {
		return false, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	return ok, nil
}

// Filter turns a scan into candidates. Networks are kept in scan order;
// names seen more than once (one device heard on several channels or
// bands) yield a single candidate.
func Filter(networks []Network, pattern string, at time.Time) ([]provision.Candidate, error) {
	if _, err := Match(pattern, ""); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(networks))
	var out []provision.Candidate
	for _, n := range networks {
		if n.SSID == "" || seen[n.SSID] {
			continue
		}
		ok, _ := Match(pattern, n.SSID)
		if !ok {
			continue
		}
		seen[n.SSID] = true
		out = append(out, provision.Candidate{SSID: n.SSID, DiscoveredAt: at})
	}
	return out, nil
}

// Discover scans once and returns the matching candidates. It may be called
// again for a fresh scan.
func Discover(ctx context.Context, scanner Scanner, pattern string) ([]provision.Candidate, error) {
	networks, err := scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return Filter(networks, pattern, time.Now())
}
