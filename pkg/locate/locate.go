// Package locate finds a device on the target network by mDNS after it has
// obtained its address by DHCP.
//
// Gen2 appliances announce themselves as _shelly._tcp with their device
// identifier as instance and host name. Locate browses until an
// announcement for the wanted identifier carries an IPv4 address.
package locate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// Defaults.
const (
	// ServiceType is the service devices announce.
	ServiceType = "_shelly._tcp"

	// Domain is the mDNS domain.
	Domain = "local."
)

// ErrNotFound is returned when no announcement for the device arrived in time.
var ErrNotFound = errors.New("device not announced")

// Config configures a Locator.
type Config struct {
	// Service is the mDNS service type browsed. Default: ServiceType.
	Service string

	// Interface restricts browsing to one network interface.
	// Empty string means all interfaces.
	Interface string

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns the default locator configuration.
func DefaultConfig() Config {
	return Config{Service: ServiceType}
}

// browseFunc streams announcements until ctx is done.
type browseFunc func(ctx context.Context, service string, entries, removed chan *zeroconf.ServiceEntry) error

// Locator resolves device identifiers to addresses.
type Locator struct {
	service string
	browse  browseFunc
	logger  *slog.Logger
}

// New creates a Locator that browses with zeroconf.
func New(cfg Config) *Locator {
	if cfg.Service == "" {
		cfg.Service = ServiceType
	}
	opts := clientOptions(cfg.Interface)
	return &Locator{
		service: cfg.Service,
		logger:  cfg.Logger,
		browse: func(ctx context.Context, service string, entries, removed chan *zeroconf.ServiceEntry) error {
			return zeroconf.Browse(ctx, service, Domain, entries, removed, opts...)
		},
	}
}

func clientOptions(iface string) []zeroconf.ClientOption {
	if iface == "" {
		return nil
	}
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return nil
	}
	return []zeroconf.ClientOption{zeroconf.SelectIfaces([]net.Interface{*ifi})}
}

// Locate browses for deviceID and returns its IPv4 address. It gives up
// with ErrNotFound after timeout. The browser has stopped by the time
// Locate returns.
func (l *Locator) Locate(ctx context.Context, deviceID string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)
	browseErr := make(chan error, 1)
	go func() {
		browseErr <- l.browse(ctx, l.service, entries, removed)
	}()

	browsing := true
	defer func() {
		cancel()
		if browsing {
			drain(entries, removed, browseErr)
		}
	}()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				entries = nil
				continue
			}
			if entry == nil {
				continue
			}
			rec := fromEntry(entry)
			l.debug("announcement", "instance", rec.instance, "host", rec.host, "addrs", rec.addrs)
			if addr, ok := rec.match(deviceID); ok {
				return addr, nil
			}
		case <-removed:
		case err := <-browseErr:
			browsing = false
			if err != nil {
				return "", fmt.Errorf("browse %s: %w", l.service, err)
			}
			// The browser finished early; wait out the deadline for nothing.
			browseErr = nil
		case <-ctx.Done():
			return "", fmt.Errorf("%s: %w", deviceID, ErrNotFound)
		}
	}
}

// drain consumes announcements until the browser returns. zeroconf sends
// on both channels without watching its context.
func drain(entries, removed chan *zeroconf.ServiceEntry, done <-chan error) {
	for {
		select {
		case _, ok := <-entries:
			if !ok {
				entries = nil
			}
		case _, ok := <-removed:
			if !ok {
				removed = nil
			}
		case <-done:
			return
		}
	}
}

func (l *Locator) debug(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}

// record is the part of an announcement the match needs.
type record struct {
	instance string
	host     string
	addrs    []string
}

func fromEntry(e *zeroconf.ServiceEntry) record {
	r := record{instance: e.Instance, host: e.HostName}
	for _, ip := range e.AddrIPv4 {
		r.addrs = append(r.addrs, ip.String())
	}
	return r
}

// match reports whether the announcement is for deviceID and returns its
// first IPv4 address. Instance and host names compare case-insensitively;
// the host name may carry a domain suffix.
func (r record) match(deviceID string) (string, bool) {
	if len(r.addrs) == 0 || deviceID == "" {
		return "", false
	}
	id := strings.ToLower(deviceID)
	host, _, _ := strings.Cut(strings.ToLower(r.host), ".")
	if strings.ToLower(r.instance) != id && host != id {
		return "", false
	}
	return r.addrs[0], true
}
