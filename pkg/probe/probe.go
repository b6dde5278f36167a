// Package probe polls a device endpoint until it answers.
//
// A device that is rejoining a network, flashing firmware, or rebooting
// drops off the network for a while. AwaitReady issues a lightweight status
// request on a fixed interval until one gets any HTTP response or the
// timeout elapses. A failed attempt is never an error; it only means
// "not yet".
package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Defaults.
const (
	// DefaultInterval is the delay between probe attempts.
	DefaultInterval = 5 * time.Second

	// DefaultRequestTimeout bounds a single probe request.
	DefaultRequestTimeout = 3 * time.Second

	// DefaultPath is the lightweight status path.
	DefaultPath = "/shelly"
)

// Config configures a Prober.
type Config struct {
	// Interval is the delay between attempts. Default: 5 seconds.
	Interval time.Duration

	// RequestTimeout bounds one attempt. Default: 3 seconds.
	RequestTimeout time.Duration

	// Path is appended to the endpoint for the status request.
	Path string

	// HTTPClient is used for requests. If nil, http.DefaultTransport is used.
	HTTPClient *http.Client

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns the default prober configuration.
func DefaultConfig() Config {
	return Config{
		Interval:       DefaultInterval,
		RequestTimeout: DefaultRequestTimeout,
		Path:           DefaultPath,
	}
}

// Prober polls endpoints for readiness.
type Prober struct {
	interval       time.Duration
	requestTimeout time.Duration
	path           string
	http           *http.Client
	logger         *slog.Logger
}

// New creates a Prober.
func New(cfg Config) *Prober {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Prober{
		interval:       cfg.Interval,
		requestTimeout: cfg.RequestTimeout,
		path:           cfg.Path,
		http:           hc,
		logger:         cfg.Logger,
	}
}

// Probe issues one status request, bounded by RequestTimeout or an earlier
// ctx deadline. Any HTTP response, whatever its status, counts as the
// device being alive.
func (p *Prober) Probe(ctx context.Context, endpoint string) error {
	ctx, cancel := context.WithTimeout(ctx, p.requestTimeout)
	defer cancel()

	url := strings.TrimRight(endpoint, "/") + p.path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
	return nil
}

// AwaitReady polls endpoint until it answers or timeout elapses.
// It returns false on timeout or when ctx is done. It does not tell a dead
// device from a slow one; the caller decides what a false means.
func (p *Prober) AwaitReady(ctx context.Context, endpoint string, timeout time.Duration) bool {
	start := time.Now()
	deadline := start.Add(timeout)

	// Attempts inherit the deadline, so a request hanging on a silent
	// listener ends with the wait.
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	for attempt := 1; ; attempt++ {
		err := p.Probe(ctx, endpoint)
		if err == nil {
			p.debug("device ready", "endpoint", endpoint, "attempts", attempt, "elapsed", time.Since(start))
			return true
		}
		p.debug("device not ready", "endpoint", endpoint, "attempt", attempt, "error", err)

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		wait := min(p.interval, remaining)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}

func (p *Prober) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
