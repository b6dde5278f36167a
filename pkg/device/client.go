package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client defaults.
const (
	// DefaultRequestTimeout bounds a single exchange.
	DefaultRequestTimeout = 10 * time.Second

	// MaxBodySize caps how much of a response body is kept.
	MaxBodySize = 64 * 1024
)

// Config configures a Client.
type Config struct {
	// HTTPClient is used for all requests. If nil, a client with
	// RequestTimeout is created.
	HTTPClient *http.Client

	// RequestTimeout bounds a single exchange. Default: 10 seconds.
	RequestTimeout time.Duration

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{RequestTimeout: DefaultRequestTimeout}
}

// Client talks to a device control endpoint.
// It is safe for concurrent use.
type Client struct {
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{http: hc, logger: cfg.Logger}
}

// Execute performs a single exchange for op against endpoint using method.
// Read-only operations send params as query values; all others POST params
// as a JSON body. Execute never retries.
func (c *Client) Execute(ctx context.Context, endpoint string, op Operation, method string, params map[string]any) Outcome {
	req, err := c.newRequest(ctx, endpoint, op, method, params)
	if err != nil {
		return transportFailure(op, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.debug("request failed", "op", op, "url", req.URL.String(), "error", err)
		return transportFailure(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return transportFailure(op, fmt.Errorf("read body: %w", err))
	}

	out := classify(op, resp.StatusCode, strings.TrimSpace(string(body)))
	c.debug("request done",
		"op", op,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"ok", out.OK,
		"elapsed", time.Since(start))
	return out
}

func (c *Client) newRequest(ctx context.Context, endpoint string, op Operation, method string, params map[string]any) (*http.Request, error) {
	base, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	u := base.JoinPath("rpc", method)

	if op.readOnly() {
		if len(params) > 0 {
			q := u.Query()
			for k, v := range params {
				q.Set(k, fmt.Sprint(v))
			}
			u.RawQuery = q.Encode()
		}
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}

	if params == nil {
		params = map[string]any{}
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

// FetchConfig reads the device configuration.
func (c *Client) FetchConfig(ctx context.Context, endpoint string) Outcome {
	return c.Execute(ctx, endpoint, OpFetchConfig, MethodGetConfig, nil)
}

// SetNetworkJoin configures the station interface.
// The device leaves its current address once it accepts this.
func (c *Client) SetNetworkJoin(ctx context.Context, endpoint string, join NetworkJoin) Outcome {
	return c.Execute(ctx, endpoint, OpSetNetworkJoin, MethodWiFiSetConfig, join.payload())
}

// SetName sets the device display name.
func (c *Client) SetName(ctx context.Context, endpoint, name string) Outcome {
	params := map[string]any{
		"config": map[string]any{
			"device": map[string]any{"name": name},
		},
	}
	return c.Execute(ctx, endpoint, OpSetName, MethodSysSetConfig, params)
}

// DisableSubsystem switches off the named subsystem (e.g. "BLE").
func (c *Client) DisableSubsystem(ctx context.Context, endpoint, name string) Outcome {
	params := map[string]any{
		"config": map[string]any{"enable": false},
	}
	return c.Execute(ctx, endpoint, OpDisableSubsystem, SubsystemMethod(name), params)
}

// SetIndicators switches the indicator LEDs off when off is true and back
// to following the switch state otherwise.
func (c *Client) SetIndicators(ctx context.Context, endpoint string, off bool) Outcome {
	mode := "switch"
	if off {
		mode = "off"
	}
	params := map[string]any{
		"config": map[string]any{
			"leds": map[string]any{"mode": mode},
		},
	}
	return c.Execute(ctx, endpoint, OpSetIndicators, MethodLEDSetConfig, params)
}

// CheckForUpdate asks the device for available firmware. The UpdateInfo is
// only meaningful when the Outcome is OK.
func (c *Client) CheckForUpdate(ctx context.Context, endpoint string) (UpdateInfo, Outcome) {
	out := c.Execute(ctx, endpoint, OpCheckForUpdate, MethodCheckForUpdate, nil)
	if !out.OK {
		return UpdateInfo{}, out
	}
	var info UpdateInfo
	if out.Body != "" {
		if err := json.Unmarshal([]byte(out.Body), &info); err != nil {
			out.OK = false
			out.Err = &RejectedError{Op: OpCheckForUpdate, Status: out.Status, Body: "malformed update info: " + err.Error()}
			return UpdateInfo{}, out
		}
	}
	return info, out
}

// ApplyUpdate starts a firmware update from stage. The device reboots
// on its own once the image is flashed.
func (c *Client) ApplyUpdate(ctx context.Context, endpoint, stage string) Outcome {
	if stage == "" {
		stage = StageStable
	}
	return c.Execute(ctx, endpoint, OpApplyUpdate, MethodUpdate, map[string]any{"stage": stage})
}

// SetAuth enables digest authentication. Only the derived HA1 is sent.
func (c *Client) SetAuth(ctx context.Context, endpoint string, creds Credentials) Outcome {
	return c.Execute(ctx, endpoint, OpSetAuth, MethodSetAuth, creds.authPayload())
}

// Reboot restarts the device.
func (c *Client) Reboot(ctx context.Context, endpoint string) Outcome {
	return c.Execute(ctx, endpoint, OpReboot, MethodReboot, nil)
}
