package provision

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mash-protocol/unbox-go/pkg/device"
	"github.com/mash-protocol/unbox-go/pkg/log"
)

// DefaultDeviceAddress is the control endpoint of an unconfigured device on
// its own access point.
const DefaultDeviceAddress = "http://192.168.33.1"

// Commander issues configuration operations to a device.
// *device.Client implements it.
type Commander interface {
	FetchConfig(ctx context.Context, endpoint string) device.Outcome
	SetNetworkJoin(ctx context.Context, endpoint string, join device.NetworkJoin) device.Outcome
	SetName(ctx context.Context, endpoint, name string) device.Outcome
	DisableSubsystem(ctx context.Context, endpoint, name string) device.Outcome
	SetIndicators(ctx context.Context, endpoint string, off bool) device.Outcome
	CheckForUpdate(ctx context.Context, endpoint string) (device.UpdateInfo, device.Outcome)
	ApplyUpdate(ctx context.Context, endpoint, stage string) device.Outcome
	SetAuth(ctx context.Context, endpoint string, creds device.Credentials) device.Outcome
	Reboot(ctx context.Context, endpoint string) device.Outcome
}

var _ Commander = (*device.Client)(nil)

// Prober waits for a device to answer at an endpoint.
// *probe.Prober implements it.
type Prober interface {
	AwaitReady(ctx context.Context, endpoint string, timeout time.Duration) bool
}

// Locator resolves the address a device obtained by DHCP.
type Locator interface {
	Locate(ctx context.Context, deviceID string, timeout time.Duration) (string, error)
}

// Config configures a Pipeline.
type Config struct {
	// Target is the desired state applied to every device.
	Target Target

	// Timing bounds the readiness waits. Zero fields use DefaultTiming.
	Timing Timing

	// DeviceAddress is the endpoint of the unconfigured device.
	// Default: DefaultDeviceAddress.
	DeviceAddress string

	// Client sends operations to the device. Required.
	Client Commander

	// Prober performs readiness waits. Required.
	Prober Prober

	// Locator finds the device after a DHCP join.
	// Required when the target network mode is dhcp.
	Locator Locator

	// EndpointFor maps a device IP address to a control endpoint.
	// Default: "http://" + ip.
	EndpointFor func(ip string) string

	// RunID tags trace events with the discovery run.
	RunID string

	// Trace receives structured trace events. If nil, tracing is disabled.
	Trace log.Logger

	// Logger is the optional logger for operator output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Pipeline runs the configuration sequence against one device at a time.
// A Pipeline holds no per-device state and may be reused across sessions.
type Pipeline struct {
	target      Target
	timing      Timing
	address     string
	client      Commander
	prober      Prober
	locator     Locator
	endpointFor func(string) string
	runID       string
	trace       log.Logger
	logger      *slog.Logger
}

// NewPipeline creates a Pipeline. The target itself is validated per
// session so that a bad target is reported as a session failure.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Client == nil || cfg.Prober == nil {
		return nil, ErrInvalidConfig
	}
	if cfg.Target.Network.IsDHCP() && cfg.Locator == nil {
		return nil, ErrInvalidConfig
	}

	p := &Pipeline{
		target:      cfg.Target,
		timing:      cfg.Timing.withDefaults(),
		address:     cfg.DeviceAddress,
		client:      cfg.Client,
		prober:      cfg.Prober,
		locator:     cfg.Locator,
		endpointFor: cfg.EndpointFor,
		runID:       cfg.RunID,
		trace:       log.OrNoop(cfg.Trace),
		logger:      cfg.Logger,
	}
	if p.address == "" {
		p.address = DefaultDeviceAddress
	}
	if p.endpointFor == nil {
		p.endpointFor = func(ip string) string { return "http://" + ip }
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p, nil
}

// Timing returns the effective wait bounds.
func (p *Pipeline) Timing() Timing { return p.timing }

// Provision runs the full sequence for one candidate. The device must
// already be reachable at the configured DeviceAddress, i.e. the operator
// host has joined the candidate's access point.
//
// The returned Result is always terminal. A target that fails validation
// produces a failed Result at SetNetworkJoin without contacting the device.
func (p *Pipeline) Provision(ctx context.Context, c Candidate) Result {
	s := newSession(c, p.target, p.address)
	started := time.Now()
	logger := p.logger.With("session", s.ID, "candidate", c.SSID)
	logger.Info("provisioning started", "endpoint", s.endpoint)

	if err := s.Target.Validate(); err != nil {
		s.state = StateFailed
		return p.finish(s, logger, started, StepSetNetworkJoin, err.Error(), err)
	}

	for !s.state.Terminal() {
		def := table[s.state]
		begin := time.Now()
		out := def.run(p, ctx, s)
		rec := StepRecord{
			Step:     def.step,
			Result:   out.result,
			Status:   out.status,
			At:       begin,
			Duration: time.Since(begin),
		}
		s.history = append(s.history, rec)
		p.traceStep(s, rec)

		switch {
		case out.result.Kind == ResultFailed && !def.step.Fatal():
			logger.Warn("step failed, continuing", "step", def.step, "reason", out.result.Reason)
		case out.result.Kind == ResultFailed:
			logger.Error("step failed", "step", def.step, "reason", out.result.Reason)
		default:
			logger.Info("step done", "step", def.step, "result", out.result)
		}

		ready := true
		if out.result.Kind == ResultSucceeded && out.wait > 0 {
			ready = p.awaitReady(ctx, s, logger, def.step, out.wait)
		}

		s.state = next(s.state, out.result, ready)
		if s.state == StateFailed {
			if !ready {
				return p.finish(s, logger, started, def.step, ReasonUnreachable, &UnreachableError{Step: def.step})
			}
			return p.finish(s, logger, started, def.step, out.result.Reason, out.err)
		}
	}
	return p.finish(s, logger, started, 0, "", nil)
}

// awaitReady runs the readiness wait after step. After a DHCP join the
// device is first located; the lookup and the probing share the bound.
func (p *Pipeline) awaitReady(ctx context.Context, s *Session, logger *slog.Logger, step Step, bound time.Duration) bool {
	begin := time.Now()
	remaining := bound

	if s.relocate {
		addr, err := p.locator.Locate(ctx, s.DeviceID, bound)
		if err != nil {
			logger.Warn("device not found on target network", "device", s.DeviceID, "error", err)
			p.traceReadiness(s, step, false, err.Error(), time.Since(begin))
			return false
		}
		s.endpoint = p.endpointFor(addr)
		s.relocate = false
		logger.Info("device located", "device", s.DeviceID, "endpoint", s.endpoint)
		remaining = max(bound-time.Since(begin), 0)
	}

	logger.Info("waiting for device", "step", step, "endpoint", s.endpoint, "timeout", remaining)
	ready := p.prober.AwaitReady(ctx, s.endpoint, remaining)

	reason := ""
	if !ready {
		reason = ReasonUnreachable
		logger.Warn("device did not come back", "step", step, "endpoint", s.endpoint, "waited", time.Since(begin))
	}
	p.traceReadiness(s, step, ready, reason, time.Since(begin))
	return ready
}

// waitAfter is the readiness bound that follows an accepted op. A rename
// is not disruptive but still lets the device settle.
func (p *Pipeline) waitAfter(op device.Operation) time.Duration {
	if !op.Disruptive() && op != device.OpSetName {
		return 0
	}
	switch op {
	case device.OpSetNetworkJoin:
		return p.timing.NetworkWait
	case device.OpApplyUpdate:
		return p.timing.FirmwareWait
	default:
		return p.timing.SettleWait
	}
}

func (p *Pipeline) finish(s *Session, logger *slog.Logger, started time.Time, failed Step, reason string, err error) Result {
	r := Result{
		SessionID: s.ID,
		Candidate: s.Candidate,
		DeviceID:  s.DeviceID,
		State:     s.state,
		Reason:    reason,
		Err:       err,
		Endpoint:  s.endpoint,
		History:   s.history,
		Started:   started,
		Finished:  time.Now(),
	}
	ev := p.event(s, log.CategorySession)
	ev.Result = r.State.String()
	ev.Duration = r.Finished.Sub(started)
	if r.State == StateFailed {
		r.FailedStep = failed
		ev.Step = failed.String()
		ev.Reason = reason
		logger.Error("provisioning failed", "step", failed, "reason", reason)
	} else {
		logger.Info("provisioning complete", "endpoint", s.endpoint, "duration", ev.Duration)
	}
	p.trace.Log(ev)
	return r
}

func (p *Pipeline) event(s *Session, cat log.Category) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		RunID:     p.runID,
		SessionID: s.ID,
		Candidate: s.Candidate.SSID,
		Category:  cat,
		Endpoint:  s.endpoint,
	}
}

func (p *Pipeline) traceStep(s *Session, rec StepRecord) {
	ev := p.event(s, log.CategoryStep)
	ev.Step = rec.Step.String()
	ev.Result = rec.Result.Kind.String()
	ev.Reason = rec.Result.Reason
	ev.Status = rec.Status
	ev.Duration = rec.Duration
	p.trace.Log(ev)
}

func (p *Pipeline) traceReadiness(s *Session, step Step, ready bool, reason string, d time.Duration) {
	ev := p.event(s, log.CategoryReadiness)
	ev.Step = step.String()
	ev.Result = "READY"
	if !ready {
		ev.Result = "NOT_READY"
	}
	ev.Reason = reason
	ev.Duration = d
	p.trace.Log(ev)
}

// fromOutcome maps a device outcome onto a step outcome without a wait.
func fromOutcome(o device.Outcome) stepOutcome {
	if o.OK {
		return stepOutcome{result: Succeeded(), status: o.Status}
	}
	return stepOutcome{result: Failed(o.Describe()), status: o.Status, err: o.Err}
}

func (p *Pipeline) fetchConfig(ctx context.Context, s *Session) stepOutcome {
	return fromOutcome(p.client.FetchConfig(ctx, s.endpoint))
}

func (p *Pipeline) disableAuxRadio(ctx context.Context, s *Session) stepOutcome {
	radio := s.Target.AuxRadio
	if radio == "" && !s.Target.DisableIndicators {
		return stepOutcome{result: Skipped("no auxiliary radio configured")}
	}

	var (
		failures []string
		firstErr error
		status   int
	)
	record := func(what string, o device.Outcome) {
		status = o.Status
		if o.OK {
			return
		}
		failures = append(failures, what+": "+o.Describe())
		if firstErr == nil {
			firstErr = o.Err
		}
	}
	if radio != "" {
		record(radio, p.client.DisableSubsystem(ctx, s.endpoint, radio))
	}
	if s.Target.DisableIndicators {
		record("indicators", p.client.SetIndicators(ctx, s.endpoint, true))
	}

	if len(failures) > 0 {
		return stepOutcome{result: Failed(strings.Join(failures, "; ")), status: status, err: firstErr}
	}
	return stepOutcome{result: Succeeded(), status: status}
}

func (p *Pipeline) setNetworkJoin(ctx context.Context, s *Session) stepOutcome {
	join := s.Target.Network.join()
	o := p.client.SetNetworkJoin(ctx, s.endpoint, join)
	if !o.OK {
		return fromOutcome(o)
	}
	if s.Target.Network.IsDHCP() {
		s.relocate = true
	} else {
		s.endpoint = p.endpointFor(join.IP)
	}
	return stepOutcome{result: Succeeded(), status: o.Status, wait: p.waitAfter(device.OpSetNetworkJoin)}
}

func (p *Pipeline) checkAndApplyUpdate(ctx context.Context, s *Session) stepOutcome {
	policy := s.Target.Firmware
	if policy.Skip {
		return stepOutcome{result: Skipped("firmware updates disabled")}
	}
	stage := policy.Stage
	if stage == "" {
		stage = device.StageStable
	}

	info, o := p.client.CheckForUpdate(ctx, s.endpoint)
	if !o.OK {
		return fromOutcome(o)
	}
	rel := info.For(stage)
	if rel == nil {
		return stepOutcome{result: Skipped("no " + stage + " update advertised"), status: o.Status}
	}

	p.logger.Info("applying firmware update", "candidate", s.Candidate.SSID, "stage", stage, "version", rel.Version)
	o = p.client.ApplyUpdate(ctx, s.endpoint, stage)
	if !o.OK {
		return fromOutcome(o)
	}
	return stepOutcome{result: Succeeded(), status: o.Status, wait: p.waitAfter(device.OpApplyUpdate)}
}

func (p *Pipeline) setDeviceName(ctx context.Context, s *Session) stepOutcome {
	if s.Target.DeviceName == "" {
		return stepOutcome{result: Skipped("no device name configured")}
	}
	o := p.client.SetName(ctx, s.endpoint, s.Target.DeviceName)
	if !o.OK {
		return fromOutcome(o)
	}
	return stepOutcome{result: Succeeded(), status: o.Status, wait: p.waitAfter(device.OpSetName)}
}

func (p *Pipeline) reboot(ctx context.Context, s *Session) stepOutcome {
	o := p.client.Reboot(ctx, s.endpoint)
	if !o.OK {
		return fromOutcome(o)
	}
	return stepOutcome{result: Succeeded(), status: o.Status, wait: p.waitAfter(device.OpReboot)}
}

func (p *Pipeline) setAuthCredentials(ctx context.Context, s *Session) stepOutcome {
	auth := s.Target.Auth
	if auth.Password == "" {
		return stepOutcome{result: Skipped("no credentials configured")}
	}
	creds := device.Credentials{User: auth.User, Realm: auth.Realm, Password: auth.Password}
	if creds.User == "" {
		creds.User = device.DefaultAuthUser
	}
	if creds.Realm == "" {
		creds.Realm = s.DeviceID
	}
	return fromOutcome(p.client.SetAuth(ctx, s.endpoint, creds))
}
