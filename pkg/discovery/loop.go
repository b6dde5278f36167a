package discovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/unbox-go/pkg/log"
	"github.com/mash-protocol/unbox-go/pkg/provision"
)

// DefaultJoinTimeout bounds one network join.
const DefaultJoinTimeout = 30 * time.Second

// Config configures a Loop.
type Config struct {
	// Pattern selects candidate networks. Default: DefaultPattern.
	Pattern string

	// JoinTimeout bounds each join. Default: 30 seconds.
	JoinTimeout time.Duration

	// Confirm is asked before each candidate. If nil, every candidate is
	// provisioned.
	Confirm ConfirmFunc

	// RunID identifies the run in traces. If empty, a UUID is generated.
	RunID string

	// Trace receives RUN and CANDIDATE events. If nil, tracing is disabled.
	Trace log.Logger

	// Logger is the optional logger for operator output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns the default loop configuration.
func DefaultConfig() Config {
	return Config{
		Pattern:     DefaultPattern,
		JoinTimeout: DefaultJoinTimeout,
	}
}

// Disposition is what happened to a candidate.
type Disposition uint8

const (
	// Provisioned means the pipeline reached its success state.
	Provisioned Disposition = iota

	// Failed means the pipeline ended in its failure state.
	Failed

	// JoinFailed means the candidate network could not be joined.
	JoinFailed

	// Skipped means the operator declined the candidate.
	Skipped
)

// String returns the disposition name.
func (d Disposition) String() string {
	switch d {
	case Provisioned:
		return "PROVISIONED"
	case Failed:
		return "FAILED"
	case JoinFailed:
		return "JOIN_FAILED"
	case Skipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// CandidateReport is the outcome for one candidate.
type CandidateReport struct {
	Candidate   provision.Candidate
	Disposition Disposition

	// Result is set when the pipeline ran.
	Result *provision.Result

	// Err is the join error for JoinFailed.
	Err error
}

// Summary is the outcome of one run.
type Summary struct {
	RunID      string
	Started    time.Time
	Finished   time.Time
	Candidates []CandidateReport
}

// Count returns how many candidates ended with d.
func (s Summary) Count(d Disposition) int {
	n := 0
	for _, c := range s.Candidates {
		if c.Disposition == d {
			n++
		}
	}
	return n
}

// Loop scans for candidates and provisions them one at a time.
type Loop struct {
	wireless    Wireless
	runner      Runner
	pattern     string
	joinTimeout time.Duration
	confirm     ConfirmFunc
	runID       string
	trace       log.Logger
	logger      *slog.Logger
}

// NewLoop creates a Loop.
func NewLoop(w Wireless, r Runner, cfg Config) *Loop {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.JoinTimeout <= 0 {
		cfg.JoinTimeout = DefaultJoinTimeout
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		wireless:    w,
		runner:      r,
		pattern:     cfg.Pattern,
		joinTimeout: cfg.JoinTimeout,
		confirm:     cfg.Confirm,
		runID:       cfg.RunID,
		trace:       log.OrNoop(cfg.Trace),
		logger:      logger.With("run", cfg.RunID),
	}
}

// RunID returns the identifier of the loop's run.
func (l *Loop) RunID() string { return l.runID }

// Run scans once and processes every candidate found. The returned error
// is non-nil only when the scan fails, the operator prompt fails, or ctx
// ends; the Summary then covers the candidates handled so far.
func (l *Loop) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: l.runID, Started: time.Now()}
	l.traceRun("STARTED", "")

	candidates, err := Discover(ctx, l.wireless, l.pattern)
	if err != nil {
		l.logger.Error("scan failed", "error", err)
		return l.done(sum, err)
	}
	l.logger.Info("scan complete", "pattern", l.pattern, "candidates", len(candidates))
	if len(candidates) == 0 {
		return l.done(sum, nil)
	}

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return l.done(sum, err)
		}

		if l.confirm != nil {
			ok, err := l.confirm(ctx, c)
			if err != nil {
				return l.done(sum, err)
			}
			if !ok {
				l.logger.Info("candidate skipped", "candidate", c.SSID)
				l.traceCandidate(c, Skipped.String(), "declined by operator")
				sum.Candidates = append(sum.Candidates, CandidateReport{Candidate: c, Disposition: Skipped})
				continue
			}
		}

		sum.Candidates = append(sum.Candidates, l.process(ctx, c))
	}
	return l.done(sum, nil)
}

// process joins one candidate, provisions it and releases the network.
func (l *Loop) process(ctx context.Context, c provision.Candidate) CandidateReport {
	logger := l.logger.With("candidate", c.SSID)

	if err := l.wireless.EnsureProfile(ctx, c.SSID); err != nil {
		return l.joinFailed(c, logger, err)
	}
	if err := l.wireless.Join(ctx, c.SSID, l.joinTimeout); err != nil {
		// A half-activated connection must not stay bound to the interface.
		l.release(ctx, c.SSID, logger)
		return l.joinFailed(c, logger, err)
	}
	l.traceCandidate(c, "JOINED", "")
	logger.Info("joined device network")

	res := l.runner.Provision(ctx, c)
	l.release(ctx, c.SSID, logger)

	d := Failed
	if res.Provisioned() {
		d = Provisioned
	}
	return CandidateReport{Candidate: c, Disposition: d, Result: &res}
}

func (l *Loop) joinFailed(c provision.Candidate, logger *slog.Logger, err error) CandidateReport {
	logger.Warn("join failed", "error", err)
	l.traceCandidate(c, JoinFailed.String(), err.Error())
	return CandidateReport{Candidate: c, Disposition: JoinFailed, Err: err}
}

// release drops the device network. It runs on a fresh context so the
// network is released even when ctx ended.
func (l *Loop) release(ctx context.Context, ssid string, logger *slog.Logger) {
	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.joinTimeout)
	defer cancel()
	if err := l.wireless.Release(relCtx, ssid); err != nil {
		logger.Warn("release failed", "error", err)
	}
}

func (l *Loop) done(sum Summary, err error) (Summary, error) {
	sum.Finished = time.Now()
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	l.traceRun("FINISHED", reason)
	l.logger.Info("run finished",
		"provisioned", sum.Count(Provisioned),
		"failed", sum.Count(Failed)+sum.Count(JoinFailed),
		"skipped", sum.Count(Skipped),
		"duration", sum.Finished.Sub(sum.Started))
	return sum, err
}

func (l *Loop) traceRun(result, reason string) {
	l.trace.Log(log.Event{
		Timestamp: time.Now(),
		RunID:     l.runID,
		Category:  log.CategoryRun,
		Result:    result,
		Reason:    reason,
	})
}

func (l *Loop) traceCandidate(c provision.Candidate, result, reason string) {
	l.trace.Log(log.Event{
		Timestamp: time.Now(),
		RunID:     l.runID,
		Candidate: c.SSID,
		Category:  log.CategoryCandidate,
		Result:    result,
		Reason:    reason,
	})
}
