package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mash-protocol/unbox-go/pkg/config"
	"github.com/mash-protocol/unbox-go/pkg/device"
	"github.com/mash-protocol/unbox-go/pkg/discovery"
	"github.com/mash-protocol/unbox-go/pkg/locate"
	"github.com/mash-protocol/unbox-go/pkg/log"
	"github.com/mash-protocol/unbox-go/pkg/probe"
	"github.com/mash-protocol/unbox-go/pkg/provision"
	"github.com/mash-protocol/unbox-go/pkg/report"
	"github.com/mash-protocol/unbox-go/pkg/wifi"
)

// provisionFlags override configuration values for one run.
type provisionFlags struct {
	interactive bool
	trace       string
	report      string
	pattern     string
	iface       string
}

func (f provisionFlags) apply(cmd *cobra.Command, cfg *config.Run) {
	if cmd.Flags().Changed("interactive") {
		cfg.Interactive = f.interactive
	}
	if f.trace != "" {
		cfg.TraceFile = f.trace
	}
	if f.report != "" {
		cfg.ReportFile = f.report
	}
	if f.pattern != "" {
		cfg.SSIDPattern = f.pattern
	}
	if f.iface != "" {
		cfg.Interface = f.iface
	}
}

// Provision returns the provision command.
func Provision(opts *options) *cobra.Command {
	var flags provisionFlags

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Discover and provision every matching device",
		Long: `Scan for device access points, join each one and apply the target
configuration: network join, device name, firmware update, reboot and
credentials. Devices are handled one at a time.

Examples:
  # Provision using unbox.yaml in the current directory
  unbox provision

  # Confirm each device and keep a trace and report
  unbox provision --interactive --trace run.ulog --report run.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runProvision(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Ask before provisioning each device")
	cmd.Flags().StringVar(&flags.trace, "trace", "", "Write the event trace to this file")
	cmd.Flags().StringVar(&flags.report, "report", "", "Write the YAML run report to this file")
	cmd.Flags().StringVar(&flags.pattern, "pattern", "", "Access point name pattern (default: shelly*)")
	cmd.Flags().StringVar(&flags.iface, "interface", "", "Wireless interface to use")

	return cmd
}

func runProvision(ctx context.Context, cfg config.Run, stdout, stderr io.Writer) error {
	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	runID := uuid.NewString()

	trace, closeTrace, err := openTrace(cfg.TraceFile, logger)
	if err != nil {
		return err
	}
	defer closeTrace()

	pipeline, err := newPipeline(cfg, runID, trace, logger)
	if err != nil {
		return err
	}

	loopCfg := discovery.Config{
		Pattern:     cfg.SSIDPattern,
		JoinTimeout: cfg.JoinTimeout,
		RunID:       runID,
		Trace:       trace,
		Logger:      logger,
	}
	if cfg.Interactive {
		confirm, release, err := newConfirm()
		if err != nil {
			return err
		}
		defer release()
		loopCfg.Confirm = confirm
	}

	wireless := wifi.New(wifi.Config{Interface: cfg.Interface, Logger: logger})
	sum, runErr := discovery.NewLoop(wireless, pipeline, loopCfg).Run(ctx)

	if err := report.Render(stdout, sum); err != nil {
		return err
	}
	if cfg.ReportFile != "" {
		if err := report.WriteFile(cfg.ReportFile, sum); err != nil {
			return err
		}
		logger.Info("report written", "path", cfg.ReportFile)
	}
	if runErr != nil {
		return runErr
	}
	if bad := sum.Count(discovery.Failed) + sum.Count(discovery.JoinFailed); bad > 0 {
		return fmt.Errorf("%d of %d devices not provisioned", bad, len(sum.Candidates))
	}
	return nil
}

// newPipeline wires the device client, prober and, for DHCP targets, the
// mDNS locator.
func newPipeline(cfg config.Run, runID string, trace log.Logger, logger *slog.Logger) (*provision.Pipeline, error) {
	pc := provision.Config{
		Target:        cfg.Target,
		Timing:        cfg.Timing,
		DeviceAddress: cfg.DeviceAddress,
		Client: device.NewClient(device.Config{
			RequestTimeout: cfg.HTTPTimeout,
			Logger:         logger,
		}),
		Prober: probe.New(probe.Config{
			Interval:       cfg.ProbeInterval,
			RequestTimeout: cfg.ProbeTimeout,
			Logger:         logger,
		}),
		RunID:  runID,
		Trace:  trace,
		Logger: logger,
	}
	if cfg.Target.Network.IsDHCP() {
		pc.Locator = locate.New(locate.Config{Interface: cfg.Interface, Logger: logger})
	}
	return provision.NewPipeline(pc)
}

// openTrace returns the trace sink: debug-level slog output, plus a CBOR
// file when path is set.
func openTrace(path string, logger *slog.Logger) (log.Logger, func(), error) {
	adapter := log.NewSlogAdapter(logger)
	if path == "" {
		return adapter, func() {}, nil
	}
	fl, err := log.NewFileLogger(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace: %w", err)
	}
	closeFn := func() {
		if err := fl.Close(); err != nil {
			logger.Warn("closing trace failed", "path", path, "error", err)
		}
		if n := fl.Errors(); n > 0 {
			logger.Warn("trace events dropped", "path", path, "count", n)
		}
	}
	return log.NewMultiLogger(fl, adapter), closeFn, nil
}
