package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mash-protocol/unbox-go/pkg/report"
	"github.com/mash-protocol/unbox-go/pkg/wifi"
)

// Scan returns the scan command.
func Scan(opts *options) *cobra.Command {
	var pattern, iface string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List device access points in range",
		Long: `Scan for wireless networks and mark those matching the device name
pattern. Nothing is joined or changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if pattern != "" {
				cfg.SSIDPattern = pattern
			}
			if iface != "" {
				cfg.Interface = iface
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}

			networks, err := wifi.New(wifi.Config{Interface: cfg.Interface, Logger: logger}).Scan(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Networks(networks, cfg.SSIDPattern))
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Access point name pattern (default: shelly*)")
	cmd.Flags().StringVar(&iface, "interface", "", "Wireless interface to use")

	return cmd
}
