// Package commands defines the unbox command tree.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mash-protocol/unbox-go/pkg/config"
)

// options are shared by every subcommand.
type options struct {
	configPath string
}

// load reads the run configuration named by --config.
func (o *options) load() (config.Run, error) {
	return config.Load(o.configPath)
}

// Root returns the root command.
func Root() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "unbox",
		Short:         "Provision freshly unboxed network appliances",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (default: unbox.yaml)")

	cmd.AddCommand(Provision(opts))
	cmd.AddCommand(Scan(opts))
	cmd.AddCommand(Compile())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Log())
	cmd.AddCommand(Version())

	return cmd
}

// newLogger builds the operator logger writing to w.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
