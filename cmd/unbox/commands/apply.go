package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mash-protocol/unbox-go/pkg/netconf"
)

// Apply environment variables.
const (
	envSSHPassword  = "UNBOX_SSH_PASSWORD"
	envEnableSecret = "UNBOX_ENABLE_SECRET"
)

type applyFlags struct {
	host        string
	port        int
	user        string
	keyFile     string
	knownHosts  string
	sessionLog  string
	dialTimeout time.Duration
}

// Apply returns the apply command.
func Apply() *cobra.Command {
	var flags applyFlags

	cmd := &cobra.Command{
		Use:   "apply <commands.txt>",
		Short: "Apply a command file over SSH",
		Long: `Apply a compiled command file to a switch or router over SSH. The
commands are sent in configuration mode and the session fails if the
device rejects any line.

Environment variables:
  UNBOX_SSH_PASSWORD   login password (unless --key is given)
  UNBOX_ENABLE_SECRET  enable secret, if privileged mode needs one

Examples:
  unbox apply switch_config.txt --host 192.168.100.100 --user cisco`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commands, err := readCommands(args[0])
			if err != nil {
				return err
			}
			cfg, err := flags.sshConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), "info")
			if err != nil {
				return err
			}
			cfg.Logger = logger

			if flags.sessionLog != "" {
				f, err := os.Create(flags.sessionLog)
				if err != nil {
					return fmt.Errorf("failed to create session log: %w", err)
				}
				defer f.Close()
				cfg.SessionLog = f
			}

			applier, err := netconf.NewSSHApplier(cfg)
			if err != nil {
				return err
			}
			if err := applier.Apply(cmd.Context(), commands); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d commands applied to %s\n", len(commands), flags.host)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.host, "host", "", "Device address")
	cmd.Flags().IntVar(&flags.port, "port", 22, "SSH port")
	cmd.Flags().StringVar(&flags.user, "user", "", "Login user")
	cmd.Flags().StringVar(&flags.keyFile, "key", "", "Private key file")
	cmd.Flags().StringVar(&flags.knownHosts, "known-hosts", "", "known_hosts file for host key verification")
	cmd.Flags().StringVar(&flags.sessionLog, "session-log", "", "Write the session transcript to this file")
	cmd.Flags().DurationVar(&flags.dialTimeout, "dial-timeout", 10*time.Second, "Connection timeout")
	_ = cmd.MarkFlagRequired("host")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func (f applyFlags) sshConfig() (netconf.SSHConfig, error) {
	cfg := netconf.SSHConfig{
		Host:           f.host,
		Port:           f.port,
		User:           f.user,
		Password:       os.Getenv(envSSHPassword),
		EnableSecret:   os.Getenv(envEnableSecret),
		KnownHostsFile: f.knownHosts,
		DialTimeout:    f.dialTimeout,
	}
	if f.keyFile != "" {
		key, err := os.ReadFile(f.keyFile)
		if err != nil {
			return netconf.SSHConfig{}, fmt.Errorf("failed to read key: %w", err)
		}
		cfg.PrivateKey = key
	}
	return cfg, nil
}

// readCommands loads a command file, one command per line.
func readCommands(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open command file: %w", err)
	}
	defer f.Close()

	var commands []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		commands = append(commands, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read command file: %w", err)
	}
	return commands, nil
}
