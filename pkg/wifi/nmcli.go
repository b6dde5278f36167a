// Package wifi joins device access points through NetworkManager.
//
// All operations shell out to nmcli in terse mode. The command runner is
// injectable so the parsing and argument building can be tested without a
// wireless interface.
package wifi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mash-protocol/unbox-go/pkg/discovery"
)

// DefaultBinary is the NetworkManager command line client.
const DefaultBinary = "nmcli"

// ErrJoin is returned when a network could not be activated.
var ErrJoin = errors.New("join failed")

// Runner executes a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args. A non-zero exit status is returned as an
// error carrying the command's standard error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// Config configures a NetworkManager client.
type Config struct {
	// Interface is the wireless device to use. Empty lets NetworkManager
	// pick.
	Interface string

	// Binary is the nmcli executable. Default: "nmcli".
	Binary string

	// Runner executes commands. Default: ExecRunner.
	Runner Runner

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// NetworkManager implements discovery.Wireless with nmcli.
type NetworkManager struct {
	iface  string
	binary string
	runner Runner
	logger *slog.Logger
}

var _ discovery.Wireless = (*NetworkManager)(nil)

// New creates a NetworkManager client.
func New(cfg Config) *NetworkManager {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Runner == nil {
		cfg.Runner = ExecRunner{}
	}
	return &NetworkManager{
		iface:  cfg.Interface,
		binary: cfg.Binary,
		runner: cfg.Runner,
		logger: cfg.Logger,
	}
}

func (n *NetworkManager) run(ctx context.Context, args ...string) ([]byte, error) {
	n.debug("nmcli", "args", args)
	return n.runner.Run(ctx, n.binary, args...)
}

func (n *NetworkManager) withIface(args []string) []string {
	if n.iface != "" {
		args = append(args, "ifname", n.iface)
	}
	return args
}

// Scan triggers a rescan and lists visible networks.
func (n *NetworkManager) Scan(ctx context.Context) ([]discovery.Network, error) {
	args := n.withIface([]string{"-t", "-f", "SSID,SIGNAL,SECURITY", "device", "wifi", "list"})
	args = append(args, "--rescan", "yes")
	out, err := n.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parseNetworks(out), nil
}

// EnsureProfile creates an open, manually activated profile named after
// ssid unless a profile of that name exists.
func (n *NetworkManager) EnsureProfile(ctx context.Context, ssid string) error {
	out, err := n.run(ctx, "-t", "-f", "NAME", "connection", "show")
	if err != nil {
		return err
	}
	for _, line := range lines(out) {
		if fields := splitTerse(line); len(fields) > 0 && fields[0] == ssid {
			return nil
		}
	}

	args := []string{"connection", "add", "type", "wifi", "con-name", ssid, "ssid", ssid}
	if n.iface != "" {
		args = append(args, "ifname", n.iface)
	}
	args = append(args, "connection.autoconnect", "no")
	if _, err := n.run(ctx, args...); err != nil {
		return fmt.Errorf("create profile %q: %w", ssid, err)
	}
	n.debug("profile created", "ssid", ssid)
	return nil
}

// Join activates the profile for ssid and waits up to timeout.
func (n *NetworkManager) Join(ctx context.Context, ssid string, timeout time.Duration) error {
	secs := int(math.Ceil(timeout.Seconds()))
	if secs < 1 {
		secs = 1
	}
	ctx, cancel := context.WithTimeout(ctx, timeout+5*time.Second)
	defer cancel()

	args := n.withIface([]string{"--wait", strconv.Itoa(secs), "connection", "up", "id", ssid})
	if _, err := n.run(ctx, args...); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrJoin, ssid, err)
	}
	return nil
}

// Release deactivates the profile for ssid.
func (n *NetworkManager) Release(ctx context.Context, ssid string) error {
	_, err := n.run(ctx, "connection", "down", "id", ssid)
	return err
}

func (n *NetworkManager) debug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}

// parseNetworks reads "SSID:SIGNAL:SECURITY" terse lines. Hidden networks
// (empty SSID) are dropped.
func parseNetworks(out []byte) []discovery.Network {
	var nets []discovery.Network
	for _, line := range lines(out) {
		f := splitTerse(line)
		if len(f) == 0 || f[0] == "" {
			continue
		}
		nw := discovery.Network{SSID: f[0]}
		if len(f) > 1 {
			nw.Signal, _ = strconv.Atoi(f[1])
		}
		if len(f) > 2 && f[2] != "--" {
			nw.Security = f[2]
		}
		nets = append(nets, nw)
	}
	return nets
}

func lines(out []byte) []string {
	var res []string
	for _, l := range strings.Split(string(out), "\n") {
		if l = strings.TrimRight(l, "\r"); l != "" {
			res = append(res, l)
		}
	}
	return res
}

// splitTerse splits an nmcli terse line on unescaped colons. nmcli escapes
// ':' and '\' in values with a backslash.
func splitTerse(line string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
