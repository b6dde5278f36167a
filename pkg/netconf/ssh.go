package netconf

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	defaultSSHPort     = 22
	defaultDialTimeout = 10 * time.Second
)

// Apply errors.
var (
	// ErrRejected means the device answered a command with an IOS error
	// marker such as "% Invalid input".
	ErrRejected = errors.New("command rejected")

	// ErrNoAuth means SSHConfig carries neither a password nor a private key.
	ErrNoAuth = errors.New("no password or private key")
)

// Applier pushes a compiled command list to a device.
type Applier interface {
	Apply(ctx context.Context, commands []string) error
}

// SSHConfig configures an SSHApplier.
type SSHConfig struct {
	Host string
	Port int
	User string

	// Password and PrivateKey are both offered when set.
	Password   string
	PrivateKey []byte

	// EnableSecret enters privileged mode before configuring. Empty
	// assumes the login already lands in privileged mode.
	EnableSecret string

	// KnownHostsFile verifies the host key. Empty accepts any key, which
	// suits a bench network with factory-fresh gear.
	KnownHostsFile string

	// DialTimeout bounds connection setup. Default: 10 seconds.
	DialTimeout time.Duration

	// SessionLog receives the raw session transcript when set.
	SessionLog io.Writer

	Logger *slog.Logger
}

// SSHApplier applies commands through an interactive IOS shell.
type SSHApplier struct {
	addr       string
	client     *ssh.ClientConfig
	secret     string
	timeout    time.Duration
	sessionLog io.Writer
	logger     *slog.Logger
}

var _ Applier = (*SSHApplier)(nil)

// NewSSHApplier validates cfg and prepares the client configuration.
func NewSSHApplier(cfg SSHConfig) (*SSHApplier, error) {
	if cfg.Host == "" {
		return nil, errors.New("ssh host cannot be empty")
	}
	if cfg.User == "" {
		return nil, errors.New("ssh user cannot be empty")
	}

	var auth []ssh.AuthMethod
	if len(cfg.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		pw := cfg.Password
		auth = append(auth, ssh.Password(pw), ssh.KeyboardInteractive(
			func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = pw
				}
				return answers, nil
			}))
	}
	if len(auth) == 0 {
		return nil, ErrNoAuth
	}

	hostKey := ssh.InsecureIgnoreHostKey() //nolint:gosec // bench default, see KnownHostsFile
	if cfg.KnownHostsFile != "" {
		cb, err := knownhosts.New(cfg.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("load known hosts: %w", err)
		}
		hostKey = cb
	}

	port := cfg.Port
	if port == 0 {
		port = defaultSSHPort
	}
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &SSHApplier{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		client: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            auth,
			HostKeyCallback: hostKey,
			Timeout:         timeout,
		},
		secret:     cfg.EnableSecret,
		timeout:    timeout,
		sessionLog: cfg.SessionLog,
		logger:     logger,
	}, nil
}

// Apply opens a shell, enters configuration mode, sends commands and
// checks the transcript for rejected lines.
func (a *SSHApplier) Apply(ctx context.Context, commands []string) error {
	if len(commands) == 0 {
		return nil
	}

	d := net.Dialer{Timeout: a.timeout}
	nc, err := d.DialContext(ctx, "tcp", a.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", a.addr, err)
	}
	conn, chans, reqs, err := ssh.NewClientConn(nc, a.addr, a.client)
	if err != nil {
		_ = nc.Close()
		return fmt.Errorf("ssh handshake with %s: %w", a.addr, err)
	}
	client := ssh.NewClient(conn, chans, reqs)
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("open session on %s: %w", a.addr, err)
	}
	defer func() { _ = session.Close() }()

	var out bytes.Buffer
	var w io.Writer = &out
	if a.sessionLog != nil {
		w = io.MultiWriter(&out, a.sessionLog)
	}
	session.Stdout = w
	session.Stderr = w

	modes := ssh.TerminalModes{ssh.ECHO: 0}
	if err := session.RequestPty("vt100", 0, 200, modes); err != nil {
		return fmt.Errorf("request pty: %w", err)
	}
	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin: %w", err)
	}
	if err := session.Shell(); err != nil {
		return fmt.Errorf("start shell: %w", err)
	}

	a.logger.Info("applying configuration", "addr", a.addr, "commands", len(commands))
	if _, err := io.WriteString(stdin, script(commands, a.secret)); err != nil {
		return fmt.Errorf("send commands: %w", err)
	}
	_ = stdin.Close()

	done := make(chan error, 1)
	go func() { done <- session.Wait() }()
	select {
	case err = <-done:
	case <-ctx.Done():
		_ = client.Close()
		return ctx.Err()
	}
	var missing *ssh.ExitMissingError
	if err != nil && !errors.As(err, &missing) {
		return fmt.Errorf("session on %s: %w", a.addr, err)
	}

	if err := rejected(out.String()); err != nil {
		a.logger.Warn("configuration rejected", "addr", a.addr, "error", err)
		return err
	}
	a.logger.Info("configuration applied", "addr", a.addr)
	return nil
}

// script is the shell input for one apply. Blank lines are dropped.
func script(commands []string, secret string) string {
	var b strings.Builder
	b.WriteString("terminal length 0\n")
	if secret != "" {
		b.WriteString("enable\n")
		b.WriteString(secret + "\n")
	}
	b.WriteString("configure terminal\n")
	for _, c := range commands {
		if strings.TrimSpace(c) == "" {
			continue
		}
		b.WriteString(c + "\n")
	}
	b.WriteString("end\n")
	b.WriteString("exit\n")
	return b.String()
}

// rejected reports the first IOS error marker in a transcript.
func rejected(transcript string) error {
	sc := bufio.NewScanner(strings.NewReader(transcript))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "% ") {
			return fmt.Errorf("%w: %s", ErrRejected, line)
		}
	}
	return nil
}
