package netconf

import (
	"bufio"
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// fakeIOS is a minimal SSH shell that records input lines and answers
// lines starting with "bogus" with an IOS error marker.
type fakeIOS struct {
	host string
	port int

	mu    sync.Mutex
	lines []string
}

func startFakeIOS(t *testing.T, user, password string) *fakeIOS {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	cfg := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == user && string(pass) == password {
				return nil, nil
			}
			return nil, errors.New("access denied")
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	f := &fakeIOS{host: host, port: p}
	go func() {
		for {
			nc, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(nc, cfg)
		}
	}()
	return f
}

func (f *fakeIOS) serve(nc net.Conn, cfg *ssh.ServerConfig) {
	defer func() { _ = nc.Close() }()
	_, chans, reqs, err := ssh.NewServerConn(nc, cfg)
	if err != nil {
		return
	}
	go ssh.DiscardRequests(reqs)

	for nch := range chans {
		if nch.ChannelType() != "session" {
			_ = nch.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		ch, creqs, err := nch.Accept()
		if err != nil {
			return
		}
		go func() {
			for req := range creqs {
				_ = req.Reply(req.Type == "pty-req" || req.Type == "shell", nil)
			}
		}()
		f.shell(ch)
	}
}

func (f *fakeIOS) shell(ch ssh.Channel) {
	_, _ = io.WriteString(ch, "sw1>")
	sc := bufio.NewScanner(ch)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		f.mu.Lock()
		f.lines = append(f.lines, line)
		f.mu.Unlock()
		if strings.HasPrefix(line, "bogus") {
			_, _ = io.WriteString(ch, "\r\n% Invalid input detected at '^' marker.\r\n")
		}
		_, _ = io.WriteString(ch, "\r\nsw1#")
	}
	status := struct{ Status uint32 }{0}
	_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(&status))
	_ = ch.Close()
}

func (f *fakeIOS) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lines...)
}

func TestSSHApplierApply(t *testing.T) {
	srv := startFakeIOS(t, "cisco", "123")
	var transcript bytes.Buffer

	a, err := NewSSHApplier(SSHConfig{
		Host:         srv.host,
		Port:         srv.port,
		User:         "cisco",
		Password:     "123",
		EnableSecret: "s3cret",
		SessionLog:   &transcript,
	})
	require.NoError(t, err)

	err = a.Apply(context.Background(), []string{"vlan 10", " name Clients", "exit", ""})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"terminal length 0",
		"enable", "s3cret",
		"configure terminal",
		"vlan 10", " name Clients", "exit",
		"end", "exit",
	}, srv.received())
	assert.Contains(t, transcript.String(), "sw1#")
}

func TestSSHApplierRejected(t *testing.T) {
	srv := startFakeIOS(t, "cisco", "123")
	a, err := NewSSHApplier(SSHConfig{Host: srv.host, Port: srv.port, User: "cisco", Password: "123"})
	require.NoError(t, err)

	err = a.Apply(context.Background(), []string{"vlan 10", "bogus command"})
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Invalid input")
}

func TestSSHApplierAuthFailure(t *testing.T) {
	srv := startFakeIOS(t, "cisco", "123")
	a, err := NewSSHApplier(SSHConfig{Host: srv.host, Port: srv.port, User: "cisco", Password: "wrong"})
	require.NoError(t, err)

	err = a.Apply(context.Background(), []string{"vlan 10"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
}

func TestSSHApplierNothingToApply(t *testing.T) {
	// No server: an empty list never dials.
	a, err := NewSSHApplier(SSHConfig{Host: "127.0.0.1", Port: 1, User: "cisco", Password: "x"})
	require.NoError(t, err)
	assert.NoError(t, a.Apply(context.Background(), nil))
}

func TestNewSSHApplierValidation(t *testing.T) {
	_, err := NewSSHApplier(SSHConfig{User: "cisco", Password: "x"})
	assert.Error(t, err)

	_, err = NewSSHApplier(SSHConfig{Host: "h", Password: "x"})
	assert.Error(t, err)

	_, err = NewSSHApplier(SSHConfig{Host: "h", User: "cisco"})
	assert.ErrorIs(t, err, ErrNoAuth)

	_, err = NewSSHApplier(SSHConfig{Host: "h", User: "cisco", PrivateKey: []byte("not a key")})
	assert.Error(t, err)
}

func TestRejected(t *testing.T) {
	assert.NoError(t, rejected("sw1#vlan 10\r\nsw1(config-vlan)#"))
	err := rejected("sw1#foo\r\n% Incomplete command.\r\n")
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "% Incomplete command.")
}

func TestScriptWithoutSecret(t *testing.T) {
	assert.Equal(t, "terminal length 0\nconfigure terminal\nvlan 10\nend\nexit\n", script([]string{"vlan 10", "  "}, ""))
}
