package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/unbox-go/pkg/config"
)

func TestRoot(t *testing.T) {
	cmd := Root()
	require.NotNil(t, cmd)
	assert.Equal(t, "unbox", cmd.Use)

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"provision", "scan", "compile", "apply", "log", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestVersionOutput(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer func() { version, commit, date = origVersion, origCommit, origDate }()
	SetVersionInfo("1.2.3", "abc123", "2026-10-18")

	var buf bytes.Buffer
	cmd := Version()
	cmd.SetOut(&buf)
	cmd.Run(cmd, nil)

	assert.Contains(t, buf.String(), "unbox 1.2.3")
	assert.Contains(t, buf.String(), "commit: abc123")
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	sheet := filepath.Join(dir, "router.csv")
	require.NoError(t, os.WriteFile(sheet, []byte(
		"network;interface;description;vlan;ipaddress;subnetmask;defaultgateway\n"+
			"lan;Gi0/1;LAN;10;192.168.1.1;255.255.255.0;\n"), 0o600))

	var stdout bytes.Buffer
	root := Root()
	root.SetOut(&stdout)
	root.SetArgs([]string{"compile", "router", sheet})
	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(stdout.String(), "interface Gi0/1\n"))

	out := filepath.Join(dir, "out", "router.txt")
	stdout.Reset()
	root = Root()
	root.SetOut(&stdout)
	root.SetArgs([]string{"compile", "router", sheet, "-o", out})
	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "8 commands saved to")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), " ip address 192.168.1.1 255.255.255.0\n")
}

func TestCompileUnknownKind(t *testing.T) {
	err := runCompile("firewall", "x.csv", "", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown device kind")
}

func TestReadCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmds.txt")
	require.NoError(t, os.WriteFile(path, []byte("vlan 10\r\n name A\nexit\n"), 0o600))

	cmds, err := readCommands(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"vlan 10", " name A", "exit"}, cmds)
}

func TestApplyFlagsSSHConfig(t *testing.T) {
	t.Setenv(envSSHPassword, "pw")
	t.Setenv(envEnableSecret, "en")

	cfg, err := applyFlags{host: "10.0.0.1", port: 2222, user: "cisco"}.sshConfig()
	require.NoError(t, err)
	assert.Equal(t, "pw", cfg.Password)
	assert.Equal(t, "en", cfg.EnableSecret)
	assert.Equal(t, 2222, cfg.Port)

	_, err = applyFlags{keyFile: filepath.Join(t.TempDir(), "missing")}.sshConfig()
	assert.Error(t, err)
}

func TestProvisionFlagsApply(t *testing.T) {
	cmd := &cobra.Command{}
	var f provisionFlags
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--interactive=false"}))
	f.trace = "t.ulog"
	f.pattern = "plug*"

	cfg := config.Default()
	cfg.Interactive = true
	f.apply(cmd, &cfg)

	assert.False(t, cfg.Interactive)
	assert.Equal(t, "t.ulog", cfg.TraceFile)
	assert.Equal(t, "plug*", cfg.SSIDPattern)
	assert.Empty(t, cfg.ReportFile)
}

func TestProvisionRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ssid_pattern: \"shelly*\"\n"), 0o600))

	root := Root()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"provision", "-c", path})
	err := root.Execute()
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestParseAnswer(t *testing.T) {
	tests := map[string]answer{
		"y":     answerYes,
		" YES ": answerYes,
		"n":     answerNo,
		"":      answerNo,
		"maybe": answerNo,
		"q":     answerQuit,
		"quit":  answerQuit,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseAnswer(in), "input %q", in)
	}
}
