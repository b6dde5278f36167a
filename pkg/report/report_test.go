package report

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/unbox-go/pkg/discovery"
	"github.com/mash-protocol/unbox-go/pkg/provision"
)

func sampleSummary() discovery.Summary {
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	ok := provision.Result{
		SessionID: "s-1",
		Candidate: provision.Candidate{SSID: "Device-AABBCC"},
		DeviceID:  "device-aabbcc",
		State:     provision.StateProvisioned,
		Endpoint:  "http://10.0.0.5",
	}
	for _, s := range provision.Steps {
		ok.History = append(ok.History, provision.StepRecord{Step: s, Result: provision.Succeeded(), Status: 200, Duration: 1500 * time.Millisecond})
	}
	ok.History[0].Result = provision.Failed("transport: connection reset")
	ok.History[0].Status = 0
	ok.History[3].Result = provision.Skipped("no stable update advertised")

	bad := provision.Result{
		SessionID:  "s-2",
		Candidate:  provision.Candidate{SSID: "Device-DDEEFF"},
		DeviceID:   "device-ddeeff",
		State:      provision.StateFailed,
		FailedStep: provision.StepSetNetworkJoin,
		Reason:     provision.ReasonUnreachable,
		History: []provision.StepRecord{
			{Step: provision.StepFetchConfig, Result: provision.Succeeded()},
			{Step: provision.StepDisableAuxRadio, Result: provision.Succeeded()},
			{Step: provision.StepSetNetworkJoin, Result: provision.Succeeded()},
		},
	}

	return discovery.Summary{
		RunID:    "run-42",
		Started:  start,
		Finished: start.Add(3 * time.Minute),
		Candidates: []discovery.CandidateReport{
			{Candidate: ok.Candidate, Disposition: discovery.Provisioned, Result: &ok},
			{Candidate: bad.Candidate, Disposition: discovery.Failed, Result: &bad},
			{Candidate: provision.Candidate{SSID: "Device-112233"}, Disposition: discovery.JoinFailed, Err: errors.New("association timed out")},
			{Candidate: provision.Candidate{SSID: "Device-445566"}, Disposition: discovery.Skipped},
		},
	}
}

func TestConsole(t *testing.T) {
	out := Console(sampleSummary())

	for _, want := range []string{
		"run-42",
		"Device-AABBCC", "PROVISIONED",
		"SetAuthCredentials",
		"warning: transport: connection reset",
		"no stable update advertised",
		"reachable at http://10.0.0.5",
		"Device-DDEEFF", "failed at SetNetworkJoin: device unreachable",
		"Device-112233", "JOIN_FAILED", "association timed out",
		"1 provisioned", "1 failed", "1 join failed", "1 skipped",
		"took 3m0s",
	} {
		assert.Contains(t, out, want)
	}
}

func TestConsoleEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, discovery.Summary{RunID: "r"}))
	assert.Contains(t, buf.String(), "no candidates found")
}

func TestBuild(t *testing.T) {
	doc := Build(sampleSummary())

	assert.Equal(t, "run-42", doc.RunID)
	assert.Equal(t, Totals{Provisioned: 1, Failed: 1, JoinFailed: 1, Skipped: 1}, doc.Totals)
	require.Len(t, doc.Devices, 4)

	ok := doc.Devices[0]
	assert.Equal(t, "device-aabbcc", ok.DeviceID)
	assert.Empty(t, ok.FailedStep)
	require.Len(t, ok.Steps, 7)
	assert.Equal(t, "FetchConfig", ok.Steps[0].Name)
	assert.Equal(t, "FAILED", ok.Steps[0].Result)
	assert.Equal(t, "SKIPPED", ok.Steps[3].Result)

	bad := doc.Devices[1]
	assert.Equal(t, "SetNetworkJoin", bad.FailedStep)
	assert.Equal(t, "device unreachable", bad.Reason)

	assert.Equal(t, "association timed out", doc.Devices[2].Reason)
	assert.Empty(t, doc.Devices[3].Steps)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")
	require.NoError(t, WriteFile(path, sampleSummary()))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Build(sampleSummary()), doc)
}

func TestWriteYAMLKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleSummary()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "run_id: run-42\n"))
	assert.Contains(t, out, "join_failed: 1")
	assert.Contains(t, out, "failed_step: SetNetworkJoin")
	assert.Contains(t, out, "duration: 1.5s")
}

func TestNetworks(t *testing.T) {
	out := Networks([]discovery.Network{
		{SSID: "ShellyPlug-AABBCC", Signal: 70},
		{SSID: "Home", Signal: 40, Security: "WPA2"},
	}, "shelly*")

	assert.Contains(t, out, "SSID")
	assert.Contains(t, out, "ShellyPlug-AABBCC")
	assert.Contains(t, out, "open")
	assert.Contains(t, out, "WPA2")
	assert.Equal(t, 1, strings.Count(out, "●"))
}
