package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/unbox-go/pkg/log"
)

func writeTrace(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.ulog")
	fl, err := log.NewFileLogger(path)
	require.NoError(t, err)

	ts := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, RunID: "run-1", Category: log.CategoryRun, Result: "STARTED"},
		{Timestamp: ts.Add(time.Second), RunID: "run-1", Candidate: "Device-AABBCC", Category: log.CategoryCandidate, Result: "JOINED"},
		{Timestamp: ts.Add(2 * time.Second), RunID: "run-1", SessionID: "sess-aaaa-1111", Candidate: "Device-AABBCC", Category: log.CategoryStep, Step: "FetchConfig", Result: "SUCCEEDED", Status: 200, Endpoint: "http://192.168.33.1", Duration: 120 * time.Millisecond},
		{Timestamp: ts.Add(3 * time.Second), RunID: "run-1", SessionID: "sess-aaaa-1111", Candidate: "Device-AABBCC", Category: log.CategoryStep, Step: "DisableAuxRadio", Result: "FAILED", Reason: "BLE: rejected with status 500", Status: 500},
		{Timestamp: ts.Add(4 * time.Second), RunID: "run-1", SessionID: "sess-aaaa-1111", Candidate: "Device-AABBCC", Category: log.CategoryStep, Step: "SetNetworkJoin", Result: "SUCCEEDED", Status: 200},
		{Timestamp: ts.Add(64 * time.Second), RunID: "run-1", SessionID: "sess-aaaa-1111", Candidate: "Device-AABBCC", Category: log.CategoryReadiness, Step: "SetNetworkJoin", Result: "NOT_READY", Duration: time.Minute},
		{Timestamp: ts.Add(64 * time.Second), RunID: "run-1", SessionID: "sess-aaaa-1111", Candidate: "Device-AABBCC", Category: log.CategorySession, Step: "SetNetworkJoin", Result: "FAILED", Reason: "device unreachable"},
		{Timestamp: ts.Add(65 * time.Second), RunID: "run-1", Category: log.CategoryRun, Result: "FINISHED"},
	}
	for _, e := range events {
		fl.Log(e)
	}
	require.NoError(t, fl.Close())
	return path
}

func TestFormatEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, log.Event{
		Timestamp: time.Date(2026, 10, 18, 9, 0, 1, 123456000, time.UTC),
		SessionID: "abcdef12-3456",
		Candidate: "Device-AABBCC",
		Category:  log.CategoryStep,
		Step:      "Reboot",
		Result:    "SUCCEEDED",
		Status:    200,
		Duration:  1500 * time.Millisecond,
	})
	out := buf.String()

	if !strings.Contains(out, "2026-10-18T09:00:01.123456Z") {
		t.Errorf("expected timestamp, got: %s", out)
	}
	if !strings.Contains(out, "[sess:abcdef12]") {
		t.Errorf("expected shortened session ID, got: %s", out)
	}
	if !strings.Contains(out, "STEP") || !strings.Contains(out, "Reboot SUCCEEDED") {
		t.Errorf("expected category and step, got: %s", out)
	}
	if !strings.Contains(out, "Status: 200") || !strings.Contains(out, "Duration: 1.5s") {
		t.Errorf("expected details, got: %s", out)
	}
}

func TestFormatEventWithoutSession(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, log.Event{Category: log.CategoryRun, Result: "STARTED"})
	assert.Contains(t, buf.String(), "[sess:-] RUN")
	assert.Contains(t, buf.String(), "STARTED")
}

func TestRunViewFiltered(t *testing.T) {
	path := writeTrace(t)
	cat := log.CategoryStep

	var buf bytes.Buffer
	require.NoError(t, RunView(path, log.Filter{Category: &cat}, &buf))
	out := buf.String()

	assert.Equal(t, 3, strings.Count(out, "[sess:sess-aaa]"))
	assert.Contains(t, out, "Reason: BLE: rejected with status 500")
	assert.NotContains(t, out, "FINISHED")
}

func TestRunViewMissingFile(t *testing.T) {
	err := RunView(filepath.Join(t.TempDir(), "none.ulog"), log.Filter{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunStats(t *testing.T) {
	path := writeTrace(t)

	var buf bytes.Buffer
	require.NoError(t, RunStats(path, &buf))
	out := buf.String()

	assert.Contains(t, out, "Total Events: 8")
	assert.Contains(t, out, "Duration:   1m5s")
	assert.Contains(t, out, "STEP:")
	assert.Contains(t, out, "DisableAuxRadio:")
	assert.Contains(t, out, "Sessions: 1")
	assert.Contains(t, out, "Device-AABBCC FAILED, 3 steps")
	assert.Contains(t, out, "Failed at: SetNetworkJoin (device unreachable)")
}

func TestRunExport(t *testing.T) {
	path := writeTrace(t)

	var jsonl bytes.Buffer
	require.NoError(t, RunExport(path, log.Filter{SessionID: "sess-aaaa-1111"}, "jsonl", &jsonl))
	assert.Equal(t, 5, strings.Count(jsonl.String(), "\n"))

	var csvOut bytes.Buffer
	require.NoError(t, RunExport(path, log.Filter{}, "csv", &csvOut))
	lines := strings.Split(strings.TrimSpace(csvOut.String()), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,run_id,session_id"))
	assert.Contains(t, lines[3], "FetchConfig,SUCCEEDED,,200,http://192.168.33.1,120")

	assert.Error(t, RunExport(path, log.Filter{}, "xml", &bytes.Buffer{}))
}

func TestViewFlagsFilter(t *testing.T) {
	f, err := viewFlags{session: "s", category: "readiness"}.filter()
	require.NoError(t, err)
	require.NotNil(t, f.Category)
	assert.Equal(t, log.CategoryReadiness, *f.Category)
	assert.Equal(t, "s", f.SessionID)

	_, err = viewFlags{category: "bogus"}.filter()
	assert.Error(t, err)
}
