package log

import (
	"testing"
	"time"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryRun, "RUN"},
		{CategoryCandidate, "CANDIDATE"},
		{CategoryStep, "STEP"},
		{CategoryReadiness, "READINESS"},
		{CategorySession, "SESSION"},
		{Category(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, name := range []string{"run", "Candidate", "STEP", " readiness ", "session"} {
		c, err := ParseCategory(name)
		if err != nil {
			t.Errorf("ParseCategory(%q) error = %v", name, err)
			continue
		}
		if c.String() == "UNKNOWN" {
			t.Errorf("ParseCategory(%q) = UNKNOWN", name)
		}
	}
	if _, err := ParseCategory("frame"); err == nil {
		t.Error("ParseCategory(frame) should fail")
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 30, 0, 123456789, time.UTC)
	event := Event{
		Timestamp: ts,
		RunID:     "run-1",
		SessionID: "sess-1",
		Candidate: "Device-AABBCC",
		Category:  CategoryReadiness,
		Step:      "SetNetworkJoin",
		Result:    "NOT_READY",
		Reason:    "device unreachable",
		Endpoint:  "http://10.0.0.5",
		Duration:  60 * time.Second,
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}
	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}

	if !got.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, ts)
	}
	if got.Step != event.Step || got.Reason != event.Reason || got.Duration != event.Duration {
		t.Errorf("decoded %+v, want %+v", got, event)
	}
}
