package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/unbox-go/pkg/discovery"
)

// Document is the YAML form of a run.
type Document struct {
	RunID    string    `yaml:"run_id"`
	Started  time.Time `yaml:"started"`
	Finished time.Time `yaml:"finished"`
	Totals   Totals    `yaml:"totals"`
	Devices  []Device  `yaml:"devices"`
}

// Totals counts candidates by outcome.
type Totals struct {
	Provisioned int `yaml:"provisioned"`
	Failed      int `yaml:"failed"`
	JoinFailed  int `yaml:"join_failed"`
	Skipped     int `yaml:"skipped"`
}

// Device is one candidate's entry.
type Device struct {
	SSID       string `yaml:"ssid"`
	DeviceID   string `yaml:"device_id,omitempty"`
	SessionID  string `yaml:"session_id,omitempty"`
	Outcome    string `yaml:"outcome"`
	FailedStep string `yaml:"failed_step,omitempty"`
	Reason     string `yaml:"reason,omitempty"`
	Endpoint   string `yaml:"endpoint,omitempty"`
	Steps      []Step `yaml:"steps,omitempty"`
}

// Step is one history record.
type Step struct {
	Name     string        `yaml:"name"`
	Result   string        `yaml:"result"`
	Reason   string        `yaml:"reason,omitempty"`
	Status   int           `yaml:"status,omitempty"`
	Duration time.Duration `yaml:"duration"`
}

// Build converts a run summary into a Document.
func Build(sum discovery.Summary) Document {
	doc := Document{
		RunID:    sum.RunID,
		Started:  sum.Started,
		Finished: sum.Finished,
		Totals: Totals{
			Provisioned: sum.Count(discovery.Provisioned),
			Failed:      sum.Count(discovery.Failed),
			JoinFailed:  sum.Count(discovery.JoinFailed),
			Skipped:     sum.Count(discovery.Skipped),
		},
	}
	for _, c := range sum.Candidates {
		d := Device{SSID: c.Candidate.SSID, Outcome: c.Disposition.String()}
		if c.Err != nil {
			d.Reason = c.Err.Error()
		}
		if r := c.Result; r != nil {
			d.DeviceID = r.DeviceID
			d.SessionID = r.SessionID
			d.Endpoint = r.Endpoint
			if !r.Provisioned() {
				d.FailedStep = r.FailedStep.String()
				d.Reason = r.Reason
			}
			for _, rec := range r.History {
				d.Steps = append(d.Steps, Step{
					Name:     rec.Step.String(),
					Result:   rec.Result.Kind.String(),
					Reason:   rec.Result.Reason,
					Status:   rec.Status,
					Duration: rec.Duration,
				})
			}
		}
		doc.Devices = append(doc.Devices, d)
	}
	return doc
}

// WriteYAML encodes the run summary to w.
func WriteYAML(w io.Writer, sum discovery.Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Build(sum)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the YAML report to path, creating parent directories.
func WriteFile(path string, sum discovery.Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteYAML(f, sum); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadFile loads a YAML report.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse report %s: %w", path, err)
	}
	return doc, nil
}
