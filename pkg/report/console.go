// Package report renders the outcome of a provisioning run for the
// operator: a styled per-device trace on the console and a YAML document
// for record keeping.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mash-protocol/unbox-go/pkg/discovery"
	"github.com/mash-protocol/unbox-go/pkg/provision"
)

var (
	colorGreen  = lipgloss.Color("76")
	colorRed    = lipgloss.Color("204")
	colorYellow = lipgloss.Color("214")
	colorDim    = lipgloss.Color("243")
	colorAccent = lipgloss.Color("99")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	failStyle    = lipgloss.NewStyle().Foreground(colorRed)
	warnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
)

// Render writes the console trace of a run to w.
func Render(w io.Writer, sum discovery.Summary) error {
	_, err := io.WriteString(w, Console(sum))
	return err
}

// Console returns the console trace of a run.
func Console(sum discovery.Summary) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  unbox run " + sum.RunID))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 40)))
	b.WriteString("\n")

	if len(sum.Candidates) == 0 {
		b.WriteString(dimStyle.Render("  no candidates found"))
		b.WriteString("\n")
	}

	for _, c := range sum.Candidates {
		b.WriteString("\n")
		renderCandidate(&b, c)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		okStyle.Render(fmt.Sprintf("%d provisioned", sum.Count(discovery.Provisioned))),
		failStyle.Render(fmt.Sprintf("%d failed", sum.Count(discovery.Failed))),
		failStyle.Render(fmt.Sprintf("%d join failed", sum.Count(discovery.JoinFailed))),
		dimStyle.Render(fmt.Sprintf("%d skipped", sum.Count(discovery.Skipped))),
	)
	if !sum.Finished.IsZero() {
		b.WriteString(dimStyle.Render("  took " + sum.Finished.Sub(sum.Started).Round(100 * time.Millisecond).String()))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCandidate(b *strings.Builder, c discovery.CandidateReport) {
	b.WriteString(sectionStyle.Render("  " + c.Candidate.SSID))
	b.WriteString("  ")
	b.WriteString(disposition(c.Disposition))
	b.WriteString("\n")

	switch {
	case c.Disposition == discovery.JoinFailed && c.Err != nil:
		b.WriteString(dimStyle.Render("    " + c.Err.Error()))
		b.WriteString("\n")
		return
	case c.Result == nil:
		return
	}

	r := c.Result
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 40)))
	b.WriteString("\n")
	for _, rec := range r.History {
		fmt.Fprintf(b, "    %s %-20s %s\n", mark(rec.Result.Kind), rec.Step, detail(rec))
	}
	if r.State == provision.StateFailed {
		fmt.Fprintf(b, "    %s\n", failStyle.Render(fmt.Sprintf("failed at %s: %s", r.FailedStep, r.Reason)))
	} else if r.Endpoint != "" {
		fmt.Fprintf(b, "    %s\n", dimStyle.Render("reachable at "+r.Endpoint))
	}
}

func disposition(d discovery.Disposition) string {
	switch d {
	case discovery.Provisioned:
		return okStyle.Render(d.String())
	case discovery.Skipped:
		return dimStyle.Render(d.String())
	default:
		return failStyle.Render(d.String())
	}
}

func mark(k provision.ResultKind) string {
	switch k {
	case provision.ResultSucceeded:
		return okStyle.Render("✓")
	case provision.ResultSkipped:
		return dimStyle.Render("-")
	default:
		return failStyle.Render("✗")
	}
}

func detail(rec provision.StepRecord) string {
	switch rec.Result.Kind {
	case provision.ResultSucceeded:
		return dimStyle.Render(rec.Duration.Round(time.Millisecond).String())
	case provision.ResultSkipped:
		return dimStyle.Render(rec.Result.Reason)
	default:
		if !rec.Step.Fatal() {
			return warnStyle.Render("warning: " + rec.Result.Reason)
		}
		return failStyle.Render(rec.Result.Reason)
	}
}
