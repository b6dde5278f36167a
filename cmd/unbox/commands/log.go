package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mash-protocol/unbox-go/pkg/log"
)

// Log returns the log command group.
func Log() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Inspect provisioning trace files",
	}
	cmd.AddCommand(logView())
	cmd.AddCommand(logStats())
	cmd.AddCommand(logExport())
	return cmd
}

// viewFlags select events for log view and log export.
type viewFlags struct {
	run       string
	session   string
	candidate string
	category  string
	step      string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.run, "run", "", "Filter by run ID")
	cmd.Flags().StringVar(&f.session, "session", "", "Filter by session ID")
	cmd.Flags().StringVar(&f.candidate, "candidate", "", "Filter by access point name")
	cmd.Flags().StringVar(&f.category, "category", "", "Filter by category (run, candidate, step, readiness, session)")
	cmd.Flags().StringVar(&f.step, "step", "", "Filter by step name")
}

func (f viewFlags) filter() (log.Filter, error) {
	filter := log.Filter{
		RunID:     f.run,
		SessionID: f.session,
		Candidate: f.candidate,
		Step:      f.step,
	}
	if f.category != "" {
		c, err := log.ParseCategory(f.category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}
	return filter, nil
}

func logView() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "view <file.ulog>",
		Short: "View a trace file in human-readable format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			return RunView(args[0], filter, cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	return cmd
}

func logStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file.ulog>",
		Short: "Show statistics about a trace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunStats(args[0], cmd.OutOrStdout())
		},
	}
}

func logExport() *cobra.Command {
	var flags viewFlags
	var format, output string
	cmd := &cobra.Command{
		Use:   "export <file.ulog>",
		Short: "Export a trace file to JSONL or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return RunExport(args[0], filter, format, w)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Output format (jsonl, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	label := event.Result
	if event.Step != "" {
		label = event.Step + " " + event.Result
	}
	fmt.Fprintf(w, "%s [sess:%s] %-9s %s\n", ts, shortID(event.SessionID), event.Category, label)

	if event.Candidate != "" {
		fmt.Fprintf(w, "  Candidate: %s\n", event.Candidate)
	}
	if event.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", event.Reason)
	}
	if event.Status != 0 {
		fmt.Fprintf(w, "  Status: %d\n", event.Status)
	}
	if event.Endpoint != "" {
		fmt.Fprintf(w, "  Endpoint: %s\n", event.Endpoint)
	}
	if event.Duration != 0 {
		fmt.Fprintf(w, "  Duration: %s\n", event.Duration.Round(time.Millisecond))
	}
	fmt.Fprintln(w)
}

// shortID returns the first 8 characters of an identifier, or "-".
func shortID(id string) string {
	switch {
	case id == "":
		return "-"
	case len(id) > 8:
		return id[:8]
	default:
		return id
	}
}

// RunView prints the events of a trace file that match filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
}

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Sessions         map[string]*SessionStats
	StepFailures     map[string]int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats summarises one provisioning session.
type SessionStats struct {
	Candidate  string
	FirstSeen  time.Time
	LastSeen   time.Time
	Steps      int
	Result     string
	FailedStep string
	Reason     string
}

// RunStats analyzes a trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Sessions:         make(map[string]*SessionStats),
		StepFailures:     make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	if event.Category == log.CategoryStep && event.Result == "FAILED" {
		s.StepFailures[event.Step]++
	}

	if event.SessionID == "" {
		return
	}
	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Sessions[event.SessionID] = sess
	}
	if sess.Candidate == "" {
		sess.Candidate = event.Candidate
	}
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}
	switch event.Category {
	case log.CategoryStep:
		sess.Steps++
	case log.CategorySession:
		sess.Result = event.Result
		sess.FailedStep = event.Step
		sess.Reason = event.Reason
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Provisioning Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryRun, log.CategoryCandidate, log.CategoryStep, log.CategoryReadiness, log.CategorySession} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.StepFailures) > 0 {
		fmt.Fprintln(w, "Step Failures:")
		steps := make([]string, 0, len(stats.StepFailures))
		for s := range stats.StepFailures {
			steps = append(steps, s)
		}
		sort.Strings(steps)
		for _, s := range steps {
			fmt.Fprintf(w, "  %-22s %d\n", s+":", stats.StepFailures[s])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) == 0 {
		return
	}

	type sessInfo struct {
		id    string
		stats *SessionStats
	}
	sessions := make([]sessInfo, 0, len(stats.Sessions))
	for id, ss := range stats.Sessions {
		sessions = append(sessions, sessInfo{id, ss})
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
	})

	fmt.Fprintln(w)
	for _, s := range sessions {
		duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
		result := s.stats.Result
		if result == "" {
			result = "INCOMPLETE"
		}
		fmt.Fprintf(w, "  [%s] %s %s, %d steps, duration %s\n", shortID(s.id), s.stats.Candidate, result, s.stats.Steps, duration)
		if s.stats.FailedStep != "" {
			fmt.Fprintf(w, "           Failed at: %s (%s)\n", s.stats.FailedStep, s.stats.Reason)
		}
	}
}

// RunExport writes the matching events of a trace file as JSONL or CSV.
func RunExport(path string, filter log.Filter, format string, w io.Writer) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	if format == "jsonl" {
		return exportJSONL(reader, w)
	}
	return exportCSV(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "run_id", "session_id", "candidate", "category", "step", "result", "reason", "status", "endpoint", "duration_ms"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		status := ""
		if event.Status != 0 {
			status = strconv.Itoa(event.Status)
		}
		row := []string{
			event.Timestamp.UTC().Format(time.RFC3339Nano),
			event.RunID,
			event.SessionID,
			event.Candidate,
			event.Category.String(),
			event.Step,
			event.Result,
			event.Reason,
			status,
			event.Endpoint,
			strconv.FormatInt(event.Duration.Milliseconds(), 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
