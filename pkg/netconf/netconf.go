// Package netconf compiles the wired side of a site bring-up: semicolon
// separated sheets describing switch VLANs and router interfaces become
// ordered Cisco IOS command lists, which are written as artifacts and
// optionally applied over SSH.
//
// Compilation is deterministic template expansion; nothing here feeds back
// into device provisioning.
package netconf

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Sheet errors.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrBadRow        = errors.New("bad row")
)

// row is one sheet line keyed by header name.
type row struct {
	line   int
	fields map[string]string
}

func (r row) get(col string) string { return strings.TrimSpace(r.fields[col]) }

func (r row) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrBadRow, r.line, fmt.Sprintf(format, args...))
}

// readSheet parses a semicolon separated sheet whose first line is the
// header. Every column in required must be present.
func readSheet(r io.Reader, required []string) ([]row, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty sheet", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	for _, col := range required {
		if !slices.Contains(header, col) {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	var rows []row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sheet: %w", err)
		}
		line, _ := cr.FieldPos(0)
		fields := make(map[string]string, len(header))
		blank := true
		for i, v := range rec {
			if i < len(header) {
				fields[header[i]] = v
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row{line: line, fields: fields})
	}
	return rows, nil
}

// ExpandVLANs expands a VLAN list such as "10,20,400-403" into its IDs in
// order. An empty list yields nil.
func ExpandVLANs(list string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := vlanID(lo)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			if end, err = vlanID(hi); err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("VLAN range %q is reversed", part)
			}
		}
		for id := start; id <= end; id++ {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func vlanID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("VLAN %q is not a number", s)
	}
	if id < 1 || id > 4094 {
		return 0, fmt.Errorf("VLAN %d out of range 1-4094", id)
	}
	return id, nil
}

// WriteArtifact writes commands one per line to path, creating parent
// directories.
func WriteArtifact(path string, commands []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	var b strings.Builder
	for _, c := range commands {
		b.WriteString(c)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
