// Package runlog keeps the append-only audit trail of dashboard runs:
// one CSV row per completed pipeline step, keyed by run ID.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Period    string // reporting period, 2006-01-02
	Step      string
	Details   string
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,period,step,details"

const (
	numFields    = 5
	logDir       = "logs"
	logFile      = "logs/run-log.csv"
	colTimestamp = 0
	colRunID     = 1
	colPeriod    = 2
	colStep      = 3
	colDetails   = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colPeriod] = e.Period
	row[colStep] = e.Step
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Period:    record[colPeriod],
		Step:      record[colStep],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <workDir>/logs/run-log.csv, creating the
// file and header if needed.
func Append(workDir string, entries []Entry) error {
	dir := filepath.Join(workDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(workDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <workDir>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(workDir string) ([]Entry, error) {
	path := filepath.Join(workDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
