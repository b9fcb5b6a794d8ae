// Package schedule reads the user-authored CSV cut schedule into typed rows.
package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Row is one record of the cut schedule.
type Row struct {
	Number      int     // 1-based data row number; the header is row 1, data starts at 2
	File        string  // File cell as authored
	Source      string  // File resolved against the schedule's directory
	Inpoint     float64 // start offset within Source, in seconds
	Name        string  // target display title
	Description string  // optional
	Skip        bool    // true if the Skip cell contains any text
}

// ParseError reports a malformed schedule row. It is fatal to that row only;
// the remaining rows are still read.
type ParseError struct {
	Row    int
	Column string
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row %d: column %s: cannot parse %q: %v", e.Row, e.Column, e.Text, e.Err)
	}
	return fmt.Sprintf("row %d: column %s is missing", e.Row, e.Column)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Result holds the readable rows and the per-row errors encountered.
type Result struct {
	Rows   []Row
	Errors []error
}

// Required and recognized optional columns. Unrecognized columns are ignored.
const (
	colFile        = "File"
	colInpoint     = "Inpoint"
	colName        = "Name"
	colDescription = "Description"
	colSkip        = "Skip"
)

// Read parses the UTF-8, comma-delimited schedule at path. File-level
// problems (unreadable file, missing header, missing required columns) fail
// the whole read; malformed rows are collected in Result.Errors and do not
// stop the remaining rows from being read.
func Read(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schedule: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return parse(f, filepath.Dir(path))
}

func parse(r io.Reader, baseDir string) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("schedule is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colFile, colInpoint, colName} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("schedule header is missing the %s column", required)
		}
	}

	cell := func(record []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	result := &Result{}
	for number := 2; ; number++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, &ParseError{Row: number, Column: "-", Text: "", Err: err})
			continue
		}

		row := Row{
			Number:      number,
			File:        cell(record, colFile),
			Name:        cell(record, colName),
			Description: cell(record, colDescription),
			Skip:        cell(record, colSkip) != "",
		}

		if row.File == "" {
			result.Errors = append(result.Errors, &ParseError{Row: number, Column: colFile})
			continue
		}
		if row.Name == "" {
			result.Errors = append(result.Errors, &ParseError{Row: number, Column: colName})
			continue
		}

		rawInpoint := cell(record, colInpoint)
		if rawInpoint == "" {
			result.Errors = append(result.Errors, &ParseError{Row: number, Column: colInpoint})
			continue
		}
		inpoint, err := ParseTimecode(rawInpoint)
		if err != nil {
			result.Errors = append(result.Errors, &ParseError{Row: number, Column: colInpoint, Text: rawInpoint, Err: err})
			continue
		}
		row.Inpoint = inpoint

		// Paths resolve relative to the schedule file, not the working directory.
		if filepath.IsAbs(row.File) {
			row.Source = row.File
		} else {
			row.Source = filepath.Join(baseDir, row.File)
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}
