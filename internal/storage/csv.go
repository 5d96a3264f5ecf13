// Package storage handles the flat-file side of the service: uploaded and
// result CSVs, their directories, and tabular read/write with sanitization.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Table is an ordered CSV table. Rows index cell values by header name;
// Headers preserves the original column order for writing.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// ReadTable reads a CSV file into a Table. Short rows are padded with empty
// cells and long rows truncated, the equivalent of sanitizing missing values
// on load. A file without a header line is an error.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV parsing error: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("the CSV file is empty")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// WriteTable writes the table as CSV. An empty Rows slice still produces a
// file carrying the headers.
func WriteTable(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, h := range t.Headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// HasColumn reports whether the table carries the named header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Records returns up to limit rows as plain maps, for JSON previews.
// A non-positive limit returns all rows.
func (t *Table) Records(limit int) []map[string]string {
	n := len(t.Rows)
	if limit > 0 && limit < n {
		n = limit
	}
	records := make([]map[string]string, 0, n)
	for _, row := range t.Rows[:n] {
		clone := make(map[string]string, len(row))
		for k, v := range row {
			clone[k] = v
		}
		records = append(records, clone)
	}
	return records
}

// CheckIssues validates an uploaded CSV the way the processing pipeline will
// read it. It returns a descriptive error suitable for an API response, or
// nil when the file is usable.
func CheckIssues(path, urlColumn string) error {
	table, err := ReadTable(path)
	if err != nil {
		return err
	}

	if len(table.Rows) == 0 {
		return errors.New("the CSV file contains no data rows")
	}

	if !table.HasColumn(urlColumn) {
		return fmt.Errorf("CSV file does not contain a %q column with LinkedIn profile URLs", urlColumn)
	}

	valid := 0
	for _, row := range table.Rows {
		if strings.HasPrefix(row[urlColumn], "http") {
			valid++
		}
	}
	if valid == 0 {
		return fmt.Errorf("no valid LinkedIn URLs found in the %q column; URLs should start with \"http\"", urlColumn)
	}

	return nil
}
