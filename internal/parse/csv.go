package parse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one CSV record keyed by header name.
type Row map[string]string

// Get returns the first non-empty value among keys, so callers can accept
// alternative spellings of a column (tid, Tid, TID).
func (r Row) Get(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}

// CSVOptions tunes header handling.
type CSVOptions struct {
	// TrimHeaders strips surrounding whitespace from header names.
	TrimHeaders bool
}

// ReadCSV streams a CSV with a header row, calling fn for every record with
// its 1-based line number (the header is line 1). Short rows are padded with
// empty values. fn returning an error stops the read and returns that error.
func ReadCSV(r io.Reader, opts CSVOptions, fn func(line int, row Row) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if opts.TrimHeaders {
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("read csv line %d: %w", line, err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		if err := fn(line, row); err != nil {
			return err
		}
	}
}
