// Package csvparser turns uploaded CSV text into ordered row records keyed by
// the header line.
package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"dataset-registry-service/internal/domain/user"
)

// ErrInvalidUTF8 is returned by ParseBytes when the content is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

const utf8BOM = "\ufeff"

// ParseBytes decodes b as UTF-8 text and parses it with Parse.
func ParseBytes(b []byte) ([]user.Record, error) {
	if !utf8.Valid(b) {
		return nil, ErrInvalidUTF8
	}
	return Parse(strings.TrimPrefix(string(b), utf8BOM))
}

// Parse converts text into one record per data line. The first line names the
// fields; every following line is split on commas and paired positionally with
// those names. Values are trimmed. A row shorter than the header omits the
// trailing fields and extra values are dropped. Empty or header-only input
// yields an empty slice.
func Parse(text string) ([]user.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []user.Record{}, nil
	}

	lines := strings.Split(text, "\n")
	header, err := splitLine(lines[0])
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	records := make([]user.Record, 0, len(lines)-1)
	for i, line := range lines[1:] {
		values, err := splitLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		records = append(records, newRecord(header, values))
	}
	return records, nil
}

func newRecord(header, values []string) user.Record {
	n := min(len(header), len(values))
	rec := make(user.Record, 0, n)
	for i := 0; i < n; i++ {
		rec.Set(header[i], strings.TrimSpace(values[i]))
	}
	return rec
}

// splitLine splits a single line into fields. A blank line has no fields.
func splitLine(line string) ([]string, error) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	fields, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fields, nil
}
