// Package csv implements a tolerant CSV parser for end-user-supplied files.
//
// Unlike encoding/csv, this parser never rejects malformed quoting: the
// quote state machine degrades gracefully so that files exported from
// spreadsheets, CRMs, and browser extensions of unknown origin still yield
// usable rows. The only error condition is a file with no data rows.
package csv

import (
	"errors"
	"strings"
)

// ErrEmptyInput is returned by Parse when the input contains no data rows
// after row splitting (a blank or header-only file).
var ErrEmptyInput = errors.New("csv: no data rows found")

// Table is the parsed form of one CSV upload. It is transient: constructed
// per import and discarded after column mapping.
type Table struct {
	// Headers preserves source column order. Duplicate header names are
	// allowed; the later occurrence overwrites the earlier one in each
	// row map.
	Headers []string

	// Rows maps header name to field value, in source row order.
	Rows []map[string]string
}

// Parse tokenizes raw CSV text into a header row and ordered row maps.
//
// The delimiter is auto-detected from the header row: comma if present,
// else tab, else comma. Quoted fields may contain the delimiter, escaped
// quotes ("") and embedded newlines. Rows shorter than the header are
// padded with empty strings; extra trailing fields are dropped.
func Parse(text string) (*Table, error) {
	lines := splitRows(text)
	if len(lines) < 2 {
		return nil, ErrEmptyInput
	}

	delim := detectDelimiter(lines[0])
	headers := parseLine(lines[0], delim)

	rows := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := parseLine(line, delim)
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(values) {
				row[h] = values[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

// splitRows scans the input once, splitting on newlines that fall outside
// quoted fields. Quote characters are kept verbatim so that parseLine can
// re-run the same state machine per row. Rows that are blank after trimming
// are skipped.
func splitRows(text string) []string {
	var rows []string
	var cur strings.Builder

	inQuotes := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				// Escaped quote: consume both, quote state unchanged.
				cur.WriteString(`""`)
				i++
			} else {
				inQuotes = !inQuotes
				cur.WriteByte(c)
			}
		case c == '\n' && !inQuotes:
			if strings.TrimSpace(cur.String()) != "" {
				rows = append(rows, cur.String())
			}
			cur.Reset()
		default:
			// A newline inside quotes lands here and is retained
			// literally; this is how embedded newlines survive.
			cur.WriteByte(c)
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		rows = append(rows, cur.String())
	}

	return rows
}

// detectDelimiter inspects the header row only. Every subsequent row is
// split with the same delimiter.
func detectDelimiter(header string) byte {
	if strings.ContainsRune(header, ',') {
		return ','
	}
	if strings.ContainsRune(header, '\t') {
		return '\t'
	}
	return ','
}

// parseLine splits one raw row into fields using the same quote state
// machine as splitRows, splitting on the delimiter when outside quotes.
// Toggling quotes are dropped and escaped quotes unescape to one literal
// quote character.
func parseLine(line string, delim byte) []string {
	var fields []string
	var cur strings.Builder

	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == delim && !inQuotes:
			fields = append(fields, cleanField(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cleanField(cur.String()))

	return fields
}

// cleanField trims surrounding whitespace and strips one surrounding quote
// pair if present. The strip is defensive cleanup for boundary quotes the
// state machine left in place on malformed input; it only fires on a
// matched pair so a lone trailing quote produced by "" unescaping survives.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
