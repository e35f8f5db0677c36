package model

import (
	"fmt"
	"strings"
)

// Row maps a header name to the cell value as fetched.
type Row map[string]string

// Table is a rectangular result: headers from the first fetched row and one
// Row per remaining row. Every Row carries exactly the header column set.
type Table struct {
	Headers []string `json:"headers" yaml:"headers"`
	Rows    []Row    `json:"rows" yaml:"rows"`
}

// EmptyTable returns a valid table with no headers and no rows.
func EmptyTable() Table {
	return Table{Headers: []string{}, Rows: []Row{}}
}

// NewTable converts the raw values of a spreadsheet response. The first row
// becomes the header; a repeated header gets a _2, _3, ... suffix so every
// column keeps its own values. Data rows shorter than the header are padded
// with "" and cells beyond the header width are dropped.
func NewTable(values [][]any) Table {
	if len(values) == 0 {
		return EmptyTable()
	}

	headers := make([]string, len(values[0]))
	for i, cell := range values[0] {
		headers[i] = strings.TrimSpace(cellString(cell))
	}
	headers = uniqueHeaders(headers)

	rows := make([]Row, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(raw) {
				row[h] = cellString(raw[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return Table{Headers: headers, Rows: rows}
}

// NewTableFromStrings is NewTable for already stringified values.
func NewTableFromStrings(values [][]string) Table {
	raw := make([][]any, len(values))
	for i, r := range values {
		raw[i] = make([]any, len(r))
		for j, c := range r {
			raw[i][j] = c
		}
	}
	return NewTable(raw)
}

func uniqueHeaders(headers []string) []string {
	taken := make(map[string]bool, len(headers))
	for _, h := range headers {
		taken[h] = true
	}

	seen := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		seen[h]++
		if seen[h] == 1 {
			out[i] = h
			continue
		}
		n := seen[h]
		name := fmt.Sprintf("%s_%d", h, n)
		for taken[name] {
			n++
			name = fmt.Sprintf("%s_%d", h, n)
		}
		seen[h] = n
		taken[name] = true
		out[i] = name
	}
	return out
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// HasColumns reports whether every name is a header.
func (t Table) HasColumns(names ...string) bool {
	return len(t.MissingColumns(names...)) == 0
}

// MissingColumns returns the names that are not headers, in argument order.
func (t Table) MissingColumns(names ...string) []string {
	present := make(map[string]struct{}, len(t.Headers))
	for _, h := range t.Headers {
		present[h] = struct{}{}
	}

	var missing []string
	for _, n := range names {
		if _, ok := present[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

// Column returns every value of the named column in row order.
func (t Table) Column(name string) []string {
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r[name])
	}
	return out
}

// Records returns the data rows as header-ordered slices.
func (t Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			rec[i] = r[h]
		}
		out = append(out, rec)
	}
	return out
}
