// Package ui renders tables, durations, and colored status text for the CLI.
package ui

import (
	"strings"
	"unicode/utf8"

	internalstrings "github.com/grouptodo/gtd/internal/strings"
)

const (
	tableCellMaxWidth = 50
	tableGutter       = "  "
	tableCellEllipsis = "..."
)

// TableBuilder collects rows and renders them as an aligned table. Column
// widths are computed on visible characters, so colored cells line up.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return FormatTable(builder.headers, builder.rows)
}

// FormatTable renders headers and rows as an aligned table.
func FormatTable(headers []string, rows [][]string) string {
	headers = sanitizeRow(headers)
	sanitized := make([][]string, 0, len(rows))
	for _, row := range rows {
		sanitized = append(sanitized, sanitizeRow(row))
	}

	widths := columnWidths(headers, sanitized)

	var out strings.Builder
	writeTableRow(&out, headers, widths)
	for _, row := range sanitized {
		writeTableRow(&out, row, widths)
	}
	return out.String()
}

func sanitizeRow(row []string) []string {
	sanitized := make([]string, len(row))
	for i, cell := range row {
		sanitized[i] = internalstrings.NormalizeWhitespace(cell)
	}
	return sanitized
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if width := displayWidth(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}
	return widths
}

func writeTableRow(out *strings.Builder, row []string, widths []int) {
	for i, cell := range row {
		out.WriteString(cell)
		if i == len(row)-1 {
			break
		}
		out.WriteString(strings.Repeat(" ", widths[i]-displayWidth(cell)))
		out.WriteString(tableGutter)
	}
	out.WriteByte('\n')
}

// TruncateTableCell limits cell width while preserving visible characters.
func TruncateTableCell(value string) string {
	value = internalstrings.NormalizeWhitespace(value)
	if displayWidth(value) <= tableCellMaxWidth {
		return value
	}

	max := tableCellMaxWidth - len(tableCellEllipsis)
	return truncateVisible(value, max) + tableCellEllipsis
}

// displayWidth counts the characters a terminal will actually show.
func displayWidth(value string) int {
	return utf8.RuneCountInString(stripANSICodes(value))
}

// truncateVisible keeps the first max visible characters. Escape sequences
// pass through without counting so an open color code is not cut in half.
func truncateVisible(value string, max int) string {
	var out strings.Builder
	visible := 0
	inEscape := false
	for i := 0; i < len(value); {
		if inEscape {
			out.WriteByte(value[i])
			if value[i] == 'm' {
				inEscape = false
			}
			i++
			continue
		}
		if value[i] == '\x1b' {
			out.WriteByte(value[i])
			inEscape = true
			i++
			continue
		}
		if visible >= max {
			break
		}
		r, size := utf8.DecodeRuneInString(value[i:])
		out.WriteRune(r)
		visible++
		i += size
	}
	return out.String()
}

func stripANSICodes(value string) string {
	var out strings.Builder
	inEscape := false
	for i := 0; i < len(value); i++ {
		switch {
		case inEscape:
			if value[i] == 'm' {
				inEscape = false
			}
		case value[i] == '\x1b':
			inEscape = true
		default:
			out.WriteByte(value[i])
		}
	}
	return out.String()
}
