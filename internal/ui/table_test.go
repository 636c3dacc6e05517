package ui

import (
	"strings"
	"testing"
)

func TestTruncateTableCellCountsRunes(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "é"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellNormalizesLineBreaks(t *testing.T) {
	value := "Hello\nWorld\r\nAgain\tTab"

	got := TruncateTableCell(value)

	if got != "Hello World Again Tab" {
		t.Fatalf("expected line breaks to normalize, got %q", got)
	}
}

func TestTruncateTableCellIgnoresANSICodes(t *testing.T) {
	value := "\x1b[1m\x1b[36m" + strings.Repeat("a", tableCellMaxWidth) + "\x1b[0m"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellAddsEllipsis(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth+10)

	got := TruncateTableCell(value)

	if !strings.HasSuffix(got, tableCellEllipsis) {
		t.Fatalf("expected truncated cell to end with ellipsis, got %q", got)
	}
	if displayWidth(got) != tableCellMaxWidth {
		t.Fatalf("expected width %d, got %d", tableCellMaxWidth, displayWidth(got))
	}
}

func TestFormatTableNormalizesLineBreaks(t *testing.T) {
	headers := []string{"COL"}
	rows := [][]string{{"Hello\nWorld\r\nAgain\tTab"}}

	got := FormatTable(headers, rows)

	expected := "COL\nHello World Again Tab\n"
	if got != expected {
		t.Fatalf("expected normalized table output, got %q", got)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"ID", "STATUS"}
	rows := [][]string{
		{"1", "pending"},
		{"42", "completed"},
	}

	got := FormatTable(headers, rows)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[2], "42  ") {
		t.Errorf("expected padded id column, got %q", lines[2])
	}
}

func TestFormatTablePadsIgnoringANSICodes(t *testing.T) {
	headers := []string{"STATUS", "TITLE"}
	rows := [][]string{
		{"\x1b[32mdone\x1b[0m", "x"},
		{"pending", "y"},
	}

	got := FormatTable(headers, rows)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if width := displayWidth(lines[1]); width != displayWidth(lines[2]) {
		t.Fatalf("expected uniform visible width, got %d and %d", displayWidth(lines[1]), displayWidth(lines[2]))
	}
}

func TestTableBuilder(t *testing.T) {
	builder := NewTableBuilder([]string{"A"}, 2)
	builder.AddRow([]string{"1"})
	builder.AddRow([]string{"2"})

	got := builder.String()
	if got != "A\n1\n2\n" {
		t.Fatalf("expected simple table, got %q", got)
	}
}
