package display

import (
	"strings"
)

// Align is a column's horizontal alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// indent prefixes every rendered line.
const indent = "  "

// Table renders an aligned text table. Cells may carry ANSI styling; widths
// are measured on the visible text.
type Table struct {
	headers []string
	aligns  []Align
	rows    [][]string
	// highlightRow is the 0-based row index to highlight (typically "today"). -1 = none.
	highlightRow int
}

// NewTable creates a new table with the given column headers. Every column
// starts left-aligned.
func NewTable(headers []string) *Table {
	return &Table{
		headers:      headers,
		aligns:       make([]Align, len(headers)),
		highlightRow: -1,
	}
}

// AddRow appends a row of values. Missing trailing cells render empty and
// surplus cells are dropped.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// SetHighlightRow sets which row index (0-based) should be highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlightRow = idx
}

// SetAlign sets the alignment of column col. Out-of-range columns are ignored.
func (t *Table) SetAlign(col int, a Align) {
	if col >= 0 && col < len(t.aligns) {
		t.aligns[col] = a
	}
}

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], Width(cell))
			}
		}
	}

	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(indent + s + "\n")
	}

	line(Bold(formatRow(t.headers, widths, t.aligns)))

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	line(Dim(strings.Join(sep, "  ")))

	for i, row := range t.rows {
		text := formatRow(row, widths, t.aligns)
		if i == t.highlightRow {
			text = Accent(Strip(text))
		}
		line(text)
	}

	return sb.String()
}

// formatRow pads each cell to its column width and joins them with two spaces.
func formatRow(cells []string, widths []int, aligns []Align) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		gap := strings.Repeat(" ", max(0, w-Width(cell)))
		if i < len(aligns) && aligns[i] == AlignRight {
			parts[i] = gap + cell
		} else {
			parts[i] = cell + gap
		}
	}
	return strings.Join(parts, "  ")
}
