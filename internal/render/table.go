package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	cellMaxWidth = 48
	ellipsis     = "..."
)

// Table collects rows and renders them as aligned columns.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable returns a table with preallocated rows.
func NewTable(headers []string, capacity int) *Table {
	return &Table{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row. Cells may contain styled text.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = flatten(c)
	}
	t.rows = append(t.rows, row)
}

// Len is the number of rows added.
func (t *Table) Len() int { return len(t.rows) }

// String renders the table.
func (t *Table) String() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	write := func(row []string, style func(string) string) {
		for i, cell := range row {
			if style != nil {
				cell = style(cell)
			}
			b.WriteString(cell)
			if i == len(row)-1 {
				break
			}
			pad := 2
			if i < len(widths) {
				pad += widths[i] - lipgloss.Width(cell)
			}
			b.WriteString(strings.Repeat(" ", max(pad, 1)))
		}
		b.WriteByte('\n')
	}
	write(t.headers, Header)
	for _, row := range t.rows {
		write(row, nil)
	}
	return b.String()
}

// Truncate shortens plain text to fit a table cell.
func Truncate(s string) string {
	s = flatten(s)
	r := []rune(s)
	if len(r) <= cellMaxWidth {
		return s
	}
	return string(r[:cellMaxWidth-len(ellipsis)]) + ellipsis
}

func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}
