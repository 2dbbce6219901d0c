package ui

import (
	"strings"
	"unicode/utf8"
)

// Table provides minimal aligned-column rendering without borders.
// Widths are tracked in runes so non-ASCII vault paths line up.
type Table struct {
	rows       [][]string
	colWidths  []int
	colPadding int
}

// NewTable creates a new table with the specified number of columns
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if w := utf8.RuneCountInString(cells[i]); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// SetPadding sets the padding between columns
func (t *Table) SetPadding(padding int) {
	t.colPadding = padding
}

// String renders the table as a string
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	padding := strings.Repeat(" ", t.colPadding)

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(padding)
			}
			sb.WriteString(cell)
			// Pad to column width except for the last column
			if i < len(row)-1 {
				sb.WriteString(strings.Repeat(" ", t.colWidths[i]-utf8.RuneCountInString(cell)))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// List provides a simple indented list renderer
type List struct {
	items  []string
	indent string
	bullet string
}

// NewList creates a new list with default settings
func NewList() *List {
	return &List{
		indent: "  ",
		bullet: "•",
	}
}

// SetIndent sets the indentation string
func (l *List) SetIndent(indent string) {
	l.indent = indent
}

// SetBullet sets the bullet character
func (l *List) SetBullet(bullet string) {
	l.bullet = bullet
}

// Add adds an item to the list
func (l *List) Add(item string) {
	l.items = append(l.items, item)
}

// String renders the list as a string
func (l *List) String() string {
	var sb strings.Builder
	for _, item := range l.items {
		sb.WriteString(l.indent)
		sb.WriteString(l.bullet)
		sb.WriteString(" ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return sb.String()
}
