package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// ColumnDef defines a column in a FindingsTable.
type ColumnDef struct {
	Name       string         // Column name (used for debugging, not displayed in minimal style)
	WidthRatio float64        // Proportion of available width (0.0-1.0), 0 means fixed width
	MinWidth   int            // Minimum width in characters
	MaxWidth   int            // Maximum width (0 = no limit)
	Align      Alignment      // Text alignment
	Style      lipgloss.Style // Style to apply to cells in this column
}

// FindingsTable renders one findings section as a terminal table.
type FindingsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    [][]string
}

// Standard column definitions shared across findings sections.
var (
	// ColSource is the document containing the broken reference.
	ColSource = ColumnDef{
		Name:       "source",
		WidthRatio: 0.45,
		MinWidth:   18,
		MaxWidth:   60,
		Align:      AlignLeft,
		Style:      Muted,
	}

	// ColTarget is the reference target that failed to resolve.
	ColTarget = ColumnDef{
		Name:       "target",
		WidthRatio: 0.55,
		MinWidth:   24,
		MaxWidth:   100,
		Align:      AlignLeft,
	}

	// ColAnchor is the heading or block anchor that was not found.
	ColAnchor = ColumnDef{
		Name:       "anchor",
		WidthRatio: 0.25,
		MinWidth:   12,
		MaxWidth:   40,
		Align:      AlignLeft,
	}
)

// Standard layouts for each findings section.
var (
	// RefLayout is used for missing refs and missing map images: [source, target]
	RefLayout = []ColumnDef{ColSource, ColTarget}

	// AnchorLayout is used for missing anchors: [source, anchor, target]
	AnchorLayout = []ColumnDef{ColSource, ColAnchor, ColTarget}
)

// NewFindingsTable creates a new FindingsTable with the given display context and column layout.
func NewFindingsTable(display *DisplayContext, columns []ColumnDef) *FindingsTable {
	return &FindingsTable{
		display: display,
		columns: columns,
		rows:    make([][]string, 0),
	}
}

// AddRow adds a row to the table. Missing trailing cells render empty.
func (t *FindingsTable) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	for i := 0; i < len(t.columns) && i < len(cells); i++ {
		row[i] = cells[i]
	}
	t.rows = append(t.rows, row)
}

// ColumnWidth returns the calculated width for a column by index.
// This allows callers to truncate cell content to the actual available width.
func (t *FindingsTable) ColumnWidth(index int) int {
	widths := t.calculateWidths()
	if index >= 0 && index < len(widths) {
		return widths[index]
	}
	return 60 // fallback
}

// calculateWidths computes column widths based on terminal size and column definitions.
func (t *FindingsTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	// First pass: calculate fixed widths and total ratio
	var totalRatio float64
	var fixedWidth int
	const columnPadding = 2 // padding between columns

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			// Fixed-width column: use MinWidth capped at MaxWidth
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	// Calculate available space for flexible columns
	totalPadding := (len(t.columns) - 1) * columnPadding
	leftMargin := 2 // indent for aesthetic
	available := t.display.TermWidth - fixedWidth - totalPadding - leftMargin

	if available < 0 {
		available = 0
	}

	// Second pass: distribute available space by ratio
	for i, col := range t.columns {
		if col.WidthRatio > 0 {
			ratio := col.WidthRatio / totalRatio
			width := int(float64(available) * ratio)

			if width < col.MinWidth {
				width = col.MinWidth
			}
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}

			widths[i] = width
		}
	}

	return widths
}

// Render generates the table output as a string.
func (t *FindingsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()

	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Left:   "",
			Right:  "",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			colDef := t.columns[col]
			style := colDef.Style
			if style.Value() == "" {
				style = lipgloss.NewStyle()
			}

			style = style.Width(widths[col])

			switch colDef.Align {
			case AlignRight:
				style = style.Align(lipgloss.Right)
			case AlignCenter:
				style = style.Align(lipgloss.Center)
			default:
				style = style.Align(lipgloss.Left)
			}

			// Right padding between columns, none after the last
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}

			return style
		}).
		Rows(t.rows...)

	return tbl.Render()
}

// TruncateWithEllipsis truncates a string to maxLen, adding ellipsis if needed.
// It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}

	truncated := s[:maxLen-3]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
