package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gomathml/pkg/symbol"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 4 // NAME, ELEMENT, CONTENT, NOTES
	minNameWidth     = 12
	minElementWidth  = 7
	minContentWidth  = 12
	minNotesWidth    = 5
	heavySeparator   = "="
	defaultTermWidth = 100
)

// SymbolRow is one row of the symbol listing.
type SymbolRow struct {
	Name    string
	Kind    symbol.Kind
	Content string
	Notes   string
}

// SymbolRowFromEntry describes a symbol table entry.
func SymbolRowFromEntry(entry symbol.Entry) SymbolRow {
	row := SymbolRow{Name: `\` + entry.Name, Kind: entry.Kind}

	switch entry.Payload.Kind {
	case symbol.PayloadEntity:
		row.Content = "&" + entry.Payload.Text + ";"
	case symbol.PayloadCodepoint:
		row.Content = fmt.Sprintf("U+%04X", entry.Payload.Code)
	default:
		row.Content = fmt.Sprintf("%q", entry.Payload.Text)
	}

	var notes []string
	if entry.Display {
		notes = append(notes, "display")
	}
	if entry.Upright {
		notes = append(notes, "upright")
	}
	row.Notes = strings.Join(notes, ",")
	return row
}

// TableFormatter formats symbol rows as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

type columnWidths struct {
	name    int
	element int
	content int
	notes   int
}

func (w columnWidths) total() int {
	return w.name + w.element + w.content + w.notes + tablePadding*tableColumnCount
}

// FormatSymbols formats rows as a table with a header and footer.
func (t *TableFormatter) FormatSymbols(rows []SymbolRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder
	builder.WriteString(t.styles.TableHeader.Render(fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s",
		widths.name, "NAME",
		widths.element, "ELEMENT",
		widths.content, "CONTENT",
		widths.notes, "NOTES",
	)))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")
	builder.WriteString(t.styles.Dim.Render(fmt.Sprintf(" %d symbols", len(rows))))
	builder.WriteString("\n")

	return builder.String()
}

// calculateColumnWidths determines column widths based on content.
func (t *TableFormatter) calculateColumnWidths(rows []SymbolRow) columnWidths {
	widths := columnWidths{
		name:    minNameWidth,
		element: minElementWidth,
		content: minContentWidth,
		notes:   minNotesWidth,
	}

	for _, row := range rows {
		widths.name = max(widths.name, len(row.Name))
		widths.content = max(widths.content, len(row.Content))
		widths.notes = max(widths.notes, len(row.Notes))
	}

	// Constrain to terminal width, shrinking the name column first.
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.name = max(minNameWidth, widths.name-excess)
	}
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.content = max(minContentWidth, widths.content-excess)
	}

	return widths
}

func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, widths.total()))
}

func (t *TableFormatter) formatRow(row SymbolRow, widths columnWidths) string {
	// Pad before styling so that ANSI sequences do not count as width.
	element := fmt.Sprintf("%-*s", widths.element, row.Kind.String())

	return fmt.Sprintf(" %-*s  %s  %-*s  %-*s",
		widths.name, truncateString(row.Name, widths.name),
		t.kindStyle(row.Kind).Render(element),
		widths.content, truncateString(row.Content, widths.content),
		widths.notes, row.Notes,
	)
}

func (t *TableFormatter) kindStyle(kind symbol.Kind) lipgloss.Style {
	switch kind {
	case symbol.KindIdentifier:
		return t.styles.Identifier
	case symbol.KindOperator:
		return t.styles.Operator
	case symbol.KindNumber:
		return t.styles.Number
	default:
		return t.styles.Dim
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}
