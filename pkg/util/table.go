package util

import (
	"fmt"
	"strings"
)

// TablePrinter is useful for rendering column-aligned tables, either to the
// terminal or into error messages.
type TablePrinter struct {
	widths []uint
	rows   [][]string
	// Prefix written at the start of every line.
	indent string
}

// NewTablePrinter constructs a new table with given dimensions.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	widths := make([]uint, width)
	rows := make([][]string, height)
	// Construct the table
	for i := uint(0); i < height; i++ {
		rows[i] = make([]string, width)
	}

	return &TablePrinter{widths, rows, ""}
}

// SetIndent sets a prefix written at the start of every rendered line.
func (p *TablePrinter) SetIndent(indent string) {
	p.indent = indent
}

// Set the contents of a given cell in this table
func (p *TablePrinter) Set(col uint, row uint, val string) {
	p.widths[col] = max(p.widths[col], uint(len(val)))
	p.rows[row][col] = val
}

// SetRow sets the contents of an entire row in this table
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = max(p.widths[i], uint(len(vals[i])))
	}
	// Done
	p.rows[row] = vals
}

// SetMaxWidth puts an upper bound on the width of any column.
func (p *TablePrinter) SetMaxWidth(m uint) {
	for i := 0; i < len(p.widths); i++ {
		p.widths[i] = min(p.widths[i], m)
	}
}

// Render the table into a string, one line per row.  Cells are left aligned
// and padded to the column width; overlong cells are truncated.
func (p *TablePrinter) Render() string {
	var builder strings.Builder
	//
	for i := 0; i < len(p.rows); i++ {
		row := p.rows[i]
		builder.WriteString(p.indent)

		for j, col := range row {
			jth := col
			jthWidth := p.widths[j]

			if uint(len(col)) > jthWidth {
				jth = col[0:jthWidth]
			}
			// Last column needs no padding
			if j+1 == len(row) {
				builder.WriteString(jth)
			} else {
				builder.WriteString(fmt.Sprintf("%-*s ", jthWidth, jth))
			}
		}

		if i+1 != len(p.rows) {
			builder.WriteString("\n")
		}
	}
	//
	return builder.String()
}

// Print the table to stdout.
func (p *TablePrinter) Print() {
	fmt.Println(p.Render())
}
