package display

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Align is a column alignment for RenderTable.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

func (a Align) text() text.Align {
	if a == AlignRight {
		return text.AlignRight
	}
	return text.AlignLeft
}

// RenderTable renders rows under headers in a rounded box. Headers keep
// their case. Rows longer than headers are cut, shorter ones padded; columns
// without an entry in aligns are left-aligned.
func RenderTable(headers []string, rows [][]string, aligns []Align) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	tw.AppendHeader(toRow(headers, len(headers)))
	for _, r := range rows {
		tw.AppendRow(toRow(r, len(headers)))
	}

	var configs []table.ColumnConfig
	for i, a := range aligns {
		if i >= len(headers) {
			break
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: a.text()})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// toRow converts cells to a table.Row of exactly width cells.
func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}
