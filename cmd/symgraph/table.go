package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// renderTable prints left-aligned columns. Widths are measured in terminal
// cells so that wide identifiers keep the columns straight.
func renderTable(w io.Writer, header []string, rows [][]string, colored bool) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	head := color.New(color.Bold, color.Underline)
	if colored {
		head.EnableColor()
	} else {
		head.DisableColor()
	}
	writeRow(w, header, widths, head)
	for _, row := range rows {
		writeRow(w, row, widths, nil)
	}
}

func writeRow(w io.Writer, cells []string, widths []int, paint *color.Color) {
	var sb strings.Builder
	for i, cell := range cells {
		if i == len(cells)-1 {
			sb.WriteString(cell)
			break
		}
		sb.WriteString(runewidth.FillRight(cell, widths[i]))
		sb.WriteString("  ")
	}
	line := strings.TrimRight(sb.String(), " ")
	if paint != nil {
		line = paint.Sprint(line)
	}
	fmt.Fprintln(w, line)
}
