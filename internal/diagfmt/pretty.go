// Package diagfmt renders diagnostic bags for terminals and tools.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"symgraph/internal/diag"
	"symgraph/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строка манифеста с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s %s: %s\n",
			location(p, fs, d.Primary, opts),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		snippet(w, p, fs, d.Primary, opts.Context)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s %s\n", p.note.Sprint("note:"), location(p, fs, n.Span, opts), n.Msg)
		}
	}
}

func location(p palette, fs *source.FileSet, span source.Span, opts PrettyOpts) string {
	f := fs.Get(span.File)
	if f == nil {
		return p.path.Sprint("symgraph:")
	}
	start, _ := fs.Resolve(span)
	return p.path.Sprintf("%s:%d:%d:", formatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

func snippet(w io.Writer, p palette, fs *source.FileSet, span source.Span, context int) {
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, _ := fs.Resolve(span)
	lines := strings.Split(string(f.Content), "\n")
	line := int(start.Line)
	if line < 1 || line > len(lines) {
		return
	}
	first := max(1, line-max(0, context))
	gutterWidth := len(fmt.Sprint(line))

	for n := first; n <= line; n++ {
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, n), lines[n-1])
	}

	text := lines[line-1]
	col := min(int(start.Col)-1, len(text))
	length := min(int(span.End-span.Start), len(text)-col)
	// ширина в колонках терминала, не в байтах
	pad := runewidth.StringWidth(text[:col])
	width := max(1, runewidth.StringWidth(text[col:col+max(0, length)]))
	marks := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.caret.Sprint(marks))
}
