package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lavish/internal/diag"
	"lavish/internal/source"
)

type palette struct {
	err, warn, info, note *color.Color
	code, path, gutter    *color.Color
	caret                 *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Faint),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с
// аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		sev := pal.severity(d.Severity).Sprint(d.Severity.String())
		code := pal.code.Sprint(d.Code.ID())
		if !d.Located() {
			fmt.Fprintf(w, "%s %s: %s\n", sev, code, d.Message)
			if opts.ShowNotes {
				for _, n := range d.Notes {
					fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
				}
			}
			continue
		}

		pos := fs.Position(d.Primary)
		loc := fmt.Sprintf("%s:%d:%d", formatPath(fs, d.Primary.File, opts.PathMode), pos.Line, pos.Col)
		fmt.Fprintf(w, "%s: %s %s: %s\n", pal.path.Sprint(loc), sev, code, d.Message)
		writeSnippet(w, fs, d.Primary, int(opts.Context), pal)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			npos := fs.Position(n.Span)
			nloc := fmt.Sprintf("%s:%d:%d", formatPath(fs, n.Span.File, opts.PathMode), npos.Line, npos.Col)
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), nloc, n.Msg)
			writeSnippet(w, fs, n.Span, 0, pal)
		}
	}
}

// writeSnippet prints the line of span with context lines around it and
// underlines the span. Multi-line spans are underlined up to the end of
// their first line.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, context int, pal palette) {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	lines := len(f.LineIdx) + 1

	first := int(start.Line) - context
	if first < 1 {
		first = 1
	}
	last := int(start.Line) + context
	if last > lines {
		last = lines
	}
	gutterWidth := len(fmt.Sprint(last))
	blank := strings.Repeat(" ", gutterWidth)

	for ln := first; ln <= last; ln++ {
		lineNum, err := safecast.Conv[uint32](ln)
		if err != nil {
			panic(fmt.Errorf("line number overflow: %w", err))
		}
		text := f.GetLine(lineNum)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), expandTabs(text))
		if ln != int(start.Line) {
			continue
		}
		lineText := expandTabs(text)
		prefix := expandTabs(prefixBytes(text, int(start.Col)-1))
		var marked string
		if end.Line == start.Line && end.Col > start.Col {
			marked = expandTabs(prefixBytes(text, int(end.Col)-1))
		} else {
			marked = lineText
		}
		col := runewidth.StringWidth(prefix)
		width := runewidth.StringWidth(marked) - col
		if width < 1 {
			width = 1
		}
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%s |", blank), strings.Repeat(" ", col), pal.caret.Sprint(underline))
	}
}

func prefixBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n > len(s) {
		return s
	}
	return s[:n]
}

// expandTabs keeps caret columns stable whatever the terminal tab width.
func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// Short prints one line per diagnostic:
// <path>:<line>:<col>: <severity> <CODE>: <message>.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		sev := strings.ToLower(d.Severity.String())
		if !d.Located() {
			fmt.Fprintf(w, "%s %s: %s\n", sev, d.Code.ID(), oneLine(d.Message))
			continue
		}
		pos := fs.Position(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(fs, d.Primary.File, mode), pos.Line, pos.Col, sev, d.Code.ID(), oneLine(d.Message))
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
