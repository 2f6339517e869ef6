package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rewrite/internal/diag"
	"rewrite/internal/source"
)

type palette struct {
	sev   map[diag.Severity]*color.Color
	path  *color.Color
	caret *color.Color
	gut   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan),
		},
		path:  mk(color.Bold),
		caret: mk(color.FgRed, color.Bold),
		gut:   mk(color.FgBlue),
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := pal.sev[d.Severity]
		if sev == nil {
			sev = pal.sev[diag.SevInfo]
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.path.Sprint(location(fs, d.Primary, opts.PathMode, opts.BaseDir)),
			sev.Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message)
		excerpt(w, fs, d.Primary, opts.Context, pal)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s: %s\n", location(fs, n.Span, opts.PathMode, opts.BaseDir), n.Msg)
			excerpt(w, fs, n.Span, 0, pal)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode, base string) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, mode, base), start.Line, start.Col)
}

// excerpt prints the line holding the start of sp with a caret run under
// the covered text. Columns count display cells, so wide runes and tabs
// line up.
func excerpt(w io.Writer, fs *source.FileSet, sp source.Span, context int8, pal palette) {
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	first := uint32(1)
	if ctx := uint32(max(context, 0)); start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + uint32(max(context, 0))
	width := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		if ln > uint32(len(f.LineIdx))+1 { //nolint:gosec // bounded by file size
			break
		}
		text := strings.TrimRight(f.GetLine(ln), "\r")
		fmt.Fprintf(w, "%s %s\n", pal.gut.Sprintf("%*d |", width, ln), expandTabs(text))
		if ln != start.Line {
			continue
		}
		lead := displayWidth(text, start.Col-1)
		stop := len(text)
		if end.Line == start.Line {
			stop = min(int(end.Col-1), len(text))
		}
		span := max(displayWidth(text, uint32(max(stop, 0)))-lead, 1)
		marks := "^" + strings.Repeat("~", span-1)
		fmt.Fprintf(w, "%s %s%s\n", pal.gut.Sprintf("%*s |", width, ""), strings.Repeat(" ", lead), pal.caret.Sprint(marks))
	}
}

const tabWidth = 4

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// displayWidth returns the cell width of the first n bytes of line.
func displayWidth(line string, n uint32) int {
	if int(n) > len(line) {
		n = uint32(len(line)) //nolint:gosec // line is one source line
	}
	w := 0
	for _, r := range line[:n] {
		if r == '\t' {
			w += tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}
