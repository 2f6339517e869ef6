// Package diff renders rewrite results as unified diffs.
package diff

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Options controls rendering.
type Options struct {
	Context int
	Color   bool
}

// Unified returns the unified diff between before and after, labelled
// with path. Identical inputs give an empty string.
func Unified(path, before, after string, opts Options) (string, error) {
	if before == after {
		return "", nil
	}
	ctx := opts.Context
	if ctx <= 0 {
		ctx = 3
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  ctx,
	})
	if err != nil {
		return "", err
	}
	if !opts.Color {
		return text, nil
	}
	return colorize(text), nil
}

// splitLines keeps line terminators so CRLF survives in the hunks.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	} else if n > 0 {
		// последняя строка без \n
		lines[n-1] += "\n\\ No newline at end of file\n"
	}
	return lines
}

var (
	addColor  = color.New(color.FgGreen)
	delColor  = color.New(color.FgRed)
	hunkColor = color.New(color.FgCyan)
	headColor = color.New(color.Bold)
)

func colorize(text string) string {
	for _, c := range []*color.Color{addColor, delColor, hunkColor, headColor} {
		c.EnableColor()
	}
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		body, nl := strings.CutSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			b.WriteString(headColor.Sprint(body))
		case strings.HasPrefix(body, "@@"):
			b.WriteString(hunkColor.Sprint(body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(addColor.Sprint(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(delColor.Sprint(body))
		default:
			b.WriteString(body)
		}
		if nl {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
