// Package diagprint prints diagnostics.Diagnostic values to a terminal the
// way describes: a source excerpt, a caret under the offending
// span, and (on a real TTY) the message in color.
//
// Grounded on funxy's own terminal-output builtins (evaluator/builtins_term.go),
// which gate ANSI output behind
// `isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)` — the same check
// used here, via the same `github.com/mattn/go-isatty` dependency.
package diagprint

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/pyrite/internal/diagnostics"
)

const (
	colorReset = "\x1b[0m"
	colorRed = "\x1b[31m"
	colorDim = "\x1b[2m"
	colorBold = "\x1b[1m"
)

// Printer renders diagnostics against their originating source text.
type Printer struct {
	out io.Writer
	color bool
	source map[string][]string // file path -> lines, split on first use
}

// NewPrinter builds a Printer writing to out. Color is enabled
// automatically when out is os.Stdout/os.Stderr and it is a real
// terminal; NewPrinter never enables color for any other io.Writer
// (piping to a file or another process gets plain text, matching the
// teacher's own buffering/ANSI gate).
func NewPrinter(out *os.File) *Printer {
	color := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	return &Printer{out: out, color: color, source: make(map[string][]string)}
}

// AddSource registers file's text so later Print calls can render an
// excerpt for diagnostics anchored in it.
func (p *Printer) AddSource(file, text string) {
	p.source[file] = strings.Split(text, "\n")
}

// Print renders one diagnostic: "file:line:col: [CODE] message", followed
// by the offending source line and a caret line under the span's start
// column, when the source for that file was registered via AddSource.
func (p *Printer) Print(d *diagnostics.Diagnostic) {
	span := d.Span
	header := fmt.Sprintf("%s:%d:%d: [%s] %s", span.File, span.StartLine, span.StartCol, d.Code, d.Message)
	if p.color {
		header = colorBold + colorRed + header + colorReset
	}
	fmt.Fprintln(p.out, header)

	lines, ok := p.source[span.File]
	if !ok || span.StartLine < 1 || span.StartLine > len(lines) {
		return
	}
	line := lines[span.StartLine-1]
	fmt.Fprintln(p.out, line)

	caretCol := span.StartCol - 1
	if caretCol < 0 {
		caretCol = 0
	}
	caret := strings.Repeat(" ", caretCol) + "^"
	if p.color {
		caret = colorDim + caret + colorReset
	}
	fmt.Fprintln(p.out, caret)
}

// PrintAll prints every diagnostic in ds, in order.
func (p *Printer) PrintAll(ds []*diagnostics.Diagnostic) {
	for _, d := range ds {
		p.Print(d)
	}
}

// Explain prints the long-form explanation for code (the driver's
// `explain <code>` command), or a "no explanation for diagnostic code"
// notice if code is unknown.
func (p *Printer) Explain(code diagnostics.ErrorCode) {
	text := diagnostics.Explain(code)
	if text == "" {
		fmt.Fprintf(p.out, "no explanation for diagnostic code %q\n", code)
		return
	}
	fmt.Fprintf(p.out, "%s: %s\n", code, text)
}

// PrintTimeline prints varName and then one ownership-timeline entry per
// line (from state, to state, responsible token). cmd/pyritec does not
// call it, so --ownership-timeline prints no timeline.
func (p *Printer) PrintTimeline(varName string, entries []TimelineEntry) {
	fmt.Fprintf(p.out, "%s:\n", varName)
	for _, e := range entries {
		fmt.Fprintf(p.out, " %s -> %s at %s\n", e.From, e.To, e.At.String())
	}
}

// TimelineEntry is the driver-facing shape of one ownership.TimelineEvent,
// decoupled from the ownership package so diagprint doesn't need to import
// it just to print strings.
type TimelineEntry struct {
	From string
	To string
	At fmt.Stringer
}
