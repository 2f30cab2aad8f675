package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/corvus/internal/diagnostics"
)

const (
	colorRed   = "\033[31m"
	colorBold  = "\033[1m"
	colorReset = "\033[0m"
)

// reporter prints errors to stderr, colored when stderr is a terminal.
type reporter struct {
	out   io.Writer
	color bool
}

func newReporter(out io.Writer) *reporter {
	return &reporter{out: out, color: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *reporter) print(err error) {
	var many diagnostics.Errors
	if errors.As(err, &many) {
		for _, d := range many {
			r.printDiagnostic(d)
		}
		return
	}
	var diag *diagnostics.DiagnosticError
	if errors.As(err, &diag) {
		r.printDiagnostic(diag)
		return
	}
	fmt.Fprintf(r.out, "Error: %s\n", err)
}

func (r *reporter) printDiagnostic(d *diagnostics.DiagnosticError) {
	if !r.color {
		fmt.Fprintf(r.out, "- %s\n", d.Error())
		return
	}
	loc := ""
	if d.File != "" {
		loc = d.File + ":"
	}
	if d.Token.Line > 0 {
		loc += fmt.Sprintf("%d:%d:", d.Token.Line, d.Token.Column)
	}
	if loc != "" {
		loc = colorBold + loc + colorReset + " "
	}
	fmt.Fprintf(r.out, "- %s%s%s [%s]%s: %s\n", loc, colorRed, d.Code.Name(), d.Code, colorReset, d.Message)
}
