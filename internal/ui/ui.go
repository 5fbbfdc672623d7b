// Package ui prints status lines for the CLI to stderr. Reports themselves
// go to stdout through the report package.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/papapumpkin/triage/internal/task"
)

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	yellow = "\033[33m"
	green  = "\033[32m"
	red    = "\033[31m"
	cyan   = "\033[36m"
)

type Printer struct {
	w     io.Writer
	plain bool
}

// New returns a Printer on stderr. Colors are dropped when NO_COLOR is set.
func New() *Printer {
	return &Printer{w: os.Stderr, plain: os.Getenv("NO_COLOR") != ""}
}

// NewPlain returns an uncolored Printer on w.
func NewPlain(w io.Writer) *Printer {
	return &Printer{w: w, plain: true}
}

func (p *Printer) c(code string) string {
	if p.plain {
		return ""
	}
	return code
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, p.c(red+bold)+"error: "+p.c(reset)+"%s\n", msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, p.c(yellow+bold)+"warning: "+p.c(reset)+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(p.w, p.c(dim)+"%s"+p.c(reset)+"\n", msg)
}

// ValidateResult summarizes a validated batch. Corrections are listed per
// task; they never make the batch invalid.
func (p *Printer) ValidateResult(source string, tasks []task.Task) {
	corrected := 0
	for _, t := range tasks {
		if len(t.Issues) > 0 {
			corrected++
		}
	}
	if corrected == 0 {
		fmt.Fprintf(p.w, p.c(green+bold)+"✓ %s"+p.c(reset)+": %d task(s), no corrections\n", source, len(tasks))
		return
	}
	fmt.Fprintf(p.w, p.c(yellow+bold)+"⚠ %s"+p.c(reset)+": %d task(s), %d corrected:\n", source, len(tasks), corrected)
	for _, t := range tasks {
		for _, issue := range t.Issues {
			fmt.Fprintf(p.w, "  "+p.c(yellow)+"• "+p.c(reset)+"task %d %s\n", t.ID, issue)
		}
	}
}

// ValidateFailed reports a batch rejected as malformed.
func (p *Printer) ValidateFailed(source string, err error) {
	fmt.Fprintf(p.w, p.c(red+bold)+"✗ %s"+p.c(reset)+": %v\n", source, err)
}

// Reloaded reports a re-analysis triggered by a file change.
func (p *Printer) Reloaded(path string, count int) {
	fmt.Fprintf(p.w, p.c(cyan)+"◆ reloaded"+p.c(reset)+" %s "+p.c(dim)+"(%d task(s))"+p.c(reset)+"\n", path, count)
}
