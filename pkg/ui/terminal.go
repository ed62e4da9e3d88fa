// Package ui renders human-facing status lines for the igflash CLI.
// Lookup results go to stdout as JSON; everything printed here goes to the
// status writer, usually stderr.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonRed     = lipgloss.Color("#FF3131")
	dimWhite    = lipgloss.Color("#B0B0B0")
)

// Printer writes styled status lines. It is safe for concurrent use.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool

	label     lipgloss.Style
	value     lipgloss.Style
	errStyle  lipgloss.Style
	warnStyle lipgloss.Style
	okStyle   lipgloss.Style
	highlight lipgloss.Style
	dim       lipgloss.Style
}

// NewPrinter creates a printer for w. The colour profile is detected from w,
// so plain buffers and pipes get unstyled text.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stderr
	}
	r := lipgloss.NewRenderer(w)

	return &Printer{
		out:       w,
		label:     r.NewStyle().Foreground(neonCyan).Bold(true),
		value:     r.NewStyle().Foreground(neonYellow),
		errStyle:  r.NewStyle().Foreground(neonRed).Bold(true),
		warnStyle: r.NewStyle().Foreground(neonYellow),
		okStyle:   r.NewStyle().Foreground(neonGreen).Bold(true),
		highlight: r.NewStyle().Foreground(neonMagenta),
		dim:       r.NewStyle().Foreground(dimWhite),
	}
}

// SetQuiet suppresses everything except errors
func (p *Printer) SetQuiet(quiet bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quiet = quiet
}

func (p *Printer) println(always bool, line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet && !always {
		return
	}
	fmt.Fprintln(p.out, line)
}

// Error prints an error message, with an optional detail
func (p *Printer) Error(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	p.println(true, p.errStyle.Render(msg))
}

// Warning prints a warning message, with an optional detail
func (p *Printer) Warning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	p.println(false, p.warnStyle.Render(msg))
}

// Success prints a success message
func (p *Printer) Success(msg string) {
	p.println(false, p.okStyle.Render(msg))
}

// Info prints a labelled value
func (p *Printer) Info(label, value string) {
	p.println(false, fmt.Sprintf("%s: %s", p.label.Render(label), p.value.Render(value)))
}

// Highlight prints a highlighted message
func (p *Printer) Highlight(msg string) {
	p.println(false, p.highlight.Render(msg))
}

// Dim prints a de-emphasised message
func (p *Printer) Dim(msg string) {
	p.println(false, p.dim.Render(msg))
}
