// Package output renders command results for a terminal or as JSON.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Printer writes human or JSON output to one writer. Styles are resolved
// against that writer, so output to a pipe or buffer carries no escapes.
type Printer struct {
	w    io.Writer
	json bool

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	primary lipgloss.Style
}

func New(w io.Writer, jsonOutput bool) *Printer {
	r := lipgloss.NewRenderer(w)

	return &Printer{
		w:       w,
		json:    jsonOutput,
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		warning: r.NewStyle().Foreground(colorWarning).Bold(true),
		failure: r.NewStyle().Foreground(colorError).Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
		primary: r.NewStyle().Foreground(colorPrimary).Bold(true),
	}
}

// JSON reports whether results should be encoded instead of printed.
func (p *Printer) JSON() bool {
	return p.json
}

// Encode writes v as indented JSON followed by a newline.
func (p *Printer) Encode(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.w, "%s\n", data)
	return err
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.success.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintln(p.w, p.warning.Render("⚠")+" "+fmt.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.w, p.failure.Render("✗")+" "+fmt.Sprintf(format, args...))
}

func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf(format, args...)))
}

// Section prints a blank line, the title and a rule beneath it.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.primary.Render(title))
	fmt.Fprintln(p.w, p.muted.Render(strings.Repeat("-", 50)))
}
