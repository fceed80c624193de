package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Printer writes operator-facing output. Info and success lines go to out,
// warnings and errors to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	styles styles
}

type styles struct {
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
	border  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		info:    r.NewStyle().Foreground(lipgloss.Color("39")),
		success: r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		failure: r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("241")),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		border:  r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// NewPrinter creates a Printer. Colors are only emitted when out is a
// terminal.
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

// Info prints an info message to out.
func (p *Printer) Info(format string, args ...any) {
	p.line(p.out, p.styles.info, "ℹ", format, args...)
}

// Success prints a success message to out.
func (p *Printer) Success(format string, args ...any) {
	p.line(p.out, p.styles.success, "✓", format, args...)
}

// Warning prints a warning message to errOut.
func (p *Printer) Warning(format string, args ...any) {
	p.line(p.errOut, p.styles.warning, "⚠", format, args...)
}

// Error prints an error message to errOut.
func (p *Printer) Error(format string, args ...any) {
	p.line(p.errOut, p.styles.failure, "✗", format, args...)
}

// Plain prints an unstyled line to out.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Heading prints a bold title followed by a rule of matching width.
func (p *Printer) Heading(title string) {
	fmt.Fprintln(p.out, p.styles.heading.Render(title))
	fmt.Fprintln(p.out, p.styles.muted.Render(strings.Repeat("=", max(lipgloss.Width(title), 40))))
}

// Table renders rows under headers with a rounded border.
func (p *Printer) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.styles.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(p.out, t.Render())
}

func (p *Printer) line(w io.Writer, style lipgloss.Style, glyph, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, style.Render(glyph+" "+msg))
}
