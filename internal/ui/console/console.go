// Package console provides the styled terminal output used by the develop
// pipeline: section rules, progress lines, and scoped timers.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const ruleWidth = 72

var (
	ruleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	plainStyle = lipgloss.NewStyle()
)

// Console writes human-readable progress output for one pipeline run.
// When verbose is false only Rule banners and Hint lines are emitted.
type Console struct {
	out     io.Writer
	verbose bool
	color   bool
	now     func() time.Time
}

// New returns a Console writing to stdout. Styling is enabled only when
// stdout is a terminal.
func New(verbose bool) *Console {
	return &Console{
		out:     os.Stdout,
		verbose: verbose,
		color:   isatty.IsTerminal(os.Stdout.Fd()),
		now:     time.Now,
	}
}

// NewWithWriter returns a Console writing to w with styling disabled.
// Intended for tests.
func NewWithWriter(w io.Writer, verbose bool) *Console {
	return &Console{out: w, verbose: verbose, now: time.Now}
}

// Verbose reports whether progress lines are being emitted.
func (c *Console) Verbose() bool { return c.verbose }

// Rule prints a section banner like "──── title ────".
func (c *Console) Rule(title string) {
	pad := ruleWidth - len(title) - 2
	if pad < 4 {
		pad = 4
	}
	left := strings.Repeat("─", 4)
	right := strings.Repeat("─", pad-4)
	fmt.Fprintln(c.out, c.render(ruleStyle, fmt.Sprintf("%s %s %s", left, title, right)))
}

// Print writes a single progress line when verbose reporting is enabled.
func (c *Console) Print(msg string) {
	if !c.verbose {
		return
	}
	fmt.Fprintln(c.out, c.render(plainStyle, msg))
}

// Printf writes a formatted progress line when verbose reporting is enabled.
func (c *Console) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

// Hint writes a dimmed line regardless of verbosity. Used for the final
// documentation and teardown pointers.
func (c *Console) Hint(msg string) {
	fmt.Fprintln(c.out, c.render(hintStyle, msg))
}

// Timer prints the start message and returns a stop function that prints the
// done message with the elapsed time. Callers invoke the stop function only
// on success, so a failed operation leaves the start line as the last marker
// before the propagated error.
func (c *Console) Timer(start, done string) func() {
	began := c.now()
	c.Print(start)
	return func() {
		elapsed := c.now().Sub(began).Round(time.Millisecond)
		if !c.verbose {
			return
		}
		fmt.Fprintln(c.out, c.render(doneStyle, fmt.Sprintf("%s (%v)", done, elapsed)))
	}
}

func (c *Console) render(style lipgloss.Style, s string) string {
	if !c.color {
		return s
	}
	return style.Render(s)
}
