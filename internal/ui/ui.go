// Package ui provides the console output used for launcher progress notices.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Styles for consistent output
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// Console writes progress notices to a single writer. The writer is
// injectable so tests can capture the transcript.
type Console struct {
	out io.Writer
}

// New creates a console writing to out.
func New(out io.Writer) *Console {
	return &Console{out: out}
}

// Stdout returns a console writing to standard output.
func Stdout() *Console {
	return New(os.Stdout)
}

// Infof prints a progress notice.
func (c *Console) Infof(format string, args ...any) {
	fmt.Fprintln(c.out, infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Successf prints a success notice.
func (c *Console) Successf(format string, args ...any) {
	fmt.Fprintln(c.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints a failure notice.
func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Warningf prints a warning notice.
func (c *Console) Warningf(format string, args ...any) {
	fmt.Fprintln(c.out, warningStyle.Render(fmt.Sprintf(format, args...)))
}

// Headerf prints a bold section line.
func (c *Console) Headerf(format string, args ...any) {
	fmt.Fprintln(c.out, headerStyle.Render(fmt.Sprintf(format, args...)))
}

// Plainf prints an unstyled line.
func (c *Console) Plainf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}
