// Package printer renders poems and CLI messages to the terminal.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/lamim/poetforge/internal/poet"
	"github.com/lamim/poetforge/pkg/models"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan, color.Bold)
	faint  = color.New(color.Faint)
)

// Poem prints a title in cyan followed by the stanzas, separated by blank lines
func Poem(w io.Writer, title string, p *poet.Poem) {
	if title != "" {
		cyan.Fprintln(w, title)
		fmt.Fprintln(w)
	}
	for i, stanza := range p.Stanzas() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		for _, line := range stanza {
			fmt.Fprintln(w, line)
		}
	}
}

// Record prints an archived poem with its number line dimmed
func Record(w io.Writer, r models.PoemRecord) {
	Poem(w, r.Title, &poet.Poem{
		Lines: r.Lines,
		Options: poet.Options{
			Style:          r.Style,
			Stanzas:        r.Stanzas,
			LinesPerStanza: r.LinesPerStanza,
		},
	})
	faint.Fprintf(w, "#%d %s\n\n", r.Number, r.ID)
}

// Success prints a success message in green with a checkmark prefix
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		green.Printf("✓ %s", msg)
	} else {
		green.Print(msg)
	}
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Warning prints a warning message in yellow
func Warning(format string, a ...any) {
	yellow.Printf("⚠️  %s", fmt.Sprintf(format, a...))
}

// Error prints a titled error with suggestions to stderr and returns a plain
// error for cobra
func Error(title string, explanation string, suggestions []string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	fmt.Fprintf(os.Stderr, "%s\n", explanation)

	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(os.Stderr, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(os.Stderr, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, suggestion)
			}
		}
	}

	return fmt.Errorf("%s", title)
}
