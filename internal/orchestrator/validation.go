package orchestrator

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/internal/poet"
)

// MaxLineRunes is the exclusive upper bound on the length of one line
const MaxLineRunes = 100

// ErrRejected marks a generated poem that failed validation
var ErrRejected = errors.New("poem rejected")

// missingValueMarkers leak into a line when a slot renders a zero value
var missingValueMarkers = []string{"undefined", "<nil>", "<no value>"}

// validatePoem checks the structural guarantees every archived poem must meet
func validatePoem(p *poet.Poem) error {
	if want := p.Options.LineCount(); len(p.Lines) != want {
		return fmt.Errorf("%w: got %d lines, want %d", ErrRejected, len(p.Lines), want)
	}

	for i, line := range p.Lines {
		if line == "" {
			return fmt.Errorf("%w: line %d is empty", ErrRejected, i+1)
		}
		if n := utf8.RuneCountInString(line); n >= MaxLineRunes {
			return fmt.Errorf("%w: line %d has %d characters", ErrRejected, i+1, n)
		}
		for _, marker := range missingValueMarkers {
			if strings.Contains(line, marker) {
				return fmt.Errorf("%w: line %d contains %q", ErrRejected, i+1, marker)
			}
		}
		if strings.Contains(line, grammar.CompoundSeparator) {
			return fmt.Errorf("%w: line %d contains an unsplit compound", ErrRejected, i+1)
		}
	}
	return nil
}
