package poet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/pkg/models"
)

const (
	MaxStanzas        = 50
	MaxLinesPerStanza = 50
)

// ErrInvalidOptions wraps every Options validation failure
var ErrInvalidOptions = errors.New("invalid poem options")

// Options describes one poem request
type Options struct {
	Style          models.Style  `json:"style"`
	Stanzas        int           `json:"stanzas"`
	LinesPerStanza int           `json:"lines_per_stanza"`
	UseRhyme       bool          `json:"use_rhyme"`
	Scheme         grammar.Rhyme `json:"rhyme_scheme,omitempty"`
}

// Validate checks the options and normalizes Scheme in place. Without UseRhyme
// the scheme is cleared. UseRhyme with an empty scheme leaves selection
// unrestricted.
func (o *Options) Validate() error {
	if !o.Style.Valid() {
		return fmt.Errorf("%w: style must be %q or %q, got %q", ErrInvalidOptions, models.StyleQuiet, models.StyleBold, o.Style)
	}
	if o.Stanzas < 1 || o.Stanzas > MaxStanzas {
		return fmt.Errorf("%w: stanzas must be between 1 and %d, got %d", ErrInvalidOptions, MaxStanzas, o.Stanzas)
	}
	if o.LinesPerStanza < 1 || o.LinesPerStanza > MaxLinesPerStanza {
		return fmt.Errorf("%w: lines per stanza must be between 1 and %d, got %d", ErrInvalidOptions, MaxLinesPerStanza, o.LinesPerStanza)
	}

	if !o.UseRhyme {
		o.Scheme = grammar.RhymeNone
		return nil
	}
	raw := o.Scheme
	if strings.TrimSpace(string(raw)) == "" {
		o.Scheme = grammar.RhymeNone
		return nil
	}
	o.Scheme = grammar.NormalizeRhymeScheme(string(raw))
	if o.Scheme == grammar.RhymeNone {
		return fmt.Errorf("%w: unknown rhyme scheme %q", ErrInvalidOptions, raw)
	}
	return nil
}

// LineCount is the total number of lines the options produce
func (o Options) LineCount() int {
	return o.Stanzas * o.LinesPerStanza
}
