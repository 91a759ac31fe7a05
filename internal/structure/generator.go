// Package structure decides the skeleton of every line of a poem before any
// word is chosen: template selection, compound expansion and stanza replication.
package structure

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/internal/lexicon"
	"github.com/lamim/poetforge/internal/metrics"
	"github.com/lamim/poetforge/pkg/models"
)

const (
	// MaxSelectionAttempts bounds rejection sampling per line. When every draw is
	// rejected the first template in the table is used instead; this keeps
	// unsatisfiable style/rhyme combinations producing output.
	MaxSelectionAttempts = 100

	// QuietProbeSlot is the slot that is always empty in low-complexity
	// templates; quiet style only accepts templates where it is empty.
	QuietProbeSlot = 8

	// CompoundConnective joins the progressive and resultative halves of an
	// expanded compound verb
	CompoundConnective = "着"
)

// ErrNoTemplates is returned when the store has no sentence structures
var ErrNoTemplates = errors.New("no sentence structure templates")

// Generator selects and expands sentence structures. It is not safe for
// concurrent use.
type Generator struct {
	store   lexicon.Store
	rng     *rand.Rand
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates a generator. logger and collector may be nil.
func New(store lexicon.Store, rng *rand.Rand, logger *slog.Logger, collector *metrics.Collector) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{store: store, rng: rng, logger: logger, metrics: collector}
}

// NeedsRhyme reports whether a 1-based position among count needs to rhyme.
// With an even count the first and every even position rhyme; with an odd count
// every odd position does.
func NeedsRhyme(position, count int) bool {
	if count%2 == 0 {
		return position == 1 || position%2 == 0
	}
	return (position+1)%2 == 0
}

// SelectLineTemplates draws one template per line position
func (g *Generator) SelectLineTemplates(lineCount int, style models.Style, scheme grammar.Rhyme) ([]models.SentenceStructure, error) {
	templates := g.store.Templates()
	if len(templates) == 0 {
		return nil, ErrNoTemplates
	}

	selected := make([]models.SentenceStructure, 0, lineCount)
	for pos := 1; pos <= lineCount; pos++ {
		selected = append(selected, g.selectOne(templates, style, NeedsRhyme(pos, lineCount), scheme, pos))
	}
	return selected, nil
}

func (g *Generator) selectOne(templates []models.SentenceStructure, style models.Style, needsRhyme bool, scheme grammar.Rhyme, pos int) models.SentenceStructure {
	for attempt := 0; attempt < MaxSelectionAttempts; attempt++ {
		candidate := templates[g.rng.IntN(len(templates))]
		if accepts(candidate, style, needsRhyme, scheme) {
			return candidate
		}
	}

	g.logger.Debug("Structure selection exhausted, using first template",
		"position", pos,
		"style", style,
		"scheme", scheme,
		"attempts", MaxSelectionAttempts)
	if g.metrics != nil {
		g.metrics.IncrementStructureFallback(string(style))
	}
	return templates[0]
}

// accepts applies the style and rhyme rejection rules to one candidate
func accepts(t models.SentenceStructure, style models.Style, needsRhyme bool, scheme grammar.Rhyme) bool {
	if style == models.StyleQuiet && t.Elements[QuietProbeSlot] != "" {
		return false
	}
	if needsRhyme && scheme != grammar.RhymeNone && t.CompoundStructureCount == 0 {
		return t.LimitedRhyme == scheme.String() || t.LimitedRhyme == grammar.AnyRhyme
	}
	return true
}

// CreateStructure selects linesPerStanza base templates once and expands them for
// every stanza. Output is stanza-major.
//
// The per-stanza rhyme flag reuses the NeedsRhyme parity rule keyed by stanza
// index against stanza count, not by line.
func (g *Generator) CreateStructure(stanzaCount, linesPerStanza int, style models.Style, scheme grammar.Rhyme) ([]models.WorkingStructure, error) {
	if stanzaCount < 1 || linesPerStanza < 1 {
		return nil, fmt.Errorf("stanza count and lines per stanza must be at least 1 (got %d, %d)", stanzaCount, linesPerStanza)
	}

	base, err := g.SelectLineTemplates(linesPerStanza, style, scheme)
	if err != nil {
		return nil, err
	}

	out := make([]models.WorkingStructure, 0, stanzaCount*linesPerStanza)
	for s := 1; s <= stanzaCount; s++ {
		stanzaNeedsRhyme := NeedsRhyme(s, stanzaCount)
		for l := 0; l < linesPerStanza; l++ {
			out = append(out, Expand(base[l], stanzaNeedsRhyme, scheme))
		}
	}
	return out, nil
}

// Expand turns a template into a working structure: two-character codes with a
// lower-case initial become canonical tags, and in compound templates each VI
// slot becomes VP 着 VR. Every other code is copied as a literal.
// A VI slot stays as it is when fewer than three slots remain.
func Expand(t models.SentenceStructure, stanzaNeedsRhyme bool, scheme grammar.Rhyme) models.WorkingStructure {
	ws := models.WorkingStructure{
		CompoundStructureCount: t.CompoundStructureCount,
		Punctuation:            t.Punctuation,
		StanzaNeedsRhyme:       stanzaNeedsRhyme,
	}
	compound := t.LimitedRhyme == grammar.CompoundSentinel

	n := 0
	for _, code := range t.Elements {
		if code == "" || n >= len(ws.Elements) {
			break
		}
		tag, isTag := grammar.NormalizeCode(code)
		switch {
		case isTag && tag == grammar.TagIntransitive && compound && n+3 <= len(ws.Elements):
			ws.Elements[n] = grammar.TagProgressive.String()
			ws.Elements[n+1] = CompoundConnective
			ws.Elements[n+2] = grammar.TagResultative.String()
			n += 3
		case isTag:
			ws.Elements[n] = tag.String()
			n++
		default:
			ws.Elements[n] = code
			n++
		}
	}
	return ws
}
