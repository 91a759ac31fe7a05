// Package poet composes lines and poems from working structures.
package poet

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/internal/lexicon"
	"github.com/lamim/poetforge/internal/metrics"
	"github.com/lamim/poetforge/internal/selector"
	"github.com/lamim/poetforge/internal/structure"
	"github.com/lamim/poetforge/pkg/models"
)

// RenderLookupLimit caps how many slots of a working structure are rendered
const RenderLookupLimit = models.TemplateCapacity

// Engine renders poems. It owns a single random source shared by its structure
// generator and word selector, so it must not be used from several goroutines
// without external locking.
type Engine struct {
	structures *structure.Generator
	words      *selector.Selector
	logger     *slog.Logger
	metrics    *metrics.Collector
}

// NewRand returns a PCG-backed source. A zero seed draws the seed from entropy.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New creates an engine over store. logger and collector may be nil.
func New(store lexicon.Store, rng *rand.Rand, logger *slog.Logger, collector *metrics.Collector) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		structures: structure.New(store, rng, logger, collector),
		words:      selector.New(store, rng),
		logger:     logger,
		metrics:    collector,
	}
}

// Generate validates opts and renders stanzas × lines lines in stanza-major order
func (e *Engine) Generate(opts Options) (*Poem, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	working, err := e.structures.CreateStructure(opts.Stanzas, opts.LinesPerStanza, opts.Style, opts.Scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to create structure: %w", err)
	}

	lines := make([]string, 0, len(working))
	for i, ws := range working {
		line, err := e.RenderLine(ws, opts)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}

	if e.metrics != nil {
		e.metrics.AddLines(len(lines))
	}
	return &Poem{Lines: lines, Options: opts}, nil
}

// RenderLine fills every slot of ws with a word and appends the punctuation.
// Unknown tag-shaped codes render as nouns. VP and VR consume their whole
// expanded triple.
func (e *Engine) RenderLine(ws models.WorkingStructure, opts Options) (string, error) {
	var b strings.Builder

	for i := 0; i < RenderLookupLimit; {
		code := ws.Elements[i]
		if code == "" {
			break
		}
		if !grammar.IsTagShaped(code) {
			b.WriteString(code)
			i++
			continue
		}

		tag, ok := grammar.ParseTag(code)
		if !ok {
			e.logger.Warn("Unknown slot code, rendering as noun", "code", code, "slot", i)
			if e.metrics != nil {
				e.metrics.IncrementSlotDefault()
			}
			tag = grammar.TagNoun
		}

		word, err := e.words.Select(selector.Context{
			Tag:        tag,
			NeedsRhyme: opts.UseRhyme,
			Scheme:     opts.Scheme,
		})
		if err != nil {
			if e.metrics != nil {
				e.metrics.IncrementSelectionError(tag.String())
			}
			return "", fmt.Errorf("slot %d (%s): %w", i, tag, err)
		}
		b.WriteString(word)

		if tag == grammar.TagProgressive || tag == grammar.TagResultative {
			i += 3
		} else {
			i++
		}
	}

	b.WriteString(ws.Punctuation)
	return strings.TrimSpace(b.String()), nil
}
