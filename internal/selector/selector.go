// Package selector resolves a part-of-speech slot and rhyme context into one
// concrete word or phrase.
package selector

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/internal/lexicon"
	"github.com/lamim/poetforge/pkg/models"
)

// ErrEmptyPool is returned when a tag's candidate pool has no entries and its
// rule has no further fallback
var ErrEmptyPool = errors.New("empty candidate pool")

// Semantic properties recognised by the noun filters
const (
	PropertyTime       = "time"
	PropertyPlace      = "place"
	PropertyPlaceName  = "place-name"
	PropertyPerson     = "person"
	PropertyPersonName = "person-name"
)

var (
	locationProperties = map[string]bool{PropertyTime: true, PropertyPlace: true, PropertyPlaceName: true}
	personProperties   = map[string]bool{PropertyPerson: true, PropertyPersonName: true}
)

// Context describes one word selection request
type Context struct {
	Tag        grammar.Tag
	NeedsRhyme bool
	Scheme     grammar.Rhyme
}

// Selector picks words from a lexicon store. It is not safe for concurrent use
// because it draws from a shared *rand.Rand.
type Selector struct {
	store lexicon.Store
	rng   *rand.Rand
}

// New creates a selector over store drawing from rng
func New(store lexicon.Store, rng *rand.Rand) *Selector {
	return &Selector{store: store, rng: rng}
}

// Select resolves ctx into text
func (s *Selector) Select(ctx Context) (string, error) {
	switch ctx.Tag {
	case grammar.TagNoun, grammar.TagInterjection, grammar.TagTransitive, grammar.TagAdjective:
		return s.selectPlain(ctx)
	case grammar.TagLocationNoun:
		return s.selectByProperty(ctx, locationProperties)
	case grammar.TagPersonNoun:
		return s.selectByProperty(ctx, personProperties)
	case grammar.TagIntransitive:
		w, err := s.selectPlain(ctx)
		if err != nil {
			return "", err
		}
		return grammar.JoinPlain(w), nil
	case grammar.TagSimpleVerb:
		return s.selectSimpleVerb(ctx)
	case grammar.TagProgressive:
		return s.selectProgressive(ctx)
	case grammar.TagResultative:
		return s.selectResultative(ctx)
	case grammar.TagSpecialWord:
		return s.selectSpecial(), nil
	default:
		return "", fmt.Errorf("%w: %q", lexicon.ErrUnsupportedTag, ctx.Tag)
	}
}

// selectPlain draws from the tag's full pool with the rhyme filter applied
func (s *Selector) selectPlain(ctx Context) (string, error) {
	pool, err := s.store.Words(ctx.Tag)
	if err != nil {
		return "", err
	}
	if len(pool) == 0 {
		return "", fmt.Errorf("%w: no words for %s", ErrEmptyPool, ctx.Tag)
	}
	return s.pick(rhymeFilter(pool, ctx)).Word, nil
}

func (s *Selector) selectByProperty(ctx Context, allowed map[string]bool) (string, error) {
	pool, err := s.store.Words(ctx.Tag)
	if err != nil {
		return "", err
	}
	candidates := filter(pool, func(w models.WordRecord) bool { return allowed[w.Property] })
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no nouns with a %s property", ErrEmptyPool, ctx.Tag)
	}
	return s.pick(rhymeFilter(candidates, ctx)).Word, nil
}

func (s *Selector) selectSimpleVerb(ctx Context) (string, error) {
	pool, err := s.store.Words(ctx.Tag)
	if err != nil {
		return "", err
	}
	candidates := filter(pool, func(w models.WordRecord) bool { return !grammar.IsSplittable(w.Word) })
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no non-splittable intransitive verbs", ErrEmptyPool)
	}
	return s.pick(candidates).Word, nil
}

func (s *Selector) selectProgressive(ctx Context) (string, error) {
	candidates, err := s.splittable(ctx)
	if err != nil {
		return "", err
	}
	return grammar.Progressive(s.pick(rhymeFilter(candidates, ctx)).Word), nil
}

func (s *Selector) selectResultative(ctx Context) (string, error) {
	candidates, err := s.splittable(ctx)
	if err != nil {
		return "", err
	}
	return grammar.Resultative(s.pick(candidates).Word), nil
}

func (s *Selector) splittable(ctx Context) ([]models.WordRecord, error) {
	pool, err := s.store.Words(ctx.Tag)
	if err != nil {
		return nil, err
	}
	candidates := filter(pool, func(w models.WordRecord) bool { return grammar.IsSplittable(w.Word) })
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no splittable intransitive verbs for %s", ErrEmptyPool, ctx.Tag)
	}
	return candidates, nil
}

func (s *Selector) selectSpecial() string {
	pool := s.store.SpecialWords()
	if len(pool) == 0 {
		return ""
	}
	return pool[s.rng.IntN(len(pool))].Content
}

// pick draws one record uniformly; pool must be non-empty
func (s *Selector) pick(pool []models.WordRecord) models.WordRecord {
	return pool[s.rng.IntN(len(pool))]
}

// rhymeFilter restricts pool to the requested rhyme class when the context asks
// for one, falling back to pool itself if nothing matches
func rhymeFilter(pool []models.WordRecord, ctx Context) []models.WordRecord {
	if !ctx.NeedsRhyme || ctx.Scheme == grammar.RhymeNone {
		return pool
	}
	rhyming := filter(pool, func(w models.WordRecord) bool { return w.Vowel == ctx.Scheme.String() })
	if len(rhyming) == 0 {
		return pool
	}
	return rhyming
}

func filter(pool []models.WordRecord, keep func(models.WordRecord) bool) []models.WordRecord {
	var out []models.WordRecord
	for _, w := range pool {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}
