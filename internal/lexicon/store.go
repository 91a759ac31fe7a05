// Package lexicon supplies the read-only vocabulary and sentence structure
// tables the poetry engine draws from.
package lexicon

import (
	"errors"
	"fmt"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/pkg/models"
)

// ErrUnsupportedTag is returned for tags outside the closed tag set
var ErrUnsupportedTag = errors.New("unsupported part of speech")

// Store is the read side of the vocabulary and structure tables.
// Implementations must be safe for concurrent reads and never mutate returned slices.
type Store interface {
	// Words returns the unfiltered pool for a tag's word class
	Words(tag grammar.Tag) ([]models.WordRecord, error)
	// Templates returns every sentence structure template
	Templates() []models.SentenceStructure
	// SpecialWords returns the special word pool
	SpecialWords() []models.SpecialWord
}

// Tables is the in-memory form of a lexicon as produced by the loaders
type Tables struct {
	Nouns         []models.WordRecord
	Intransitive  []models.WordRecord
	Transitive    []models.WordRecord
	Adjectives    []models.WordRecord
	Interjections []models.WordRecord
	SpecialWords  []models.SpecialWord
	Structures    []models.SentenceStructure
}

// Counts summarises table sizes for logging
func (t *Tables) Counts() map[string]int {
	return map[string]int{
		"nouns":         len(t.Nouns),
		"intransitive":  len(t.Intransitive),
		"transitive":    len(t.Transitive),
		"adjectives":    len(t.Adjectives),
		"interjections": len(t.Interjections),
		"special_words": len(t.SpecialWords),
		"structures":    len(t.Structures),
	}
}

// Snapshot is an immutable Store built once from Tables
type Snapshot struct {
	nouns         []models.WordRecord
	intransitive  []models.WordRecord
	transitive    []models.WordRecord
	adjectives    []models.WordRecord
	interjections []models.WordRecord
	specialWords  []models.SpecialWord
	structures    []models.SentenceStructure
}

// NewSnapshot copies the tables into an immutable store
func NewSnapshot(t *Tables) *Snapshot {
	return &Snapshot{
		nouns:         append([]models.WordRecord(nil), t.Nouns...),
		intransitive:  append([]models.WordRecord(nil), t.Intransitive...),
		transitive:    append([]models.WordRecord(nil), t.Transitive...),
		adjectives:    append([]models.WordRecord(nil), t.Adjectives...),
		interjections: append([]models.WordRecord(nil), t.Interjections...),
		specialWords:  append([]models.SpecialWord(nil), t.SpecialWords...),
		structures:    append([]models.SentenceStructure(nil), t.Structures...),
	}
}

// Words implements Store. The returned slice is capped so appends by callers
// cannot write into the snapshot's backing array.
func (s *Snapshot) Words(tag grammar.Tag) ([]models.WordRecord, error) {
	var pool []models.WordRecord
	switch tag {
	case grammar.TagNoun, grammar.TagLocationNoun, grammar.TagPersonNoun:
		pool = s.nouns
	case grammar.TagIntransitive, grammar.TagSimpleVerb, grammar.TagProgressive, grammar.TagResultative:
		pool = s.intransitive
	case grammar.TagTransitive:
		pool = s.transitive
	case grammar.TagAdjective:
		pool = s.adjectives
	case grammar.TagInterjection:
		pool = s.interjections
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTag, tag)
	}
	return pool[:len(pool):len(pool)], nil
}

// Templates implements Store
func (s *Snapshot) Templates() []models.SentenceStructure {
	return s.structures[:len(s.structures):len(s.structures)]
}

// SpecialWords implements Store
func (s *Snapshot) SpecialWords() []models.SpecialWord {
	return s.specialWords[:len(s.specialWords):len(s.specialWords)]
}
