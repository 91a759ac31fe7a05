package lexicon

import (
	"fmt"
	"strings"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/pkg/models"
)

// structureEntry is the on-disk shape of a template; Elements is variable length
type structureEntry struct {
	LimitedRhyme           string   `toml:"limited_rhyme" yaml:"limited_rhyme"`
	CompoundStructureCount int      `toml:"compound_structure_count" yaml:"compound_structure_count"`
	Punctuation            string   `toml:"punctuation" yaml:"punctuation"`
	Elements               []string `toml:"elements" yaml:"elements"`
}

// toStructure validates and packs an entry into a fixed-capacity template
func (e structureEntry) toStructure() (models.SentenceStructure, error) {
	if len(e.Elements) == 0 {
		return models.SentenceStructure{}, fmt.Errorf("structure has no elements")
	}
	for i, el := range e.Elements {
		if el == "" {
			return models.SentenceStructure{}, fmt.Errorf("structure element %d is empty (elements must be left-packed)", i)
		}
	}
	s, ok := models.StructureFromSlice(normalizeLimitedRhyme(e.LimitedRhyme), e.CompoundStructureCount, e.Punctuation, e.Elements)
	if !ok {
		return s, fmt.Errorf("structure has %d elements, maximum is %d", len(e.Elements), models.TemplateCapacity)
	}
	return s, nil
}

// normalizeLimitedRhyme keeps the sentinels and folds rhyme spellings.
// An empty or unknown value means unrestricted.
func normalizeLimitedRhyme(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToUpper(v) {
	case grammar.CompoundSentinel:
		return grammar.CompoundSentinel
	case grammar.AnyRhyme, "":
		return grammar.AnyRhyme
	}
	if r := grammar.NormalizeRhymeScheme(v); r != grammar.RhymeNone {
		return r.String()
	}
	return grammar.AnyRhyme
}

// normalizeWords folds vowels onto rhyme classes and checks the separator invariant
func normalizeWords(table string, words []models.WordRecord) ([]models.WordRecord, error) {
	out := make([]models.WordRecord, 0, len(words))
	for i, w := range words {
		w.Word = strings.TrimSpace(w.Word)
		if w.Word == "" {
			return nil, fmt.Errorf("%s[%d]: empty word", table, i)
		}
		if n := strings.Count(w.Word, grammar.CompoundSeparator); n > 1 {
			return nil, fmt.Errorf("%s[%d] %q: separator appears %d times", table, i, w.Word, n)
		}
		w.Vowel = grammar.NormalizeRhymeScheme(w.Vowel).String()
		w.Property = strings.ToLower(strings.TrimSpace(w.Property))
		out = append(out, w)
	}
	return out, nil
}

// normalizeTables applies normalizeWords to every word table
func normalizeTables(t *Tables) error {
	tables := []struct {
		name  string
		words *[]models.WordRecord
	}{
		{"nouns", &t.Nouns},
		{"intransitive_verbs", &t.Intransitive},
		{"transitive_verbs", &t.Transitive},
		{"adjectives", &t.Adjectives},
		{"interjections", &t.Interjections},
	}
	for _, tbl := range tables {
		words, err := normalizeWords(tbl.name, *tbl.words)
		if err != nil {
			return err
		}
		*tbl.words = words
	}
	if len(t.Structures) == 0 {
		return fmt.Errorf("lexicon has no sentence structures")
	}
	return nil
}
