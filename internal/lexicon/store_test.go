package lexicon

import (
	"errors"
	"testing"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/pkg/models"
)

func TestDefaultLexicon(t *testing.T) {
	store, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	for _, tag := range grammar.AllTags {
		if tag == grammar.TagSpecialWord {
			continue
		}
		words, err := store.Words(tag)
		if err != nil {
			t.Errorf("Words(%s) failed: %v", tag, err)
			continue
		}
		if len(words) == 0 {
			t.Errorf("Words(%s) is empty", tag)
		}
	}

	if len(store.Templates()) == 0 {
		t.Fatal("built-in lexicon has no templates")
	}
	if len(store.SpecialWords()) == 0 {
		t.Error("built-in lexicon has no special words")
	}

	for i, s := range store.Templates() {
		n := s.Len()
		for j := n; j < models.TemplateCapacity; j++ {
			if s.Elements[j] != "" {
				t.Errorf("template %d is not left-packed at slot %d", i, j)
			}
		}
	}
}

func TestWordsUnsupportedTag(t *testing.T) {
	store, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	for _, tag := range []grammar.Tag{grammar.TagSpecialWord, "XX", ""} {
		if _, err := store.Words(tag); !errors.Is(err, ErrUnsupportedTag) {
			t.Errorf("Words(%q) error = %v, want ErrUnsupportedTag", tag, err)
		}
	}
}

func TestSnapshotSharesPools(t *testing.T) {
	store := NewSnapshot(&Tables{
		Nouns:      []models.WordRecord{{Word: "月亮"}},
		Structures: []models.SentenceStructure{{Punctuation: "。"}},
	})

	nouns, _ := store.Words(grammar.TagNoun)
	people, _ := store.Words(grammar.TagPersonNoun)
	if len(nouns) != 1 || len(people) != 1 {
		t.Fatalf("noun-class tags should share one pool, got %d and %d", len(nouns), len(people))
	}

	// Appending to a returned pool must not leak into the snapshot
	_ = append(nouns, models.WordRecord{Word: "太阳"})
	again, _ := store.Words(grammar.TagNoun)
	if len(again) != 1 {
		t.Errorf("snapshot pool changed after caller append: %d entries", len(again))
	}
}
