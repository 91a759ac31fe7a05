package selector

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/internal/lexicon"
	"github.com/lamim/poetforge/pkg/models"
)

func newSelector(t *lexicon.Tables) *Selector {
	return New(lexicon.NewSnapshot(t), rand.New(rand.NewPCG(1, 2)))
}

func TestCompoundVerbForms(t *testing.T) {
	s := newSelector(&lexicon.Tables{
		Intransitive: []models.WordRecord{{Word: "骑/马", Vowel: "a"}},
	})

	tests := []struct {
		tag  grammar.Tag
		want string
	}{
		{grammar.TagResultative, "马骑得"},
		{grammar.TagProgressive, "骑着马"},
		{grammar.TagIntransitive, "骑马"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			got, err := s.Select(Context{Tag: tt.tag})
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Select(%s) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestSuffixInvariants(t *testing.T) {
	s := newSelector(&lexicon.Tables{
		Intransitive: []models.WordRecord{
			{Word: "骑/马", Vowel: "a"},
			{Word: "唱/歌", Vowel: "o"},
			{Word: "看/书", Vowel: "u"},
			{Word: "睡", Vowel: "ei"},
		},
	})

	for i := 0; i < 50; i++ {
		prog, err := s.Select(Context{Tag: grammar.TagProgressive, NeedsRhyme: true, Scheme: grammar.RhymeO})
		if err != nil {
			t.Fatalf("progressive failed: %v", err)
		}
		if !strings.Contains(prog, grammar.ProgressiveSuffix) {
			t.Errorf("progressive %q lacks %s", prog, grammar.ProgressiveSuffix)
		}

		res, err := s.Select(Context{Tag: grammar.TagResultative})
		if err != nil {
			t.Fatalf("resultative failed: %v", err)
		}
		if !strings.Contains(res, grammar.ResultativeSuffix) || strings.Contains(res, grammar.CompoundSeparator) {
			t.Errorf("resultative %q malformed", res)
		}

		simple, err := s.Select(Context{Tag: grammar.TagSimpleVerb})
		if err != nil {
			t.Fatalf("simple verb failed: %v", err)
		}
		if simple != "睡" {
			t.Errorf("simple verb = %q, want 睡", simple)
		}
	}
}

func TestRhymeFilter(t *testing.T) {
	s := newSelector(&lexicon.Tables{
		Nouns: []models.WordRecord{
			{Word: "月亮", Vowel: "ang"},
			{Word: "太阳", Vowel: "ang"},
			{Word: "花", Vowel: "a"},
			{Word: "云", Vowel: "en"},
		},
		Adjectives: []models.WordRecord{
			{Word: "美丽", Vowel: "i"},
		},
	})

	for i := 0; i < 50; i++ {
		got, err := s.Select(Context{Tag: grammar.TagNoun, NeedsRhyme: true, Scheme: grammar.RhymeAng})
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if got != "月亮" && got != "太阳" {
			t.Fatalf("rhyme-restricted noun %q does not rhyme with ang", got)
		}
	}

	// No adjective rhymes with ang: fall back to the whole pool
	got, err := s.Select(Context{Tag: grammar.TagAdjective, NeedsRhyme: true, Scheme: grammar.RhymeAng})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got != "美丽" {
		t.Errorf("fallback adjective = %q, want 美丽", got)
	}
}

func TestPropertyFilters(t *testing.T) {
	nouns := []models.WordRecord{
		{Word: "月亮", Vowel: "ang"},
		{Word: "春天", Vowel: "an", Property: PropertyTime},
		{Word: "故乡", Vowel: "ang", Property: PropertyPlace},
		{Word: "长安", Vowel: "an", Property: PropertyPlaceName},
		{Word: "姑娘", Vowel: "ang", Property: PropertyPerson},
		{Word: "李白", Vowel: "ai", Property: PropertyPersonName},
	}
	byWord := make(map[string]models.WordRecord)
	for _, n := range nouns {
		byWord[n.Word] = n
	}
	s := newSelector(&lexicon.Tables{Nouns: nouns})

	for i := 0; i < 100; i++ {
		loc, err := s.Select(Context{Tag: grammar.TagLocationNoun})
		if err != nil {
			t.Fatalf("location noun failed: %v", err)
		}
		if !locationProperties[byWord[loc].Property] {
			t.Errorf("location noun %q has property %q", loc, byWord[loc].Property)
		}

		person, err := s.Select(Context{Tag: grammar.TagPersonNoun, NeedsRhyme: true, Scheme: grammar.RhymeAi})
		if err != nil {
			t.Fatalf("person noun failed: %v", err)
		}
		if person != "李白" {
			t.Errorf("rhyming person noun = %q, want 李白", person)
		}
	}
}

func TestEmptyPools(t *testing.T) {
	s := newSelector(&lexicon.Tables{
		Nouns:        []models.WordRecord{{Word: "月亮", Vowel: "ang"}},
		Intransitive: []models.WordRecord{{Word: "骑/马", Vowel: "a"}},
	})

	for _, tag := range []grammar.Tag{grammar.TagLocationNoun, grammar.TagPersonNoun, grammar.TagSimpleVerb, grammar.TagAdjective} {
		if _, err := s.Select(Context{Tag: tag}); !errors.Is(err, ErrEmptyPool) {
			t.Errorf("Select(%s) error = %v, want ErrEmptyPool", tag, err)
		}
	}

	s = newSelector(&lexicon.Tables{
		Intransitive: []models.WordRecord{{Word: "睡", Vowel: "ei"}},
	})
	for _, tag := range []grammar.Tag{grammar.TagProgressive, grammar.TagResultative} {
		if _, err := s.Select(Context{Tag: tag}); !errors.Is(err, ErrEmptyPool) {
			t.Errorf("Select(%s) error = %v, want ErrEmptyPool", tag, err)
		}
	}

	got, err := s.Select(Context{Tag: grammar.TagSpecialWord})
	if err != nil || got != "" {
		t.Errorf("empty special word pool = (%q, %v), want empty string and no error", got, err)
	}
}

func TestUnsupportedTag(t *testing.T) {
	s := newSelector(&lexicon.Tables{})
	if _, err := s.Select(Context{Tag: "ZZ"}); !errors.Is(err, lexicon.ErrUnsupportedTag) {
		t.Errorf("error = %v, want ErrUnsupportedTag", err)
	}
}
