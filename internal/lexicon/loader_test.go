package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lamim/poetforge/internal/grammar"
)

const sampleTOML = `
[[nouns]]
word = "月亮"
vowel = "IANG"

[[nouns]]
word = "长安"
vowel = "an"
property = "Place-Name"

[[intransitive_verbs]]
word = "骑/马"
vowel = "a"

[[structures]]
limited_rhyme = "uo"
punctuation = "。"
elements = ["NN", "vi"]

[[structures]]
punctuation = "，"
elements = ["NL"]
`

const sampleYAML = `
nouns:
  - word: 月亮
    vowel: ang
adjectives:
  - word: 美丽
    vowel: i
special_words:
  - content: 忽然
    type: adverb
structures:
  - limited_rhyme: E
    punctuation: "，"
    elements: [NN, VI]
`

func TestParseTOML(t *testing.T) {
	tables, err := ParseTOML([]byte(sampleTOML))
	if err != nil {
		t.Fatalf("ParseTOML failed: %v", err)
	}

	if len(tables.Nouns) != 2 || len(tables.Intransitive) != 1 || len(tables.Structures) != 2 {
		t.Fatalf("unexpected table sizes: %v", tables.Counts())
	}
	if tables.Nouns[0].Vowel != "ang" {
		t.Errorf("vowel not normalized: got %q", tables.Nouns[0].Vowel)
	}
	if tables.Nouns[1].Property != "place-name" {
		t.Errorf("property not normalized: got %q", tables.Nouns[1].Property)
	}
	if tables.Structures[0].LimitedRhyme != "o" {
		t.Errorf("limited rhyme not normalized: got %q", tables.Structures[0].LimitedRhyme)
	}
	if tables.Structures[1].LimitedRhyme != grammar.AnyRhyme {
		t.Errorf("missing limited rhyme should be unrestricted, got %q", tables.Structures[1].LimitedRhyme)
	}
	if tables.Structures[0].Len() != 2 || tables.Structures[0].Elements[1] != "vi" {
		t.Errorf("elements not preserved: %v", tables.Structures[0].Elements)
	}
}

func TestParseYAML(t *testing.T) {
	tables, err := ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if len(tables.Adjectives) != 1 || len(tables.SpecialWords) != 1 {
		t.Fatalf("unexpected table sizes: %v", tables.Counts())
	}
	if tables.Structures[0].LimitedRhyme != grammar.CompoundSentinel {
		t.Errorf("compound sentinel lost: got %q", tables.Structures[0].LimitedRhyme)
	}
}

func TestParseRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "double separator",
			doc:  "[[intransitive_verbs]]\nword = \"a/b/c\"\n[[structures]]\nelements = [\"NN\"]\n",
			want: "separator",
		},
		{
			name: "too many elements",
			doc:  "[[structures]]\nelements = [" + strings.Repeat("\"NN\", ", 28) + "\"NN\"]\n",
			want: "maximum",
		},
		{
			name: "embedded empty element",
			doc:  "[[structures]]\nelements = [\"NN\", \"\", \"VI\"]\n",
			want: "left-packed",
		},
		{
			name: "no structures",
			doc:  "[[nouns]]\nword = \"花\"\n",
			want: "no sentence structures",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTOML([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "lexicon.toml")
	if err := os.WriteFile(tomlPath, []byte(sampleTOML), 0644); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "lexicon.yml")
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"", tomlPath, yamlPath} {
		store, err := Load(path, nil)
		if err != nil {
			t.Errorf("Load(%q) failed: %v", path, err)
			continue
		}
		if len(store.Templates()) == 0 {
			t.Errorf("Load(%q) returned no templates", path)
		}
	}

	if _, err := Load(filepath.Join(dir, "lexicon.json"), nil); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := Load(filepath.Join(dir, "missing.toml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
