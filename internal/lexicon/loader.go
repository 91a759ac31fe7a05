package lexicon

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/lamim/poetforge/pkg/models"
)

//go:embed data/default.toml
var defaultLexicon []byte

// lexiconFile is the document layout shared by the TOML and YAML formats
type lexiconFile struct {
	Nouns         []models.WordRecord  `toml:"nouns" yaml:"nouns"`
	Intransitive  []models.WordRecord  `toml:"intransitive_verbs" yaml:"intransitive_verbs"`
	Transitive    []models.WordRecord  `toml:"transitive_verbs" yaml:"transitive_verbs"`
	Adjectives    []models.WordRecord  `toml:"adjectives" yaml:"adjectives"`
	Interjections []models.WordRecord  `toml:"interjections" yaml:"interjections"`
	SpecialWords  []models.SpecialWord `toml:"special_words" yaml:"special_words"`
	Structures    []structureEntry     `toml:"structures" yaml:"structures"`
}

func (f *lexiconFile) tables() (*Tables, error) {
	t := &Tables{
		Nouns:         f.Nouns,
		Intransitive:  f.Intransitive,
		Transitive:    f.Transitive,
		Adjectives:    f.Adjectives,
		Interjections: f.Interjections,
		SpecialWords:  f.SpecialWords,
	}
	for i, e := range f.Structures {
		s, err := e.toStructure()
		if err != nil {
			return nil, fmt.Errorf("structures[%d]: %w", i, err)
		}
		t.Structures = append(t.Structures, s)
	}
	if err := normalizeTables(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads a lexicon and returns an immutable snapshot of it.
// An empty path selects the built-in lexicon; otherwise the format is chosen
// by extension (.toml, .yaml/.yml, .db/.sqlite/.sqlite3).
func Load(path string, logger *slog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		tables *Tables
		err    error
		source = path
	)

	switch ext := strings.ToLower(filepath.Ext(path)); {
	case path == "":
		source = "built-in"
		tables, err = ParseTOML(defaultLexicon)
	case ext == ".toml":
		tables, err = readFile(path, ParseTOML)
	case ext == ".yaml" || ext == ".yml":
		tables, err = readFile(path, ParseYAML)
	case ext == ".db" || ext == ".sqlite" || ext == ".sqlite3":
		tables, err = ReadSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported lexicon format %q (want .toml, .yaml, .yml, .db or .sqlite)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon %s: %w", source, err)
	}

	logger.Info("Loaded lexicon", "source", source, "counts", tables.Counts())
	return NewSnapshot(tables), nil
}

// Default returns the built-in lexicon
func Default() (*Snapshot, error) {
	tables, err := ParseTOML(defaultLexicon)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in lexicon: %w", err)
	}
	return NewSnapshot(tables), nil
}

func readFile(path string, parse func([]byte) (*Tables, error)) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	return parse(data)
}

// ParseTOML decodes a TOML lexicon document
func ParseTOML(data []byte) (*Tables, error) {
	var f lexiconFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse TOML lexicon: %w", err)
	}
	return f.tables()
}

// ParseYAML decodes a YAML lexicon document
func ParseYAML(data []byte) (*Tables, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML lexicon: %w", err)
	}
	return f.tables()
}
