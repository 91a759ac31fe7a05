package lexicon

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/lamim/poetforge/pkg/models"
)

// Word class names used in the words table
const (
	ClassNoun         = "noun"
	ClassIntransitive = "intransitive"
	ClassTransitive   = "transitive"
	ClassAdjective    = "adjective"
	ClassInterjection = "interjection"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	class TEXT NOT NULL,
	word TEXT NOT NULL,
	vowel TEXT NOT NULL DEFAULT '',
	property TEXT NOT NULL DEFAULT '',
	frequency INTEGER NOT NULL DEFAULT 0,
	note TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_words_class ON words(class);

CREATE TABLE IF NOT EXISTS special_words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS structures (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	limited_rhyme TEXT NOT NULL DEFAULT '*',
	compound_structure_count INTEGER NOT NULL DEFAULT 0,
	punctuation TEXT NOT NULL DEFAULT '',
	elements TEXT NOT NULL
);
`

// ReadSQLite loads lexicon tables from a SQLite database
func ReadSQLite(path string) (*Tables, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("lexicon database not found: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	t := &Tables{}
	byClass := map[string]*[]models.WordRecord{
		ClassNoun:         &t.Nouns,
		ClassIntransitive: &t.Intransitive,
		ClassTransitive:   &t.Transitive,
		ClassAdjective:    &t.Adjectives,
		ClassInterjection: &t.Interjections,
	}

	rows, err := db.Query("SELECT class, word, vowel, property, frequency, note FROM words ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var class string
		var w models.WordRecord
		if err := rows.Scan(&class, &w.Word, &w.Vowel, &w.Property, &w.Frequency, &w.Note); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		dst, ok := byClass[class]
		if !ok {
			return nil, fmt.Errorf("word %q has unknown class %q", w.Word, class)
		}
		*dst = append(*dst, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}

	specials, err := db.Query("SELECT content, type FROM special_words ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query special words: %w", err)
	}
	defer specials.Close()
	for specials.Next() {
		var sw models.SpecialWord
		if err := specials.Scan(&sw.Content, &sw.Type); err != nil {
			return nil, fmt.Errorf("failed to scan special word: %w", err)
		}
		t.SpecialWords = append(t.SpecialWords, sw)
	}
	if err := specials.Err(); err != nil {
		return nil, fmt.Errorf("failed to read special words: %w", err)
	}

	structs, err := db.Query("SELECT limited_rhyme, compound_structure_count, punctuation, elements FROM structures ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query structures: %w", err)
	}
	defer structs.Close()
	for structs.Next() {
		var e structureEntry
		var elementsJSON string
		if err := structs.Scan(&e.LimitedRhyme, &e.CompoundStructureCount, &e.Punctuation, &elementsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan structure: %w", err)
		}
		if err := json.Unmarshal([]byte(elementsJSON), &e.Elements); err != nil {
			return nil, fmt.Errorf("failed to decode structure elements: %w", err)
		}
		s, err := e.toStructure()
		if err != nil {
			return nil, fmt.Errorf("structure %d: %w", len(t.Structures), err)
		}
		t.Structures = append(t.Structures, s)
	}
	if err := structs.Err(); err != nil {
		return nil, fmt.Errorf("failed to read structures: %w", err)
	}

	if err := normalizeTables(t); err != nil {
		return nil, err
	}
	return t, nil
}

// WriteSQLite creates (or appends to) a SQLite lexicon database
func WriteSQLite(path string, t *Tables) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertWord, err := tx.Prepare("INSERT INTO words (class, word, vowel, property, frequency, note) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare word insert: %w", err)
	}
	defer insertWord.Close()

	classes := []struct {
		class string
		words []models.WordRecord
	}{
		{ClassNoun, t.Nouns},
		{ClassIntransitive, t.Intransitive},
		{ClassTransitive, t.Transitive},
		{ClassAdjective, t.Adjectives},
		{ClassInterjection, t.Interjections},
	}
	for _, c := range classes {
		for _, w := range c.words {
			if _, err := insertWord.Exec(c.class, w.Word, w.Vowel, w.Property, w.Frequency, w.Note); err != nil {
				return fmt.Errorf("failed to insert word %q: %w", w.Word, err)
			}
		}
	}

	for _, sw := range t.SpecialWords {
		if _, err := tx.Exec("INSERT INTO special_words (content, type) VALUES (?, ?)", sw.Content, sw.Type); err != nil {
			return fmt.Errorf("failed to insert special word %q: %w", sw.Content, err)
		}
	}

	for i, s := range t.Structures {
		elements, err := json.Marshal(s.Elements[:s.Len()])
		if err != nil {
			return fmt.Errorf("failed to encode structure %d: %w", i, err)
		}
		if _, err := tx.Exec("INSERT INTO structures (limited_rhyme, compound_structure_count, punctuation, elements) VALUES (?, ?, ?, ?)",
			s.LimitedRhyme, s.CompoundStructureCount, s.Punctuation, string(elements)); err != nil {
			return fmt.Errorf("failed to insert structure %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lexicon: %w", err)
	}
	return nil
}
