package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lamim/poetforge/pkg/models"
)

// Legacy CSV file names, one table per file. Every file starts with a header row.
const (
	LegacyNounsFile         = "nouns.csv"
	LegacyIntransitiveFile  = "intransitive_verbs.csv"
	LegacyTransitiveFile    = "transitive_verbs.csv"
	LegacyAdjectivesFile    = "adjectives.csv"
	LegacyInterjectionsFile = "interjections.csv"
	LegacySpecialWordsFile  = "special_words.csv"
	LegacyStructuresFile    = "structures.csv"
)

// ImportLegacyCSV converts a directory of legacy CSV tables into Tables.
// Word tables are optional; the structures table is required.
func ImportLegacyCSV(dir string) (*Tables, error) {
	t := &Tables{}

	wordFiles := []struct {
		name string
		dst  *[]models.WordRecord
	}{
		{LegacyNounsFile, &t.Nouns},
		{LegacyIntransitiveFile, &t.Intransitive},
		{LegacyTransitiveFile, &t.Transitive},
		{LegacyAdjectivesFile, &t.Adjectives},
		{LegacyInterjectionsFile, &t.Interjections},
	}
	for _, wf := range wordFiles {
		rows, err := readCSV(filepath.Join(dir, wf.name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			freq, err := atoiOrZero(row["frequency"])
			if err != nil {
				return nil, fmt.Errorf("%s row %d: invalid frequency: %w", wf.name, i+2, err)
			}
			*wf.dst = append(*wf.dst, models.WordRecord{
				Word:      row["word"],
				Vowel:     row["vowel"],
				Property:  row["property"],
				Frequency: freq,
				Note:      row["note"],
			})
		}
	}

	rows, err := readCSV(filepath.Join(dir, LegacySpecialWordsFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	for _, row := range rows {
		t.SpecialWords = append(t.SpecialWords, models.SpecialWord{Content: row["content"], Type: row["type"]})
	}

	rows, err = readCSV(filepath.Join(dir, LegacyStructuresFile))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		compound, err := atoiOrZero(row["compound_structure_count"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid compound_structure_count: %w", LegacyStructuresFile, i+2, err)
		}
		e := structureEntry{
			LimitedRhyme:           row["limited_rhyme"],
			CompoundStructureCount: compound,
			Punctuation:            row["punctuation"],
		}
		for n := 1; n <= models.TemplateCapacity; n++ {
			el := row["element"+strconv.Itoa(n)]
			if el == "" {
				break
			}
			e.Elements = append(e.Elements, el)
		}
		s, err := e.toStructure()
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", LegacyStructuresFile, i+2, err)
		}
		t.Structures = append(t.Structures, s)
	}

	if err := normalizeTables(t); err != nil {
		return nil, err
	}
	return t, nil
}

// readCSV returns the data rows of a CSV file keyed by lower-cased header
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", filepath.Base(path), err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
