package models

const (
	// TemplateCapacity is the fixed number of slots in a sentence structure template
	TemplateCapacity = 27
	// WorkingCapacity is the fixed number of slots in an expanded working structure.
	// Compound expansion can grow a line past TemplateCapacity.
	WorkingCapacity = 30
)

// WordRecord is one lexicon entry
type WordRecord struct {
	Word      string `json:"word" toml:"word" yaml:"word"`                                  // May embed one "/" separating stem and complement
	Vowel     string `json:"vowel,omitempty" toml:"vowel" yaml:"vowel,omitempty"`          // Rhyme class, empty if none
	Property  string `json:"property,omitempty" toml:"property" yaml:"property,omitempty"` // Semantic tag (person, place, time, ...)
	Frequency int    `json:"frequency,omitempty" toml:"frequency" yaml:"frequency,omitempty"`
	Note      string `json:"note,omitempty" toml:"note" yaml:"note,omitempty"`
}

// SpecialWord is a free-standing word or phrase dropped into SW slots
type SpecialWord struct {
	Content string `json:"content" toml:"content" yaml:"content"`
	Type    string `json:"type,omitempty" toml:"type" yaml:"type,omitempty"`
}

// SentenceStructure is one line-shape template
type SentenceStructure struct {
	LimitedRhyme           string                   `json:"limited_rhyme"`
	CompoundStructureCount int                      `json:"compound_structure_count"`
	Punctuation            string                   `json:"punctuation"`
	Elements               [TemplateCapacity]string `json:"elements"`
}

// Len returns the number of real slots before the empty tail
func (s SentenceStructure) Len() int {
	for i, e := range s.Elements {
		if e == "" {
			return i
		}
	}
	return len(s.Elements)
}

// WorkingStructure is a template expanded for one stanza line
type WorkingStructure struct {
	CompoundStructureCount int                     `json:"compound_structure_count"`
	Punctuation            string                  `json:"punctuation"`
	Elements               [WorkingCapacity]string `json:"elements"`
	StanzaNeedsRhyme       bool                    `json:"stanza_needs_rhyme"`
}

// Len returns the number of real slots before the empty tail
func (w WorkingStructure) Len() int {
	for i, e := range w.Elements {
		if e == "" {
			return i
		}
	}
	return len(w.Elements)
}

// StructureFromSlice builds a template from a slot list, left-packing it.
// Returns false if the list exceeds TemplateCapacity.
func StructureFromSlice(limitedRhyme string, compoundCount int, punctuation string, elements []string) (SentenceStructure, bool) {
	s := SentenceStructure{
		LimitedRhyme:           limitedRhyme,
		CompoundStructureCount: compoundCount,
		Punctuation:            punctuation,
	}
	if len(elements) > TemplateCapacity {
		return s, false
	}
	copy(s.Elements[:], elements)
	return s, true
}
