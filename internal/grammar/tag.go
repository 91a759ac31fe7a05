// Package grammar holds the closed vocabularies the poetry engine dispatches on:
// part-of-speech tags, rhyme classes and the splittable compound verb encoding.
package grammar

import (
	"strings"
	"unicode"
)

// Tag is a canonical part-of-speech slot code
type Tag string

const (
	TagNoun         Tag = "NN" // generic noun
	TagLocationNoun Tag = "NL" // time or place noun
	TagPersonNoun   Tag = "NP" // person noun
	TagIntransitive Tag = "VI" // plain intransitive verb
	TagSimpleVerb   Tag = "VS" // non-splittable intransitive verb
	TagProgressive  Tag = "VP" // splittable verb, stem + 着 + complement
	TagResultative  Tag = "VR" // splittable verb, complement + stem + 得
	TagTransitive   Tag = "VT"
	TagAdjective    Tag = "AJ"
	TagInterjection Tag = "IJ"
	TagSpecialWord  Tag = "SW"
)

// AllTags lists the closed tag set in a stable order
var AllTags = []Tag{
	TagNoun, TagLocationNoun, TagPersonNoun,
	TagIntransitive, TagSimpleVerb, TagProgressive, TagResultative,
	TagTransitive, TagAdjective, TagInterjection, TagSpecialWord,
}

// legacyAliases maps historical slot codes onto canonical tags.
// Keys are lower-case.
var legacyAliases = map[string]Tag{
	"n":            TagNoun,
	"noun":         TagNoun,
	"ln":           TagLocationNoun,
	"loc":          TagLocationNoun,
	"location":     TagLocationNoun,
	"pn":           TagPersonNoun,
	"per":          TagPersonNoun,
	"person":       TagPersonNoun,
	"v":            TagIntransitive,
	"iv":           TagIntransitive,
	"sv":           TagSimpleVerb,
	"simple":       TagSimpleVerb,
	"pv":           TagProgressive,
	"prog":         TagProgressive,
	"rv":           TagResultative,
	"res":          TagResultative,
	"tv":           TagTransitive,
	"adj":          TagAdjective,
	"a":            TagAdjective,
	"int":          TagInterjection,
	"interj":       TagInterjection,
	"sp":           TagSpecialWord,
	"special":      TagSpecialWord,
	"special_word": TagSpecialWord,
}

// Valid reports whether t belongs to the closed tag set
func (t Tag) Valid() bool {
	switch t {
	case TagNoun, TagLocationNoun, TagPersonNoun,
		TagIntransitive, TagSimpleVerb, TagProgressive, TagResultative,
		TagTransitive, TagAdjective, TagInterjection, TagSpecialWord:
		return true
	}
	return false
}

// String returns the canonical code
func (t Tag) String() string {
	return string(t)
}

// IsTagShaped reports whether a slot code looks like a part-of-speech tag rather
// than a literal fragment. Tags are made of ASCII letters (and underscores) only.
func IsTagShaped(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || r == '_') {
			return false
		}
	}
	return true
}

// NormalizeCode maps canonical codes and two-character codes with a lower-case
// initial (e.g. "vi", "nN") to their tag. Aliases are not consulted, so ASCII
// literals such as "a" stay literals.
func NormalizeCode(code string) (Tag, bool) {
	code = strings.TrimSpace(code)
	if t := Tag(code); t.Valid() {
		return t, true
	}
	if len(code) == 2 && code[0] >= 'a' && code[0] <= 'z' {
		if t := Tag(strings.ToUpper(code)); t.Valid() {
			return t, true
		}
	}
	return "", false
}

// ParseTag normalizes a slot code to its canonical tag at render time.
// It accepts everything NormalizeCode does plus the legacy aliases.
// ok is false for anything else.
func ParseTag(code string) (Tag, bool) {
	if t, ok := NormalizeCode(code); ok {
		return t, true
	}
	if t, ok := legacyAliases[strings.ToLower(strings.TrimSpace(code))]; ok {
		return t, true
	}
	return "", false
}
