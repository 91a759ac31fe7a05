package grammar

import "strings"

const (
	// CompoundSeparator splits a splittable verb into stem and complement
	CompoundSeparator = "/"
	// ProgressiveSuffix is inserted between stem and complement
	ProgressiveSuffix = "着"
	// ResultativeSuffix closes the inverted complement + stem form
	ResultativeSuffix = "得"
)

// SplitCompound splits "stem/complement". ok is false when the word carries no separator.
func SplitCompound(word string) (stem, complement string, ok bool) {
	stem, complement, ok = strings.Cut(word, CompoundSeparator)
	if !ok {
		return word, "", false
	}
	return stem, complement, true
}

// IsSplittable reports whether a word carries the compound separator
func IsSplittable(word string) bool {
	return strings.Contains(word, CompoundSeparator)
}

// JoinPlain removes the separator: "骑/马" → "骑马"
func JoinPlain(word string) string {
	stem, complement, _ := SplitCompound(word)
	return stem + complement
}

// Progressive renders stem + 着 + complement: "骑/马" → "骑着马".
// Words without a separator get the suffix appended.
func Progressive(word string) string {
	stem, complement, ok := SplitCompound(word)
	if !ok {
		return word + ProgressiveSuffix
	}
	return stem + ProgressiveSuffix + complement
}

// Resultative renders complement + stem + 得: "骑/马" → "马骑得"
func Resultative(word string) string {
	stem, complement, _ := SplitCompound(word)
	return complement + stem + ResultativeSuffix
}
