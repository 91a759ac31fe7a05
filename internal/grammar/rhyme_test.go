package grammar

import "testing"

func TestNormalizeRhymeScheme(t *testing.T) {
	tests := []struct {
		in   string
		want Rhyme
	}{
		{"ang", RhymeAng},
		{"  IANG ", RhymeAng},
		{"O", RhymeO},
		{"uo", RhymeO},
		{"e", RhymeO},
		{"z", RhymeZhi},
		{"ZH", RhymeZhi},
		{"zhi", RhymeZhi},
		{"ing", RhymeEng},
		{"ui", RhymeEi},
		{"", RhymeNone},
		{"xyz", RhymeNone},
	}

	for _, tt := range tests {
		if got := NormalizeRhymeScheme(tt.in); got != tt.want {
			t.Errorf("NormalizeRhymeScheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeRhymeSchemeIdempotent(t *testing.T) {
	inputs := []string{"O", "uo", "z", "Zh", " ian ", "ü", "er", "nonsense", ""}
	for key := range rhymeVariants {
		inputs = append(inputs, key)
	}

	for _, in := range inputs {
		once := NormalizeRhymeScheme(in)
		twice := NormalizeRhymeScheme(once.String())
		if once != twice {
			t.Errorf("normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestAllRhymesAreCanonical(t *testing.T) {
	for _, r := range AllRhymes {
		if !r.Valid() {
			t.Errorf("%q is not valid", r)
		}
		if got := NormalizeRhymeScheme(r.String()); got != r {
			t.Errorf("NormalizeRhymeScheme(%q) = %q, want itself", r, got)
		}
	}
	if RhymeNone.Valid() {
		t.Error("RhymeNone should not be a valid class")
	}
}
