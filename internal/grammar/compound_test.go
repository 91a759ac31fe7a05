package grammar

import (
	"strings"
	"testing"
)

func TestCompoundForms(t *testing.T) {
	tests := []struct {
		word        string
		plain       string
		progressive string
		resultative string
	}{
		{"骑/马", "骑马", "骑着马", "马骑得"},
		{"唱/歌", "唱歌", "唱着歌", "歌唱得"},
		{"飞", "飞", "飞着", "飞得"},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := JoinPlain(tt.word); got != tt.plain {
				t.Errorf("JoinPlain = %q, want %q", got, tt.plain)
			}
			if got := Progressive(tt.word); got != tt.progressive {
				t.Errorf("Progressive = %q, want %q", got, tt.progressive)
			}
			if got := Resultative(tt.word); got != tt.resultative {
				t.Errorf("Resultative = %q, want %q", got, tt.resultative)
			}
		})
	}
}

func TestSplitCompound(t *testing.T) {
	stem, complement, ok := SplitCompound("看/书")
	if !ok || stem != "看" || complement != "书" {
		t.Fatalf("SplitCompound = (%q, %q, %v)", stem, complement, ok)
	}

	stem, complement, ok = SplitCompound("睡")
	if ok || stem != "睡" || complement != "" {
		t.Fatalf("SplitCompound without separator = (%q, %q, %v)", stem, complement, ok)
	}

	if strings.Contains(Resultative("看/书"), CompoundSeparator) {
		t.Error("resultative form must not contain the separator")
	}
}
