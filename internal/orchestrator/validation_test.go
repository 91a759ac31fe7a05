package orchestrator

import (
	"errors"
	"strings"
	"testing"

	"github.com/lamim/poetforge/internal/poet"
)

func TestValidatePoem(t *testing.T) {
	opts := poet.Options{Stanzas: 1, LinesPerStanza: 2}

	tests := []struct {
		name    string
		lines   []string
		wantErr bool
	}{
		{"valid", []string{"月下花开，", "风吹柳绿。"}, false},
		{"too few lines", []string{"月下花开，"}, true},
		{"empty line", []string{"月下花开，", ""}, true},
		{"too long", []string{"月下花开，", strings.Repeat("月", MaxLineRunes)}, true},
		{"just under limit", []string{"月下花开，", strings.Repeat("月", MaxLineRunes-1)}, false},
		{"undefined marker", []string{"月下undefined，", "风吹柳绿。"}, true},
		{"nil marker", []string{"<nil>，", "风吹柳绿。"}, true},
		{"unsplit compound", []string{"骑/马，", "风吹柳绿。"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePoem(&poet.Poem{Lines: tt.lines, Options: opts})
			if (err != nil) != tt.wantErr {
				t.Fatalf("validatePoem() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrRejected) {
				t.Errorf("error %v does not wrap ErrRejected", err)
			}
		})
	}
}
