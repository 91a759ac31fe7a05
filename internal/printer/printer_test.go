package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamim/poetforge/internal/poet"
	"github.com/lamim/poetforge/pkg/models"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestPoem(t *testing.T) {
	var buf bytes.Buffer
	Poem(&buf, "第3首", &poet.Poem{
		Lines:   []string{"一，", "二。", "三，", "四。"},
		Options: poet.Options{Stanzas: 2, LinesPerStanza: 2},
	})
	assert.Equal(t, "第3首\n\n一，\n二。\n\n三，\n四。\n", buf.String())
}

func TestPoemWithoutTitle(t *testing.T) {
	var buf bytes.Buffer
	Poem(&buf, "", &poet.Poem{Lines: []string{"一。"}, Options: poet.Options{Stanzas: 1, LinesPerStanza: 1}})
	assert.Equal(t, "一。\n", buf.String())
}

func TestRecord(t *testing.T) {
	var buf bytes.Buffer
	Record(&buf, models.PoemRecord{
		ID:             "abc",
		Number:         12,
		Title:          "第12首",
		Stanzas:        1,
		LinesPerStanza: 2,
		Lines:          []string{"一，", "二。"},
	})
	assert.Equal(t, "第12首\n\n一，\n二。\n#12 abc\n\n", buf.String())
}

func TestError(t *testing.T) {
	err := Error("Lexicon not found", "The lexicon file does not exist", []string{"Check --lexicon", "Omit it for the built-in lexicon"})
	require.Error(t, err)
	assert.Equal(t, "Lexicon not found", err.Error())
}
