package poet

import (
	"strings"

	"github.com/lamim/poetforge/internal/util"
)

// DefaultLayout prints the title, then stanzas separated by a blank line
const DefaultLayout = `{{if .Title}}{{.Title}}

{{end}}{{range $i, $stanza := .Stanzas}}{{if $i}}
{{end}}{{range $stanza}}{{.}}
{{end}}{{end}}`

// Poem is the output of one generation
type Poem struct {
	Lines   []string
	Options Options
}

// Stanzas groups the lines by stanza
func (p *Poem) Stanzas() [][]string {
	per := p.Options.LinesPerStanza
	if per < 1 {
		per = len(p.Lines)
	}
	var stanzas [][]string
	for start := 0; start < len(p.Lines); start += per {
		end := min(start+per, len(p.Lines))
		stanzas = append(stanzas, p.Lines[start:end])
	}
	return stanzas
}

// Text joins all lines with newlines, without a title
func (p *Poem) Text() string {
	return strings.Join(p.Lines, "\n")
}

type layoutData struct {
	Title   string
	Lines   []string
	Stanzas [][]string
	Options Options
}

// FormatPoem renders p with layout, or DefaultLayout when layout is empty
func FormatPoem(p *Poem, title, layout string) (string, error) {
	if layout == "" {
		layout = DefaultLayout
	}
	return util.RenderTemplate(layout, layoutData{
		Title:   title,
		Lines:   p.Lines,
		Stanzas: p.Stanzas(),
		Options: p.Options,
	})
}
