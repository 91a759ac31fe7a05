package util

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// forbiddenDirectives are rejected in user supplied templates.
// call runs arbitrary functions; define/template/block pull in other templates.
var forbiddenDirectives = []string{"{{call", "{{define", "{{template", "{{block"}

// RenderTemplate renders a user supplied template string with data.
// Missing keys are an error rather than "<no value>".
func RenderTemplate(tmpl string, data any) (string, error) {
	compact := strings.ReplaceAll(tmpl, "{{- ", "{{")
	compact = strings.ReplaceAll(compact, "{{ ", "{{")
	for _, directive := range forbiddenDirectives {
		if strings.Contains(compact, directive) {
			return "", fmt.Errorf("template contains forbidden directive: %s", directive)
		}
	}

	t, err := template.New("poem").
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// TruncateString truncates a string to maxLen runes (Unicode-safe)
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
