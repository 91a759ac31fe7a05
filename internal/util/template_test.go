package util

import (
	"strings"
	"testing"
)

func TestRenderTemplate_Basic(t *testing.T) {
	result, err := RenderTemplate("第{{.Number}}首", map[string]any{"Number": 7})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != "第7首" {
		t.Errorf("Expected '第7首', got '%s'", result)
	}
}

func TestRenderTemplate_Struct(t *testing.T) {
	data := struct {
		Title string
		Lines []string
	}{Title: "春", Lines: []string{"一", "二"}}

	result, err := RenderTemplate("{{.Title}}\n{{range .Lines}}{{.}}\n{{end}}", data)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != "春\n一\n二\n" {
		t.Errorf("Unexpected result: %q", result)
	}
}

func TestRenderTemplate_Errors(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data any
	}{
		{"invalid syntax", "Hello {{.Name", map[string]any{"Name": "x"}},
		{"missing key", "Hello {{.Name}}", map[string]any{}},
		{"call directive", "{{call .Fn}}", map[string]any{}},
		{"call with space", "{{ call .Fn }}", map[string]any{}},
		{"define directive", `{{define "x"}}y{{end}}`, nil},
		{"template directive", `{{template "x"}}`, nil},
		{"block directive", `{{block "x" .}}y{{end}}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderTemplate(tt.tmpl, tt.data); err == nil {
				t.Errorf("Expected error for %q", tt.tmpl)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hello..."},
		{"床前明月光", 2, "床前..."},
		{"", 3, ""},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
	if !strings.HasSuffix(TruncateString("abcdef", 3), "...") {
		t.Error("expected ellipsis")
	}
}
