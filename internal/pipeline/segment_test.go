package pipeline

import (
	"testing"
)

func TestSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"only newlines", "\n\n", nil},
		{"crlf", "a\r\nb\rc", []string{"a", "b", "c"}},
		{"byte order mark", "\ufeffa", []string{"a"}},
		{"trailing newlines", "a\n\nb\n\n", []string{"a", "", "b"}},
		{"decomposed accent", "Te\u0301cnicas", []string{"T\u00e9cnicas"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := Segment(tt.in)
			if len(doc) != len(tt.want) {
				t.Fatalf("len(doc) = %d, want %d", len(doc), len(tt.want))
			}
			for i, b := range doc {
				if raw := b.(Raw); raw.Line != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, raw.Line, tt.want[i])
				}
			}
		})
	}
}

func TestIndentWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want int
	}{
		{"x", 0},
		{"  x", 2},
		{"\tx", 4},
		{" \t x", 6},
	}
	for _, tt := range tests {
		if got := indentWidth(tt.line); got != tt.want {
			t.Errorf("indentWidth(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestLabelsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang string
		want string
	}{
		{"en", "Technical Specifications"},
		{"es", "Especificaciones Técnicas"},
		{"es-419", "Especificaciones Técnicas"},
		{"fr", "Technical Specifications"},
		{"", "Technical Specifications"},
		{"not a tag", "Technical Specifications"},
	}

	for _, tt := range tests {
		if got := LabelsFor(tt.lang).TableCaption; got != tt.want {
			t.Errorf("LabelsFor(%q).TableCaption = %q, want %q", tt.lang, got, tt.want)
		}
	}
}
