package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/mattn/go-runewidth"
)

const (
	fence = "```"

	// textLanguage is the listings language for untagged or unknown code.
	textLanguage = "text"

	// Code lines wider than wrapColumn display columns are wrapped, after
	// the last break character found at column wrapMinColumn or later.
	wrapColumn    = 80
	wrapMinColumn = 60
	wrapIndent    = "    "
	breakChars    = " ,;(){}[]"
)

// listingLanguages are the languages the datasheet template defines for
// the listings package.
var listingLanguages = map[string]bool{
	"c":          true,
	"cpp":        true,
	"python":     true,
	"bash":       true,
	"yaml":       true,
	"javascript": true,
}

// codeTransformer claims fenced code regions.
type codeTransformer struct{}

func (codeTransformer) Name() string { return "code" }

func (codeTransformer) Transform(doc Document, run *Run) Document {
	out := make(Document, 0, len(doc))

	for i := 0; i < len(doc); i++ {
		raw, ok := doc[i].(Raw)
		if !ok || !isFence(raw.Line) {
			out = append(out, doc[i])
			continue
		}

		code := CodeBlock{Language: normalizeLanguage(fenceTag(raw.Line))}
		closed := false
		for i++; i < len(doc); i++ {
			inner, ok := doc[i].(Raw)
			if !ok {
				continue
			}
			if isFence(inner.Line) {
				closed = true
				break
			}
			code.Lines = append(code.Lines, wrapCodeLine(inner.Line)...)
		}
		if !closed {
			run.Notef("code block (%s) not terminated; closed at end of input", code.Language)
		}
		out = append(out, code)
	}

	return out
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), fence)
}

// fenceTag returns the info string's first word, without backtick runs.
func fenceTag(line string) string {
	info := strings.TrimLeft(strings.TrimSpace(line), "`")
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// normalizeLanguage maps a fence tag to a listings language. Aliases are
// resolved through chroma's lexer registry, so "py", "sh" or "c++" land on
// their canonical language; anything unsupported becomes text.
func normalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return textLanguage
	}
	if listingLanguages[tag] {
		return tag
	}

	lexer := lexers.Get(tag)
	if lexer == nil {
		return textLanguage
	}
	name := strings.ToLower(lexer.Config().Name)
	if name == "c++" {
		name = "cpp"
	}
	if listingLanguages[name] {
		return name
	}
	return textLanguage
}

// wrapCodeLine splits line into display-width-bounded pieces. Continuations
// are indented and lose their own leading whitespace.
func wrapCodeLine(line string) []string {
	var out []string
	for runewidth.StringWidth(line) > wrapColumn {
		cut := breakPoint(line)
		out = append(out, line[:cut])
		line = wrapIndent + strings.TrimLeft(line[cut:], " \t")
	}
	return append(out, line)
}

// breakPoint returns the byte offset to split at: just after the last break
// character starting in [wrapMinColumn, wrapColumn), or after the last rune
// that still fits in wrapColumn.
func breakPoint(line string) int {
	col := 0
	soft, hard := -1, 0
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		w := runewidth.RuneWidth(r)
		if col+w > wrapColumn {
			break
		}
		if col >= wrapMinColumn && strings.ContainsRune(breakChars, r) {
			soft = i + size
		}
		col += w
		i += size
		hard = i
	}
	if soft > 0 {
		return soft
	}
	if hard == 0 {
		// A single rune wider than the limit still has to move forward.
		_, size := utf8.DecodeRuneInString(line)
		return size
	}
	return hard
}
