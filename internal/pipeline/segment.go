package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Line ending normalization.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Segment splits markdown into a document of Raw lines. Line endings are
// normalized to \n, a leading byte order mark is dropped and the text is
// brought to NFC so decomposed accents and symbols match the escaper maps.
func Segment(markdown string) Document {
	markdown = strings.TrimPrefix(markdown, "\ufeff")
	markdown = normalizeLineEndings(markdown)
	markdown = norm.NFC.String(markdown)
	markdown = strings.TrimRight(markdown, "\n")
	if markdown == "" {
		return nil
	}

	lines := strings.Split(markdown, "\n")
	doc := make(Document, len(lines))
	for i, line := range lines {
		doc[i] = Raw{Line: line}
	}
	return doc
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

func isBlankLine(s string) bool {
	return strings.TrimSpace(s) == ""
}

// indentWidth measures leading whitespace, counting a tab as four columns.
func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}
