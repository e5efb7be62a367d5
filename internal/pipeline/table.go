package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minTableLines = 3 // header, separator, one row

	// captionLookback is how many blocks before a table may hold its caption.
	captionLookback = 3
)

// captionPattern accepts both "**Table 1: text**" and "**Table 1:** text".
var captionPattern = regexp.MustCompile(`^\*\*(?:Table|Tabla)\s+\d+\s*:\s*(?:\*\*\s*)?(.+?)\s*(?:\*\*)?$`)

// tableTransformer claims runs of pipe table lines.
type tableTransformer struct{}

func (tableTransformer) Name() string { return "tables" }

func (tableTransformer) Transform(doc Document, run *Run) Document {
	out := make(Document, 0, len(doc))

	for i := 0; i < len(doc); i++ {
		end := i
		for end < len(doc) {
			raw, ok := doc[end].(Raw)
			if !ok || !isTableLine(raw.Line) {
				break
			}
			end++
		}
		if end-i < minTableLines {
			out = append(out, doc[i])
			continue
		}

		lines := make([]string, 0, end-i)
		for _, b := range doc[i:end] {
			lines = append(lines, b.(Raw).Line)
		}
		if len(splitRow(lines[0])) == 0 {
			out = append(out, doc[i:end]...)
			i = end - 1
			continue
		}

		var caption string
		out, caption = takeCaption(out)
		if caption == "" {
			caption = run.labels.TableCaption
		}
		out = append(out, parseTable(lines, caption, run))
		i = end - 1
	}

	return out
}

// isTableLine reports whether line looks like a pipe table row.
func isTableLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

// takeCaption searches the last few Raw blocks of out for a table caption.
// A match is removed from out.
func takeCaption(out Document) (Document, string) {
	for back := 1; back <= captionLookback && back <= len(out); back++ {
		idx := len(out) - back
		raw, ok := out[idx].(Raw)
		if !ok {
			break
		}
		if m := captionPattern.FindStringSubmatch(strings.TrimSpace(raw.Line)); m != nil {
			return append(out[:idx], out[idx+1:]...), m[1]
		}
	}
	return out, ""
}

// parseTable builds a Table from its source lines. The separator line is
// skipped unchecked; ragged rows are padded or truncated to the header.
func parseTable(lines []string, caption string, run *Run) Table {
	t := Table{Header: splitRow(lines[0]), Caption: caption}
	width := len(t.Header)

	for n, line := range lines[2:] {
		row := splitRow(line)
		if len(row) != width {
			run.Notef("table %q row %d has %d cells, header has %d", caption, n+1, len(row), width)
		}
		switch {
		case len(row) < width:
			row = append(row, make([]string, width-len(row))...)
		case len(row) > width:
			row = row[:width]
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

// splitRow splits a pipe row into trimmed cells. The empty cells outside
// the leading and trailing pipes are dropped; interior empty cells stay.
func splitRow(line string) []string {
	cells := strings.Split(strings.TrimSpace(line), "|")
	if len(cells) > 0 && strings.TrimSpace(cells[0]) == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// columnSpec returns the tabular environment and column specification for
// a table with n columns.
func columnSpec(n int) (env, spec string) {
	var col string
	switch {
	case n <= 2:
		col = "p{6cm}"
	case n == 3:
		col = "p{4cm}"
	case n == 4:
		col = "p{3cm}"
	case n == 5:
		col = "p{2.4cm}"
	default:
		return "tabularx", "|" + strings.Repeat("X|", n)
	}
	return "tabular", "|" + strings.Repeat(col+"|", max(n, 1))
}

// tableBegin renders the opening line of the tabular environment.
func tableBegin(n int) string {
	env, spec := columnSpec(n)
	if env == "tabularx" {
		return fmt.Sprintf(`\begin{tabularx}{\textwidth}{%s}`, spec)
	}
	return fmt.Sprintf(`\begin{tabular}{%s}`, spec)
}
