package pipeline

import (
	"strings"
	"testing"
)

func TestSplitRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want []string
	}{
		{"| A | B | C |", []string{"A", "B", "C"}},
		{"|A|B", []string{"A", "B"}},
		{"| A |  | C |", []string{"A", "", "C"}},
		{"  | x |  ", []string{"x"}},
		{"|", []string{}},
	}

	for _, tt := range tests {
		got := splitRow(tt.line)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") || len(got) != len(tt.want) {
			t.Errorf("splitRow(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestTable_PaddingAndTruncation(t *testing.T) {
	t.Parallel()

	md := "| A | B | C |\n|---|---|---|\n| 1 | 2 |\n| 1 | 2 | 3 | 4 |"
	res := convert(t, md, Options{})

	if !strings.Contains(res.LaTeX, "1 & 2 &  \\\\\n") {
		t.Errorf("short row not padded:\n%s", res.LaTeX)
	}
	if !strings.Contains(res.LaTeX, "1 & 2 & 3 \\\\\n") {
		t.Errorf("long row not truncated:\n%s", res.LaTeX)
	}
	if len(res.Notes) != 2 {
		t.Errorf("Notes = %v, want one per ragged row", res.Notes)
	}
}

func TestTable_Captions(t *testing.T) {
	t.Parallel()

	table := "| A | B |\n|---|---|\n| 1 | 2 |"
	tests := []struct {
		name   string
		before string
		want   string
	}{
		{"bold caption", "**Table 2: Pin Map**\n", `\caption{Pin Map}`},
		{"bold label", "**Table 3:** Ratings\n\n", `\caption{Ratings}`},
		{"spanish label", "**Tabla 1: Pines**\n", `\caption{Pines}`},
		{"no caption", "Some text\n\n", `\caption{Technical Specifications}`},
		{"too far away", "**Table 9: Far**\n\n\n\n", `\caption{Technical Specifications}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := convert(t, tt.before+table, Options{})
			if !strings.Contains(res.LaTeX, tt.want) {
				t.Errorf("LaTeX missing %q:\n%s", tt.want, res.LaTeX)
			}
		})
	}
}

func TestTable_NeedsThreeLines(t *testing.T) {
	t.Parallel()

	res := convert(t, "| not | a table |\n|---|---|", Options{})
	if strings.Contains(res.LaTeX, `\begin{table}`) {
		t.Errorf("two lines should not form a table:\n%s", res.LaTeX)
	}
}

func TestTableBegin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cols int
		want string
	}{
		{1, `\begin{tabular}{|p{6cm}|}`},
		{2, `\begin{tabular}{|p{6cm}|p{6cm}|}`},
		{3, `\begin{tabular}{|p{4cm}|p{4cm}|p{4cm}|}`},
		{4, `\begin{tabular}{|p{3cm}|p{3cm}|p{3cm}|p{3cm}|}`},
		{5, `\begin{tabular}{|p{2.4cm}|p{2.4cm}|p{2.4cm}|p{2.4cm}|p{2.4cm}|}`},
		{6, `\begin{tabularx}{\textwidth}{|X|X|X|X|X|X|}`},
	}

	for _, tt := range tests {
		if got := tableBegin(tt.cols); got != tt.want {
			t.Errorf("tableBegin(%d) = %q, want %q", tt.cols, got, tt.want)
		}
	}
}

func TestTable_WideRendersTabularx(t *testing.T) {
	t.Parallel()

	md := "|a|b|c|d|e|f|\n|-|-|-|-|-|-|\n|1|2|3|4|5|6|"
	res := convert(t, md, Options{})
	if !strings.Contains(res.LaTeX, `\end{tabularx}`) {
		t.Errorf("wide table should close tabularx:\n%s", res.LaTeX)
	}
}
