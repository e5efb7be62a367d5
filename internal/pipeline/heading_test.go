package pipeline

import (
	"strings"
	"testing"
)

func TestHeadingPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line  string
		level int
		title string
	}{
		{"# Title", 1, "Title"},
		{"### Deep title ###", 3, "Deep title"},
		{"######\tSix", 6, "Six"},
		{"#NoSpace", 0, ""},
		{"####### seven", 0, ""},
		{"    # indented", 0, ""},
	}

	for _, tt := range tests {
		m := headingPattern.FindStringSubmatch(tt.line)
		if tt.level == 0 {
			if m != nil {
				t.Errorf("%q should not be a heading", tt.line)
			}
			continue
		}
		if m == nil || len(m[1]) != tt.level || m[2] != tt.title {
			t.Errorf("%q matched %q, want level %d title %q", tt.line, m, tt.level, tt.title)
		}
	}
}

func TestHeadingTransformer_Leveling(t *testing.T) {
	t.Parallel()

	md := "# A\n## B\n### C\n#### D"

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "top level",
			opts: Options{BaseDepth: 1},
			want: []string{`\section{A}`, `\subsection{B}`, `\subsubsection{C}`, `\textbf{D}`},
		},
		{
			name: "embedded one level down",
			opts: Options{BaseDepth: 2},
			want: []string{`\subsubsection{B}`, `\textbf{C}`, `\textbf{D}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Render(headingTransformer{}.Transform(Segment(md), newRun(tt.opts)))
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("missing %q in:\n%s", want, got)
				}
			}
			if tt.opts.BaseDepth > 1 && strings.Contains(got, "{A}") {
				t.Errorf("embedded title should be dropped:\n%s", got)
			}
		})
	}
}

func TestHeadingTransformer_EmbeddedCounters(t *testing.T) {
	t.Parallel()

	counters := NewSectionCounters()
	counters.Emit(1)
	counters.Emit(2)
	counters.Emit(3)
	counters.Emit(3)

	run := newRun(Options{BaseDepth: 2, Counters: counters})
	doc := headingTransformer{}.Transform(Segment("# Wrapper\n## First\n## Second"), run)

	if len(doc) != 2 {
		t.Fatalf("len(doc) = %d, want 2", len(doc))
	}
	first := doc[0].(Heading)
	want := []CounterSet{{"subsubsection", 2}}
	if len(first.Counters) != len(want) || first.Counters[0] != want[0] {
		t.Errorf("first.Counters = %v, want %v", first.Counters, want)
	}
	if second := doc[1].(Heading); second.Counters != nil {
		t.Errorf("second heading should not reset counters: %v", second.Counters)
	}
	if got := counters.Count(3); got != 4 {
		t.Errorf("Count(3) = %d, want 4", got)
	}
}

func TestHeadingTransformer_EmbeddedFlag(t *testing.T) {
	t.Parallel()

	run := newRun(Options{Embedded: true})
	doc := headingTransformer{}.Transform(Segment("# Dropped\n# Kept"), run)

	if len(doc) != 1 || doc[0].(Heading).Title != "Kept" {
		t.Errorf("doc = %#v", doc)
	}
}

func TestSectionCounters(t *testing.T) {
	t.Parallel()

	c := NewSectionCounters()
	c.Emit(1)
	c.Emit(2)
	c.Emit(2)
	c.Emit(3)
	c.Emit(1)
	c.Emit(9)

	if got := c.Count(1); got != 2 {
		t.Errorf("Count(1) = %d, want 2", got)
	}
	if got := c.Count(2); got != 0 {
		t.Errorf("Count(2) = %d, want 0 after new section", got)
	}
	if got := c.Count(0); got != 0 {
		t.Errorf("Count(0) = %d, want 0", got)
	}
	if sets := c.resets(4); sets != nil {
		t.Errorf("resets(4) = %v, want nil", sets)
	}
}

func TestHeadingLaTeX(t *testing.T) {
	t.Parallel()

	c := NewSectionCounters()
	got := HeadingLaTeX(1, "Hardware & Power", c)

	if got != `\section{Hardware \& Power}` {
		t.Errorf("HeadingLaTeX() = %q", got)
	}
	if c.Count(1) != 1 {
		t.Errorf("Count(1) = %d, want 1", c.Count(1))
	}
}
