package pipeline

import "regexp"

// headingPattern matches ATX headings, with an optional closing sequence.
var headingPattern = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)

// headingTransformer levels headings against the fragment's base depth.
// An embedded fragment loses its first level-1 heading, which the caller
// already emitted, and continues the surrounding section numbering.
type headingTransformer struct{}

func (headingTransformer) Name() string { return "headings" }

func (headingTransformer) Transform(doc Document, run *Run) Document {
	out := make(Document, 0, len(doc))
	droppedTitle := false
	emitted := false

	for _, b := range doc {
		raw, ok := b.(Raw)
		if !ok {
			out = append(out, b)
			continue
		}
		m := headingPattern.FindStringSubmatch(raw.Line)
		if m == nil {
			out = append(out, b)
			continue
		}

		level := len(m[1])
		if run.embedded() && level == 1 && !droppedTitle {
			droppedTitle = true
			continue
		}

		h := Heading{Depth: run.BaseDepth + level - 1, Title: m[2]}
		if run.embedded() && !emitted {
			h.Counters = run.Counters.resets(h.Depth)
		}
		emitted = true
		run.Counters.Emit(h.Depth)
		out = append(out, h)
	}

	return out
}
