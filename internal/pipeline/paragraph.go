package pipeline

import "strings"

// paragraphTransformer groups the remaining non-blank Raw lines into
// paragraphs and collapses runs of blank lines to one.
type paragraphTransformer struct{}

func (paragraphTransformer) Name() string { return "paragraphs" }

func (paragraphTransformer) Transform(doc Document, _ *Run) Document {
	out := make(Document, 0, len(doc))
	var para *Paragraph

	flush := func() {
		if para != nil {
			out = append(out, *para)
			para = nil
		}
	}

	for _, b := range doc {
		raw, ok := b.(Raw)
		switch {
		case !ok:
			flush()
			out = append(out, b)
		case isBlankLine(raw.Line):
			flush()
			if len(out) > 0 && !isBlank(out[len(out)-1]) {
				out = append(out, Raw{})
			}
		default:
			if para == nil {
				para = &Paragraph{}
			}
			para.Lines = append(para.Lines, strings.TrimSpace(raw.Line))
		}
	}
	flush()

	return out
}
