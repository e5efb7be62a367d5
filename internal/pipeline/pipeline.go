package pipeline

import (
	"context"
	"fmt"

	"github.com/alnah/go-md2latex/internal/assets"
	"github.com/alnah/go-md2latex/internal/escape"
)

// DefaultBaseDepth maps a level-1 markdown heading to \section.
const DefaultBaseDepth = 1

// Options configures the conversion of one markdown fragment.
type Options struct {
	// Lang selects the language-dependent labels ("en", "es", ...).
	Lang string

	// BaseDepth is the target depth of a level-1 markdown heading.
	BaseDepth int

	// Embedded marks a fragment nested under a heading the caller emits.
	// A BaseDepth above 1 implies it.
	Embedded bool

	// Counters is shared across the fragments of one document. Nil uses
	// fresh counters.
	Counters *SectionCounters

	// Locators resolve image references, in order.
	Locators assets.Chain

	// OutputDir receives copies of resolved images. Empty skips copying.
	OutputDir string

	// Labels overrides the labels derived from Lang.
	Labels *Labels
}

// Result is the converted fragment.
type Result struct {
	LaTeX  string
	Notes  []string // degraded blocks, in document order
	Images []string // materialized image names
}

// Transformer is one typed pass over the document.
type Transformer interface {
	Name() string
	Transform(doc Document, run *Run) Document
}

// Run carries per-conversion state shared by the transformers.
type Run struct {
	Options
	labels Labels
	notes  []string
	images []string
	copies map[string]string // output name -> source path
}

func newRun(opts Options) *Run {
	if opts.BaseDepth < 1 {
		opts.BaseDepth = DefaultBaseDepth
	}
	if opts.Counters == nil {
		opts.Counters = NewSectionCounters()
	}
	labels := LabelsFor(opts.Lang)
	if opts.Labels != nil {
		labels = *opts.Labels
	}
	return &Run{Options: opts, labels: labels, copies: map[string]string{}}
}

// Notef records a degraded block.
func (r *Run) Notef(format string, args ...any) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

// embedded reports whether the fragment sits under a caller-emitted heading.
func (r *Run) embedded() bool {
	return r.Embedded || r.BaseDepth > 1
}

// Transformers returns the passes in the order they must run: code first so
// fenced content is never read as markup, inline rendering last.
func Transformers() []Transformer {
	return []Transformer{
		codeTransformer{},
		headingTransformer{},
		imageTransformer{},
		tableTransformer{},
		listTransformer{},
		paragraphTransformer{},
		inlineTransformer{renderer: newInlineRenderer()},
	}
}

// Convert runs every pass over markdown, renders the document and applies
// the final escaping pass.
func Convert(ctx context.Context, markdown string, opts Options) (*Result, error) {
	run := newRun(opts)
	doc := Segment(markdown)

	for _, t := range Transformers() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc = t.Transform(doc, run)
	}

	return &Result{
		LaTeX:  escape.Lines(Render(doc)),
		Notes:  run.notes,
		Images: run.images,
	}, nil
}

// HeadingLaTeX renders a caller-emitted heading, such as a source's wrapper
// title, and records it in counters.
func HeadingLaTeX(depth int, title string, counters *SectionCounters) string {
	counters.Emit(depth)
	return renderHeading(Heading{Depth: depth, Title: escape.Text(title)})
}
