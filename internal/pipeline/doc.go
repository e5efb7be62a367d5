// Package pipeline converts one markdown fragment into LaTeX.
//
// The fragment is segmented into a Document of Raw lines, then an ordered
// list of typed passes claims the lines each one owns:
//
//	code        fenced regions become CodeBlock (first, so their content is opaque)
//	headings    ATX headings become Heading, leveled against the base depth
//	images      image references become Image, resolved and copied
//	tables      pipe tables become Table, with an optional caption
//	lists       bullet and numbered lines become balanced List events
//	paragraphs  what is left is grouped into Paragraph
//	inline      emphasis, code spans and links are rendered to LaTeX
//
// Render emits the document and escape.Lines runs last over the result.
// Blocks that cannot be converted degrade visibly (image placeholders,
// padded table rows, force-closed code) and leave a note in Result.Notes.
//
// SectionCounters are shared by every fragment of one document so that
// embedded fragments continue the surrounding section numbering.
package pipeline
