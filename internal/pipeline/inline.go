package pipeline

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-md2latex/internal/escape"
)

// inlineRenderer converts inline markdown spans to LaTeX. Its parser knows
// only paragraphs, so block syntax that reaches it (quotes, rules, setext
// underlines) is kept as text instead of being reinterpreted.
type inlineRenderer struct {
	parser parser.Parser
}

func newInlineRenderer() *inlineRenderer {
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(parser.NewAutoLinkParser(), 300),
			util.Prioritized(parser.NewEmphasisParser(), 500),
			util.Prioritized(extension.NewLinkifyParser(), 999),
		),
	)
	return &inlineRenderer{parser: p}
}

// Render converts one span of inline markdown. Leading whitespace on each
// line is dropped so indentation is never read as structure.
func (r *inlineRenderer) Render(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, " \t")
	}
	src := []byte(strings.Join(lines, "\n"))

	doc := r.parser.Parse(text.NewReader(src))
	var b strings.Builder
	r.children(&b, doc, src)
	return strings.TrimRight(b.String(), "\n")
}

func (r *inlineRenderer) children(b *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.node(b, c, src)
	}
}

func (r *inlineRenderer) node(b *strings.Builder, n ast.Node, src []byte) {
	switch n := n.(type) {
	case *ast.Text:
		b.WriteString(escape.Text(string(util.UnescapePunctuations(n.Segment.Value(src)))))
		switch {
		case n.HardLineBreak():
			b.WriteString("\\\\\n")
		case n.SoftLineBreak():
			b.WriteByte('\n')
		}

	case *ast.String:
		b.WriteString(escape.Text(string(n.Value)))

	case *ast.Emphasis:
		cmd := `\textit{`
		if n.Level >= 2 {
			cmd = `\textbf{`
		}
		b.WriteString(cmd)
		r.children(b, n, src)
		b.WriteByte('}')

	case *ast.CodeSpan:
		b.WriteString(`\texttt{`)
		b.WriteString(escape.Literal(plainText(n, src)))
		b.WriteByte('}')

	case *ast.Link:
		b.WriteString(`\href{`)
		b.WriteString(escape.URL(string(n.Destination)))
		b.WriteString(`}{`)
		r.children(b, n, src)
		b.WriteByte('}')

	case *ast.AutoLink:
		url := string(n.URL(src))
		if n.AutoLinkType == ast.AutoLinkEmail {
			b.WriteString(`\href{mailto:` + escape.URL(url) + `}{` + escape.Text(url) + `}`)
			return
		}
		b.WriteString(`\url{` + escape.URL(url) + `}`)

	case *ast.Image:
		// Only reachable for images the image pass left inside table cells.
		r.children(b, n, src)

	default:
		r.children(b, n, src)
		if n.Type() == ast.TypeBlock && n.NextSibling() != nil {
			b.WriteByte('\n')
		}
	}
}

// plainText concatenates the literal text below n.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
		case *ast.String:
			b.Write(c.Value)
		default:
			b.WriteString(plainText(c, src))
		}
	}
	return b.String()
}

// inlineTransformer renders the inline markdown held by every block.
type inlineTransformer struct {
	renderer *inlineRenderer
}

func (inlineTransformer) Name() string { return "inline" }

func (t inlineTransformer) Transform(doc Document, _ *Run) Document {
	r := t.renderer
	out := make(Document, len(doc))

	for i, b := range doc {
		switch b := b.(type) {
		case Heading:
			b.Title = r.Render(b.Title)
			out[i] = b
		case Paragraph:
			out[i] = Paragraph{Lines: strings.Split(r.Render(strings.Join(b.Lines, "\n")), "\n")}
		case Table:
			b.Header = renderCells(r, b.Header)
			rows := make([][]string, len(b.Rows))
			for j, row := range b.Rows {
				rows[j] = renderCells(r, row)
			}
			b.Rows = rows
			b.Caption = r.Render(b.Caption)
			out[i] = b
		case List:
			events := make([]ListEvent, len(b.Events))
			for j, ev := range b.Events {
				ev.Text = r.Render(ev.Text)
				ev.Sub = renderCells(r, ev.Sub)
				events[j] = ev
			}
			out[i] = List{Events: events}
		case Image:
			b.Alt = r.Render(b.Alt)
			out[i] = b
		default:
			out[i] = b
		}
	}

	return out
}

func renderCells(r *inlineRenderer, cells []string) []string {
	if cells == nil {
		return nil
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = r.Render(c)
	}
	return out
}
