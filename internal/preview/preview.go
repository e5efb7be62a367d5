// Package preview renders merged markdown sources to a standalone HTML page.
//
// The preview lets authors check structure and image resolution without a
// TeX installation. Code blocks are highlighted with chroma; image sources
// are rewritten through the same locator chain the LaTeX pipeline uses.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-md2latex/internal/assets"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// highlightStyle is the chroma style used for code blocks.
const highlightStyle = "github"

// pageTemplate wraps goldmark's fragment output in a complete HTML5 document.
const pageTemplate = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// baseCSS keeps tables and figures readable without external assets.
const baseCSS = `body{max-width:52rem;margin:2rem auto;padding:0 1rem;font-family:sans-serif;line-height:1.5}
table{border-collapse:collapse}th,td{border:1px solid #d0d7de;padding:.3rem .6rem}
img{max-width:100%}img.missing{outline:2px dashed #cf222e}
pre{padding:.6rem;overflow-x:auto}`

// Options configures one preview page.
type Options struct {
	Title    string
	Lang     string
	Locators assets.Chain
}

// Renderer converts markdown to a preview page using goldmark (pure Go).
type Renderer struct {
	md  goldmark.Markdown
	css string
}

// NewRenderer creates a Renderer with GFM extensions and syntax highlighting.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithXHTML(),
			// WithUnsafe is not used: raw HTML in sources is dropped.
		),
	)
	return &Renderer{md: md, css: baseCSS + "\n" + chromaCSS()}
}

// chromaCSS returns the stylesheet for class-based highlighting.
func chromaCSS() string {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return ""
	}
	return buf.String()
}

// Render converts markdown to a standalone HTML page. Goldmark does not
// support context natively, so conversion runs in a goroutine and the
// caller's context bounds the wait.
func (r *Renderer) Render(ctx context.Context, markdown string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	var body string
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		body = res.html
	}

	body, err := RewriteImages(body, opts.Locators)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}
	page := fmt.Sprintf(pageTemplate, html.EscapeString(lang), html.EscapeString(strings.TrimSpace(opts.Title)), body)
	return InjectCSS(page, r.css), nil
}
