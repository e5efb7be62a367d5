package pipeline

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2latex/internal/escape"
)

// Render emits LaTeX for a fully transformed document. The escaping pass is
// applied by the caller.
func Render(doc Document) string {
	var lines []string
	for _, b := range doc {
		lines = append(lines, renderBlock(b)...)
	}
	return strings.Join(lines, "\n")
}

func renderBlock(b Block) []string {
	switch b := b.(type) {
	case Raw:
		return []string{b.Line}
	case Heading:
		return strings.Split(renderHeading(b), "\n")
	case Paragraph:
		return b.Lines
	case List:
		return renderList(b)
	case Table:
		return renderTable(b)
	case CodeBlock:
		return renderCode(b)
	case Image:
		return renderImage(b)
	default:
		panic(fmt.Sprintf("pipeline: unknown block %T", b))
	}
}

func renderHeading(h Heading) string {
	var b strings.Builder
	for _, c := range h.Counters {
		fmt.Fprintf(&b, "\\setcounter{%s}{%d}\n", c.Name, c.Value)
	}
	if h.Depth >= 1 && h.Depth <= maxSectionDepth {
		fmt.Fprintf(&b, "\\%s{%s}", sectionNames[h.Depth], h.Title)
		return b.String()
	}
	// No numbered level left: bold run-in title and a paragraph break.
	fmt.Fprintf(&b, "\\textbf{%s}\n", h.Title)
	return b.String()
}

func renderList(l List) []string {
	var out []string
	for _, ev := range l.Events {
		env := "itemize"
		if ev.Ordered {
			env = "enumerate"
		}
		switch ev.Kind {
		case ListOpen:
			out = append(out, `\begin{`+env+`}`)
		case ListClose:
			out = append(out, `\end{`+env+`}`)
		case ListItem:
			out = append(out, `\item `+ev.Text)
			if len(ev.Sub) > 0 {
				out = append(out, `\begin{itemize}`)
				for _, s := range ev.Sub {
					out = append(out, `\item `+s)
				}
				out = append(out, `\end{itemize}`)
			}
		}
	}
	return out
}

func renderTable(t Table) []string {
	env, _ := columnSpec(len(t.Header))
	out := []string{
		`\begin{table}[H]`,
		`\centering`,
		`\small`,
		tableBegin(len(t.Header)),
		`\hline`,
		tableRow(t.Header),
		`\hline`,
	}
	for _, row := range t.Rows {
		out = append(out, tableRow(row))
	}
	return append(out,
		`\hline`,
		`\end{`+env+`}`,
		`\caption{`+t.Caption+`}`,
		`\end{table}`,
		"",
	)
}

func tableRow(cells []string) string {
	return strings.Join(cells, " & ") + ` \\`
}

func renderCode(c CodeBlock) []string {
	out := []string{
		`\vspace{0.3em}`,
		`\begin{lstlisting}[language=` + c.Language + `, basicstyle=\footnotesize\ttfamily, frame=single, breaklines=true]`,
	}
	out = append(out, c.Lines...)
	return append(out,
		`\end{lstlisting}`,
		`\vspace{0.3em}`,
	)
}

func renderImage(img Image) []string {
	if !img.Resolved() {
		return []string{fmt.Sprintf(`\textbf{[%s: \texttt{%s}]}`, img.Placeholder, escape.Literal(img.RawPath))}
	}
	return []string{
		`\begin{figure}[H]`,
		`\centering`,
		`\includegraphics[width=` + img.Width + `]{` + img.Name + `}`,
		`\caption{` + img.Alt + `}`,
		`\label{` + figureLabel(img.Name) + `}`,
		`\end{figure}`,
	}
}
