// Package md2latex converts Markdown datasheet sources to LaTeX documents.
//
// # Quick Start
//
// Create a converter, convert the sources of one language variant, and
// write the result:
//
//	conv, err := md2latex.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, md2latex.Input{
//	    Lang:     "en",
//	    Root:     ".",
//	    Metadata: meta,
//	    Sources: []md2latex.Source{
//	        {Name: "hardware", Path: "hardware/README.md", Title: "HARDWARE DOCUMENTATION", Embedded: true},
//	    },
//	    OutputDir: "docs",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("docs/datasheet_en.tex", []byte(result.LaTeX), 0644)
//
// Degraded blocks (unresolved images, ragged table rows, skipped optional
// sources) do not fail the conversion; they are listed in result.Notes.
//
// # Conversion Pipeline
//
// Each source is segmented into typed blocks and transformed in a fixed order:
//
//  1. Fenced code blocks (lstlisting, long lines wrapped)
//  2. Headings (section depth relative to the source's base depth)
//  3. Images (located across search directories, copied, captioned figure)
//  4. Pipe tables (tabular or tabularx by column count)
//  5. Bullet and numbered lists (nested itemize and enumerate)
//  6. Paragraphs and inline spans via Goldmark (bold, italic, code, links)
//  7. Symbol and reserved character escaping
//
// Sources share section counters, so numbering continues across them. The
// merged body is inserted into the template as $body$ and every other
// metadata value is escaped before substitution.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := md2latex.NewConverter(
//	    md2latex.WithTemplate("datasheet"),
//	    md2latex.WithAssetPath("/path/to/custom/assets"),
//	)
//
// # Compilation
//
// Compiler runs a TeX engine over the written file, several passes so
// cross references settle:
//
//	comp := md2latex.NewCompiler("pdflatex", 3, 2*time.Minute)
//	res, err := comp.Compile(ctx, "docs/datasheet_en.tex")
//
// Compiler errors wrap ErrCompilerNotFound, ErrCompileFatal, ErrPDFMissing
// or ErrPDFTooSmall and can be checked with errors.Is.
//
// # Parallel Processing
//
// A Converter is safe for concurrent use. Use ResolvePoolSize to size a
// worker pool over language variants.
package md2latex
