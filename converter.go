package md2latex

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2latex/internal/assets"
	"github.com/alnah/go-md2latex/internal/escape"
	"github.com/alnah/go-md2latex/internal/fileutil"
	"github.com/alnah/go-md2latex/internal/pipeline"
	"github.com/alnah/go-md2latex/internal/preview"
	"github.com/alnah/go-md2latex/internal/template"
)

// defaultRawKeys are metadata keys inserted into the template unescaped:
// the body is already LaTeX, the others are paths, URLs or babel names.
var defaultRawKeys = []string{"body", "logo", "website", "babel_language"}

// Converter merges markdown sources into a templated LaTeX document.
// Create with NewConverter. A Converter is safe for concurrent use.
type Converter struct {
	cfg      converterConfig
	template string
	engine   *template.Engine
	preview  *preview.Renderer
}

// NewConverter creates a Converter and loads its template.
// Returns an error if the asset path is invalid or the template cannot be found.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			templateName: assets.DefaultTemplateName,
			rawKeys:      defaultRawKeys,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	text, err := c.loadTemplate()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrTemplateMissing
	}

	c.template = text
	c.engine = template.New(escape.Text, c.cfg.rawKeys...)
	c.preview = preview.NewRenderer()
	return c, nil
}

// loadTemplate resolves the template option: inline text first, then a file
// path, then a name served by the custom asset path or the embedded set.
func (c *Converter) loadTemplate() (string, error) {
	if c.cfg.templateText != nil {
		return *c.cfg.templateText, nil
	}

	name := c.cfg.templateName
	if fileutil.IsFilePath(name) {
		content, err := os.ReadFile(name) // #nosec G304 -- user-provided path
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
			}
			return "", fmt.Errorf("loading template file %q: %w", name, err)
		}
		return string(content), nil
	}

	resolver, err := assets.NewTemplateResolver(c.cfg.assetPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	content, err := resolver.LoadTemplate(name)
	if err != nil {
		if errors.Is(err, assets.ErrTemplateNotFound) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return "", fmt.Errorf("loading template %q: %w", name, err)
	}
	return content, nil
}

// Template returns the loaded template text.
func (c *Converter) Template() string {
	return c.template
}

// Convert merges the sources of input into a body, converts it and renders
// the template. Recovers from internal panics so one variant cannot crash
// its siblings.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	locators := assets.SearchLocators(input.Root, input.Lang, input.ImageDirs, input.ImageExtensions)
	counters := pipeline.NewSectionCounters()
	res := &Result{}

	var body strings.Builder
	converted := 0
	for _, src := range input.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		markdown, ok, err := readSource(input, src)
		if err != nil {
			return nil, err
		}
		if !ok {
			res.Notes = append(res.Notes, fmt.Sprintf("%s: source %s not found, section omitted", src.label(), src.sourcePath(input.Lang)))
			continue
		}

		if converted > 0 {
			body.WriteString("\n")
		}
		if src.NewPage {
			body.WriteString("\\clearpage\n\n")
		}
		if src.Title != "" {
			body.WriteString(pipeline.HeadingLaTeX(pipeline.DefaultBaseDepth, src.Title, counters))
			body.WriteString("\n\n")
		}

		out, err := pipeline.Convert(ctx, markdown, pipeline.Options{
			Lang:      input.Lang,
			BaseDepth: src.baseDepth(),
			Embedded:  src.Embedded,
			Counters:  counters,
			Locators:  locators,
			OutputDir: input.OutputDir,
		})
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", src.label(), err)
		}

		body.WriteString(out.LaTeX)
		for _, note := range out.Notes {
			res.Notes = append(res.Notes, src.label()+": "+note)
		}
		res.Images = appendUnique(res.Images, out.Images...)
		converted++
	}

	if converted == 0 {
		return nil, fmt.Errorf("%w: every source was skipped", ErrNoSources)
	}

	res.Body = strings.TrimRight(body.String(), "\n") + "\n"
	res.LaTeX = c.engine.Render(c.template, withBody(input.Metadata, res.Body))
	return res, nil
}

// Preview renders the merged markdown sources of input as a standalone HTML
// page, with image sources resolved through the same search directories.
func (c *Converter) Preview(ctx context.Context, input Input) (string, error) {
	if err := input.Validate(); err != nil {
		return "", err
	}

	var parts []string
	for _, src := range input.Sources {
		markdown, ok, err := readSource(input, src)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if src.Title != "" {
			parts = append(parts, "# "+src.Title)
		}
		parts = append(parts, markdown)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: every source was skipped", ErrNoSources)
	}

	title, _ := input.Metadata["title"].(string)
	page, err := c.preview.Render(ctx, strings.Join(parts, "\n\n"), preview.Options{
		Title:    title,
		Lang:     input.Lang,
		Locators: assets.SearchLocators(input.Root, input.Lang, input.ImageDirs, input.ImageExtensions),
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrPreview, err)
	}
	return page, nil
}

// readSource returns the markdown of src. A missing optional file reports
// ok=false; a missing required file is an error.
func readSource(input Input, src Source) (string, bool, error) {
	if src.Markdown != "" {
		return src.Markdown, true, nil
	}

	path := src.sourcePath(input.Lang)
	if !filepath.IsAbs(path) && input.Root != "" {
		path = filepath.Join(input.Root, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from project configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if src.Optional {
				return "", false, nil
			}
			return "", false, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return "", false, fmt.Errorf("reading %s: %w", src.label(), err)
	}
	return string(data), true, nil
}

// withBody copies meta and sets the body key, leaving the caller's map
// untouched.
func withBody(meta map[string]any, body string) map[string]any {
	data := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		data[k] = v
	}
	data["body"] = body
	return data
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
