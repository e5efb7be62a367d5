package md2latex

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-md2latex/internal/pipeline"
)

// LangPlaceholder in a source path is replaced with Input.Lang.
const LangPlaceholder = "{lang}"

// MaxBaseDepth is the deepest numbered section a source can start at.
const MaxBaseDepth = 3

// Source is one markdown fragment of the document body. Either Markdown or
// Path is set; Path is read relative to Input.Root.
type Source struct {
	Name     string // Used in notes (optional)
	Markdown string // Inline content
	Path     string // File to read when Markdown is empty; may contain {lang}

	// Title, when set, is emitted as a numbered section before the fragment.
	Title string

	// BaseDepth is the section depth of the fragment's level-1 headings
	// (0 = 1).
	BaseDepth int

	// Embedded drops the fragment's first level-1 heading, which Title or
	// the surrounding document replaces.
	Embedded bool

	NewPage  bool // Start on a new page
	Optional bool // A missing Path is a note instead of an error
}

// label names the source in notes and errors.
func (s Source) label() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Path != "":
		return s.Path
	default:
		return "inline"
	}
}

// Input contains the parameters of one document variant.
type Input struct {
	Lang    string   // BCP 47 code selecting labels and localized dates
	Sources []Source // Merged in order (required)

	// Metadata fills the template placeholders. The "body" key is set by
	// the converter.
	Metadata map[string]any

	// Root is the project root. Relative source paths and image search
	// directories are resolved against it.
	Root string

	// ImageDirs are searched in order for referenced images, relative to
	// Root and with {lang} substituted. Nil uses the default list.
	ImageDirs []string

	// ImageExtensions restricts fuzzy image matching. Nil uses the default.
	ImageExtensions []string

	// OutputDir receives copies of resolved images. Empty skips copying.
	OutputDir string
}

// Validate checks the input shape. It does not touch the filesystem.
func (in Input) Validate() error {
	if len(in.Sources) == 0 {
		return ErrNoSources
	}
	for i, s := range in.Sources {
		if s.Markdown == "" && s.Path == "" {
			return fmt.Errorf("%w: source %d (%s) has neither markdown nor path", ErrInvalidInput, i, s.label())
		}
		if s.BaseDepth < 0 || s.BaseDepth > MaxBaseDepth {
			return fmt.Errorf("%w: source %s: base depth %d (must be between 0 and %d)", ErrInvalidInput, s.label(), s.BaseDepth, MaxBaseDepth)
		}
	}
	return nil
}

// sourcePath returns the path of s for lang, without resolving Root.
func (s Source) sourcePath(lang string) string {
	return strings.ReplaceAll(s.Path, LangPlaceholder, lang)
}

// Result is one converted variant.
type Result struct {
	LaTeX  string   // Complete document, template applied
	Body   string   // Merged body, before templating
	Notes  []string // Degraded blocks and skipped sources, in order
	Images []string // Image names copied to OutputDir
}

// CompileResult describes a compiled PDF.
type CompileResult struct {
	PDFPath  string
	Size     int64
	Passes   int
	Duration time.Duration
}

// baseDepth returns the effective base depth of s.
func (s Source) baseDepth() int {
	if s.BaseDepth < 1 {
		return pipeline.DefaultBaseDepth
	}
	return s.BaseDepth
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	templateName string
	templateText *string
	assetPath    string
	rawKeys      []string
}

// WithTemplate selects the template by embedded name or file path.
// Panics if name is empty (programmer error).
func WithTemplate(name string) Option {
	if name == "" {
		panic("md2latex: WithTemplate name must not be empty")
	}
	return func(c *Converter) {
		c.cfg.templateName = name
	}
}

// WithTemplateText uses text as the template instead of loading one.
// Blank text makes NewConverter fail with ErrTemplateMissing.
func WithTemplateText(text string) Option {
	return func(c *Converter) {
		c.cfg.templateText = &text
	}
}

// WithAssetPath sets a directory whose templates/ subdirectory is searched
// before the embedded templates.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithRawKeys replaces the metadata keys inserted without escaping.
// The body key stays raw.
func WithRawKeys(keys ...string) Option {
	return func(c *Converter) {
		c.cfg.rawKeys = appendUnique([]string{"body"}, keys...)
	}
}
