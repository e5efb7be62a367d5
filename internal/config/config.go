package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/alnah/go-md2latex/internal/fileutil"
	"github.com/alnah/go-md2latex/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// DefaultConfigName is the bare name searched when no config is given.
const DefaultConfigName = "md2latex"

// LangPlaceholder is substituted with the variant's language in output
// names, source paths and image search directories.
const LangPlaceholder = "{lang}"

// Field length and range limits.
const (
	MaxPathLength     = 4096
	MaxNameLength     = 100
	MaxTitleLength    = 200
	MaxContentLength  = 1 << 20
	MaxLanguages      = 16
	MaxSources        = 64
	MaxSearchDirs     = 64
	MaxBaseDepth      = 3
	MaxCompileAttempt = 10
	MaxWorkers        = 32
	MaxTimeout        = 30 * time.Minute
)

// Defaults applied by DefaultConfig and by Normalize for zero fields.
const (
	DefaultOutputDir      = "docs"
	DefaultOutputName     = "datasheet_" + LangPlaceholder
	DefaultTemplate       = "datasheet"
	DefaultEngine         = "pdflatex"
	DefaultAttempts       = 3
	DefaultCompileTimeout = "2m"
)

// Config holds everything needed to build the datasheet variants of one
// project.
type Config struct {
	Root      string        `yaml:"root"`      // Project root (empty = detected from the working directory)
	Output    OutputConfig  `yaml:"output"`
	Languages []string      `yaml:"languages"` // One variant per language
	Template  string        `yaml:"template"`  // Embedded template name or path to a .tex file
	AssetPath string        `yaml:"assetPath"` // Directory with templates/<name>.tex overrides
	Metadata  string        `yaml:"metadata"`  // .yaml, .yml or .toml, relative to Root
	Sources   []Source      `yaml:"sources"`   // Merged in order
	Images    ImagesConfig  `yaml:"images"`
	Compile   CompileConfig `yaml:"compile"`
	Preview   PreviewConfig `yaml:"preview"`
	Workers   int           `yaml:"workers"` // 0 = automatic
}

// OutputConfig defines where variants are written.
type OutputConfig struct {
	Dir  string `yaml:"dir"`  // Relative to Root
	Name string `yaml:"name"` // File name without extension; may contain {lang}
}

// Source is one markdown fragment merged into the document body.
type Source struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`      // Relative to Root; may contain {lang}
	Content   string `yaml:"content"`   // Inline markdown instead of Path
	Title     string `yaml:"title"`     // Wrapper heading emitted before the fragment
	BaseDepth int    `yaml:"baseDepth"` // Target depth of a level-1 heading (0 = 1)
	Embedded  bool   `yaml:"embedded"`  // Drop the fragment's own title
	NewPage   bool   `yaml:"newPage"`   // Start the source on a new page
	Optional  bool   `yaml:"optional"`  // A missing file is a note, not an error
}

// ImagesConfig defines image lookup.
type ImagesConfig struct {
	SearchDirs []string `yaml:"searchDirs"` // Relative to Root, in priority order
	Extensions []string `yaml:"extensions"` // Fuzzy match candidates
}

// CompileConfig defines PDF compilation.
type CompileConfig struct {
	Enabled  *bool  `yaml:"enabled"`  // nil = true
	Engine   string `yaml:"engine"`   // Binary name or path
	Attempts int    `yaml:"attempts"` // Passes per document
	Timeout  string `yaml:"timeout"`  // Per-pass duration, e.g. "90s"
}

// PreviewConfig defines the HTML preview.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled"`
}

// IsEnabled reports whether compilation is on. It defaults to true.
func (c CompileConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// TimeoutDuration parses Timeout, falling back to the default.
func (c CompileConfig) TimeoutDuration() (time.Duration, error) {
	s := c.Timeout
	if s == "" {
		s = DefaultCompileTimeout
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: compile.timeout: %v", ErrInvalidValue, err)
	}
	return d, nil
}

// DefaultSources are the hardware and software READMEs of a product
// repository. Both are optional.
func DefaultSources() []Source {
	return []Source{
		{
			Name:     "hardware",
			Path:     "hardware/README.md",
			Title:    "HARDWARE DOCUMENTATION",
			Embedded: true,
			Optional: true,
		},
		{
			Name:     "software",
			Path:     "software/README.md",
			Title:    "SOFTWARE DOCUMENTATION",
			Embedded: true,
			NewPage:  true,
			Optional: true,
		},
	}
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills zero fields with their defaults. Explicit values are kept.
func (c *Config) Normalize() {
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Output.Name == "" {
		c.Output.Name = DefaultOutputName
	}
	if len(c.Languages) == 0 {
		c.Languages = []string{"en"}
	}
	if c.Template == "" {
		c.Template = DefaultTemplate
	}
	if len(c.Sources) == 0 {
		c.Sources = DefaultSources()
	}
	if c.Compile.Engine == "" {
		c.Compile.Engine = DefaultEngine
	}
	if c.Compile.Attempts == 0 {
		c.Compile.Attempts = DefaultAttempts
	}
	if c.Compile.Timeout == "" {
		c.Compile.Timeout = DefaultCompileTimeout
	}
}

// OutputName returns the output file stem for lang.
func (c *Config) OutputName(lang string) string {
	return strings.ReplaceAll(c.Output.Name, LangPlaceholder, lang)
}

// Validate checks lengths and ranges. Called automatically by LoadConfig,
// but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	for field, value := range map[string]string{
		"root":       c.Root,
		"output.dir": c.Output.Dir,
		"template":   c.Template,
		"assetPath":  c.AssetPath,
		"metadata":   c.Metadata,
	} {
		if err := validateFieldLength(field, value, MaxPathLength); err != nil {
			return err
		}
	}

	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLanguages(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateCompile(); err != nil {
		return err
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if err := validateFieldLength("output.name", c.Output.Name, MaxNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Output.Name, `/\`) {
		return fmt.Errorf("%w: output.name: must be a file name, got %q", ErrInvalidValue, c.Output.Name)
	}
	// Variants run in parallel and must not overwrite each other.
	if len(c.Languages) > 1 && c.Output.Name != "" && !strings.Contains(c.Output.Name, LangPlaceholder) {
		return fmt.Errorf("%w: output.name: must contain %s when building several languages", ErrInvalidValue, LangPlaceholder)
	}
	return nil
}

func (c *Config) validateLanguages() error {
	if len(c.Languages) > MaxLanguages {
		return fmt.Errorf("%w: languages: at most %d, got %d", ErrInvalidValue, MaxLanguages, len(c.Languages))
	}
	seen := make(map[string]bool, len(c.Languages))
	for i, lang := range c.Languages {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("%w: languages[%d]: %q is not a language tag", ErrInvalidValue, i, lang)
		}
		if seen[lang] {
			return fmt.Errorf("%w: languages[%d]: duplicate %q", ErrInvalidValue, i, lang)
		}
		seen[lang] = true
	}
	return nil
}

func (c *Config) validateSources() error {
	if len(c.Sources) > MaxSources {
		return fmt.Errorf("%w: sources: at most %d, got %d", ErrInvalidValue, MaxSources, len(c.Sources))
	}
	for i, s := range c.Sources {
		field := fmt.Sprintf("sources[%d]", i)
		if s.Name == "" {
			return fmt.Errorf("%w: %s.name: required", ErrInvalidValue, field)
		}
		if err := validateFieldLength(field+".name", s.Name, MaxNameLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".title", s.Title, MaxTitleLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".path", s.Path, MaxPathLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".content", s.Content, MaxContentLength); err != nil {
			return err
		}
		if (s.Path == "") == (s.Content == "") {
			return fmt.Errorf("%w: %s: exactly one of path or content is required", ErrInvalidValue, field)
		}
		if s.BaseDepth < 0 || s.BaseDepth > MaxBaseDepth {
			return fmt.Errorf("%w: %s.baseDepth: must be between 0 and %d, got %d", ErrInvalidValue, field, MaxBaseDepth, s.BaseDepth)
		}
	}
	return nil
}

func (c *Config) validateImages() error {
	if len(c.Images.SearchDirs) > MaxSearchDirs {
		return fmt.Errorf("%w: images.searchDirs: at most %d, got %d", ErrInvalidValue, MaxSearchDirs, len(c.Images.SearchDirs))
	}
	for i, dir := range c.Images.SearchDirs {
		if err := validateFieldLength(fmt.Sprintf("images.searchDirs[%d]", i), dir, MaxPathLength); err != nil {
			return err
		}
	}
	for i, ext := range c.Images.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: images.extensions[%d]: %q must start with a dot", ErrInvalidValue, i, ext)
		}
	}
	return nil
}

func (c *Config) validateCompile() error {
	if err := validateFieldLength("compile.engine", c.Compile.Engine, MaxPathLength); err != nil {
		return err
	}
	if c.Compile.Attempts < 0 || c.Compile.Attempts > MaxCompileAttempt {
		return fmt.Errorf("%w: compile.attempts: must be between 0 and %d, got %d", ErrInvalidValue, MaxCompileAttempt, c.Compile.Attempts)
	}
	d, err := c.Compile.TimeoutDuration()
	if err != nil {
		return err
	}
	if d <= 0 || d > MaxTimeout {
		return fmt.Errorf("%w: compile.timeout: must be between 0 and %s, got %s", ErrInvalidValue, MaxTimeout, d)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback). The result
// is normalized and validated.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.ReadFile(configPath, &cfg, true); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// SearchPaths lists the files tried for a bare config name, in order:
// the current directory, then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-md2latex", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
