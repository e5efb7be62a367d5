package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/assets"
	"github.com/alnah/go-md2latex/internal/config"
	"github.com/alnah/go-md2latex/internal/fileutil"
	"github.com/alnah/go-md2latex/internal/hints"
	"github.com/alnah/go-md2latex/internal/metadata"
)

// Sentinel errors for build operations.
var (
	ErrWriteOutput    = errors.New("failed to write output file")
	ErrVariantsFailed = errors.New("variant build failed")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// defaultMetadataFile is read from the project root when no metadata file
// is configured.
const defaultMetadataFile = "project_metadata.yaml"

// logoCandidates are tried in order, each with every image extension.
var logoCandidates = []string{"hardware/resources/img/logo", "images/logo"}

// buildPlan is the resolved, read-only state shared by all variants.
type buildPlan struct {
	cfg       *config.Config
	root      string
	outputDir string
	metaPath  string
	logo      string // Copied logo file name, empty if none
	conv      *md2latex.Converter
	compiler  *md2latex.Compiler // nil when compilation is off
	preview   bool
	dumpDir   string
}

// VariantResult holds the outcome of one language variant.
type VariantResult struct {
	Lang     string
	TeXPath  string
	HTMLPath string
	PDF      *md2latex.CompileResult
	Notes    []string
	Err      error
	Duration time.Duration
}

// runBuild converts every configured language variant.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", ErrUsage, positional)
	}

	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	plan, err := prepareBuild(flags, env)
	if err != nil {
		return err
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Project root: %s\n", plan.root)
		fmt.Fprintf(env.Stderr, "Workers: %d\n", md2latex.ResolvePoolSize(plan.cfg.Workers))
	}

	if flags.watch {
		return watchAndBuild(ctx, flags, plan, env)
	}
	return buildOnce(ctx, plan, flags.common, env)
}

// buildOnce builds all variants and prints their results.
func buildOnce(ctx context.Context, plan *buildPlan, common commonFlags, env *Environment) error {
	results := buildVariants(ctx, plan, env)

	failed, firstErr := printResults(results, common.quiet, common.verbose, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d: %w", ErrVariantsFailed, failed, len(results), firstErr)
	}
	return nil
}

// loadProjectConfig resolves configuration with CLI flags > env vars >
// config file > defaults. Without an explicit name, md2latex.yaml is
// optional.
func loadProjectConfig(flags *buildFlags, env *envConfig) (*config.Config, error) {
	name := flags.common.config
	if name == "" {
		name = env.ConfigPath
	}

	var cfg *config.Config
	var err error
	if name != "" {
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg, err = config.LoadConfig(config.DefaultConfigName)
		switch {
		case errors.Is(err, config.ErrConfigNotFound):
			cfg = config.DefaultConfig()
		case err != nil:
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags to cfg.
func mergeFlags(flags *buildFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if len(flags.languages) > 0 {
		cfg.Languages = flags.languages
	}
	if flags.metadata != "" {
		cfg.Metadata = flags.metadata
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.templates.template != "" {
		cfg.Template = flags.templates.template
	}
	if flags.templates.assetPath != "" {
		cfg.AssetPath = flags.templates.assetPath
	}
	if flags.compile.engine != "" {
		cfg.Compile.Engine = flags.compile.engine
	}
	if flags.compile.attempts > 0 {
		cfg.Compile.Attempts = flags.compile.attempts
	}
	if flags.compile.timeout != "" {
		cfg.Compile.Timeout = flags.compile.timeout
	}
	if flags.compile.noCompile {
		disabled := false
		cfg.Compile.Enabled = &disabled
	}
	if flags.preview {
		cfg.Preview.Enabled = true
	}
}

// prepareBuild loads configuration and everything variants share: the
// converter, the compiler, the output directory and the logo.
func prepareBuild(flags *buildFlags, env *Environment) (*buildPlan, error) {
	cfg, err := loadProjectConfig(flags, loadEnvConfig())
	if err != nil {
		return nil, err
	}

	cwd, err := env.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	root := resolveRoot(cfg.Root, cwd)

	plan := &buildPlan{
		cfg:       cfg,
		root:      root,
		outputDir: resolvePath(root, cfg.Output.Dir),
		metaPath:  resolvePath(root, cfg.Metadata),
		preview:   cfg.Preview.Enabled,
		dumpDir:   flags.dumpMetadata,
	}
	if cfg.Metadata == "" {
		plan.metaPath = filepath.Join(root, defaultMetadataFile)
	}

	if err := os.MkdirAll(plan.outputDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	if plan.dumpDir != "" {
		if err := os.MkdirAll(plan.dumpDir, dirPermissions); err != nil {
			return nil, fmt.Errorf("%w: creating metadata directory: %v", ErrWriteOutput, err)
		}
	}

	plan.conv, err = newConverter(cfg, root)
	if err != nil {
		return nil, err
	}

	if cfg.Compile.IsEnabled() {
		timeout, err := cfg.Compile.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		plan.compiler = md2latex.NewCompiler(cfg.Compile.Engine, cfg.Compile.Attempts, timeout)
		if env.Runner != nil {
			plan.compiler.Runner = env.Runner
		}
	}

	plan.logo, err = copyLogo(root, plan.outputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: copying logo: %v", ErrWriteOutput, err)
	}

	return plan, nil
}

// newConverter creates the converter for cfg. Template and asset paths are
// resolved against the project root.
func newConverter(cfg *config.Config, root string) (*md2latex.Converter, error) {
	tmpl := cfg.Template
	if fileutil.IsFilePath(tmpl) {
		tmpl = resolvePath(root, tmpl)
	}
	opts := []md2latex.Option{md2latex.WithTemplate(tmpl)}
	if cfg.AssetPath != "" {
		opts = append(opts, md2latex.WithAssetPath(resolvePath(root, cfg.AssetPath)))
	}

	conv, err := md2latex.NewConverter(opts...)
	if err != nil {
		if errors.Is(err, md2latex.ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForTemplateNotFound(assets.NewEmbeddedLoader().Names()))
		}
		return nil, err
	}
	return conv, nil
}

// resolveRoot returns the configured root, or the project root detected
// from the working directory.
func resolveRoot(configured, cwd string) string {
	if configured != "" {
		return resolvePath(cwd, configured)
	}
	return detectProjectRoot(cwd)
}

// detectProjectRoot walks up from software/ or software/build/, where the
// build is usually started, to the repository root.
func detectProjectRoot(dir string) string {
	dir = filepath.Clean(dir)
	parent := filepath.Dir(dir)
	switch {
	case filepath.Base(dir) == "build" && filepath.Base(parent) == "software":
		return filepath.Dir(parent)
	case filepath.Base(dir) == "software":
		return parent
	default:
		return dir
	}
}

// resolvePath joins a relative p to base. Empty stays empty.
func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// copyLogo copies the first logo found into outDir and returns its name.
// No logo is not an error.
func copyLogo(root, outDir string) (string, error) {
	for _, base := range logoCandidates {
		for _, ext := range assets.ImageExtensions {
			src := filepath.Join(root, filepath.FromSlash(base)+ext)
			if fileutil.FileExists(src) {
				return assets.Materialize(assets.Asset{Path: src}, outDir)
			}
		}
	}
	return "", nil
}

// toSources converts configured sources to library sources.
func toSources(sources []config.Source) []md2latex.Source {
	out := make([]md2latex.Source, len(sources))
	for i, s := range sources {
		out[i] = md2latex.Source{
			Name:      s.Name,
			Markdown:  s.Content,
			Path:      s.Path,
			Title:     s.Title,
			BaseDepth: s.BaseDepth,
			Embedded:  s.Embedded,
			NewPage:   s.NewPage,
			Optional:  s.Optional,
		}
	}
	return out
}

// buildVariants builds the language variants concurrently. Variants share
// only the read-only plan and write distinct files.
func buildVariants(ctx context.Context, plan *buildPlan, env *Environment) []VariantResult {
	langs := plan.cfg.Languages
	if len(langs) == 0 {
		return nil
	}

	concurrency := min(md2latex.ResolvePoolSize(plan.cfg.Workers), len(langs))

	results := make([]VariantResult, len(langs))
	var wg sync.WaitGroup
	jobs := make(chan int, len(langs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = VariantResult{Lang: langs[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = buildVariant(ctx, plan, langs[idx], env)
			}
		}()
	}

	for i := range langs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// buildVariant converts, writes and compiles one language variant.
func buildVariant(ctx context.Context, plan *buildPlan, lang string, env *Environment) VariantResult {
	start := time.Now()
	result := VariantResult{Lang: lang}
	fail := func(err error) VariantResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	meta, notes, err := metadata.Load(plan.metaPath, lang, env.Now())
	if err != nil {
		return fail(fmt.Errorf("loading metadata: %w", err))
	}
	result.Notes = append(result.Notes, notes...)
	if logo, _ := meta["logo"].(string); logo == "" && plan.logo != "" {
		meta["logo"] = plan.logo
	}

	input := md2latex.Input{
		Lang:            lang,
		Sources:         toSources(plan.cfg.Sources),
		Metadata:        meta,
		Root:            plan.root,
		ImageDirs:       plan.cfg.Images.SearchDirs,
		ImageExtensions: plan.cfg.Images.Extensions,
		OutputDir:       plan.outputDir,
	}

	res, err := plan.conv.Convert(ctx, input)
	if err != nil {
		return fail(err)
	}
	result.Notes = append(result.Notes, res.Notes...)

	name := plan.cfg.OutputName(lang)
	result.TeXPath = filepath.Join(plan.outputDir, name+".tex")
	if err := fileutil.WriteFileAtomic(result.TeXPath, []byte(res.LaTeX), filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	if plan.preview {
		page, err := plan.conv.Preview(ctx, input)
		if err != nil {
			return fail(fmt.Errorf("writing preview: %w", err))
		}
		result.HTMLPath = filepath.Join(plan.outputDir, name+".html")
		if err := fileutil.WriteFileAtomic(result.HTMLPath, []byte(page), filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
	}

	if plan.dumpDir != "" {
		if err := metadata.WriteSnapshot(filepath.Join(plan.dumpDir, name+"_metadata.yaml"), meta); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
	}

	if plan.compiler != nil {
		pdf, err := plan.compiler.Compile(ctx, result.TeXPath)
		if err != nil {
			logPath := filepath.Join(plan.outputDir, name+".log")
			return fail(fmt.Errorf("%w%s", err, compileHint(err, plan.compiler.Engine, logPath)))
		}
		result.PDF = pdf
	}

	result.Duration = time.Since(start)
	return result
}

// compileHint selects the hint matching a compiler error.
func compileHint(err error, engine, logPath string) string {
	switch {
	case errors.Is(err, md2latex.ErrCompilerNotFound):
		return hints.ForCompilerNotFound(engine)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case fileutil.FileExists(logPath):
		return hints.ForCompileFailure(logPath)
	default:
		return hints.ForCompileFailure("")
	}
}

// printResults outputs variant results and returns the failure count and
// the first error.
func printResults(results []VariantResult, quiet, verbose bool, env *Environment) (int, error) {
	failed := 0
	var firstErr error

	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Lang, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			for _, note := range r.Notes {
				fmt.Fprintf(env.Stderr, "  note [%s]: %s\n", r.Lang, note)
			}
		} else if len(r.Notes) > 0 {
			fmt.Fprintf(env.Stderr, "%s: %d note(s), use --verbose to list them\n", r.Lang, len(r.Notes))
		}

		fmt.Fprintf(env.Stdout, "Created %s\n", r.TeXPath)
		if r.HTMLPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.HTMLPath)
		}
		if r.PDF != nil {
			if verbose {
				fmt.Fprintf(env.Stdout, "Created %s (%s, %d passes, %v)\n", r.PDF.PDFPath, humanize.Bytes(uint64(r.PDF.Size)), r.PDF.Passes, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Created %s (%s)\n", r.PDF.PDFPath, humanize.Bytes(uint64(r.PDF.Size)))
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	return failed, firstErr
}
