package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// templateFlags holds template selection flags.
type templateFlags struct {
	template  string // Embedded name or .tex path
	assetPath string // Directory with templates/<name>.tex overrides
}

// compileFlags holds TeX engine flags.
type compileFlags struct {
	engine    string
	attempts  int
	timeout   string
	noCompile bool
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common       commonFlags
	output       string
	languages    []string
	metadata     string
	workers      int
	templates    templateFlags
	compile      compileFlags
	preview      bool
	dumpMetadata string
	watch        bool
}

// imagesFlags holds flags for the images command.
type imagesFlags struct {
	common commonFlags
	name   string // Target file name for add
	lang   string // Language used to expand {lang} locations
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show notes and detailed timing")
}

// addTemplateFlags adds template flags to a FlagSet.
func addTemplateFlags(fs *flag.FlagSet, f *templateFlags) {
	fs.StringVar(&f.template, "template", "", "template name or .tex file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom template directory")
}

// addCompileFlags adds compiler flags to a FlagSet.
func addCompileFlags(fs *flag.FlagSet, f *compileFlags) {
	fs.StringVar(&f.engine, "engine", "", "TeX engine (pdflatex, xelatex, lualatex)")
	fs.IntVar(&f.attempts, "attempts", 0, "compiler passes per document (1-10)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "timeout per compiler pass (e.g., 90s, 2m)")
	fs.BoolVar(&f.noCompile, "no-compile", false, "only write the .tex files")
}

// newBuildFlagSet registers every build flag on a new FlagSet.
func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringSliceVarP(&f.languages, "lang", "l", nil, "languages to build (repeatable or comma-separated)")
	fs.StringVar(&f.metadata, "metadata", "", "metadata file (.yaml, .yml, .toml)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel variants (0 = auto)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addTemplateFlags(fs, &f.templates)
	addCompileFlags(fs, &f.compile)

	// Extra outputs
	fs.BoolVar(&f.preview, "preview", false, "also write an HTML preview")
	fs.StringVar(&f.dumpMetadata, "dump-metadata", "", "write the resolved metadata of each variant to this directory")
	fs.BoolVar(&f.watch, "watch", false, "rebuild when sources change")

	return fs
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newBuildFlagSet(f)
	fs.Usage = func() { printBuildUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseImagesFlags parses images command flags and returns positional args.
func parseImagesFlags(args []string) (*imagesFlags, []string, error) {
	fs := flag.NewFlagSet("images", flag.ContinueOnError)
	f := &imagesFlags{}

	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.name, "name", "n", "", "file name for the added image")
	fs.StringVarP(&f.lang, "lang", "l", "", "language for {lang} locations (default: first configured)")

	fs.Usage = func() { printImagesUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
