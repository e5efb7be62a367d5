package md2latex

import "errors"

// Sentinel errors for library operations.
var (
	ErrNoSources       = errors.New("no markdown sources to convert")
	ErrSourceNotFound  = errors.New("markdown source not found")
	ErrTemplateMissing = errors.New("template text is empty")
	ErrInvalidInput    = errors.New("invalid conversion input")

	// Asset loading errors.
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Compiler errors.
	ErrCompilerNotFound = errors.New("LaTeX compiler not found")
	ErrCompileFailed    = errors.New("LaTeX compilation failed")
	ErrCompileFatal     = errors.New("LaTeX compilation stopped on a fatal error")
	ErrPDFMissing       = errors.New("compiler produced no PDF")
	ErrPDFTooSmall      = errors.New("compiled PDF is too small")

	// Preview errors.
	ErrPreview = errors.New("HTML preview failed")
)
