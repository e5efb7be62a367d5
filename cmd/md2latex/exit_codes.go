package main

import (
	"errors"
	"os"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/assets"
	"github.com/alnah/go-md2latex/internal/config"
	"github.com/alnah/go-md2latex/internal/metadata"
)

// Exit codes for md2latex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // All variants built
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitCompiler = 4 // TeX engine missing or failing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Compiler errors (exit 4)
	if errors.Is(err, md2latex.ErrCompilerNotFound) ||
		errors.Is(err, md2latex.ErrCompileFailed) ||
		errors.Is(err, md2latex.ErrCompileFatal) ||
		errors.Is(err, md2latex.ErrPDFMissing) ||
		errors.Is(err, md2latex.ErrPDFTooSmall) {
		return ExitCompiler
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2latex.ErrSourceNotFound) ||
		errors.Is(err, md2latex.ErrNoSources) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrImageSource) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, metadata.ErrUnsupportedFormat) ||
		errors.Is(err, metadata.ErrMetadataParse) ||
		errors.Is(err, metadata.ErrInvalidDate) ||
		errors.Is(err, md2latex.ErrInvalidInput) ||
		errors.Is(err, md2latex.ErrTemplateMissing) ||
		errors.Is(err, md2latex.ErrTemplateNotFound) ||
		errors.Is(err, md2latex.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnknownLocation) ||
		errors.Is(err, ErrUnsupportedImage) {
		return ExitUsage
	}

	return ExitGeneral
}
