package main

// Notes:
// - exitCodeFor: we test the sentinel errors of every package the CLI
//   surfaces, plus wrapped errors to verify the errors.Is chain.
// - Exit code constants: we verify Unix conventions and that custom codes
//   stay below 126.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/assets"
	"github.com/alnah/go-md2latex/internal/config"
	"github.com/alnah/go-md2latex/internal/metadata"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Compiler errors (exit 4)
		{"compiler not found", md2latex.ErrCompilerNotFound, ExitCompiler},
		{"compile failed", md2latex.ErrCompileFailed, ExitCompiler},
		{"compile fatal", md2latex.ErrCompileFatal, ExitCompiler},
		{"pdf missing", md2latex.ErrPDFMissing, ExitCompiler},
		{"pdf too small", md2latex.ErrPDFTooSmall, ExitCompiler},
		{"wrapped in variant failure", fmt.Errorf("%w: 1 of 2: %w", ErrVariantsFailed, md2latex.ErrCompileFatal), ExitCompiler},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"source not found", md2latex.ErrSourceNotFound, ExitIO},
		{"no sources", md2latex.ErrNoSources, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"image source", ErrImageSource, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"metadata format", metadata.ErrUnsupportedFormat, ExitUsage},
		{"metadata parse", metadata.ErrMetadataParse, ExitUsage},
		{"metadata date", metadata.ErrInvalidDate, ExitUsage},
		{"invalid input", md2latex.ErrInvalidInput, ExitUsage},
		{"template missing", md2latex.ErrTemplateMissing, ExitUsage},
		{"template not found", md2latex.ErrTemplateNotFound, ExitUsage},
		{"invalid asset path", md2latex.ErrInvalidAssetPath, ExitUsage},
		{"invalid asset name", assets.ErrInvalidAssetName, ExitUsage},
		{"usage", ErrUsage, ExitUsage},
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"unknown location", ErrUnknownLocation, ExitUsage},
		{"unsupported image", ErrUnsupportedImage, ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("boom"), ExitGeneral},
		{"variants failed alone", ErrVariantsFailed, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Conventions(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Error("standard exit codes changed")
	}
	for _, code := range []int{ExitIO, ExitCompiler} {
		if code >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", code)
		}
	}
}
