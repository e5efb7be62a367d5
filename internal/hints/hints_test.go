package hints

// Notes:
// - ForCompilerNotFound tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable

import (
	"strings"
	"testing"
)

func TestForCompilerNotFound_InCI(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("CI", "true")
	t.Setenv("MD2LATEX_ENGINE", "")

	hint := ForCompilerNotFound("pdflatex")

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("expected hint prefix, got %q", hint)
	}
	if !strings.Contains(hint, "texlive-latex-extra") {
		t.Error("expected package suggestion in CI")
	}
	if !strings.Contains(hint, "MD2LATEX_ENGINE") {
		t.Error("expected engine variable suggestion")
	}
	if !strings.Contains(hint, "--no-compile") {
		t.Error("expected --no-compile suggestion")
	}
}

func TestForCompilerNotFound_InDocker(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("JENKINS_URL", "")

	if hint := ForCompilerNotFound("pdflatex"); !strings.Contains(hint, "texlive-latex-extra") {
		t.Errorf("expected package suggestion in Docker, got %q", hint)
	}
}

func TestForCompilerNotFound_Desktop(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("JENKINS_URL", "")
	t.Setenv("MD2LATEX_ENGINE", "/opt/tex/bin/pdflatex")

	hint := ForCompilerNotFound("pdflatex")
	if !strings.Contains(hint, "TeX Live") {
		t.Errorf("expected distribution suggestion, got %q", hint)
	}
	if strings.Contains(hint, "set MD2LATEX_ENGINE") {
		t.Error("engine variable already set, should not be suggested")
	}
}

func TestForCompileFailure(t *testing.T) {
	if hint := ForCompileFailure("docs/datasheet_en.log"); !strings.Contains(hint, "docs/datasheet_en.log") {
		t.Errorf("expected log path, got %q", hint)
	}
	if hint := ForCompileFailure(""); !strings.Contains(hint, "--verbose") {
		t.Errorf("expected --verbose suggestion, got %q", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
		},
		{
			name:     "with user config path",
			paths:    []string{"./md2latex.yaml", "~/.config/go-md2latex/md2latex.yaml"},
			contains: "go-md2latex/md2latex.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForTemplateNotFound(t *testing.T) {
	if hint := ForTemplateNotFound(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	if hint := ForTemplateNotFound([]string{"datasheet", "minimal"}); !strings.Contains(hint, "datasheet, minimal") {
		t.Errorf("unexpected hint %q", hint)
	}
}

func TestForImageLocation(t *testing.T) {
	if hint := ForImageLocation(nil); !strings.Contains(hint, "images.searchDirs") {
		t.Errorf("unexpected hint %q", hint)
	}
	if hint := ForImageLocation([]string{"assets", "media"}); !strings.Contains(hint, "assets, media") {
		t.Errorf("unexpected hint %q", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	hints := []string{
		ForTimeout(),
		ForOutputDirectory(),
		ForCompileFailure(""),
		ForImageLocation(nil),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
