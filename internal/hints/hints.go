// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a common CI environment variable is set.
func inCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForCompilerNotFound returns hints for a LaTeX engine missing from PATH.
// Detects CI/Docker environments and suggests the matching install route.
func ForCompilerNotFound(engine string) string {
	var hints []string

	if inCI() || IsInContainer() {
		hints = append(hints, "install texlive-latex-extra (Debian/Ubuntu) in the image")
	} else {
		hints = append(hints, "install a TeX distribution (TeX Live, MacTeX or MiKTeX)")
	}

	if os.Getenv("MD2LATEX_ENGINE") == "" && engine != "" {
		hints = append(hints, "set MD2LATEX_ENGINE or --engine if "+engine+" lives elsewhere")
	}
	hints = append(hints, "use --no-compile to only write the .tex file")

	return formatHints(hints)
}

// ForCompileFailure returns a hint for LaTeX runs that stopped on an error.
func ForCompileFailure(logPath string) string {
	if logPath == "" {
		return format("rerun with --verbose to print the compiler output")
	}
	return format("see " + logPath + " for the full compiler log")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2latex/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-md2latex") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTemplateNotFound returns hints for template not found errors.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForImageLocation returns hints for an unknown image location name.
func ForImageLocation(available []string) string {
	if len(available) == 0 {
		return format("configure images.searchDirs in md2latex.yaml")
	}
	return format("run 'md2latex images locations'; available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
