package md2latex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2latex/internal/process"
)

// Compiler defaults.
const (
	DefaultEngine   = "pdflatex"
	DefaultAttempts = 3
	DefaultTimeout  = 2 * time.Minute

	// MinPDFSize is the smallest output accepted as a real document.
	MinPDFSize = 1000

	// logTailSize bounds the compiler output carried by ErrCompileFatal.
	logTailSize = 800
)

// auxExtensions are removed next to the PDF after a successful compile.
var auxExtensions = []string{".aux", ".out", ".toc", ".lof", ".lot"}

// fatalMarkers in compiler output stop the remaining passes.
var fatalMarkers = []string{"Fatal error", "Emergency stop"}

// CommandRunner abstracts command execution to enable testing without real
// subprocesses. dir is the working directory of the command.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (output string, err error)
}

// ExecRunner implements CommandRunner using os/exec. On cancellation the
// whole process group is killed, so engine children do not linger.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- engine comes from configuration
	cmd.Dir = dir
	process.Configure(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.String(), err
}

// Compiler turns a .tex file into a PDF by running a TeX engine.
type Compiler struct {
	Engine   string
	Attempts int
	Timeout  time.Duration
	Runner   CommandRunner
}

// NewCompiler creates a Compiler with a real command runner. Zero values
// select the defaults.
func NewCompiler(engine string, attempts int, timeout time.Duration) *Compiler {
	if engine == "" {
		engine = DefaultEngine
	}
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Compiler{
		Engine:   engine,
		Attempts: attempts,
		Timeout:  timeout,
		Runner:   &ExecRunner{},
	}
}

// Compile runs the engine Attempts times in the directory of texPath, so
// cross references settle. A non-zero exit is tolerated as long as the PDF
// is produced; fatal markers in the output abort immediately.
func (c *Compiler) Compile(ctx context.Context, texPath string) (*CompileResult, error) {
	start := time.Now()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	dir := filepath.Dir(texPath)
	file := filepath.Base(texPath)
	stem := strings.TrimSuffix(file, filepath.Ext(file))

	attempts := max(c.Attempts, 1)
	passes := 0
	var lastOutput string
	for range attempts {
		output, err := c.Runner.Run(ctx, dir, c.Engine, "-interaction=nonstopmode", file)
		passes++
		lastOutput = output

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrCompileFailed, ctxErr)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCompilerNotFound, c.Engine)
		}
		if containsFatal(output) {
			return nil, fmt.Errorf("%w: %s\n%s", ErrCompileFatal, file, tail(output, logTailSize))
		}
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return nil, fmt.Errorf("%w: running %s: %v", ErrCompileFailed, c.Engine, err)
			}
		}
	}

	pdfPath := filepath.Join(dir, stem+".pdf")
	info, err := os.Stat(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s\n%s", ErrPDFMissing, pdfPath, tail(lastOutput, logTailSize))
	}
	if info.Size() <= MinPDFSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrPDFTooSmall, pdfPath, info.Size())
	}

	for _, ext := range auxExtensions {
		_ = os.Remove(filepath.Join(dir, stem+ext))
	}

	return &CompileResult{
		PDFPath:  pdfPath,
		Size:     info.Size(),
		Passes:   passes,
		Duration: time.Since(start),
	}, nil
}

func containsFatal(output string) bool {
	for _, marker := range fatalMarkers {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}

// tail returns the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
