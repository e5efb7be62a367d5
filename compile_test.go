package md2latex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeRunner records invocations and simulates a TeX engine.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []string
	dirs    []string
	output  string
	err     error
	pdfSize int // bytes written to the PDF on each call, 0 = none
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	f.dirs = append(f.dirs, dir)

	if f.pdfSize > 0 {
		file := args[len(args)-1]
		stem := strings.TrimSuffix(file, filepath.Ext(file))
		if err := os.WriteFile(filepath.Join(dir, stem+".pdf"), make([]byte, f.pdfSize), 0o644); err != nil {
			return "", err
		}
		_ = os.WriteFile(filepath.Join(dir, stem+".aux"), []byte("aux"), 0o644)
	}
	return f.output, f.err
}

// writeTeX creates an empty .tex file in a fresh directory.
func writeTeX(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "datasheet_en.tex")
	if err := os.WriteFile(path, []byte(`\documentclass{article}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewCompiler_Defaults(t *testing.T) {
	t.Parallel()

	c := NewCompiler("", 0, 0)
	if c.Engine != DefaultEngine || c.Attempts != DefaultAttempts || c.Timeout != DefaultTimeout {
		t.Errorf("NewCompiler defaults = %+v", c)
	}
	if _, ok := c.Runner.(*ExecRunner); !ok {
		t.Errorf("Runner = %T, want *ExecRunner", c.Runner)
	}

	c = NewCompiler("xelatex", 1, time.Second)
	if c.Engine != "xelatex" || c.Attempts != 1 || c.Timeout != time.Second {
		t.Errorf("NewCompiler explicit = %+v", c)
	}
}

// ---------------------------------------------------------------------------
// TestCompile - Passes, result checks and error mapping
// ---------------------------------------------------------------------------

func TestCompile_Success(t *testing.T) {
	t.Parallel()

	texPath := writeTeX(t)
	runner := &fakeRunner{pdfSize: 4096}
	c := &Compiler{Engine: "pdflatex", Attempts: 3, Runner: runner}

	res, err := c.Compile(context.Background(), texPath)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	dir := filepath.Dir(texPath)
	if res.PDFPath != filepath.Join(dir, "datasheet_en.pdf") || res.Size != 4096 || res.Passes != 3 {
		t.Errorf("result = %+v", res)
	}
	if len(runner.calls) != 3 {
		t.Fatalf("calls = %d, want 3", len(runner.calls))
	}
	if runner.calls[0] != "pdflatex -interaction=nonstopmode datasheet_en.tex" {
		t.Errorf("command = %q", runner.calls[0])
	}
	for _, d := range runner.dirs {
		if d != dir {
			t.Errorf("working dir = %q, want %q", d, dir)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "datasheet_en.aux")); !os.IsNotExist(err) {
		t.Error("aux file should be removed after success")
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		runner    *fakeRunner
		wantErr   error
		wantCalls int
	}{
		{
			name:      "engine missing",
			runner:    &fakeRunner{err: fmt.Errorf("exec: %w", exec.ErrNotFound)},
			wantErr:   ErrCompilerNotFound,
			wantCalls: 1,
		},
		{
			name:      "fatal error stops passes",
			runner:    &fakeRunner{output: "! LaTeX Error: File `foo.sty' not found.\n! Emergency stop."},
			wantErr:   ErrCompileFatal,
			wantCalls: 1,
		},
		{
			name:      "no pdf",
			runner:    &fakeRunner{},
			wantErr:   ErrPDFMissing,
			wantCalls: 2,
		},
		{
			name:      "pdf too small",
			runner:    &fakeRunner{pdfSize: MinPDFSize},
			wantErr:   ErrPDFTooSmall,
			wantCalls: 2,
		},
		{
			name:      "runner failure",
			runner:    &fakeRunner{err: errors.New("pipe broken")},
			wantErr:   ErrCompileFailed,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &Compiler{Engine: "pdflatex", Attempts: 2, Runner: tt.runner}
			_, err := c.Compile(context.Background(), writeTeX(t))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if len(tt.runner.calls) != tt.wantCalls {
				t.Errorf("calls = %d, want %d", len(tt.runner.calls), tt.wantCalls)
			}
		})
	}
}

func TestCompile_NonZeroExitTolerated(t *testing.T) {
	t.Parallel()

	exitErr := exec.Command("false").Run()
	var ee *exec.ExitError
	if !errors.As(exitErr, &ee) {
		t.Skip("false(1) not available")
	}

	runner := &fakeRunner{output: "LaTeX Warning: Reference undefined", err: exitErr, pdfSize: 2048}
	c := &Compiler{Engine: "pdflatex", Attempts: 1, Runner: runner}

	if _, err := c.Compile(context.Background(), writeTeX(t)); err != nil {
		t.Errorf("Compile() error = %v, want success when the PDF exists", err)
	}
}

func TestCompile_FatalCarriesLogTail(t *testing.T) {
	t.Parallel()

	output := strings.Repeat("x", 2000) + "\n! Emergency stop."
	c := &Compiler{Engine: "pdflatex", Attempts: 1, Runner: &fakeRunner{output: output}}

	_, err := c.Compile(context.Background(), writeTeX(t))
	if !errors.Is(err, ErrCompileFatal) {
		t.Fatalf("error = %v, want ErrCompileFatal", err)
	}
	if !strings.HasSuffix(err.Error(), "! Emergency stop.") {
		t.Errorf("error should end with the log tail: %q", err.Error()[len(err.Error())-40:])
	}
	if len(err.Error()) > logTailSize+200 {
		t.Errorf("error carries %d bytes, want about %d", len(err.Error()), logTailSize)
	}
}

func TestCompile_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Compiler{Engine: "pdflatex", Attempts: 3, Runner: &fakeRunner{pdfSize: 4096}}
	_, err := c.Compile(ctx, writeTeX(t))
	if !errors.Is(err, context.Canceled) || !errors.Is(err, ErrCompileFailed) {
		t.Errorf("error = %v, want ErrCompileFailed wrapping context.Canceled", err)
	}
}

func TestTail(t *testing.T) {
	t.Parallel()

	if got := tail("abc", 5); got != "abc" {
		t.Errorf("tail short = %q", got)
	}
	if got := tail("abcdef", 2); got != "ef" {
		t.Errorf("tail long = %q", got)
	}
}
