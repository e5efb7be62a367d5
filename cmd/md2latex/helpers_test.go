package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment, project tree and engine fakes
// ---------------------------------------------------------------------------

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	runner *fakeRunner
}

// newTestEnv returns an Environment rooted at dir with a fixed clock, a TeX
// engine found on PATH and a runner that produces a PDF.
func newTestEnv(dir string) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	runner := &fakeRunner{pdfSize: 4096}
	return &testEnv{
		Environment: &Environment{
			Now:      func() time.Time { return time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC) },
			Stdout:   stdout,
			Stderr:   stderr,
			Getwd:    func() (string, error) { return dir, nil },
			LookPath: func(file string) (string, error) { return "/usr/bin/" + file, nil },
			Runner:   runner,
		},
		stdout: stdout,
		stderr: stderr,
		runner: runner,
	}
}

// fakeRunner stands in for the TeX engine. Each run writes the PDF next to
// the .tex file unless err is set.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []string
	pdfSize int
	err     error
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	tex := args[len(args)-1]
	pdf := strings.TrimSuffix(tex, filepath.Ext(tex)) + ".pdf"
	if err := os.WriteFile(filepath.Join(dir, pdf), bytes.Repeat([]byte("%"), f.pdfSize), 0o644); err != nil {
		return "", err
	}
	return "Output written on " + pdf, nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// errEngineMissing mimics exec's lookup failure.
var errEngineMissing = &exec.Error{Name: "pdflatex", Err: exec.ErrNotFound}

// writeFile creates path with content, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newProject creates a product repository layout with a hardware README
// and a config file, and returns the root and the config path.
func newProject(t *testing.T, extraConfig string) (string, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hardware", "README.md"),
		"# Board\n\n## Pinout\n\nVCC is 3.3V.\n")
	writeFile(t, filepath.Join(root, "project_metadata.yaml"),
		"title: Probe\nproduct_name: ICP-10111\nversion: 2.1.0\n")

	cfgPath := filepath.Join(root, "md2latex.yaml")
	writeFile(t, cfgPath, "root: "+root+"\n"+extraConfig)
	return root, cfgPath
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// fileExists reports whether path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
