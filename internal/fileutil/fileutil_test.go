package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "datasheet_en.tex")

	if err := fileutil.WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestWriteFileAtomic_EmptyPath(t *testing.T) {
	t.Parallel()

	if err := fileutil.WriteFileAtomic("", nil, 0o644); !errors.Is(err, fileutil.ErrEmptyPath) {
		t.Errorf("error = %v, want ErrEmptyPath", err)
	}
}

// ---------------------------------------------------------------------------
// TestCopyFile - Asset materialization
// ---------------------------------------------------------------------------

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "pinout.png")
	dst := filepath.Join(dir, "out", "pinout.png")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	copied, err := fileutil.CopyFile(src, dst)
	if err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	if !copied {
		t.Error("first copy should report copied=true")
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "png-bytes" {
		t.Errorf("dst content = %q", got)
	}

	copied, err = fileutil.CopyFile(src, dst)
	if err != nil {
		t.Fatalf("second CopyFile() error = %v", err)
	}
	if copied {
		t.Error("up-to-date destination should not be copied again")
	}
}

func TestCopyFile_StaleDestinationReplaced(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	dst := filepath.Join(dir, "b.png")
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("newer content"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(src, later, later); err != nil {
		t.Fatal(err)
	}

	copied, err := fileutil.CopyFile(src, dst)
	if err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	if !copied {
		t.Error("stale destination should be replaced")
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "newer content" {
		t.Errorf("dst content = %q", got)
	}
}

func TestCopyFile_SameFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	copied, err := fileutil.CopyFile(path, path)
	if err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	if copied {
		t.Error("copying a file onto itself should be a no-op")
	}
}

func TestCopyFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		src     string
		dst     string
		wantErr error
	}{
		{"empty source", "", filepath.Join(dir, "x"), fileutil.ErrEmptyPath},
		{"directory source", dir, filepath.Join(dir, "x"), fileutil.ErrNotRegularFile},
		{"missing source", filepath.Join(dir, "missing.png"), filepath.Join(dir, "x"), os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := fileutil.CopyFile(tt.src, tt.dst)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CopyFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Path helpers
// ---------------------------------------------------------------------------

func TestHasExtension(t *testing.T) {
	t.Parallel()

	exts := []string{".png", ".jpg"}
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"dir/B.PNG", true},
		{"photo.jpeg", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := fileutil.HasExtension(tt.path, exts); got != tt.want {
			t.Errorf("HasExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true")
	}
	if !fileutil.DirExists(dir) {
		t.Error("DirExists(dir) = false")
	}
	if fileutil.DirExists(filepath.Join(dir, "nope")) {
		t.Error("DirExists(missing) = true")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"datasheet", false},
		{"my-template", false},
		{"./custom.tex", true},
		{"layout.tex", true},
		{"/abs/path.tex", true},
		{`C:\tpl\x.tex`, true},
		{"sub/dir", true},
	}
	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	if !fileutil.IsURL("https://example.com/a.png") {
		t.Error("https URL not detected")
	}
	if fileutil.IsURL("images/a.png") {
		t.Error("relative path detected as URL")
	}
}
