package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-md2latex/internal/assets"
)

// writePNG creates a w x h PNG at path.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.String())
}

// ---------------------------------------------------------------------------
// TestRunImages - locations, list and add subcommands
// ---------------------------------------------------------------------------

func TestRunImages_Locations(t *testing.T) {
	t.Parallel()

	root, cfgPath := newProject(t, "languages: [es]\nimages:\n  searchDirs: [\"{lang}/images\", assets]\n")
	writeFile(t, filepath.Join(root, "assets", ".keep"), "")
	env := newTestEnv(root)

	if err := runImages([]string{"locations", "-c", cfgPath}, env.Environment); err != nil {
		t.Fatalf("runImages() error = %v", err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "lang=es") {
		t.Errorf("first configured language not used: %q", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], "{lang}/images") || !strings.Contains(lines[1], "missing") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "assets") || !strings.Contains(lines[2], " ok ") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestRunImages_List(t *testing.T) {
	t.Parallel()

	root, cfgPath := newProject(t, "images:\n  searchDirs: [assets, media]\n")
	writePNG(t, filepath.Join(root, "assets", "pinout.png"), 32, 16)
	writeFile(t, filepath.Join(root, "assets", "diagrams", "block.svg"), "<svg/>")
	writeFile(t, filepath.Join(root, "assets", "notes.txt"), "ignored")
	env := newTestEnv(root)

	if err := runImages([]string{"list", "-c", cfgPath}, env.Environment); err != nil {
		t.Fatalf("runImages() error = %v", err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "assets (2):") {
		t.Errorf("header missing: %q", out)
	}
	if !strings.Contains(out, "32x16") {
		t.Errorf("png dimensions missing: %q", out)
	}
	if strings.Index(out, "diagrams/block.svg") > strings.Index(out, "pinout.png") {
		t.Errorf("images not sorted: %q", out)
	}
	if strings.Contains(out, "notes.txt") {
		t.Errorf("non-image listed: %q", out)
	}
}

func TestRunImages_ListEmptyLocation(t *testing.T) {
	t.Parallel()

	root, cfgPath := newProject(t, "images:\n  searchDirs: [media]\n")
	env := newTestEnv(root)

	if err := runImages([]string{"list", "media", "-c", cfgPath}, env.Environment); err != nil {
		t.Fatalf("runImages() error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "directory does not exist") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestRunImages_Add(t *testing.T) {
	t.Parallel()

	root, cfgPath := newProject(t, "languages: [en]\nimages:\n  searchDirs: [\"{lang}/images\"]\n")
	src := filepath.Join(t.TempDir(), "Photo.JPG")
	writeFile(t, src, "jpeg")

	t.Run("with name", func(t *testing.T) {
		env := newTestEnv(root)
		if err := runImages([]string{"add", src, "en/images", "--name", "board", "-c", cfgPath}, env.Environment); err != nil {
			t.Fatalf("runImages() error = %v", err)
		}
		if !fileExists(filepath.Join(root, "en", "images", "board.jpg")) {
			t.Error("image not copied with the given name")
		}
		if !strings.Contains(env.stdout.String(), "![Description](board.jpg)") {
			t.Errorf("usage line missing: %q", env.stdout.String())
		}
	})

	t.Run("configured name", func(t *testing.T) {
		env := newTestEnv(root)
		if err := runImages([]string{"add", src, "{lang}/images", "-c", cfgPath}, env.Environment); err != nil {
			t.Fatalf("runImages() error = %v", err)
		}
		if !fileExists(filepath.Join(root, "en", "images", "Photo.JPG")) {
			t.Error("image not copied under its own name")
		}
	})
}

func TestRunImages_Errors(t *testing.T) {
	t.Parallel()

	root, cfgPath := newProject(t, "images:\n  searchDirs: [assets]\n")
	dir := t.TempDir()
	src := filepath.Join(dir, "board.png")
	writeFile(t, src, "png")
	doc := filepath.Join(dir, "board.docx")
	writeFile(t, doc, "docx")
	webp := filepath.Join(dir, "board.webp")
	writeFile(t, webp, "webp")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"missing source", []string{"add", filepath.Join(dir, "absent.png"), "assets"}, ErrImageSource},
		{"unsupported type", []string{"add", doc, "assets"}, ErrUnsupportedImage},
		{"webp not includable", []string{"add", webp, "assets"}, ErrUnsupportedImage},
		{"unknown location", []string{"add", src, "photos"}, ErrUnknownLocation},
		{"traversal name", []string{"add", src, "assets", "--name", "../board.png"}, assets.ErrInvalidAssetName},
		{"wrong arity", []string{"add", src}, ErrUsage},
		{"unknown subcommand", []string{"remove"}, ErrUnknownCommand},
		{"bad flag", []string{"list", "--bogus"}, ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(root)
			err := runImages(append(tt.args, "-c", cfgPath), env.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunImages_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t.TempDir())
	if err := runImages(nil, env.Environment); err != nil {
		t.Fatalf("runImages() error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Usage: md2latex images") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestImageDimensions_UnknownFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "block.svg")
	writeFile(t, path, "<svg/>")
	if w, h := imageDimensions(path); w != 0 || h != 0 {
		t.Errorf("imageDimensions() = %dx%d, want 0x0", w, h)
	}
}
