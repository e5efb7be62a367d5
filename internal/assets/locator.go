package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

// DefaultSearchDirs is the default locator order, relative to the project
// root. {lang} is replaced with the document language.
var DefaultSearchDirs = []string{
	"assets",
	"media",
	"imgs",
	"pictures",
	"{lang}/images",
	"{lang}/assets",
	"docs/assets",
	"software/assets",
	"hardware/resources",
	"docs/resources",
	"docs",
	"images/resources",
	"images/custom",
	"images",
}

// ImageExtensions lists the file types considered by fuzzy matching.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".pdf"}

// referencePrefixes are stripped from image references before lookup.
var referencePrefixes = []string{"./", "resources/", "images/", "assets/", "media/"}

// Locator finds a concrete file for a normalized image reference.
type Locator interface {
	Locate(name string) (path string, ok bool)
}

// NormalizeReference strips the conventional asset prefixes from a raw image
// path, repeatedly, so "./images/assets/x.png" becomes "x.png".
func NormalizeReference(raw string) string {
	name := strings.TrimSpace(strings.ReplaceAll(raw, "\\", "/"))
	for {
		trimmed := name
		for _, prefix := range referencePrefixes {
			trimmed = strings.TrimPrefix(trimmed, prefix)
		}
		if trimmed == name {
			return name
		}
		name = trimmed
	}
}

// DirLocator searches a single directory tree.
type DirLocator struct {
	dir        string
	extensions []string
}

// NewDirLocator creates a DirLocator rooted at dir. A nil extension list
// uses ImageExtensions. Returns ErrInvalidBasePath if dir is not a readable
// directory.
func NewDirLocator(dir string, extensions []string) (*DirLocator, error) {
	absDir, err := resolveBaseDir(dir)
	if err != nil {
		return nil, err
	}
	if extensions == nil {
		extensions = ImageExtensions
	}
	return &DirLocator{dir: absDir, extensions: extensions}, nil
}

// Dir returns the resolved directory searched by the locator.
func (d *DirLocator) Dir() string {
	return d.dir
}

// Locate tries an exact relative match first, then a fuzzy stem match.
func (d *DirLocator) Locate(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if p, ok := d.exact(name); ok {
		return p, true
	}
	return d.fuzzy(name)
}

func (d *DirLocator) exact(name string) (string, bool) {
	candidate := filepath.Join(d.dir, filepath.FromSlash(name))
	if err := verifyPathContainment(d.dir, candidate); err != nil {
		return "", false
	}
	if !fileutil.FileExists(candidate) {
		return "", false
	}
	return candidate, true
}

// fuzzy walks the tree in lexical order and returns the first file whose
// lowercased stem contains the wanted stem, or is contained by it.
func (d *DirLocator) fuzzy(name string) (string, bool) {
	want := strings.ToLower(stem(path.Base(name)))
	if want == "" {
		return "", false
	}

	var found string
	_ = filepath.WalkDir(d.dir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !fileutil.HasExtension(p, d.extensions) {
			return nil
		}
		got := strings.ToLower(stem(entry.Name()))
		if got == "" {
			return nil
		}
		if strings.Contains(got, want) || strings.Contains(want, got) {
			found = p
			return fs.SkipAll
		}
		return nil
	})

	return found, found != ""
}

func stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

// Asset is a located image file.
type Asset struct {
	Path string
	// Prefix is prepended to the base name when the file is copied.
	Prefix string
}

// Name is the file name the asset takes in the output directory.
func (a Asset) Name() string {
	return a.Prefix + filepath.Base(a.Path)
}

// scopedLocator tags a language-specific directory. Its files are copied
// under a "<lang>_" prefix so variants sharing an output directory keep
// their own copies.
type scopedLocator struct {
	Locator
	prefix string
}

// Chain queries locators in order; the first success wins.
type Chain []Locator

// Resolve normalizes raw and returns the first located file. Returns
// ErrEmptyReference when raw normalizes to nothing and ErrImageNotFound
// when no locator has it.
func (c Chain) Resolve(raw string) (Asset, error) {
	name := NormalizeReference(raw)
	if name == "" {
		return Asset{}, fmt.Errorf("%w: %q", ErrEmptyReference, raw)
	}
	for _, loc := range c {
		if p, ok := loc.Locate(name); ok {
			a := Asset{Path: p}
			if scoped, ok := loc.(scopedLocator); ok {
				a.Prefix = scoped.prefix
			}
			return a, nil
		}
	}
	return Asset{}, fmt.Errorf("%w: %s", ErrImageNotFound, raw)
}

// SearchDir pairs a configured search directory with its expanded path.
type SearchDir struct {
	Name   string // as configured, {lang} unexpanded
	Path   string
	Exists bool
}

// Scoped reports whether the directory depends on the document language.
func (sd SearchDir) Scoped() bool {
	return strings.Contains(sd.Name, "{lang}")
}

// ExpandSearchDirs resolves configured directories against root for lang.
// A nil dirs list uses DefaultSearchDirs.
func ExpandSearchDirs(root, lang string, dirs []string) []SearchDir {
	if dirs == nil {
		dirs = DefaultSearchDirs
	}
	out := make([]SearchDir, 0, len(dirs))
	for _, d := range dirs {
		p := strings.ReplaceAll(d, "{lang}", lang)
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, filepath.FromSlash(p))
		}
		out = append(out, SearchDir{Name: d, Path: p, Exists: fileutil.DirExists(p)})
	}
	return out
}

// SearchLocators builds the locator chain for a project root and language.
// Directories that do not exist are skipped. Language-scoped directories
// tag their assets with a "<lang>_" copy prefix.
func SearchLocators(root, lang string, dirs, extensions []string) Chain {
	var chain Chain
	for _, sd := range ExpandSearchDirs(root, lang, dirs) {
		if !sd.Exists {
			continue
		}
		loc, err := NewDirLocator(sd.Path, extensions)
		if err != nil {
			continue
		}
		if sd.Scoped() && lang != "" {
			chain = append(chain, scopedLocator{Locator: loc, prefix: lang + "_"})
			continue
		}
		chain = append(chain, loc)
	}
	return chain
}

// Materialize copies the asset into outDir under a.Name() and returns that
// name. An up-to-date copy already in place is left untouched.
func Materialize(a Asset, outDir string) (string, error) {
	name := a.Name()
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return "", err
	}
	if _, err := fileutil.CopyFile(a.Path, filepath.Join(outDir, name)); err != nil {
		return "", err
	}
	return name, nil
}
