// Package metadata builds the placeholder mapping of one datasheet variant.
//
// The mapping starts from built-in defaults, is overlaid with a YAML or TOML
// project metadata file and finally with the file's per-language section.
// Values are scalars; nested maps and lists are ignored except for the
// language sections.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/alnah/go-md2latex/internal/dateutil"
	"github.com/alnah/go-md2latex/internal/fileutil"
	"github.com/alnah/go-md2latex/internal/yamlutil"
)

// Sentinel errors for metadata operations.
var (
	ErrUnsupportedFormat = errors.New("unsupported metadata format")
	ErrMetadataParse     = errors.New("failed to parse metadata")
	ErrInvalidDate       = errors.New("invalid metadata date")
	ErrFileTooLarge      = errors.New("metadata file too large")
)

// MaxFileSize bounds metadata files of either format.
const MaxFileSize = 1 << 20

// wrapperKey is the optional top-level key holding the whole mapping.
const wrapperKey = "project_metadata"

// DefaultLanguage is assumed when no language is given.
const DefaultLanguage = "en"

// aliases lists, per canonical key, the file keys accepted for it in
// priority order.
var aliases = []struct {
	key     string
	sources []string
}{
	{"title", []string{"title", "product_title", "name"}},
	{"author", []string{"author", "company", "organization"}},
	{"product_sku", []string{"product_sku", "sku", "part_number"}},
	{"version", []string{"version", "product_version"}},
}

// Defaults returns the mapping used when no metadata file supplies a value.
func Defaults(lang string, now time.Time) map[string]any {
	if lang == "" {
		lang = DefaultLanguage
	}
	name := LanguageName(lang)

	return map[string]any{
		"title":           "Technical Datasheet",
		"subtitle":        "Technical Datasheet and Development Guide",
		"author":          "",
		"date":            dateutil.Format(now, "January 2006", lang),
		"version":         "1.0.0",
		"product_name":    "",
		"product_sku":     "",
		"language":        lang,
		"language_name":   name,
		"babel_language":  strings.ToLower(name),
		"copyright":       "",
		"logo":            "",
		"organization":    "",
		"division":        "",
		"contact":         "",
		"website":         "",
		"project_phase":   "Production",
		"hardware_status": "Released",
	}
}

// Load builds the mapping for lang. A missing file is not an error: the
// defaults are returned with a note. Malformed files and unresolvable dates
// are errors.
func Load(path, lang string, now time.Time) (map[string]any, []string, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	meta := Defaults(lang, now)
	var notes []string

	if path != "" {
		raw, err := readFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			notes = append(notes, fmt.Sprintf("metadata file %s not found; using defaults", path))
		case err != nil:
			return nil, nil, err
		default:
			apply(meta, raw, lang)
		}
	}

	if err := finalize(meta, lang, now); err != nil {
		return nil, nil, err
	}
	return meta, notes, nil
}

// readFile decodes path by extension and unwraps the optional wrapper key.
func readFile(path string) (map[string]any, error) {
	var raw map[string]any

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yamlutil.ReadFile(path, &raw, false); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrMetadataParse, path, err)
		}
	case ".toml":
		data, err := readLimited(path)
		if err != nil {
			return nil, err
		}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMetadataParse, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q (use .yaml, .yml or .toml)", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if wrapped, ok := asMap(raw[wrapperKey]); ok {
		return wrapped, nil
	}
	return raw, nil
}

func readLimited(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrFileTooLarge, path, info.Size(), MaxFileSize)
	}
	return os.ReadFile(path) // #nosec G304 -- path comes from user configuration
}

// apply overlays the file mapping, then the section for lang.
func apply(meta, raw map[string]any, lang string) {
	merge(meta, raw)
	if section, ok := languageSection(raw, lang); ok {
		merge(meta, section)
	}
}

// merge copies every scalar of src into dst and resolves the aliases.
// Empty values never overwrite.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if !isScalar(v) || isEmpty(v) {
			continue
		}
		dst[k] = v
	}
	for _, a := range aliases {
		for _, s := range a.sources {
			if v, ok := src[s]; ok && isScalar(v) && !isEmpty(v) {
				dst[a.key] = v
				break
			}
		}
	}
}

// languageSection returns the sub-map for lang, trying the full tag first
// and then its base language.
func languageSection(raw map[string]any, lang string) (map[string]any, bool) {
	if m, ok := asMap(raw[lang]); ok {
		return m, true
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, false
	}
	base, _ := tag.Base()
	return asMap(raw[base.String()])
}

// finalize fills the derived keys once every source has been merged.
func finalize(meta map[string]any, lang string, now time.Time) error {
	meta["language"] = lang

	switch d := meta["date"].(type) {
	case string:
		date, err := dateutil.ResolveDate(d, now, lang)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDate, err)
		}
		meta["date"] = date
	case time.Time:
		meta["date"] = dateutil.Format(d, "January 2, 2006", lang)
	}

	if isEmpty(meta["copyright"]) {
		meta["copyright"] = Copyright(now.Year(), fmt.Sprint(meta["author"]))
	}
	if isEmpty(meta["product_name"]) {
		meta["product_name"] = meta["title"]
	}
	return nil
}

// Copyright formats the default copyright line.
func Copyright(year int, holder string) string {
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return fmt.Sprintf("© %d. All rights reserved.", year)
	}
	return fmt.Sprintf("© %d %s. All rights reserved.", year, holder)
}

// LanguageName returns the English name of lang's base language, such as
// "Spanish" for "es-MX". Unparsable codes are returned upper-cased.
func LanguageName(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToUpper(lang)
	}
	base, _ := tag.Base()
	name := display.English.Languages().Name(language.Make(base.String()))
	if name == "" {
		return strings.ToUpper(lang)
	}
	return name
}

// Dump encodes the mapping as YAML.
func Dump(meta map[string]any) ([]byte, error) {
	return yamlutil.Marshal(meta)
}

// WriteSnapshot writes the YAML dump of meta to path atomically.
func WriteSnapshot(path string, meta map[string]any) error {
	data, err := Dump(meta)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int64, uint64, float64, time.Time,
		toml.LocalDate, toml.LocalDateTime:
		return true
	default:
		return false
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
