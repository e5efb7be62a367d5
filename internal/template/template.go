// Package template expands datasheet templates against a metadata mapping.
//
// Templates use the pandoc placeholder syntax: $key$ for substitution and
// $if(key)$...$else$...$endif$ for conditional blocks. Conditionals are
// expanded first, repeatedly, until the text stops changing. Placeholders are
// then replaced in a single scan, so substituted values are never rescanned
// and LaTeX math inside them survives.
package template

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	conditionalPattern = regexp.MustCompile(`(?s)\$if\(([^)]+)\)\$(.*?)(?:\$else\$(.*?))?\$endif\$`)
	placeholderPattern = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*\$`)
)

// maxPasses bounds conditional expansion for pathological inputs.
const maxPasses = 64

// Engine renders templates. The zero value inserts every value verbatim.
type Engine struct {
	// Escape, when set, is applied to the stringified value of every key
	// not listed in Raw.
	Escape func(string) string

	// Raw lists keys inserted without escaping, typically the document body.
	Raw []string
}

// New creates an Engine that escapes values with escape, except for the
// keys listed in raw.
func New(escape func(string) string, raw ...string) *Engine {
	return &Engine{Escape: escape, Raw: raw}
}

// Render expands conditionals and placeholders in tmpl. Placeholders naming
// keys absent from data are removed.
func (e *Engine) Render(tmpl string, data map[string]any) string {
	text := expandConditionals(tmpl, data)

	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := match[1 : len(match)-1]
		v, ok := data[key]
		if !ok || v == nil {
			return ""
		}
		s := Stringify(v)
		if e.Escape != nil && !slices.Contains(e.Raw, key) {
			s = e.Escape(s)
		}
		return s
	})
}

// Render expands tmpl with the zero Engine.
func Render(tmpl string, data map[string]any) string {
	var e Engine
	return e.Render(tmpl, data)
}

func expandConditionals(text string, data map[string]any) string {
	for range maxPasses {
		next := conditionalPattern.ReplaceAllStringFunc(text, func(match string) string {
			groups := conditionalPattern.FindStringSubmatch(match)
			if Truthy(data[strings.TrimSpace(groups[1])]) {
				return groups[2]
			}
			return groups[3]
		})
		if next == text {
			break
		}
		text = next
	}
	return text
}

// Truthy reports whether v counts as set: nil, empty strings and
// collections, false and numeric zero are false, everything else is true.
func Truthy(v any) bool {
	if v == nil {
		return false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}

// Stringify formats a metadata value for insertion. Integral floats keep one
// decimal place so "version: 1.0" renders as written.
func Stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return formatFloat(v, 64)
	case float32:
		return formatFloat(float64(v), 32)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bits int) string {
	if f == float64(int64(f)) {
		return strconv.FormatFloat(f, 'f', 1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
