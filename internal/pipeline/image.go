package pipeline

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-md2latex/internal/assets"
)

// imagePattern matches ![alt](path) with an optional "title".
var imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(\s*<?([^)\s>]+)>?(?:\s+"[^"]*")?\s*\)`)

const defaultImageWidth = `0.8\textwidth`

// imageWidths is tried in order against the lowercased resolved name; the
// first group with a matching keyword wins.
var imageWidths = []struct {
	keywords []string
	width    string
}{
	{[]string{"pinout", "pin_out", "diagram"}, `0.9\textwidth`},
	{[]string{"dimension", "size", "physical"}, `0.6\textwidth`},
	{[]string{"schematic", "circuit"}, `\textwidth`},
	{[]string{"block", "topology", "top", "btm"}, `0.7\textwidth`},
}

// imageTransformer splits image references out of Raw lines and resolves
// each one through the locator chain.
type imageTransformer struct{}

func (imageTransformer) Name() string { return "images" }

func (imageTransformer) Transform(doc Document, run *Run) Document {
	out := make(Document, 0, len(doc))

	for _, b := range doc {
		raw, ok := b.(Raw)
		// Images inside pipe table rows stay with their row.
		if !ok || isTableLine(raw.Line) {
			out = append(out, b)
			continue
		}

		matches := imagePattern.FindAllStringSubmatchIndex(raw.Line, -1)
		if matches == nil {
			out = append(out, b)
			continue
		}

		prev := 0
		for _, m := range matches {
			if before := raw.Line[prev:m[0]]; !isBlankLine(before) {
				out = append(out, Raw{Line: before})
			}
			alt := raw.Line[m[2]:m[3]]
			path := raw.Line[m[4]:m[5]]
			out = append(out, resolveImage(alt, path, run))
			prev = m[1]
		}
		if after := raw.Line[prev:]; !isBlankLine(after) {
			out = append(out, Raw{Line: after})
		}
	}

	return out
}

// resolveImage locates and materializes one reference. Failures degrade to
// an unresolved Image, rendered as a visible placeholder.
func resolveImage(alt, rawPath string, run *Run) Image {
	img := Image{Alt: alt, RawPath: rawPath, Placeholder: run.labels.ImageNotFound}

	asset, err := run.Locators.Resolve(rawPath)
	if err != nil {
		run.Notef("%v", err)
		return img
	}

	// Two files sharing a base name within one document get their parent
	// directory as an extra prefix.
	if prev, ok := run.copies[asset.Name()]; ok && prev != asset.Path {
		asset.Prefix = filepath.Base(filepath.Dir(asset.Path)) + "_" + asset.Prefix
	}
	run.copies[asset.Name()] = asset.Path

	name := asset.Name()
	if run.OutputDir != "" {
		copied, err := assets.Materialize(asset, run.OutputDir)
		if err != nil {
			run.Notef("image %s: copy failed: %v", rawPath, err)
			return img
		}
		name = copied
	}

	img.Name = name
	img.Width = imageWidth(filepath.Base(asset.Path))
	run.images = append(run.images, name)
	return img
}

func imageWidth(name string) string {
	lower := strings.ToLower(name)
	for _, group := range imageWidths {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.width
			}
		}
	}
	return defaultImageWidth
}

// figureLabel derives the \label key for an image name.
func figureLabel(name string) string {
	return "fig:" + strings.NewReplacer(".", "-", "_", "-", "/", "-").Replace(name)
}
