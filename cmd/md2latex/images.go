package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Decoders registered for dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2latex/internal/assets"
	"github.com/alnah/go-md2latex/internal/config"
	"github.com/alnah/go-md2latex/internal/fileutil"
	"github.com/alnah/go-md2latex/internal/hints"
)

// Sentinel errors for image management.
var (
	ErrUnknownLocation  = errors.New("unknown image location")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageSource      = errors.New("image source not found")
)

// addableExtensions are the file types images add accepts: those pdflatex
// can include.
var addableExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".pdf"}

// listedExtensions are the file types images list shows, including ones
// that must be converted before use.
var listedExtensions = append([]string{".bmp", ".tif", ".tiff", ".webp"}, addableExtensions...)

// imageInfo describes one listed image.
type imageInfo struct {
	Name   string
	Size   int64
	Width  int
	Height int // 0 when the format has no raster size (svg, pdf)
}

// imageContext is the resolved configuration of an images subcommand.
type imageContext struct {
	root string
	lang string
	dirs []assets.SearchDir
}

// runImages dispatches the images subcommands.
func runImages(args []string, env *Environment) error {
	flags, positional, err := parseImagesFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) == 0 {
		printImagesUsage(env.Stdout)
		return nil
	}

	ic, err := loadImageContext(flags, env)
	if err != nil {
		return err
	}

	switch positional[0] {
	case "locations":
		printLocations(env.Stdout, ic)
		return nil
	case "list":
		location := ""
		if len(positional) > 1 {
			location = positional[1]
		}
		return listImages(env.Stdout, ic, location)
	case "add":
		if len(positional) != 3 {
			return fmt.Errorf("%w: images add <src> <location> [--name N]", ErrUsage)
		}
		return addImage(env.Stdout, ic, positional[1], positional[2], flags.name)
	default:
		return fmt.Errorf("%w: images %s", ErrUnknownCommand, positional[0])
	}
}

// loadImageContext resolves the project root and search directories.
func loadImageContext(flags *imagesFlags, env *Environment) (*imageContext, error) {
	bf := &buildFlags{common: flags.common}
	cfg, err := loadProjectConfig(bf, loadEnvConfig())
	if err != nil {
		return nil, err
	}

	cwd, err := env.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	root := resolveRoot(cfg.Root, cwd)

	lang := flags.lang
	if lang == "" {
		lang = cfg.Languages[0]
	}

	return &imageContext{
		root: root,
		lang: lang,
		dirs: assets.ExpandSearchDirs(root, lang, cfg.Images.SearchDirs),
	}, nil
}

// printLocations lists the search directories in priority order.
func printLocations(w io.Writer, ic *imageContext) {
	fmt.Fprintf(w, "Image locations (highest priority first, lang=%s):\n", ic.lang)
	for i, sd := range ic.dirs {
		status := "missing"
		if sd.Exists {
			status = "ok"
		}
		fmt.Fprintf(w, "  %2d. %-22s %-8s %s\n", i+1, sd.Name, status, sd.Path)
	}
}

// findLocation returns the search directory configured as name.
func findLocation(ic *imageContext, name string) (assets.SearchDir, error) {
	clean := strings.Trim(filepath.ToSlash(name), "/")
	names := make([]string, len(ic.dirs))
	for i, sd := range ic.dirs {
		if sd.Name == clean || strings.ReplaceAll(sd.Name, config.LangPlaceholder, ic.lang) == clean {
			return sd, nil
		}
		names[i] = sd.Name
	}
	return assets.SearchDir{}, fmt.Errorf("%w: %q%s", ErrUnknownLocation, name, hints.ForImageLocation(names))
}

// listImages prints the images of one location, or of every existing one.
func listImages(w io.Writer, ic *imageContext, location string) error {
	dirs := ic.dirs
	if location != "" {
		sd, err := findLocation(ic, location)
		if err != nil {
			return err
		}
		dirs = []assets.SearchDir{sd}
	}

	total := 0
	for _, sd := range dirs {
		if !sd.Exists {
			if location != "" {
				fmt.Fprintf(w, "%s: directory does not exist (%s)\n", sd.Name, sd.Path)
			}
			continue
		}
		images, err := scanImages(sd.Path)
		if err != nil {
			return fmt.Errorf("listing %s: %w", sd.Name, err)
		}
		if len(images) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d):\n", sd.Name, len(images))
		for _, img := range images {
			dims := "-"
			if img.Width > 0 {
				dims = fmt.Sprintf("%dx%d", img.Width, img.Height)
			}
			fmt.Fprintf(w, "  %-40s %10s  %s\n", img.Name, humanize.Bytes(uint64(img.Size)), dims)
		}
		total += len(images)
	}

	if total == 0 {
		fmt.Fprintln(w, "No images found.")
	}
	return nil
}

// scanImages walks dir and describes every image below it, sorted by
// relative path.
func scanImages(dir string) ([]imageInfo, error) {
	var out []imageInfo
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !fileutil.HasExtension(path, listedExtensions) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		img := imageInfo{Name: filepath.ToSlash(rel), Size: info.Size()}
		img.Width, img.Height = imageDimensions(path)
		out = append(out, img)
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// imageDimensions decodes the header of a raster image. Unknown formats
// report 0x0.
func imageDimensions(path string) (int, int) {
	f, err := os.Open(path) // #nosec G304 -- path comes from a directory walk
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// addImage copies src into a named location and prints its markdown usage.
func addImage(w io.Writer, ic *imageContext, src, location, name string) error {
	if !fileutil.FileExists(src) {
		return fmt.Errorf("%w: %s", ErrImageSource, src)
	}
	if !fileutil.HasExtension(src, addableExtensions) {
		return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedImage, filepath.Ext(src), strings.Join(addableExtensions, " "))
	}

	sd, err := findLocation(ic, location)
	if err != nil {
		return err
	}

	if name == "" {
		name = filepath.Base(src)
	} else if filepath.Ext(name) == "" {
		name += strings.ToLower(filepath.Ext(src))
	}
	if err := assets.ValidateImageName(name); err != nil {
		return err
	}
	if !fileutil.HasExtension(name, addableExtensions) {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, name)
	}

	if err := os.MkdirAll(sd.Path, dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	dst := filepath.Join(sd.Path, name)
	copied, err := fileutil.CopyFile(src, dst)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if copied {
		fmt.Fprintf(w, "Added %s\n", dst)
	} else {
		fmt.Fprintf(w, "Up to date %s\n", dst)
	}
	fmt.Fprintf(w, "Usage: ![Description](%s)\n", name)
	return nil
}
