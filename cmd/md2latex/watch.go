package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-md2latex/internal/assets"
	"github.com/alnah/go-md2latex/internal/fileutil"
)

// watchDebounce groups the bursts of events editors produce on save.
const watchDebounce = 300 * time.Millisecond

// watchExtensions are the file types whose changes trigger a rebuild.
var watchExtensions = append([]string{".md", ".markdown", ".yaml", ".yml", ".toml", ".tex"}, assets.ImageExtensions...)

// watchAndBuild builds once, then rebuilds whenever a source, metadata,
// template, configuration or image changes, until ctx is canceled. Each
// rebuild reloads the plan from flags so template and configuration edits
// take effect. Build failures are reported and watching continues.
func watchAndBuild(ctx context.Context, flags *buildFlags, plan *buildPlan, env *Environment) error {
	common := flags.common
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{}
	addWatches(watcher, watched, plan, common, env)

	if err := buildOnce(ctx, plan, common, env); err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
	}
	if !common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %d directories (Ctrl+C to stop)\n", len(watched))
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(ev, plan.outputDir) {
				continue
			}
			if common.verbose {
				fmt.Fprintf(env.Stderr, "changed: %s\n", ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(env.Stderr, "watch error: %v\n", err)

		case <-fire:
			fire = nil
			if !common.quiet {
				fmt.Fprintf(env.Stdout, "\nRebuilding at %s\n", env.Now().Format(time.TimeOnly))
			}
			next, err := prepareBuild(flags, env)
			if err != nil {
				// Keep the last good plan; the next save retries.
				fmt.Fprintln(env.Stderr, "error:", err)
				continue
			}
			plan = next
			addWatches(watcher, watched, plan, common, env)
			if err := buildOnce(ctx, plan, common, env); err != nil {
				fmt.Fprintln(env.Stderr, "error:", err)
			}
		}
	}
}

// addWatches registers the plan's input directories not yet in watched.
func addWatches(watcher *fsnotify.Watcher, watched map[string]bool, plan *buildPlan, common commonFlags, env *Environment) {
	for _, dir := range watchDirs(plan) {
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			if common.verbose {
				fmt.Fprintf(env.Stderr, "warning: cannot watch %s: %v\n", dir, err)
			}
			continue
		}
		watched[dir] = true
	}
}

// watchDirs lists the existing directories holding inputs of any variant:
// the project root, source and metadata directories and image search
// directories. The output directory is excluded so builds do not retrigger.
func watchDirs(plan *buildPlan) []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if seen[dir] || isWithin(dir, plan.outputDir) || !fileutil.DirExists(dir) {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	add(plan.root)
	add(filepath.Dir(plan.metaPath))
	for _, lang := range plan.cfg.Languages {
		for _, s := range plan.cfg.Sources {
			if s.Path == "" {
				continue
			}
			p := strings.ReplaceAll(s.Path, "{lang}", lang)
			add(filepath.Dir(resolvePath(plan.root, p)))
		}
		for _, sd := range assets.ExpandSearchDirs(plan.root, lang, plan.cfg.Images.SearchDirs) {
			add(sd.Path)
		}
	}
	return dirs
}

// isRelevantEvent reports whether ev should trigger a rebuild.
func isRelevantEvent(ev fsnotify.Event, outputDir string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if isWithin(ev.Name, outputDir) {
		return false
	}
	return fileutil.HasExtension(ev.Name, watchExtensions)
}

// isWithin reports whether path is dir or lies below it.
func isWithin(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
