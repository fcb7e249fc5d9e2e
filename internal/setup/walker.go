// Package setup provides initialization and configuration functions
package setup

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bethropolis/rwalk/internal/config"
	"github.com/bethropolis/rwalk/internal/utils"
	"github.com/bethropolis/rwalk/internal/walker"
)

// WalkerConfig holds the collaborators a configured walker reports to
type WalkerConfig struct {
	Context context.Context
	Logger  utils.Logger
	// Status receives the progress line; nil disables it.
	Status io.Writer
	// OnError receives non-fatal walk errors.
	OnError func(err error)
}

// ConfigureWalker turns the application config into walk options and the
// walker's functional options.
func ConfigureWalker(cfg *config.Config, wc WalkerConfig) (walker.Options, []walker.Option, error) {
	log := utils.OrNoop(wc.Logger)

	opts, err := WalkOptions(cfg)
	if err != nil {
		return walker.Options{}, nil, err
	}

	if opts.IgnoreHidden {
		log.Debug("Ignoring hidden files/directories (starting with '.').")
	} else {
		log.Debug("Including hidden files/directories.")
	}
	if len(opts.AdditionalIgnores) > 0 {
		log.Debug("Using custom ignore patterns: %v", opts.AdditionalIgnores)
	}
	if len(opts.Overrides) > 0 {
		log.Debug("Using override globs: %v", opts.Overrides)
	}
	if opts.MaxFilesize != nil {
		log.Debug("Ignoring files larger than %d bytes.", *opts.MaxFilesize)
	}

	walkOptions := []walker.Option{
		walker.WithLogger(log),
	}
	if wc.Context != nil {
		walkOptions = append(walkOptions, walker.WithContext(wc.Context))
	}
	if wc.OnError != nil {
		walkOptions = append(walkOptions, walker.WithErrorHandler(wc.OnError))
	}

	// Add progress option if enabled
	if cfg.ShowProgress && wc.Status != nil {
		log.Debug("Progress display enabled")
		walkOptions = append(walkOptions, walker.WithProgress(ProgressPrinter(wc.Status), 0))
	}

	return opts, walkOptions, nil
}

// WalkOptions maps cfg onto walker.Options. --no-ignore turns off every
// ignore file source but keeps explicit patterns and globs.
func WalkOptions(cfg *config.Config) (walker.Options, error) {
	opts := walker.DefaultOptions(cfg.RootDir)

	opts.IgnoreHidden = !cfg.Hidden
	opts.ReadIgnoreFiles = !cfg.NoIgnore && !cfg.NoIgnoreFiles
	opts.ReadGitIgnore = !cfg.NoIgnore && !cfg.NoGitIgnore
	opts.ReadGlobalGitIgnore = !cfg.NoIgnore && !cfg.NoGlobalIgnore
	opts.ReadGitExclude = !cfg.NoIgnore && !cfg.NoGitExclude
	opts.ReadParentsIgnores = !cfg.NoIgnore && !cfg.NoParents
	opts.RequireGit = cfg.RequireGit
	opts.SkipGitDir = !cfg.IncludeGitDir

	opts.AdditionalIgnores = trimAll(cfg.Ignores)
	opts.AdditionalIgnorePaths = trimAll(cfg.IgnoreFiles)
	opts.CustomIgnoreFilenames = trimAll(cfg.IgnoreFilenames)
	opts.Overrides = trimAll(cfg.Globs)
	opts.CaseInsensitive = cfg.CaseInsensitive

	if cfg.MaxDepth >= 0 {
		opts.MaxDepth = walker.DepthLimit(cfg.MaxDepth)
	}
	size, err := cfg.MaxFilesizeBytes()
	if err != nil {
		return walker.Options{}, err
	}
	opts.MaxFilesize = size

	opts.FollowLinks = cfg.FollowLinks
	opts.SameFileSystem = cfg.SameFileSystem
	opts.IncludeRoot = cfg.IncludeRoot

	if exts := normalizeExtensions(cfg.Extensions); len(exts) > 0 {
		opts.FilterEntry = ExtensionFilter(exts)
	}

	return opts, nil
}

// ExtensionFilter keeps directories and files whose extension is in exts.
// Extensions are lower case without the leading dot.
func ExtensionFilter(exts []string) walker.FilterFunc {
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[ext] = struct{}{}
	}
	return func(path string, isDir bool) (bool, error) {
		if isDir {
			return true, nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		_, ok := allowed[ext]
		return ok, nil
	}
}

// ProgressPrinter writes a single, continuously overwritten status line.
func ProgressPrinter(w io.Writer) walker.ProgressCallback {
	return func(stats walker.Stats) {
		var statusLine string

		if stats.CurrentPath != "" {
			// Truncate the path if it's too long
			path := stats.CurrentPath
			if len(path) > 40 {
				path = "..." + path[len(path)-37:]
			}

			statusLine = fmt.Sprintf("\rWalking: %-40s | Files: %d/%d | Dirs: %d/%d",
				path,
				stats.YieldedFiles,
				stats.TotalFiles,
				stats.YieldedDirs,
				stats.TotalDirs)
		} else {
			statusLine = fmt.Sprintf("\rScanning... | Files: %d/%d | Dirs: %d/%d",
				stats.YieldedFiles,
				stats.TotalFiles,
				stats.YieldedDirs,
				stats.TotalDirs)
		}

		// Print with carriage return to overwrite previous line
		fmt.Fprint(w, statusLine)
	}
}

func normalizeExtensions(exts []string) []string {
	var out []string
	for _, ext := range exts {
		clean := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(ext), ".")))
		if clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
