// Package config holds the rwalk command line settings and their optional
// YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the walk root.
const FileName = ".rwalk.yaml"

// Output formats.
const (
	FormatPlain    = "plain"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config holds all application configuration settings
type Config struct {
	// Directory settings
	RootDir string `yaml:"-"`

	// Ignore sources
	Hidden          bool     `yaml:"hidden"`
	NoIgnore        bool     `yaml:"no_ignore"`
	NoIgnoreFiles   bool     `yaml:"no_ignore_files"`
	NoGitIgnore     bool     `yaml:"no_gitignore"`
	NoGlobalIgnore  bool     `yaml:"no_global_ignore"`
	NoGitExclude    bool     `yaml:"no_git_exclude"`
	NoParents       bool     `yaml:"no_parents"`
	RequireGit      bool     `yaml:"require_git"`
	IncludeGitDir   bool     `yaml:"include_git_dir"`
	Ignores         []string `yaml:"ignore"`
	IgnoreFiles     []string `yaml:"ignore_file"`
	IgnoreFilenames []string `yaml:"ignore_filename"`
	Globs           []string `yaml:"glob"`
	CaseInsensitive bool     `yaml:"ignore_case"`

	// Traversal settings
	MaxDepth       int           `yaml:"max_depth"`
	MaxFilesize    string        `yaml:"max_filesize"`
	FollowLinks    bool          `yaml:"follow"`
	SameFileSystem bool          `yaml:"one_file_system"`
	IncludeRoot    bool          `yaml:"include_root"`
	Extensions     []string      `yaml:"ext"`
	Type           string        `yaml:"type"`
	Timeout        time.Duration `yaml:"timeout"`

	// Output settings
	Format       string `yaml:"format"`
	Long         bool   `yaml:"long"`
	OutputFile   string `yaml:"output"`
	ShowSkipped  bool   `yaml:"show_skipped"`
	ShowProgress bool   `yaml:"progress"`

	// Logging settings
	Verbose   bool   `yaml:"verbose"`
	Quiet     bool   `yaml:"quiet"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	NoColor   bool   `yaml:"no_color"`

	// ConfigFile is the YAML file to read; empty means FileName in the root
	// when present.
	ConfigFile string `yaml:"-"`
	UseColors  bool   `yaml:"-"`
	Version    string `yaml:"-"`
}

// Default returns the settings used when no flag or file says otherwise.
func Default() *Config {
	return &Config{
		RootDir:   ".",
		MaxDepth:  -1,
		Format:    FormatPlain,
		LogLevel:  "info",
		LogFormat: "text",
		Version:   "1.0.0", // Update this when releasing new versions
	}
}

// BindFlags registers the walk and output flags on fs, writing into c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.Hidden, "hidden", "H", c.Hidden, "Include hidden files and directories")
	fs.BoolVar(&c.NoIgnore, "no-ignore", c.NoIgnore, "Do not read any ignore file")
	fs.BoolVar(&c.NoIgnoreFiles, "no-ignore-files", c.NoIgnoreFiles, "Do not read .ignore files")
	fs.BoolVar(&c.NoGitIgnore, "no-gitignore", c.NoGitIgnore, "Do not read .gitignore files")
	fs.BoolVar(&c.NoGlobalIgnore, "no-global-ignore", c.NoGlobalIgnore, "Do not read git's core.excludesFile")
	fs.BoolVar(&c.NoGitExclude, "no-git-exclude", c.NoGitExclude, "Do not read .git/info/exclude")
	fs.BoolVar(&c.NoParents, "no-parents", c.NoParents, "Do not read ignore files in parent directories")
	fs.BoolVar(&c.RequireGit, "require-git", c.RequireGit, "Fail unless the root is inside a git repository")
	fs.BoolVar(&c.IncludeGitDir, "include-git-dir", c.IncludeGitDir, "Walk into .git directories")
	fs.StringSliceVarP(&c.Ignores, "ignore", "e", c.Ignores, "Extra ignore pattern (repeatable, gitignore syntax)")
	fs.StringSliceVar(&c.IgnoreFiles, "ignore-file", c.IgnoreFiles, "Extra ignore file (repeatable)")
	fs.StringSliceVar(&c.IgnoreFilenames, "ignore-filename", c.IgnoreFilenames, "Extra per-directory ignore file name (repeatable)")
	fs.StringSliceVarP(&c.Globs, "glob", "g", c.Globs, "Override glob; '!glob' excludes (repeatable)")
	fs.BoolVarP(&c.CaseInsensitive, "ignore-case", "i", c.CaseInsensitive, "Match patterns case-insensitively")

	fs.IntVarP(&c.MaxDepth, "max-depth", "d", c.MaxDepth, "Maximum depth; the root's children are depth 0 (-1 = no limit)")
	fs.StringVar(&c.MaxFilesize, "max-filesize", c.MaxFilesize, "Skip files larger than this (e.g. '512K', '10M')")
	fs.BoolVarP(&c.FollowLinks, "follow", "L", c.FollowLinks, "Follow symbolic links")
	fs.BoolVar(&c.SameFileSystem, "one-file-system", c.SameFileSystem, "Do not cross file system boundaries")
	fs.BoolVar(&c.IncludeRoot, "include-root", c.IncludeRoot, "Print the root directory itself")
	fs.StringSliceVar(&c.Extensions, "ext", c.Extensions, "Only include files with these extensions (e.g. 'go,md')")
	fs.StringVarP(&c.Type, "type", "t", c.Type, "Only print entries of this type: f, d or l")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Maximum execution time (e.g., '30s', '5m')")

	fs.StringVarP(&c.Format, "format", "f", c.Format, "Output format: plain, json or markdown")
	fs.BoolVarP(&c.Long, "long", "l", c.Long, "Show type and size columns")
	fs.StringVarP(&c.OutputFile, "output", "o", c.OutputFile, "Output to file instead of stdout")
	fs.BoolVar(&c.ShowSkipped, "show-skipped", c.ShowSkipped, "Show a table of skipped entries and reasons at the end")
	fs.BoolVar(&c.ShowProgress, "progress", c.ShowProgress, "Show progress information")

	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "Read settings from this YAML file (default: <root>/"+FileName+")")
	c.BindLogFlags(fs)
}

// BindLogFlags registers the logging flags on fs. Every subcommand shares
// them.
func (c *Config) BindLogFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "Enable verbose logging (DEBUG, WARN, ERROR)")
	fs.BoolVarP(&c.Quiet, "quiet", "q", c.Quiet, "Suppress INFO messages (only show WARN, ERROR)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Set the logging level (debug, info, warn, error, none)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format: text or json")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "Disable color output")
}

// Load merges the YAML file into c, then re-applies every flag the user set
// so the command line wins. A missing default file is not an error; a
// missing explicit --config file is.
func (c *Config) Load(fs *pflag.FlagSet) error {
	path := c.ConfigFile
	explicit := path != ""
	if !explicit {
		path = filepath.Join(c.RootDir, FileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := c.merge(data, fs); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return fmt.Errorf("config: %w", err)
	}

	c.UseColors = c.ColorsFor(os.Stderr)
	return c.Validate()
}

func (c *Config) merge(data []byte, fs *pflag.FlagSet) error {
	type saved struct {
		slice []string
		value string
	}
	changed := map[string]saved{}
	if fs != nil {
		fs.Visit(func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				changed[f.Name] = saved{slice: sv.GetSlice()}
				return
			}
			changed[f.Name] = saved{value: f.Value.String()}
		})
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}

	if fs == nil {
		return nil
	}
	var errs []error
	fs.Visit(func(f *pflag.Flag) {
		s := changed[f.Name]
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			errs = append(errs, sv.Replace(s.slice))
			return
		}
		errs = append(errs, f.Value.Set(s.value))
	})
	return errors.Join(errs...)
}

// Validate checks values that flags and YAML cannot type-check.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatPlain, FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("unknown output format %q (want plain, json or markdown)", c.Format)
	}

	switch c.Type {
	case "", "f", "d", "l":
	default:
		return fmt.Errorf("unknown entry type %q (want f, d or l)", c.Type)
	}

	if _, err := c.MaxFilesizeBytes(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// MaxFilesizeBytes parses MaxFilesize. It returns nil when no limit is set.
func (c *Config) MaxFilesizeBytes() (*int64, error) {
	if strings.TrimSpace(c.MaxFilesize) == "" {
		return nil, nil
	}
	n, err := units.RAMInBytes(c.MaxFilesize)
	if err != nil {
		return nil, fmt.Errorf("invalid --max-filesize %q: %w", c.MaxFilesize, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("invalid --max-filesize %q: negative size", c.MaxFilesize)
	}
	return &n, nil
}

// EffectiveLogLevel folds --verbose and --quiet into the log level.
func (c *Config) EffectiveLogLevel() string {
	switch {
	case c.Verbose:
		return "debug"
	case c.Quiet:
		return "warn"
	default:
		return c.LogLevel
	}
}

// ColorsFor reports whether colored output should be written to out.
func (c *Config) ColorsFor(out io.Writer) bool {
	if c.NoColor || c.OutputFile != "" || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
