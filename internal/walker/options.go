package walker

import (
	"context"
	"time"

	"github.com/bethropolis/rwalk/internal/ignore"
	"github.com/bethropolis/rwalk/internal/utils"
)

// FilterFunc decides whether an entry is kept. Returning false skips the
// entry and, for directories, everything below it. A returned error (or a
// panic) aborts the walk with ErrPredicate.
type FilterFunc func(path string, isDir bool) (bool, error)

// Options describes one walk. The walker copies it on construction.
type Options struct {
	// Root is the directory to walk. Required.
	Root string

	// IgnoreHidden skips entries whose name starts with a dot.
	IgnoreHidden bool
	// ReadIgnoreFiles reads .ignore files.
	ReadIgnoreFiles bool
	// ReadParentsIgnores reads ignore files in the root's ancestors, up to
	// the repository root when there is one.
	ReadParentsIgnores bool
	// ReadGitIgnore reads .gitignore files.
	ReadGitIgnore bool
	// ReadGlobalGitIgnore reads the user's core.excludesFile.
	ReadGlobalGitIgnore bool
	// ReadGitExclude reads the repository's info/exclude.
	ReadGitExclude bool
	// RequireGit fails the walk when the root is not inside a repository.
	RequireGit bool

	// AdditionalIgnores are extra patterns relative to the root.
	AdditionalIgnores []string
	// AdditionalIgnorePaths are extra ignore files, patterns relative to the root.
	AdditionalIgnorePaths []string
	// CustomIgnoreFilenames are extra per-directory ignore file names.
	CustomIgnoreFilenames []string
	// Overrides are whitelist globs ("!glob" excludes), highest precedence.
	Overrides []string

	// MaxDepth limits how deep entries are yielded; the root's children
	// are depth 0. Nil means unlimited.
	MaxDepth *int
	// MaxFilesize skips files larger than this many bytes. Nil means unlimited.
	MaxFilesize *int64

	// FollowLinks descends into symlinked directories.
	FollowLinks bool
	// CaseInsensitive matches every pattern case-insensitively.
	CaseInsensitive bool
	// SameFileSystem does not cross into directories on other devices.
	SameFileSystem bool
	// IncludeRoot yields the root itself first, with depth -1.
	IncludeRoot bool
	// SkipGitDir never yields or descends into .git directories.
	SkipGitDir bool

	// FilterEntry is consulted last for every candidate.
	FilterEntry FilterFunc
}

// DefaultOptions returns the default options for root.
func DefaultOptions(root string) Options {
	return Options{
		Root:                root,
		IgnoreHidden:        true,
		ReadIgnoreFiles:     true,
		ReadParentsIgnores:  true,
		ReadGitIgnore:       true,
		ReadGlobalGitIgnore: true,
		ReadGitExclude:      true,
	}
}

// DepthLimit returns a MaxDepth value.
func DepthLimit(n int) *int { return &n }

// SizeLimit returns a MaxFilesize value.
func SizeLimit(n int64) *int64 { return &n }

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(stats Stats)

// settings holds the ambient collaborators of a walker.
type settings struct {
	logger           utils.Logger
	ctx              context.Context
	onError          func(err error)
	cache            *ignore.Cache
	progressFn       ProgressCallback
	progressInterval time.Duration
}

func defaultSettings() settings {
	return settings{
		logger:           utils.NoopLogger{},
		ctx:              context.Background(),
		cache:            ignore.DefaultCache(),
		progressInterval: 300 * time.Millisecond,
	}
}

// Option is a functional option for configuring a Walker
type Option func(*settings)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(s *settings) {
		s.logger = utils.OrNoop(logger)
	}
}

// WithContext sets the context for cancellation. Next fails with the
// context's error once it is done.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithErrorHandler receives non-fatal errors: unreadable directories and
// entries, and ignore files that could not be read or compiled.
func WithErrorHandler(fn func(err error)) Option {
	return func(s *settings) {
		s.onError = fn
	}
}

// WithRuleCache sets the cache of compiled ignore files. Nil disables caching.
func WithRuleCache(cache *ignore.Cache) Option {
	return func(s *settings) {
		s.cache = cache
	}
}

// WithProgress adds a progress callback, invoked from Next at most once per
// interval.
func WithProgress(fn ProgressCallback, interval time.Duration) Option {
	return func(s *settings) {
		s.progressFn = fn
		if interval > 0 {
			s.progressInterval = interval
		}
	}
}
