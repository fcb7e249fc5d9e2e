package ignore

import "github.com/bethropolis/rwalk/internal/utils"

// Option functions for configuration
type Option func(*Loader)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger utils.Logger) Option {
	return func(l *Loader) {
		l.logger = utils.OrNoop(logger)
	}
}

// WithCache replaces the process-wide rule cache. A nil cache disables
// caching.
func WithCache(cache *Cache) Option {
	return func(l *Loader) {
		l.cache = cache
	}
}

// WithProblemHandler registers a callback for ignore files that could not be
// read or compiled. Such files are dropped and the walk continues.
func WithProblemHandler(fn func(path string, err error)) Option {
	return func(l *Loader) {
		l.onProblem = fn
	}
}
