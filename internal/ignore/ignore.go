// Package ignore provides file/directory pattern matching for exclusion
//
// Rules come from layered sources: the global git excludes file, the
// repository's info/exclude, .gitignore and .ignore files discovered per
// directory, custom ignore file names, caller supplied patterns and override
// globs. Each source compiles to an immutable RuleSet tagged with its tier.
// A Node chains the rule sets of one directory to its parent's, and resolves
// a path by tier first and by directory depth second.
//
// Loading uses the functional options pattern for configuration.
package ignore

import (
	"errors"

	"github.com/bethropolis/rwalk/internal/pattern"
)

// NewDefaultLoader creates a Loader reading .gitignore and .ignore files.
func NewDefaultLoader(opts ...Option) *Loader {
	return NewLoader(Config{
		ReadGitIgnore:   true,
		ReadIgnoreFiles: true,
	}, opts...)
}

// IsIgnored is a convenience function to check a path against a node,
// honouring overrides first.
func IsIgnored(node *Node, override *Override, path string, isDir bool) bool {
	if m := override.Matched(path, isDir); !m.IsNone() {
		return m.IsIgnore()
	}
	return node.IsIgnored(path, isDir)
}

// ExplicitRules compiles caller supplied patterns and ignore files into
// explicit tier rule sets rooted at dir. Files are placed before inline
// patterns so the latter win on conflict. Missing files are skipped and
// unreadable ones reported as problems; a malformed pattern is returned as
// an error.
func (l *Loader) ExplicitRules(dir string, files, patterns []string) ([]*RuleSet, error) {
	sets := make([]*RuleSet, 0, len(files)+1)
	for _, file := range files {
		set, err := l.LoadFile(file, dir, pattern.TierExplicit)
		if err != nil {
			if errors.Is(err, pattern.ErrInvalidPattern) {
				return nil, err
			}
			l.problem(file, err)
			continue
		}
		if set.Len() > 0 {
			sets = append(sets, set)
		}
	}

	if len(patterns) > 0 {
		set, err := CompileRuleSet(pattern.TierExplicit, dir, "additional_ignores", patterns, l.cfg.CaseInsensitive)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	return sets, nil
}
