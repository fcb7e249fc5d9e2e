// Package ignore provides file/directory pattern matching for exclusion
package ignore

import (
	"github.com/bethropolis/rwalk/internal/pattern"
)

// Verdict is the tri-state outcome of matching a path against rules.
type Verdict uint8

const (
	// VerdictNone means no rule matched.
	VerdictNone Verdict = iota
	// VerdictIgnore means the deciding rule excludes the path.
	VerdictIgnore
	// VerdictWhitelist means the deciding rule re-includes the path.
	VerdictWhitelist
)

func (v Verdict) String() string {
	switch v {
	case VerdictIgnore:
		return "ignore"
	case VerdictWhitelist:
		return "whitelist"
	default:
		return "none"
	}
}

// Match is a verdict plus the pattern that decided it. Pattern is nil for
// VerdictNone and for implicit decisions such as whitelist-mode overrides.
type Match struct {
	Verdict Verdict
	Pattern *pattern.Pattern
}

// IsNone reports whether nothing matched.
func (m Match) IsNone() bool { return m.Verdict == VerdictNone }

// IsIgnore reports whether the path is excluded.
func (m Match) IsIgnore() bool { return m.Verdict == VerdictIgnore }

// IsWhitelist reports whether the path is explicitly included.
func (m Match) IsWhitelist() bool { return m.Verdict == VerdictWhitelist }

// invert swaps ignore and whitelist, used by override globs where a plain
// glob means "include".
func (m Match) invert() Match {
	switch m.Verdict {
	case VerdictIgnore:
		m.Verdict = VerdictWhitelist
	case VerdictWhitelist:
		m.Verdict = VerdictIgnore
	}
	return m
}

func (m Match) String() string {
	if m.Pattern == nil {
		return m.Verdict.String()
	}
	return m.Verdict.String() + " by " + m.Pattern.String()
}
