package ignore

import (
	"github.com/bethropolis/rwalk/internal/pattern"
)

// Override is the highest precedence glob list. Its polarity is the reverse
// of an ignore file: a plain glob force-includes ("whitelist") and a "!glob"
// excludes. As soon as one whitelist glob exists, files matching none of the
// globs are excluded; unmatched directories still fall through to the normal
// rules so whitelisted files below them stay reachable.
type Override struct {
	set        *RuleSet
	whitelists int
}

// NewOverride compiles override globs relative to root.
func NewOverride(root string, globs []string, caseInsensitive bool) (*Override, error) {
	set, err := CompileRuleSet(pattern.TierOverride, root, "override", globs, caseInsensitive)
	if err != nil {
		return nil, err
	}

	o := &Override{set: set}
	for _, p := range set.Patterns() {
		if !p.Negated() {
			o.whitelists++
		}
	}
	return o, nil
}

// Empty reports whether there are no override globs.
func (o *Override) Empty() bool {
	return o == nil || o.set.Len() == 0
}

// WhitelistMode reports whether at least one include glob is present.
func (o *Override) WhitelistMode() bool {
	return o != nil && o.whitelists > 0
}

// Matched returns the override verdict for path.
func (o *Override) Matched(path string, isDir bool) Match {
	if o.Empty() {
		return Match{}
	}

	if m := o.set.Matched(path, isDir); !m.IsNone() {
		return m.invert()
	}

	if o.whitelists > 0 && !isDir {
		return Match{Verdict: VerdictIgnore}
	}
	return Match{}
}
