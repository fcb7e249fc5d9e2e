package ignore

import (
	"github.com/bethropolis/rwalk/internal/pattern"
)

// RuleSet is the ordered pattern list of one source (a file or an in-memory
// list) sharing a directory and a tier. It is never modified after creation
// and may be shared between walkers.
type RuleSet struct {
	tier     pattern.Tier
	dir      string
	source   string
	patterns []*pattern.Pattern
}

// NewRuleSet wraps already compiled patterns.
func NewRuleSet(tier pattern.Tier, dir, source string, patterns []*pattern.Pattern) *RuleSet {
	return &RuleSet{
		tier:     tier,
		dir:      dir,
		source:   source,
		patterns: patterns,
	}
}

// CompileRuleSet compiles in-memory pattern lines into a RuleSet.
func CompileRuleSet(tier pattern.Tier, dir, source string, lines []string, caseInsensitive bool) (*RuleSet, error) {
	patterns, err := pattern.CompileAll(lines, pattern.Options{
		Dir:             dir,
		CaseInsensitive: caseInsensitive,
		Tier:            tier,
		Source:          source,
	})
	if err != nil {
		return nil, err
	}
	return NewRuleSet(tier, dir, source, patterns), nil
}

// Tier returns the precedence tier.
func (s *RuleSet) Tier() pattern.Tier { return s.tier }

// Dir returns the directory patterns are relative to.
func (s *RuleSet) Dir() string { return s.dir }

// Source returns the file path or list name the rules came from.
func (s *RuleSet) Source() string { return s.source }

// Len returns the number of patterns.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}

// Patterns returns the compiled patterns in source order. Callers must not
// modify the returned slice.
func (s *RuleSet) Patterns() []*pattern.Pattern { return s.patterns }

// Matched returns the verdict of the last pattern matching path.
func (s *RuleSet) Matched(path string, isDir bool) Match {
	if s == nil {
		return Match{}
	}

	for i := len(s.patterns) - 1; i >= 0; i-- {
		p := s.patterns[i]
		if !p.Match(path, isDir) {
			continue
		}
		if p.Negated() {
			return Match{Verdict: VerdictWhitelist, Pattern: p}
		}
		return Match{Verdict: VerdictIgnore, Pattern: p}
	}

	return Match{}
}
