package walker

import (
	"fmt"
	"strings"

	"github.com/bethropolis/rwalk/internal/ignore"
)

// candidate is an entry under evaluation together with the rule node of
// its parent directory.
type candidate struct {
	entry *Entry
	node  *ignore.Node
}

type verdict uint8

const (
	verdictPass verdict = iota
	verdictReject
	// verdictForce keeps the entry and skips the remaining bypassable filters.
	verdictForce
)

// filter is one named stage of the pipeline.
type filter struct {
	name string
	// bypassable stages are skipped for entries an override whitelisted.
	bypassable bool
	apply      func(c *candidate) (verdict, SkippedReason, error)
}

// pipeline runs its filters in order; the first rejection wins.
type pipeline []filter

func (p pipeline) run(c *candidate) (bool, SkippedReason, error) {
	forced := false
	for _, f := range p {
		if forced && f.bypassable {
			continue
		}

		v, reason, err := f.apply(c)
		if err != nil {
			return false, reason, err
		}

		switch v {
		case verdictReject:
			return false, reason, nil
		case verdictForce:
			forced = true
		}
	}
	return true, "", nil
}

func (p pipeline) names() []string {
	names := make([]string, len(p))
	for i, f := range p {
		names[i] = f.name
	}
	return names
}

func depthFilter(limit int) filter {
	return filter{
		name: "depth",
		apply: func(c *candidate) (verdict, SkippedReason, error) {
			if c.entry.Depth > limit {
				return verdictReject, ReasonFilteredDepth, nil
			}
			return verdictPass, "", nil
		},
	}
}

func gitDirFilter() filter {
	return filter{
		name: "git-dir",
		apply: func(c *candidate) (verdict, SkippedReason, error) {
			if c.entry.IsDir() && c.entry.Name() == ".git" {
				return verdictReject, ReasonIgnoredGitDir, nil
			}
			return verdictPass, "", nil
		},
	}
}

func overrideFilter(o *ignore.Override) filter {
	return filter{
		name: "override",
		apply: func(c *candidate) (verdict, SkippedReason, error) {
			m := o.Matched(c.entry.abs, c.entry.IsDir())
			switch {
			case m.IsWhitelist():
				return verdictForce, "", nil
			case m.IsIgnore():
				return verdictReject, ReasonIgnoredOverride, nil
			}
			return verdictPass, "", nil
		},
	}
}

func hiddenFilter() filter {
	return filter{
		name:       "hidden",
		bypassable: true,
		apply: func(c *candidate) (verdict, SkippedReason, error) {
			if strings.HasPrefix(c.entry.Name(), ".") {
				return verdictReject, ReasonIgnoredHidden, nil
			}
			return verdictPass, "", nil
		},
	}
}

func ruleFilter() filter {
	return filter{
		name:       "rules",
		bypassable: true,
		apply: func(c *candidate) (verdict, SkippedReason, error) {
			if c.node.IsIgnored(c.entry.abs, c.entry.IsDir()) {
				return verdictReject, ReasonIgnoredRule, nil
			}
			return verdictPass, "", nil
		},
	}
}

func sizeFilter(limit int64) filter {
	return filter{
		name: "size",
		apply: func(c *candidate) (verdict, SkippedReason, error) {
			if c.entry.Type != TypeFile {
				return verdictPass, "", nil
			}
			size, err := c.entry.Size()
			if err != nil {
				return verdictReject, ReasonSkippedInfoError, newError(KindIO, c.entry.Path, err)
			}
			if size > limit {
				return verdictReject, ReasonSkippedSizeLimit, nil
			}
			return verdictPass, "", nil
		},
	}
}

func predicateFilter(fn FilterFunc) filter {
	return filter{
		name: "predicate",
		apply: func(c *candidate) (verdict, SkippedReason, error) {
			keep, err := callPredicate(fn, c.entry.Path, c.entry.IsDir())
			if err != nil {
				return verdictReject, ReasonFilteredPredicate, newError(KindPredicate, c.entry.Path, err)
			}
			if !keep {
				return verdictReject, ReasonFilteredPredicate, nil
			}
			return verdictPass, "", nil
		},
	}
}

// callPredicate turns a panic in the user's callback into an error.
func callPredicate(fn FilterFunc, path string, isDir bool) (keep bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			keep = false
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(path, isDir)
}
