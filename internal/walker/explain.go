package walker

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/rwalk/internal/ignore"
	"github.com/bethropolis/rwalk/internal/pattern"
)

// Explanation tells whether a walk would yield a path, and why not.
type Explanation struct {
	Path    string
	IsDir   bool
	Ignored bool
	// Reason is empty when the path would be yielded.
	Reason SkippedReason
	// Ancestor is the excluded directory hiding Path, empty when Path was
	// decided on its own.
	Ancestor string
	// Match is the deciding rule for rule and override exclusions, and the
	// last whitelisting rule otherwise.
	Match ignore.Match
}

// explainFilters are the pipeline stages that depend on names and rules
// only.
var explainFilters = map[string]bool{
	"git-dir":  true,
	"override": true,
	"hidden":   true,
	"rules":    true,
}

// Explain reports how the walk configured by opts would treat target, which
// must be below the root. Each ancestor directory is checked first, the way
// the walk reaches it. Depth, size, symlink and predicate filters are not
// evaluated.
func Explain(opts Options, target string, fns ...Option) (Explanation, error) {
	w := New(opts, fns...)
	defer w.Close()

	if err := w.prepare(); err != nil {
		return Explanation{}, err
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return Explanation{}, newError(KindConfig, target, err)
	}

	result := Explanation{Path: target}
	if info, err := os.Stat(abs); err == nil {
		result.IsDir = info.IsDir()
	}

	rel, ok := pattern.Relative(w.root, abs)
	if !ok {
		return result, newError(KindConfig, target, errors.New("path is not below the walk root"))
	}

	var checks pipeline
	for _, f := range w.pipeline {
		if explainFilters[f.name] {
			checks = append(checks, f)
		}
	}

	node := w.rootNode
	current := w.root
	parts := strings.Split(rel, "/")
	for i, part := range parts {
		current = filepath.Join(current, part)
		last := i == len(parts)-1

		e := &Entry{
			Path:    current,
			RelPath: strings.Join(parts[:i+1], "/"),
			Depth:   i,
			Type:    TypeFile,
			abs:     current,
		}
		if result.IsDir || !last {
			e.Type = TypeDir
		}

		kept, reason, err := checks.run(&candidate{entry: e, node: node})
		if err != nil {
			return result, err
		}

		m := w.override.Matched(current, e.IsDir())
		if m.IsNone() {
			m = node.Matched(current, e.IsDir())
		}
		if !m.IsNone() {
			result.Match = m
		}

		if !kept {
			result.Ignored = true
			result.Reason = reason
			if !last {
				result.Ancestor = e.RelPath
			}
			return result, nil
		}

		if !last {
			node = w.loader.ChildNode(node, current)
		}
	}

	return result, nil
}
