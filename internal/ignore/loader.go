package ignore

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/bethropolis/rwalk/internal/pattern"
	"github.com/bethropolis/rwalk/internal/utils"
)

// Ignore file names discovered in every directory.
const (
	GitIgnoreFile = ".gitignore"
	IgnoreFile    = ".ignore"
)

// Config selects which ignore files a Loader reads.
type Config struct {
	ReadGitIgnore         bool
	ReadIgnoreFiles       bool
	CustomIgnoreFilenames []string
	CaseInsensitive       bool
}

// Loader reads and compiles ignore files. Unreadable or malformed files are
// reported through the problem handler and dropped; they never abort a walk.
type Loader struct {
	cfg       Config
	cache     *Cache
	logger    utils.Logger
	onProblem func(path string, err error)
}

// NewLoader creates a loader using the process-wide cache.
func NewLoader(cfg Config, opts ...Option) *Loader {
	l := &Loader{
		cfg:    cfg,
		cache:  DefaultCache(),
		logger: utils.NoopLogger{},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoadFile compiles the ignore file at path with patterns relative to dir.
// Missing files yield a nil RuleSet and nil error.
func (l *Loader) LoadFile(path, dir string, tier pattern.Tier) (*RuleSet, error) {
	if l.cache != nil {
		return l.cache.Load(path, dir, tier, l.cfg.CaseInsensitive)
	}
	set, err := readRuleFile(path, dir, tier, l.cfg.CaseInsensitive)
	if err != nil && isNotExist(err) {
		return nil, nil
	}
	return set, err
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// LoadDir returns the rule sets of the ignore files present in dir.
func (l *Loader) LoadDir(dir string) []*RuleSet {
	var sets []*RuleSet

	add := func(name string, tier pattern.Tier) {
		path := filepath.Join(dir, name)
		set, err := l.LoadFile(path, dir, tier)
		if err != nil {
			l.problem(path, err)
			return
		}
		if set.Len() > 0 {
			l.logger.Debug("ignore.LoadDir: Loaded %d %s rules from %q", set.Len(), tier, path)
			sets = append(sets, set)
		}
	}

	if l.cfg.ReadGitIgnore {
		add(GitIgnoreFile, pattern.TierGitIgnore)
	}
	if l.cfg.ReadIgnoreFiles {
		add(IgnoreFile, pattern.TierIgnore)
	}
	for _, name := range l.cfg.CustomIgnoreFilenames {
		add(name, pattern.TierCustom)
	}

	return sets
}

// RootNode builds the node of the traversal root. With parents set, the
// ignore files of root's ancestors are chained above it, up to and including
// stop (the filesystem root when stop is empty or not an ancestor). extra
// holds root-level sets such as global, exclude and explicit rules.
func (l *Loader) RootNode(root string, parents bool, stop string, extra ...*RuleSet) *Node {
	var parent *Node
	if parents {
		for _, dir := range ancestors(root, stop) {
			parent = NewNode(parent, dir, l.LoadDir(dir)...)
		}
	}

	sets := make([]*RuleSet, 0, len(extra)+2)
	sets = append(sets, extra...)
	sets = append(sets, l.LoadDir(root)...)
	return NewNode(parent, root, sets...)
}

// ChildNode builds the node of dir below parent.
func (l *Loader) ChildNode(parent *Node, dir string) *Node {
	return parent.Child(dir, l.LoadDir(dir)...)
}

func (l *Loader) problem(path string, err error) {
	l.logger.Warn("ignore: Skipping ignore file %q: %v", path, err)
	if l.onProblem != nil {
		l.onProblem(path, err)
	}
}

// ancestors lists the parents of dir from the top down, ending at stop when
// stop is one of them, otherwise at the filesystem root.
func ancestors(dir, stop string) []string {
	var dirs []string
	current := filepath.Clean(dir)
	for current != stop {
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		dirs = append(dirs, parent)
		current = parent
	}

	for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs
}
