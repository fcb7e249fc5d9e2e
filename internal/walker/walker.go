// Package walker handles directory traversal with layered ignore rules
package walker

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/bethropolis/rwalk/internal/ignore"
	"github.com/bethropolis/rwalk/internal/pattern"
)

// State is the position of a Walker in its lifecycle.
type State uint8

const (
	// StatePending is the state before the first call to Next.
	StatePending State = iota
	// StateDescending is set while a yielded directory is being opened.
	StateDescending
	// StateEmitting is set after an entry was handed out.
	StateEmitting
	// StateExhausted is terminal: every entry was yielded or the walker closed.
	StateExhausted
	// StateFailed is terminal: a fatal error ended the walk.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDescending:
		return "descending"
	case StateEmitting:
		return "emitting"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// frame is one open directory on the traversal path.
type frame struct {
	dir     string
	display string
	rel     string
	depth   int
	node    *ignore.Node
	entries []fs.DirEntry
	next    int
	id      fileID
}

// Walker is a lazy, depth-first, pre-order directory iterator. It does no
// work ahead of Next, starts no goroutines and is not safe for concurrent
// use. Children of a directory are visited in name order.
type Walker struct {
	opts     Options
	settings settings

	state State
	err   error

	root     string
	display  string
	loader   *ignore.Loader
	override *ignore.Override
	rootNode *ignore.Node
	pipeline pipeline
	rootID   fileID

	stack   []*frame
	descend *Entry

	tracker      *SkippedTracker
	stats        Stats
	lastProgress time.Time
}

// New creates a walker. Nothing is read until the first call to Next, which
// also reports configuration errors.
func New(opts Options, fns ...Option) *Walker {
	settings := defaultSettings()
	for _, fn := range fns {
		fn(&settings)
	}

	opts.AdditionalIgnores = append([]string(nil), opts.AdditionalIgnores...)
	opts.AdditionalIgnorePaths = append([]string(nil), opts.AdditionalIgnorePaths...)
	opts.CustomIgnoreFilenames = append([]string(nil), opts.CustomIgnoreFilenames...)
	opts.Overrides = append([]string(nil), opts.Overrides...)

	return &Walker{
		opts:     opts,
		settings: settings,
		tracker:  NewSkippedTracker(64),
	}
}

// Next returns the next entry. At the end of the walk it returns io.EOF,
// and keeps doing so. After a fatal error the walker is failed and every
// later call returns that same error. Non-fatal problems (unreadable
// directories, broken links, bad ignore files) skip the affected path and
// go to the error handler.
func (w *Walker) Next() (*Entry, error) {
	switch w.state {
	case StateExhausted:
		return nil, io.EOF
	case StateFailed:
		return nil, w.err
	}

	if err := w.settings.ctx.Err(); err != nil {
		return nil, w.fail(err)
	}

	if w.state == StatePending {
		root, err := w.start()
		if err != nil {
			return nil, w.fail(err)
		}
		if root != nil {
			w.state = StateEmitting
			return root, nil
		}
	}

	for {
		if w.descend != nil {
			w.state = StateDescending
			dir := w.descend
			w.descend = nil
			w.push(dir)
		}

		if len(w.stack) == 0 {
			w.finish()
			return nil, io.EOF
		}

		top := w.stack[len(w.stack)-1]
		if top.next >= len(top.entries) {
			w.pop()
			continue
		}

		de := top.entries[top.next]
		top.entries[top.next] = nil
		top.next++

		entry, err := w.visit(top, de)
		if err != nil {
			return nil, w.fail(err)
		}
		if entry == nil {
			continue
		}

		if entry.IsDir() && w.canDescend(entry) {
			w.descend = entry
		}

		w.state = StateEmitting
		w.stats.yielded(entry.IsDir(), entry.RelPath)
		w.settings.logger.Debug("Walker: Yielding %q (depth %d, %s)", entry.RelPath, entry.Depth, entry.Type)
		w.progress(false)
		return entry, nil
	}
}

// SkipDir prevents descending into the directory returned by the last call
// to Next. It has no effect when that entry was not a directory.
func (w *Walker) SkipDir() {
	if w.descend != nil {
		w.settings.logger.Debug("Walker: Caller skipped directory %q", w.descend.RelPath)
		w.descend = nil
	}
}

// Close abandons the walk and releases every open directory frame. Later
// calls to Next return io.EOF (or the fatal error, if the walk failed).
func (w *Walker) Close() error {
	w.stack = nil
	w.descend = nil
	w.rootNode = nil
	if w.state != StateFailed {
		w.state = StateExhausted
	}
	return nil
}

// State returns the current lifecycle state.
func (w *Walker) State() State { return w.state }

// Err returns the fatal error, nil unless the walker failed.
func (w *Walker) Err() error { return w.err }

// Skipped returns the paths skipped so far with their reason.
func (w *Walker) Skipped() []SkippedItem { return w.tracker.Items() }

// Stats returns walk counters.
func (w *Walker) Stats() Stats { return w.stats }

// prepare validates the options and builds every rule source rooted at the
// walk root, without listing any directory.
func (w *Walker) prepare() error {
	if w.opts.Root == "" {
		return newError(KindConfig, "", errors.New("root is required"))
	}

	abs, err := filepath.Abs(w.opts.Root)
	if err != nil {
		return newError(KindConfig, w.opts.Root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return newError(KindConfig, w.opts.Root, err)
	}
	if !info.IsDir() {
		return newError(KindConfig, w.opts.Root, errors.New("not a directory"))
	}

	w.root = abs
	w.display = filepath.Clean(w.opts.Root)

	w.settings.logger.Debug("walker.New: Root %q (absolute %q)", w.display, w.root)

	var repo *ignore.Repository
	if w.opts.RequireGit || w.opts.ReadGitExclude || w.opts.ReadParentsIgnores || w.opts.ReadGlobalGitIgnore {
		repo, err = ignore.FindRepository(abs)
		if err != nil {
			w.settings.logger.Warn("walker: Repository lookup failed for %q: %v", abs, err)
			repo = nil
		}
	}
	if w.opts.RequireGit && repo == nil {
		return newError(KindConfig, w.opts.Root, errors.New("not inside a git repository"))
	}
	if repo != nil {
		w.settings.logger.Debug("walker.New: Repository root %q, git dir %q", repo.Root, repo.GitDir)
	}

	w.loader = ignore.NewLoader(ignore.Config{
		ReadGitIgnore:         w.opts.ReadGitIgnore,
		ReadIgnoreFiles:       w.opts.ReadIgnoreFiles,
		CustomIgnoreFilenames: w.opts.CustomIgnoreFilenames,
		CaseInsensitive:       w.opts.CaseInsensitive,
	},
		ignore.WithLogger(w.settings.logger),
		ignore.WithCache(w.settings.cache),
		ignore.WithProblemHandler(w.ignoreProblem),
	)

	w.override, err = ignore.NewOverride(abs, w.opts.Overrides, w.opts.CaseInsensitive)
	if err != nil {
		return newError(KindPatternCompile, "overrides", err)
	}

	extra, err := w.rootRules(repo)
	if err != nil {
		return err
	}

	stop := ""
	if repo != nil {
		stop = repo.Root
	}
	w.rootNode = w.loader.RootNode(abs, w.opts.ReadParentsIgnores, stop, extra...)

	if w.opts.SameFileSystem || w.opts.FollowLinks {
		w.rootID, err = identify(abs)
		if err != nil {
			return newError(KindConfig, w.opts.Root, err)
		}
	}

	w.pipeline = w.buildPipeline()
	w.settings.logger.Debug("walker.New: Filters %v", w.pipeline.names())

	return nil
}

// rootRules loads the global, exclude and explicit rule sets.
func (w *Walker) rootRules(repo *ignore.Repository) ([]*ignore.RuleSet, error) {
	var sets []*ignore.RuleSet

	if w.opts.ReadGlobalGitIgnore {
		origin := w.root
		if repo != nil {
			origin = repo.Root
		}
		path, err := ignore.GlobalExcludesFile()
		if err != nil {
			w.ignoreProblem("core.excludesFile", err)
		} else if set, err := w.loader.LoadFile(path, origin, pattern.TierGlobal); err != nil {
			w.ignoreProblem(path, err)
		} else if set.Len() > 0 {
			w.settings.logger.Debug("walker.New: Loaded %d global rules from %q", set.Len(), path)
			sets = append(sets, set)
		}
	}

	if w.opts.ReadGitExclude && repo != nil {
		path := repo.ExcludeFile()
		if set, err := w.loader.LoadFile(path, repo.Root, pattern.TierGitExclude); err != nil {
			w.ignoreProblem(path, err)
		} else if set.Len() > 0 {
			w.settings.logger.Debug("walker.New: Loaded %d exclude rules from %q", set.Len(), path)
			sets = append(sets, set)
		}
	}

	files := make([]string, 0, len(w.opts.AdditionalIgnorePaths))
	for _, file := range w.opts.AdditionalIgnorePaths {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, newError(KindConfig, file, err)
		}
		files = append(files, abs)
	}

	explicit, err := w.loader.ExplicitRules(w.root, files, w.opts.AdditionalIgnores)
	if err != nil {
		return nil, newError(KindPatternCompile, "additional ignores", err)
	}

	return append(sets, explicit...), nil
}

func (w *Walker) buildPipeline() pipeline {
	var p pipeline
	if w.opts.MaxDepth != nil {
		p = append(p, depthFilter(*w.opts.MaxDepth))
	}
	if w.opts.SkipGitDir {
		p = append(p, gitDirFilter())
	}
	if !w.override.Empty() {
		p = append(p, overrideFilter(w.override))
	}
	if w.opts.IgnoreHidden {
		p = append(p, hiddenFilter())
	}
	p = append(p, ruleFilter())
	if w.opts.MaxFilesize != nil {
		p = append(p, sizeFilter(*w.opts.MaxFilesize))
	}
	if w.opts.FilterEntry != nil {
		p = append(p, predicateFilter(w.opts.FilterEntry))
	}
	return p
}

// start prepares the walk and opens the root directory. It returns the root
// entry when the root itself is to be yielded.
func (w *Walker) start() (*Entry, error) {
	if err := w.prepare(); err != nil {
		return nil, err
	}

	w.lastProgress = time.Now()

	root := &Entry{
		Path:    w.display,
		RelPath: ".",
		Depth:   -1,
		Type:    TypeDir,
		abs:     w.root,
	}

	frame := w.open(root, w.rootNode)
	if frame != nil {
		frame.id = w.rootID
		w.stack = append(w.stack, frame)
	}

	if w.opts.IncludeRoot {
		w.stats.yielded(true, root.RelPath)
		return root, nil
	}
	return nil, nil
}

// canDescend reports whether the children of a yielded directory can still
// pass the depth limit.
func (w *Walker) canDescend(e *Entry) bool {
	return w.opts.MaxDepth == nil || e.Depth < *w.opts.MaxDepth
}

// push opens a yielded directory on top of the current frame. Its ignore
// files are only read once the listing succeeded.
func (w *Walker) push(dir *Entry) {
	parent := w.stack[len(w.stack)-1]

	f := w.open(dir, nil)
	if f == nil {
		return
	}
	f.node = w.loader.ChildNode(parent.node, dir.abs)
	if w.opts.FollowLinks {
		if id, err := identify(dir.abs); err == nil {
			f.id = id
		}
	}
	w.stack = append(w.stack, f)
}

// open lists a directory. A listing error is reported and the directory
// yields whatever entries were read before the failure.
func (w *Walker) open(dir *Entry, node *ignore.Node) *frame {
	entries, err := os.ReadDir(dir.abs)
	if err != nil {
		reason := ReasonSkippedWalkError
		if errors.Is(err, fs.ErrPermission) {
			reason = ReasonSkippedPermError
		}
		w.skipIO(dir.RelPath, true, reason, err)
		if len(entries) == 0 {
			return nil
		}
	}

	w.settings.logger.Debug("Walker: Descending into directory %q (%d entries)", dir.RelPath, len(entries))

	return &frame{
		dir:     dir.abs,
		display: dir.Path,
		rel:     dir.RelPath,
		depth:   dir.Depth + 1,
		node:    node,
		entries: entries,
	}
}

// pop closes the top frame, releasing its rule node.
func (w *Walker) pop() {
	last := len(w.stack) - 1
	w.stack[last] = nil
	w.stack = w.stack[:last]
}

// visit turns a directory entry into a yielded Entry, or nil when it is
// filtered out. Only fatal errors are returned.
func (w *Walker) visit(parent *frame, de fs.DirEntry) (*Entry, error) {
	name := de.Name()
	rel := name
	if parent.rel != "." {
		rel = path.Join(parent.rel, name)
	}

	e := &Entry{
		Path:    filepath.Join(parent.display, name),
		RelPath: rel,
		Depth:   parent.depth,
		Type:    fileTypeOf(de.Type()),
		abs:     filepath.Join(parent.dir, name),
	}

	if e.Type == TypeSymlink {
		e.Symlink = true
		if w.opts.FollowLinks {
			info, err := os.Stat(e.abs)
			if err != nil {
				w.skipIO(rel, false, ReasonSkippedBrokenLink, err)
				return nil, nil
			}
			e.Type = fileTypeOf(info.Mode())
			e.followed = true
			e.info = info
			e.loaded = true

			if e.IsDir() {
				id, err := identify(e.abs)
				if err != nil {
					w.skipIO(rel, true, ReasonSkippedInfoError, err)
					return nil, nil
				}
				if w.onPath(id) {
					w.settings.logger.Debug("Walker: Symlink loop at %q, not descending", rel)
					w.skip(rel, true, ReasonSkippedSymlinkLoop)
					return nil, nil
				}
			}
		}
	}

	isDir := e.IsDir()
	w.stats.seen(isDir)

	if isDir && w.opts.SameFileSystem {
		id, err := identify(e.abs)
		if err != nil {
			w.skipIO(rel, true, ReasonSkippedInfoError, err)
			return nil, nil
		}
		if !id.sameDevice(w.rootID) {
			w.settings.logger.Debug("Walker: %q is on another file system", rel)
			w.skip(rel, true, ReasonSkippedOtherFS)
			return nil, nil
		}
	}

	ok, reason, err := w.pipeline.run(&candidate{entry: e, node: parent.node})
	if err != nil {
		var werr *Error
		if errors.As(err, &werr) && werr.Kind == KindIO {
			w.skipIO(rel, isDir, reason, werr.Err)
			return nil, nil
		}
		return nil, err
	}
	if !ok {
		w.settings.logger.Debug("Walker: Skipped %q: %s", rel, reason)
		w.skip(rel, isDir, reason)
		return nil, nil
	}

	return e, nil
}

// onPath reports whether a directory with this identity is already open.
func (w *Walker) onPath(id fileID) bool {
	for _, f := range w.stack {
		if f.id == id {
			return true
		}
	}
	return false
}

func (w *Walker) skip(rel string, isDir bool, reason SkippedReason) {
	w.tracker.Track(rel, reason, isDir)
	w.stats.skipped(isDir)
}

// skipIO records a non-fatal I/O failure on one path.
func (w *Walker) skipIO(rel string, isDir bool, reason SkippedReason, err error) {
	w.skip(rel, isDir, reason)
	w.settings.logger.Warn("walker: Skipping %q: %v", rel, err)
	w.report(newError(KindIO, rel, err))
}

// ignoreProblem records an ignore file that was dropped.
func (w *Walker) ignoreProblem(path string, err error) {
	kind := KindIO
	if errors.Is(err, pattern.ErrInvalidPattern) {
		kind = KindPatternCompile
	}
	w.tracker.Track(path, ReasonSkippedBadIgnore, false)
	w.report(newError(kind, path, err))
}

func (w *Walker) report(err *Error) {
	w.stats.Errors++
	if w.settings.onError != nil {
		w.settings.onError(err)
	}
}

func (w *Walker) fail(err error) error {
	w.settings.logger.Debug("Walker: Failed: %v", err)
	w.state = StateFailed
	w.err = err
	w.stack = nil
	w.descend = nil
	w.rootNode = nil
	return err
}

func (w *Walker) finish() {
	w.state = StateExhausted
	w.rootNode = nil
	w.progress(true)
	w.settings.logger.Debug("Walker: Done. %d dirs, %d files yielded, %d skipped",
		w.stats.YieldedDirs, w.stats.YieldedFiles, w.stats.SkippedDirs+w.stats.SkippedFiles)
}

func (w *Walker) progress(final bool) {
	if w.settings.progressFn == nil {
		return
	}
	now := time.Now()
	if !final && now.Sub(w.lastProgress) < w.settings.progressInterval {
		return
	}
	w.lastProgress = now
	w.settings.progressFn(w.stats)
}

func (w *Walker) String() string {
	return fmt.Sprintf("walker(%s, %s)", w.opts.Root, w.state)
}
