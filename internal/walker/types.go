// Package walker handles directory traversal with layered ignore rules
package walker

import (
	"sync"
)

// SkippedReason clarifies why a file/directory was not yielded.
type SkippedReason string

const (
	ReasonIgnoredHidden      SkippedReason = "Ignored (Hidden Rule)"
	ReasonIgnoredRule        SkippedReason = "Ignored (Ignore File Rule)"
	ReasonIgnoredOverride    SkippedReason = "Ignored (Override Glob)"
	ReasonIgnoredGitDir      SkippedReason = "Ignored (.git Directory)"
	ReasonFilteredDepth      SkippedReason = "Filtered (Max Depth)"
	ReasonFilteredPredicate  SkippedReason = "Filtered (Entry Predicate)"
	ReasonSkippedSizeLimit   SkippedReason = "Skipped (Size Limit Exceeded)"
	ReasonSkippedOtherFS     SkippedReason = "Skipped (Other File System)"
	ReasonSkippedSymlinkLoop SkippedReason = "Skipped (Symlink Loop)"
	ReasonSkippedBrokenLink  SkippedReason = "Skipped (Broken Symlink)"
	ReasonSkippedPermError   SkippedReason = "Skipped (Permission Error)"
	ReasonSkippedWalkError   SkippedReason = "Skipped (Walk Error)"
	ReasonSkippedInfoError   SkippedReason = "Skipped (File Info Error)"
	ReasonSkippedBadIgnore   SkippedReason = "Skipped (Unusable Ignore File)"
)

// SkippedItem holds information about a skipped path.
type SkippedItem struct {
	Path   string        `json:"path"`
	Reason SkippedReason `json:"reason"`
	IsDir  bool          `json:"is_dir"`
}

// SkippedTracker is a struct to track skipped items
type SkippedTracker struct {
	items []SkippedItem
	mutex sync.Mutex
}

// NewSkippedTracker creates a new SkippedTracker
func NewSkippedTracker(capacity int) *SkippedTracker {
	return &SkippedTracker{
		items: make([]SkippedItem, 0, capacity),
	}
}

// Track adds a skipped item to the tracker
func (st *SkippedTracker) Track(path string, reason SkippedReason, isDir bool) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	st.items = append(st.items, SkippedItem{Path: path, Reason: reason, IsDir: isDir})
}

// Items returns a copy of the tracked skipped items
func (st *SkippedTracker) Items() []SkippedItem {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	out := make([]SkippedItem, len(st.items))
	copy(out, st.items)
	return out
}

// Len returns the number of tracked items.
func (st *SkippedTracker) Len() int {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	return len(st.items)
}

// Stats holds statistics about the walk progress
type Stats struct {
	TotalFiles   int64  // Files seen
	YieldedFiles int64  // Files that passed all filters
	SkippedFiles int64  // Files skipped for any reason
	TotalDirs    int64  // Directories seen
	YieldedDirs  int64  // Directories that passed all filters
	SkippedDirs  int64  // Directories pruned
	Errors       int64  // Non-fatal errors
	CurrentPath  string // Relative path of the last yielded entry
}

func (s *Stats) seen(isDir bool) {
	if isDir {
		s.TotalDirs++
	} else {
		s.TotalFiles++
	}
}

func (s *Stats) yielded(isDir bool, rel string) {
	if isDir {
		s.YieldedDirs++
	} else {
		s.YieldedFiles++
	}
	s.CurrentPath = rel
}

func (s *Stats) skipped(isDir bool) {
	if isDir {
		s.SkippedDirs++
	} else {
		s.SkippedFiles++
	}
}
