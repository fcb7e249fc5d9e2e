package walker

import (
	"errors"
	"io"
	"io/fs"
	"iter"
)

// WalkFunc is the callback function type used by Walk. Returning
// fs.SkipDir for a directory skips its contents; any other error stops
// the walk and is returned by Walk.
type WalkFunc func(entry *Entry) error

// Walk traverses opts.Root calling fn for every yielded entry.
// It returns the skipped items and the first fatal error.
func Walk(opts Options, fn WalkFunc, fns ...Option) ([]SkippedItem, error) {
	w := New(opts, fns...)
	defer w.Close()

	for {
		entry, err := w.Next()
		if err == io.EOF {
			return w.Skipped(), nil
		}
		if err != nil {
			return w.Skipped(), err
		}

		if err := fn(entry); err != nil {
			if errors.Is(err, fs.SkipDir) {
				w.SkipDir()
				continue
			}
			return w.Skipped(), err
		}
	}
}

// All returns an iterator over the remaining entries. Iteration ends at the
// end of the walk or after yielding a fatal error.
func (w *Walker) All() iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		for {
			entry, err := w.Next()
			if err == io.EOF {
				return
			}
			if !yield(entry, err) || err != nil {
				return
			}
		}
	}
}
