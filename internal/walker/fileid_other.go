//go:build !unix

package walker

import (
	"path/filepath"
)

// fileID identifies a directory by its resolved path where device and inode
// numbers are not available.
type fileID struct {
	path string
}

func identify(path string) (fileID, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileID{}, err
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return fileID{}, err
	}
	return fileID{path: abs}, nil
}

// sameDevice always holds: there is no portable device number here.
func (id fileID) sameDevice(other fileID) bool {
	return true
}
