//go:build unix

package walker

import (
	"golang.org/x/sys/unix"
)

// fileID identifies a file by device and inode.
type fileID struct {
	dev uint64
	ino uint64
}

// identify stats path, following symlinks.
func identify(path string) (fileID, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return fileID{}, err
	}
	return fileID{dev: uint64(st.Dev), ino: uint64(st.Ino)}, nil
}

func (id fileID) sameDevice(other fileID) bool {
	return id.dev == other.dev
}
