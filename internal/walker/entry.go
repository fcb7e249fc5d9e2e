package walker

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileType tags what an entry is.
type FileType uint8

const (
	TypeFile FileType = iota
	TypeDir
	TypeSymlink
	TypeOther
)

func (t FileType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDir:
		return "dir"
	case TypeSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Entry is one yielded path. Entries are independent of the walker and stay
// valid after further calls to Next.
type Entry struct {
	// Path is the root as given joined with the relative path.
	Path string
	// RelPath is the slash-separated path below the root, "." for the root.
	RelPath string
	// Depth is 0 for the root's children and -1 for the root itself.
	Depth int
	// Type is the entry type. Followed symlinks report their target's type.
	Type FileType
	// Symlink reports whether the path itself is a symbolic link.
	Symlink bool

	abs      string
	followed bool
	info     fs.FileInfo
	infoErr  error
	loaded   bool
}

// IsDir reports whether the entry is (or, when followed, points to) a directory.
func (e *Entry) IsDir() bool { return e.Type == TypeDir }

// Name returns the last element of the path.
func (e *Entry) Name() string { return filepath.Base(e.Path) }

// AbsPath returns the absolute path used for rule matching.
func (e *Entry) AbsPath() string { return e.abs }

// Info returns file metadata, read on first use. Followed symlinks describe
// their target.
func (e *Entry) Info() (fs.FileInfo, error) {
	if !e.loaded {
		e.loaded = true
		if e.followed {
			e.info, e.infoErr = os.Stat(e.abs)
		} else {
			e.info, e.infoErr = os.Lstat(e.abs)
		}
	}
	return e.info, e.infoErr
}

// Size returns the size in bytes, read on first use.
func (e *Entry) Size() (int64, error) {
	info, err := e.Info()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func fileTypeOf(mode fs.FileMode) FileType {
	switch {
	case mode.IsDir():
		return TypeDir
	case mode&fs.ModeSymlink != 0:
		return TypeSymlink
	case mode.IsRegular():
		return TypeFile
	default:
		return TypeOther
	}
}
