package ignore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Repository describes the git repository enclosing a directory.
type Repository struct {
	// Root is the working tree root (the directory holding .git).
	Root string
	// GitDir is the repository's git directory. For linked worktrees and
	// submodules it is the directory named by the .git file.
	GitDir string
	// CommonDir is the directory shared between worktrees, holding info/.
	CommonDir string
}

// ExcludeFile returns the path of the repository's info/exclude file.
func (r *Repository) ExcludeFile() string {
	return filepath.Join(r.CommonDir, "info", "exclude")
}

// FindRepository looks for a .git entry in start and each of its ancestors.
// It returns nil without error when start is not inside a repository. start
// must be absolute.
func FindRepository(start string) (*Repository, error) {
	dir := filepath.Clean(start)
	for {
		repo, err := repositoryAt(dir)
		if err != nil {
			return nil, err
		}
		if repo != nil {
			return repo, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func repositoryAt(dir string) (*Repository, error) {
	dotGit := filepath.Join(dir, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, nil
		}
		return nil, err
	}

	gitDir := dotGit
	if !info.IsDir() {
		gitDir, err = readGitFile(dotGit)
		if err != nil {
			return nil, err
		}
		if gitDir == "" {
			return nil, nil
		}
	}

	return &Repository{
		Root:      dir,
		GitDir:    gitDir,
		CommonDir: commonDir(gitDir),
	}, nil
}

// readGitFile resolves a "gitdir: <path>" file as written for worktrees and
// submodules. Files without that prefix are not repositories.
func readGitFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	line, _, _ := bytes.Cut(data, []byte("\n"))
	target, ok := strings.CutPrefix(strings.TrimSpace(string(line)), "gitdir:")
	if !ok {
		return "", nil
	}

	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// commonDir follows the commondir file of a linked worktree's git directory.
func commonDir(gitDir string) string {
	data, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if err != nil {
		return gitDir
	}

	target := strings.TrimSpace(string(data))
	if target == "" {
		return gitDir
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(gitDir, target)
	}
	return filepath.Clean(target)
}
