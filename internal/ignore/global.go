package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/mitchellh/go-homedir"
)

// GlobalExcludesFile returns the path of the user's global git ignore file:
// core.excludesFile from the user's git configuration when set, otherwise
// git's default location under the XDG config directory. The file itself
// may not exist.
func GlobalExcludesFile() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("ignore: locate home directory: %w", err)
	}

	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		xdg = filepath.Join(home, ".config")
	}

	// Later files win, matching git's own lookup order.
	var excludes string
	for _, path := range []string{
		filepath.Join(xdg, "git", "config"),
		filepath.Join(home, ".gitconfig"),
	} {
		value, err := readExcludesFile(path)
		if err != nil {
			return "", err
		}
		if value != "" {
			excludes = value
		}
	}

	if excludes == "" {
		return filepath.Join(xdg, "git", "ignore"), nil
	}

	expanded, err := homedir.Expand(excludes)
	if err != nil {
		return "", fmt.Errorf("ignore: expand core.excludesFile %q: %w", excludes, err)
	}
	return expanded, nil
}

// readExcludesFile returns core.excludesFile from one git config file, or ""
// when the file or the key is absent.
func readExcludesFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("ignore: open git config: %w", err)
	}
	defer f.Close()

	cfg := config.New()
	if err := config.NewDecoder(f).Decode(cfg); err != nil {
		return "", fmt.Errorf("ignore: parse git config %s: %w", path, err)
	}

	return cfg.Section("core").Option("excludesfile"), nil
}
