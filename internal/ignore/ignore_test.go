package ignore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/rwalk/internal/pattern"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func mustRuleSet(t *testing.T, tier pattern.Tier, dir string, lines ...string) *RuleSet {
	t.Helper()
	set, err := CompileRuleSet(tier, dir, tier.String(), lines, false)
	require.NoError(t, err)
	return set
}

func TestRuleSet_LastMatchWins(t *testing.T) {
	root := t.TempDir()
	set := mustRuleSet(t, pattern.TierGitIgnore, root, "*.log", "!keep.log", "keep.log")

	m := set.Matched(filepath.Join(root, "keep.log"), false)
	assert.True(t, m.IsIgnore())
	assert.Equal(t, 3, m.Pattern.Line())

	set = mustRuleSet(t, pattern.TierGitIgnore, root, "*.log", "!keep.log")
	m = set.Matched(filepath.Join(root, "keep.log"), false)
	assert.True(t, m.IsWhitelist())

	assert.True(t, set.Matched(filepath.Join(root, "main.go"), false).IsNone())
}

func TestNode_Precedence(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")

	tests := []struct {
		name    string
		build   func() *Node
		path    string
		ignored bool
	}{
		{
			name: "deeper gitignore re-includes",
			build: func() *Node {
				top := NewNode(nil, root, mustRuleSet(t, pattern.TierGitIgnore, root, "*.log"))
				return top.Child(sub, mustRuleSet(t, pattern.TierGitIgnore, sub, "!keep.log"))
			},
			path:    filepath.Join(sub, "keep.log"),
			ignored: false,
		},
		{
			name: "deeper gitignore excludes",
			build: func() *Node {
				top := NewNode(nil, root, mustRuleSet(t, pattern.TierGitIgnore, root, "!*.tmp"))
				return top.Child(sub, mustRuleSet(t, pattern.TierGitIgnore, sub, "*.tmp"))
			},
			path:    filepath.Join(sub, "a.tmp"),
			ignored: true,
		},
		{
			name: "higher tier at root beats lower tier deeper",
			build: func() *Node {
				top := NewNode(nil, root, mustRuleSet(t, pattern.TierExplicit, root, "*.dat"))
				return top.Child(sub, mustRuleSet(t, pattern.TierGitIgnore, sub, "!*.dat"))
			},
			path:    filepath.Join(sub, "x.dat"),
			ignored: true,
		},
		{
			name: "ignore file beats gitignore in same dir",
			build: func() *Node {
				return NewNode(nil, root,
					mustRuleSet(t, pattern.TierGitIgnore, root, "*.go"),
					mustRuleSet(t, pattern.TierIgnore, root, "!main.go"),
				)
			},
			path:    filepath.Join(root, "main.go"),
			ignored: false,
		},
		{
			name: "gitignore beats global",
			build: func() *Node {
				return NewNode(nil, root,
					mustRuleSet(t, pattern.TierGlobal, root, "*.bak"),
					mustRuleSet(t, pattern.TierGitIgnore, root, "!x.bak"),
				)
			},
			path:    filepath.Join(root, "x.bak"),
			ignored: false,
		},
		{
			name: "exclude beats global",
			build: func() *Node {
				return NewNode(nil, root,
					mustRuleSet(t, pattern.TierGitExclude, root, "!x.bak"),
					mustRuleSet(t, pattern.TierGlobal, root, "*.bak"),
				)
			},
			path:    filepath.Join(root, "x.bak"),
			ignored: false,
		},
		{
			name: "no rule",
			build: func() *Node {
				return NewNode(nil, root)
			},
			path:    filepath.Join(root, "x"),
			ignored: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := tt.build()
			assert.Equal(t, tt.ignored, node.IsIgnored(tt.path, false))
		})
	}
}

func TestNode_NilIsNeverIgnored(t *testing.T) {
	var n *Node
	assert.False(t, n.IsIgnored("/x", false))
}

func TestOverride(t *testing.T) {
	root := t.TempDir()

	o, err := NewOverride(root, []string{"*.rs", "!skip.rs"}, false)
	require.NoError(t, err)
	assert.True(t, o.WhitelistMode())

	assert.True(t, o.Matched(filepath.Join(root, "main.rs"), false).IsWhitelist())
	assert.True(t, o.Matched(filepath.Join(root, "skip.rs"), false).IsIgnore())
	assert.True(t, o.Matched(filepath.Join(root, "README.md"), false).IsIgnore(), "unmatched file in whitelist mode")
	assert.True(t, o.Matched(filepath.Join(root, "src"), true).IsNone(), "unmatched dir falls through")

	ignoreOnly, err := NewOverride(root, []string{"!*.md"}, false)
	require.NoError(t, err)
	assert.False(t, ignoreOnly.WhitelistMode())
	assert.True(t, ignoreOnly.Matched(filepath.Join(root, "a.md"), false).IsIgnore())
	assert.True(t, ignoreOnly.Matched(filepath.Join(root, "a.go"), false).IsNone())

	var empty *Override
	assert.True(t, empty.Empty())
	assert.True(t, empty.Matched(filepath.Join(root, "a"), false).IsNone())

	_, err = NewOverride(root, []string{"bad["}, false)
	assert.True(t, errors.Is(err, pattern.ErrInvalidPattern))
}

func TestLoader_LoadDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\n")
	writeFile(t, filepath.Join(root, ".ignore"), "!keep.log\n")
	writeFile(t, filepath.Join(root, ".rwalkignore"), "*.tmp\n")

	tests := []struct {
		name  string
		cfg   Config
		tiers []pattern.Tier
	}{
		{name: "all", cfg: Config{ReadGitIgnore: true, ReadIgnoreFiles: true, CustomIgnoreFilenames: []string{".rwalkignore"}},
			tiers: []pattern.Tier{pattern.TierGitIgnore, pattern.TierIgnore, pattern.TierCustom}},
		{name: "gitignore only", cfg: Config{ReadGitIgnore: true}, tiers: []pattern.Tier{pattern.TierGitIgnore}},
		{name: "nothing", cfg: Config{}, tiers: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(tt.cfg, WithCache(nil))
			sets := l.LoadDir(root)
			var tiers []pattern.Tier
			for _, s := range sets {
				tiers = append(tiers, s.Tier())
			}
			assert.Equal(t, tt.tiers, tiers)
		})
	}
}

func TestLoader_BadFileIsDroppedAndReported(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "ok\nbad[\n")
	writeFile(t, filepath.Join(root, ".ignore"), "*.tmp\n")

	var problems []string
	l := NewLoader(Config{ReadGitIgnore: true, ReadIgnoreFiles: true},
		WithCache(nil),
		WithProblemHandler(func(path string, err error) {
			problems = append(problems, filepath.Base(path))
			assert.True(t, errors.Is(err, pattern.ErrInvalidPattern))
		}))

	sets := l.LoadDir(root)
	require.Len(t, sets, 1)
	assert.Equal(t, pattern.TierIgnore, sets[0].Tier())
	assert.Equal(t, []string{".gitignore"}, problems)
}

func TestLoader_RootNodeReadsParents(t *testing.T) {
	top := t.TempDir()
	root := filepath.Join(top, "a", "b")
	require.NoError(t, os.MkdirAll(root, 0o755))
	writeFile(t, filepath.Join(top, ".gitignore"), "*.secret\n")
	writeFile(t, filepath.Join(top, "a", ".gitignore"), "!shared.secret\n")

	l := NewLoader(Config{ReadGitIgnore: true}, WithCache(nil))

	node := l.RootNode(root, true, top)
	assert.True(t, node.IsIgnored(filepath.Join(root, "x.secret"), false))
	assert.False(t, node.IsIgnored(filepath.Join(root, "shared.secret"), false))

	without := l.RootNode(root, false, top)
	assert.False(t, without.IsIgnored(filepath.Join(root, "x.secret"), false))

	// stop at a, so the top file is out of reach
	partial := l.RootNode(root, true, filepath.Join(top, "a"))
	assert.False(t, partial.IsIgnored(filepath.Join(root, "x.secret"), false))
}

func TestAncestors(t *testing.T) {
	sep := string(filepath.Separator)
	dir := filepath.Join(sep, "r", "a", "b")

	assert.Equal(t, []string{filepath.Join(sep, "r"), filepath.Join(sep, "r", "a")}, ancestors(dir, filepath.Join(sep, "r")))
	assert.Equal(t, []string{sep, filepath.Join(sep, "r"), filepath.Join(sep, "r", "a")}, ancestors(dir, ""))
	assert.Empty(t, ancestors(dir, dir))
}

func TestLoader_ExplicitRules(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(t.TempDir(), "extra.ignore")
	writeFile(t, file, "*.dat\n")

	l := NewDefaultLoader(WithCache(nil))
	sets, err := l.ExplicitRules(root, []string{file, filepath.Join(root, "missing")}, []string{"!keep.dat"})
	require.NoError(t, err)
	require.Len(t, sets, 2)

	node := NewNode(nil, root, sets...)
	assert.True(t, node.IsIgnored(filepath.Join(root, "a.dat"), false))
	assert.False(t, node.IsIgnored(filepath.Join(root, "keep.dat"), false), "inline patterns come last")

	_, err = l.ExplicitRules(root, nil, []string{"bad["})
	assert.True(t, errors.Is(err, pattern.ErrInvalidPattern))
}

func TestIsIgnored_OverrideFirst(t *testing.T) {
	root := t.TempDir()
	node := NewNode(nil, root, mustRuleSet(t, pattern.TierGitIgnore, root, "*.log"))
	o, err := NewOverride(root, []string{"debug.log"}, false)
	require.NoError(t, err)

	assert.False(t, IsIgnored(node, o, filepath.Join(root, "debug.log"), false))
	assert.True(t, IsIgnored(node, o, filepath.Join(root, "other.txt"), false))
	assert.True(t, IsIgnored(node, nil, filepath.Join(root, "debug.log"), false))
}

func TestCache(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".gitignore")
	writeFile(t, path, "*.log\n")

	c, err := NewCache(8)
	require.NoError(t, err)

	first, err := c.Load(path, root, pattern.TierGitIgnore, false)
	require.NoError(t, err)
	second, err := c.Load(path, root, pattern.TierGitIgnore, false)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())

	folded, err := c.Load(path, root, pattern.TierGitIgnore, true)
	require.NoError(t, err)
	assert.NotSame(t, first, folded)

	writeFile(t, path, "*.log\n*.tmp\n")
	changed, err := c.Load(path, root, pattern.TierGitIgnore, false)
	require.NoError(t, err)
	assert.Equal(t, 2, changed.Len())

	missing, err := c.Load(filepath.Join(root, "nope"), root, pattern.TierGitIgnore, false)
	require.NoError(t, err)
	assert.Nil(t, missing)

	dir, err := c.Load(root, root, pattern.TierGitIgnore, false)
	require.NoError(t, err)
	assert.Nil(t, dir)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestFindRepository(t *testing.T) {
	t.Run("git directory", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "info"), 0o755))
		deep := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(deep, 0o755))

		repo, err := FindRepository(deep)
		require.NoError(t, err)
		require.NotNil(t, repo)
		assert.Equal(t, root, repo.Root)
		assert.Equal(t, filepath.Join(root, ".git", "info", "exclude"), repo.ExcludeFile())
	})

	t.Run("worktree git file", func(t *testing.T) {
		main := t.TempDir()
		common := filepath.Join(main, ".git")
		wtGitDir := filepath.Join(common, "worktrees", "wt")
		require.NoError(t, os.MkdirAll(wtGitDir, 0o755))
		writeFile(t, filepath.Join(wtGitDir, "commondir"), "../..\n")

		wt := t.TempDir()
		writeFile(t, filepath.Join(wt, ".git"), "gitdir: "+wtGitDir+"\n")

		repo, err := FindRepository(wt)
		require.NoError(t, err)
		require.NotNil(t, repo)
		assert.Equal(t, wt, repo.Root)
		assert.Equal(t, wtGitDir, repo.GitDir)
		assert.Equal(t, common, repo.CommonDir)
	})

	t.Run("plain .git file is not a repository", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".git"), "nothing here\n")
		repo, err := repositoryAt(dir)
		require.NoError(t, err)
		assert.Nil(t, repo)
	})
}

func TestGlobalExcludesFile(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	t.Run("default location", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("XDG_CONFIG_HOME", "")

		path, err := GlobalExcludesFile()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "git", "ignore"), path)
	})

	t.Run("gitconfig wins over xdg config", func(t *testing.T) {
		home := t.TempDir()
		xdg := filepath.Join(home, "xdg")
		t.Setenv("HOME", home)
		t.Setenv("XDG_CONFIG_HOME", xdg)
		writeFile(t, filepath.Join(xdg, "git", "config"), "[core]\n\texcludesFile = /from/xdg\n")
		writeFile(t, filepath.Join(home, ".gitconfig"), "[user]\n\tname = someone\n[core]\n\texcludesfile = ~/global.ignore\n")

		path, err := GlobalExcludesFile()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "global.ignore"), path)
	})

	t.Run("xdg config only", func(t *testing.T) {
		home := t.TempDir()
		xdg := filepath.Join(home, "xdg")
		t.Setenv("HOME", home)
		t.Setenv("XDG_CONFIG_HOME", xdg)
		writeFile(t, filepath.Join(xdg, "git", "config"), "[core]\n\texcludesFile = /from/xdg\n")

		path, err := GlobalExcludesFile()
		require.NoError(t, err)
		assert.Equal(t, "/from/xdg", path)
	})
}

func TestLint(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	writeFile(t, path, "*.log\nbuild/\n!build/keep.txt\n*.log\nbad[\n")

	report, err := Lint(path, false)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Patterns)

	var errs, dups, blocked int
	for _, d := range report.Diagnostics {
		assert.Equal(t, path, d.File)
		switch {
		case d.Severity == SeverityError:
			errs++
			assert.Equal(t, 5, d.Line)
		case d.Line == 4:
			dups++
		case d.Line == 3:
			blocked++
		}
	}
	assert.Equal(t, 1, errs)
	assert.Equal(t, 1, dups)
	assert.Equal(t, 1, blocked)

	require.Error(t, report.Err())
	assert.Contains(t, report.Err().Error(), ":5:")

	clean := filepath.Join(t.TempDir(), ".gitignore")
	writeFile(t, clean, "*.log\n")
	report, err = Lint(clean, false)
	require.NoError(t, err)
	assert.NoError(t, report.Err())

	_, err = Lint(filepath.Join(t.TempDir(), "missing"), false)
	assert.Error(t, err)
}
