package setup

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/rwalk/internal/config"
	"github.com/bethropolis/rwalk/internal/walker"
)

func TestWalkOptions_Defaults(t *testing.T) {
	cfg := config.Default()
	cfg.RootDir = "/tmp/x"

	opts, err := WalkOptions(cfg)
	require.NoError(t, err)

	want := walker.DefaultOptions("/tmp/x")
	want.SkipGitDir = true
	assert.Equal(t, want, opts)
}

func TestWalkOptions_Mapping(t *testing.T) {
	cfg := config.Default()
	cfg.Hidden = true
	cfg.NoIgnore = true
	cfg.IncludeGitDir = true
	cfg.Ignores = []string{" *.log ", ""}
	cfg.Globs = []string{"*.go"}
	cfg.MaxDepth = 2
	cfg.MaxFilesize = "1K"
	cfg.FollowLinks = true
	cfg.IncludeRoot = true

	opts, err := WalkOptions(cfg)
	require.NoError(t, err)

	assert.False(t, opts.IgnoreHidden)
	assert.False(t, opts.ReadIgnoreFiles)
	assert.False(t, opts.ReadGitIgnore)
	assert.False(t, opts.ReadGlobalGitIgnore)
	assert.False(t, opts.ReadGitExclude)
	assert.False(t, opts.ReadParentsIgnores)
	assert.False(t, opts.SkipGitDir)
	assert.Equal(t, []string{"*.log"}, opts.AdditionalIgnores)
	assert.Equal(t, []string{"*.go"}, opts.Overrides)
	require.NotNil(t, opts.MaxDepth)
	assert.Equal(t, 2, *opts.MaxDepth)
	require.NotNil(t, opts.MaxFilesize)
	assert.Equal(t, int64(1024), *opts.MaxFilesize)
	assert.True(t, opts.FollowLinks)
	assert.True(t, opts.IncludeRoot)
	assert.Nil(t, opts.FilterEntry)
}

func TestWalkOptions_BadSize(t *testing.T) {
	cfg := config.Default()
	cfg.MaxFilesize = "lots"
	_, err := WalkOptions(cfg)
	assert.Error(t, err)
}

func TestExtensionFilter(t *testing.T) {
	cfg := config.Default()
	cfg.Extensions = []string{".Go", " md", ""}

	opts, err := WalkOptions(cfg)
	require.NoError(t, err)
	require.NotNil(t, opts.FilterEntry)

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"main.go", false, true},
		{"README.MD", false, true},
		{"notes.txt", false, false},
		{"Makefile", false, false},
		{"vendor", true, true},
	}
	for _, tt := range tests {
		keep, err := opts.FilterEntry(tt.path, tt.isDir)
		require.NoError(t, err)
		assert.Equal(t, tt.want, keep, tt.path)
	}
}

func TestConfigureWalker(t *testing.T) {
	cfg := config.Default()
	cfg.ShowProgress = true

	var status bytes.Buffer
	_, fns, err := ConfigureWalker(cfg, WalkerConfig{
		Context: context.Background(),
		Status:  &status,
		OnError: func(error) {},
	})
	require.NoError(t, err)
	assert.Len(t, fns, 4)

	cfg.ShowProgress = false
	_, fns, err = ConfigureWalker(cfg, WalkerConfig{})
	require.NoError(t, err)
	assert.Len(t, fns, 1)
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	show := ProgressPrinter(&buf)

	show(walker.Stats{TotalFiles: 3, YieldedFiles: 2, TotalDirs: 1, YieldedDirs: 1})
	assert.Equal(t, "\rScanning... | Files: 2/3 | Dirs: 1/1", buf.String())

	buf.Reset()
	show(walker.Stats{CurrentPath: "a/very/long/path/that/goes/on/and/on/forever/file.go"})
	assert.Contains(t, buf.String(), "...")
	assert.Contains(t, buf.String(), "forever/file.go")
}
