package summary

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/rwalk/internal/ignore"
	"github.com/bethropolis/rwalk/internal/walker"
)

type recordLogger struct {
	lines []string
}

func (r *recordLogger) Info(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestDisplayResults(t *testing.T) {
	log := &recordLogger{}
	stats := walker.Stats{TotalFiles: 4, YieldedFiles: 3, TotalDirs: 2, YieldedDirs: 1, SkippedFiles: 1, SkippedDirs: 1}

	DisplayResults(log, stats, 4, 1500*time.Microsecond, false)
	require.Len(t, log.lines, 3)
	assert.Contains(t, log.lines[0], "Printed 4 entries")
	assert.Contains(t, log.lines[1], "skipped 2")

	log = &recordLogger{}
	DisplayResults(log, stats, 4, time.Second, true)
	assert.Empty(t, log.lines)
}

func TestDisplaySkippedItems(t *testing.T) {
	log := &recordLogger{}
	var out bytes.Buffer
	items := []walker.SkippedItem{
		{Path: "z.log", Reason: walker.ReasonIgnoredRule},
		{Path: "build", Reason: walker.ReasonIgnoredRule, IsDir: true},
	}

	DisplaySkippedItems(log, items, &out, false)

	text := out.String()
	assert.Contains(t, text, "REASON")
	assert.Less(t, strings.Index(text, "build"), strings.Index(text, "z.log"), "sorted by path")
	assert.Contains(t, text, "DIR")
	assert.Equal(t, "z.log", items[0].Path, "input is not reordered")
	assert.Equal(t, []string{"Skipped 2 items."}, log.lines)
}

func TestDisplaySkippedItems_None(t *testing.T) {
	log := &recordLogger{}
	var out bytes.Buffer
	DisplaySkippedItems(log, nil, &out, false)

	assert.Empty(t, out.String())
	assert.Equal(t, []string{"No items were skipped."}, log.lines)
}

func TestDisplayLint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("*.log\n*.log\nbad[\n"), 0o644))

	report, err := ignore.Lint(path, false)
	require.NoError(t, err)

	var out bytes.Buffer
	errs := DisplayLint(&out, []*ignore.LintReport{report})

	assert.Equal(t, 1, errs)
	assert.Contains(t, out.String(), "duplicate of line 1")
	assert.Contains(t, out.String(), path+": 2 patterns")
}

func TestDisplayExplanation(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.log"), nil, 0o644))

	opts := walker.DefaultOptions(root)
	opts.ReadGlobalGitIgnore = false
	opts.ReadParentsIgnores = false

	e, err := walker.Explain(opts, filepath.Join(root, "a.log"), walker.WithRuleCache(nil))
	require.NoError(t, err)

	var out bytes.Buffer
	DisplayExplanation(&out, e)
	assert.Contains(t, out.String(), "ignored (Ignored (Ignore File Rule))")
	assert.Contains(t, out.String(), ".gitignore:1:*.log]")
}
