package printer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/rwalk/internal/walker"
)

// entries walks a small tree: a.txt (5 bytes), sub/, sub/b.txt.
func entries(t *testing.T) (string, []*walker.Entry) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), nil, 0o644))

	opts := walker.DefaultOptions(root)
	opts.ReadGlobalGitIgnore = false
	opts.ReadParentsIgnores = false

	var got []*walker.Entry
	_, err := walker.Walk(opts, func(e *walker.Entry) error {
		got = append(got, e)
		return nil
	}, walker.WithRuleCache(nil))
	require.NoError(t, err)
	require.Len(t, got, 3)
	return root, got
}

func printAll(t *testing.T, p *Printer, list []*walker.Entry) {
	t.Helper()
	for _, e := range list {
		require.NoError(t, p.PrintEntry(e))
	}
	require.NoError(t, p.Finalize())
}

func TestPrinter_Plain(t *testing.T) {
	root, list := entries(t)
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(false)
	printAll(t, p, list)

	want := strings.Join([]string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "b.txt"),
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, int64(3), p.GetCount())
}

func TestPrinter_Colors(t *testing.T) {
	_, list := entries(t)
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(true)
	printAll(t, p, list)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.NotContains(t, lines[0], "\x1b[")
	assert.Contains(t, lines[1], "\x1b[")
}

func TestPrinter_Long(t *testing.T) {
	_, list := entries(t)
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithColors(false).WithLong(true)
	printAll(t, p, list)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "file"))
	assert.Contains(t, lines[0], "5B")
	assert.True(t, strings.HasPrefix(lines[1], "dir"))
	assert.Contains(t, lines[1], " - ")
}

func TestPrinter_JSON(t *testing.T) {
	_, list := entries(t)
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithFormat("json").WithLong(true)
	printAll(t, p, list)

	var got []JSONEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)

	assert.Equal(t, "a.txt", got[0].RelPath)
	assert.Equal(t, "file", got[0].Type)
	require.NotNil(t, got[0].Size)
	assert.Equal(t, int64(5), *got[0].Size)

	assert.Equal(t, "dir", got[1].Type)
	assert.Nil(t, got[1].Size)

	assert.Equal(t, "sub/b.txt", got[2].RelPath)
	assert.Equal(t, 1, got[2].Depth)
}

func TestPrinter_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithJSON(true)
	require.NoError(t, p.Finalize())

	var got []JSONEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Empty(t, got)
}

func TestPrinter_Markdown(t *testing.T) {
	_, list := entries(t)
	var buf bytes.Buffer
	p := New().WithOutput(&buf).WithFormat("markdown")
	printAll(t, p, list)

	assert.Equal(t, "- `a.txt`\n- `sub/`\n  - `b.txt`\n", buf.String())
}
