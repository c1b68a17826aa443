package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Music"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Notebook.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))
	return dir
}

func names(files []domain.File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestList(t *testing.T) {
	dir := setupTree(t)
	p := NewProvider()

	tests := []struct {
		name     string
		query    string
		dirsOnly bool
		want     []string
	}{
		{name: "all sorted ignoring case", want: []string{"docs", "Music", "Notebook.md", "notes.txt"}},
		{name: "containment ignoring case", query: "NOTE", want: []string{"Notebook.md", "notes.txt"}},
		{name: "dirs only", dirsOnly: true, want: []string{"docs", "Music"}},
		{name: "dot query shows hidden", query: ".h", want: []string{".hidden"}},
		{name: "no match", query: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.List(context.Background(), dir, tt.query, tt.dirsOnly)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestListMissingDir(t *testing.T) {
	_, err := NewProvider().List(context.Background(), filepath.Join(t.TempDir(), "nope"), "", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStat(t *testing.T) {
	dir := setupTree(t)
	p := NewProvider()

	f, err := p.Stat(context.Background(), filepath.Join(dir, "Music"))
	require.NoError(t, err)
	assert.True(t, f.Dir)

	f, err = p.Stat(context.Background(), filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.False(t, f.Dir)

	_, err = p.Stat(context.Background(), filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "/home/u"},
		{"~", "/home/u"},
		{"~/docs", "/home/u/docs"},
		{"/tmp/../etc", "/etc"},
		{"sub/dir", "/work/sub/dir"},
		{"..", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve("/home/u", "/work", tt.path), tt.path)
	}
}

func TestSplitPartial(t *testing.T) {
	dir, name := SplitPartial("docs/re")
	assert.Equal(t, "docs/", dir)
	assert.Equal(t, "re", name)

	dir, name = SplitPartial("re")
	assert.Equal(t, "", dir)
	assert.Equal(t, "re", name)

	dir, name = SplitPartial("/")
	assert.Equal(t, "/", dir)
	assert.Equal(t, "", name)
}
