package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tagtok/pkg/runner"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func abs(dir string, names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, filepath.Join(dir, filepath.FromSlash(n)))
	}
	return out
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"page.html": "<p>x</p>"})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"page.html"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "page.html"), files)
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.html":        "",
		"docs/guide.md":     "",
		"docs/feed.XML":     "",
		"notes.txt":         "",
		"src/main.go":       "",
		".hidden/page.html": "",
		".secret.html":      "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "docs/feed.XML", "docs/guide.md", "index.html", "notes.txt"), files)
}

func TestDiscover_Globs(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"index.html":          "",
		"docs/guide.html":     "",
		"docs/api/ref.html":   "",
		"vendor/lib/x.html":   "",
		"build/out.html":      "",
		"drafts/wip.txt":      "",
		"drafts/old/gone.txt": "",
	}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name:    "exclude directory tree",
			exclude: []string{"vendor/**", "build"},
			want:    []string{"docs/api/ref.html", "docs/guide.html", "drafts/old/gone.txt", "drafts/wip.txt", "index.html"},
		},
		{
			name:    "exclude by base name",
			exclude: []string{"*.txt"},
			want:    []string{"build/out.html", "docs/api/ref.html", "docs/guide.html", "index.html", "vendor/lib/x.html"},
		},
		{
			name:    "include single level star",
			include: []string{"docs/*.html"},
			want:    []string{"docs/guide.html"},
		},
		{
			name:    "include double star",
			include: []string{"docs/**"},
			want:    []string{"docs/api/ref.html", "docs/guide.html"},
		},
		{
			name:    "leading double star matches at root",
			include: []string{"**/index.html"},
			want:    []string{"index.html"},
		},
		{
			name:    "include and exclude",
			include: []string{"drafts/**"},
			exclude: []string{"**/old/**"},
			want:    []string{"drafts/wip.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFiles(t, dir, files)

			got, err := runner.Discover(context.Background(), runner.Options{
				WorkingDir:   dir,
				IncludeGlobs: tt.include,
				ExcludeGlobs: tt.exclude,
			})
			require.NoError(t, err)
			assert.Equal(t, abs(dir, tt.want...), got)
		})
	}
}

func TestDiscover_CustomExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.html": "", "b.sgml": ""})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: []string{".SGML"},
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "b.sgml"), files)
}

func TestDiscover_Deduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"docs/a.md": "", "docs/b.md": ""})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"docs", "docs/a.md", "."},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "docs/a.md", "docs/b.md"), files)
}

func TestDiscover_ExplicitFileStillFiltered(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.go": ""})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"main.go"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing"},
		WorkingDir: dir,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	_, err = runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"[a"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outside := t.TempDir()
	writeFiles(t, outside, map[string]string{"linked.html": ""})
	writeFiles(t, dir, map[string]string{"local.html": ""})
	if err := os.Symlink(outside, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, abs(dir, "local.html"), files)

	files, err = runner.Discover(context.Background(), runner.Options{
		WorkingDir:     dir,
		FollowSymlinks: true,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, append(abs(dir, "local.html"), filepath.Join(outside, "linked.html")), files)
}
