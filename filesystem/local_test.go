package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocalFS(t *testing.T) (*LocalFS, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs", "2024"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "readme.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "my notes.txt"), []byte("notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.txt"), []byte("top"), 0o644))
	return NewLocalFS(dir), dir
}

func TestLocalFS_Search(t *testing.T) {
	lfs, _ := setupLocalFS(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		current  Path
		pathText string
		wantFull string // empty when nothing should be found
	}{
		{"absolute", Path{}, "/docs/readme.txt", "/docs/readme.txt"},
		{"relative", Path{"docs"}, "readme.txt", "/docs/readme.txt"},
		{"parent", Path{"docs", "2024"}, "../readme.txt", "/docs/readme.txt"},
		{"spaces", Path{}, "docs/my notes.txt", "/docs/my notes.txt"},
		{"directory", Path{}, "docs/2024", "/docs/2024"},
		{"escape root", Path{"docs"}, "../../../top.txt", "/top.txt"},
		{"missing file", Path{}, "/missing.txt", ""},
		{"missing dir", Path{}, "/nope/readme.txt", ""},
		{"file as dir", Path{}, "/top.txt/readme.txt", ""},
		{"root", Path{}, "/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := lfs.Search(ctx, tt.current, tt.pathText)
			require.NoError(t, err)
			if tt.wantFull == "" {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, tt.wantFull, result.FullPath())
			assert.Equal(t, result.FileName, result.Entry.Name())
		})
	}
}

func TestLocalFS_SetTimestamps(t *testing.T) {
	lfs, dir := setupLocalFS(t)
	ctx := context.Background()
	localPath := filepath.Join(dir, "docs", "readme.txt")

	access := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(localPath, access, access))

	result, err := lfs.Search(ctx, Path{}, "/docs/readme.txt")
	require.NoError(t, err)
	require.NotNil(t, result)

	modify := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	entry, err := lfs.SetTimestamps(ctx, result.Entry, &modify, nil, nil)
	require.NoError(t, err)
	assert.True(t, modify.Equal(entry.ModTime()), "got %s", entry.ModTime())

	info, err := os.Stat(localPath)
	require.NoError(t, err)
	assert.True(t, modify.Equal(info.ModTime()))
}

func TestLocalFS_SetTimestamps_Unsupported(t *testing.T) {
	lfs, _ := setupLocalFS(t)
	ctx := context.Background()
	result, err := lfs.Search(ctx, Path{}, "/top.txt")
	require.NoError(t, err)
	require.NotNil(t, result)

	create := time.Now()
	_, err = lfs.SetTimestamps(ctx, result.Entry, nil, nil, &create)
	assert.True(t, errors.Is(err, ErrUnsupported), "got %v", err)

	_, err = lfs.SetTimestamps(ctx, &MemoryEntry{name: "x"}, &create, nil, nil)
	assert.ErrorIs(t, err, ErrForeignEntry)
}

func TestLocalFS_SetTimestamps_OutOfRange(t *testing.T) {
	for _, year := range []int{9999, 1500} {
		t.Run(fmt.Sprint(year), func(t *testing.T) {
			lfs, dir := setupLocalFS(t)
			ctx := context.Background()
			localPath := filepath.Join(dir, "top.txt")
			old := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
			require.NoError(t, os.Chtimes(localPath, old, old))

			result, err := lfs.Search(ctx, Path{}, "/top.txt")
			require.NoError(t, err)
			require.NotNil(t, result)

			modify := time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC)
			entry, err := lfs.SetTimestamps(ctx, result.Entry, &modify, nil, nil)

			info, statErr := os.Stat(localPath)
			require.NoError(t, statErr)
			if err != nil {
				// the file system can't hold the time, the file keeps its old one
				assert.ErrorIs(t, err, ErrUnsupported)
				assert.Equal(t, old.Unix(), info.ModTime().Unix())
				return
			}
			assert.Equal(t, modify.Unix(), entry.ModTime().Unix())
			assert.Equal(t, modify.Unix(), info.ModTime().Unix())
		})
	}
}

func TestLocalFS_Symlinks(t *testing.T) {
	lfs, dir := setupLocalFS(t)
	ctx := context.Background()

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0o644))
	old := time.Date(2020, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(secret, old, old))

	if err := os.Symlink(secret, filepath.Join(dir, "escape.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "escapedir")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "docs", "readme.txt"), filepath.Join(dir, "inside.txt")))

	for _, p := range []string{"/escape.txt", "/escapedir/secret.txt"} {
		result, err := lfs.Search(ctx, Path{}, p)
		require.NoError(t, err)
		assert.Nil(t, result, p)
	}

	result, err := lfs.Search(ctx, Path{}, "/inside.txt")
	require.NoError(t, err)
	require.NotNil(t, result)

	// an entry for a link that leaves the root is refused
	modify := time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC)
	_, err = lfs.SetTimestamps(ctx, &localEntry{virtualPath: "/escape.txt"}, &modify, nil, nil)
	assert.ErrorIs(t, err, ErrOutsideRoot)

	info, err := os.Stat(secret)
	require.NoError(t, err)
	assert.Equal(t, old.Unix(), info.ModTime().Unix())
}

func TestLocalFS_Canceled(t *testing.T) {
	lfs, _ := setupLocalFS(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := lfs.Search(ctx, Path{}, "/top.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalFS_securePath(t *testing.T) {
	lfs := NewLocalFS(t.TempDir())
	tests := []struct {
		in   string
		want string
	}{
		{"/", "."},
		{"", "."},
		{"/docs/readme.txt", "docs/readme.txt"},
		{"docs/../readme.txt", "readme.txt"},
		{"/../../etc/passwd", "etc/passwd"},
	}
	for _, tt := range tests {
		got, err := lfs.cleanPath(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
