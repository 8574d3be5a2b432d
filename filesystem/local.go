package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Ensure that LocalFS implements the FileSystem interface
var _ FileSystem = &LocalFS{}

// LocalFS is a local file system that implements the FileSystem interface
type LocalFS struct {
	localDir    string // local directory to serve as the ftp virtualRoot
	virtualRoot string // virtualRoot directory that the server is serving normally it is "/"
	locks       sync.Map
	logger      *slog.Logger
}

// localEntry is a file info together with the virtual path it was found at
type localEntry struct {
	fs.FileInfo
	virtualPath string
}

func NewLocalFS(localDir string) *LocalFS {
	return &LocalFS{
		localDir:    localDir,
		virtualRoot: "/",
	}
}

// SetLogger sets the logger for the file system.
func (FS *LocalFS) SetLogger(l *slog.Logger) {
	FS.logger = l
}

// Logger returns the logger for the file system.
func (FS *LocalFS) Logger() *slog.Logger {
	if FS.logger == nil {
		FS.logger = slog.Default()
	}
	return FS.logger.With("module", "local-fs")
}

// RootDir returns the local directory that is served
func (FS *LocalFS) RootDir() string {
	return FS.localDir
}

// Search resolves pathText against current and stats the result
func (FS *LocalFS) Search(ctx context.Context, current Path, pathText string) (*SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, name, ok := current.Resolve(pathText)
	if !ok {
		return nil, nil
	}

	dirInfo, err := FS.stat(dir.Dir())
	if err != nil {
		return nil, err
	}
	if dirInfo == nil || !dirInfo.IsDir() {
		return nil, nil
	}

	virtualPath := dir.String() + name
	info, err := FS.stat(virtualPath)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	FS.Logger().Debug("Search", "path", pathText, "resolved", virtualPath)
	return &SearchResult{
		Directory: dir,
		Entry:     &localEntry{FileInfo: info, virtualPath: virtualPath},
		FileName:  name,
	}, nil
}

// stat returns nil info without an error when the file doesn't exist or is a link that leaves the root
func (FS *LocalFS) stat(virtualPath string) (fs.FileInfo, error) {
	localPath, err := FS.realPath(virtualPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if errors.Is(err, ErrOutsideRoot) {
		FS.Logger().Warn("Link leaves the root directory", "path", virtualPath)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(localPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting file info: %w", err)
	}
	return info, nil
}

// realPath returns the local path of virtualPath with all links resolved,
// it fails with ErrOutsideRoot when a link points outside the served directory.
func (FS *LocalFS) realPath(virtualPath string) (string, error) {
	cleaned, err := FS.cleanPath(virtualPath)
	if err != nil {
		return "", err
	}
	root, err := filepath.EvalSymlinks(FS.localDir)
	if err != nil {
		return "", fmt.Errorf("error resolving root directory: %w", err)
	}
	localPath, err := filepath.EvalSymlinks(filepath.Join(root, filepath.FromSlash(cleaned)))
	if err != nil {
		return "", fmt.Errorf("error resolving path: %w", err)
	}
	relPath, err := filepath.Rel(root, localPath)
	if err != nil {
		return "", fmt.Errorf("error resolving path: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return localPath, nil
}

// SetTimestamps changes the access and modification time of the entry.
// The creation time can't be set on a local file system. When the file system stores a
// different modification time than requested, the old modification time is restored and
// an error wrapping ErrUnsupported is returned.
func (FS *LocalFS) SetTimestamps(ctx context.Context, entry Entry, modify, access, create *time.Time) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := entry.(*localEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignEntry, entry)
	}
	if create != nil {
		return nil, fmt.Errorf("setting creation time of %s: %w", e.virtualPath, ErrUnsupported)
	}
	if modify == nil && access == nil {
		return e, nil
	}

	localPath, err := FS.realPath(e.virtualPath)
	if err != nil {
		return nil, err
	}

	unlock := FS.lock(localPath)
	defer unlock()

	before, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("error getting file info: %w", err)
	}

	err = setFileTimes(localPath, modify, access)
	if err != nil {
		return nil, fmt.Errorf("error changing file modification time: %w", err)
	}
	FS.Logger().Debug("SetTimestamps", "path", e.virtualPath, "modify", modify, "access", access)

	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("error getting file info: %w", err)
	}
	if modify != nil && info.ModTime().Unix() != modify.Unix() {
		// the kernel clamps times the file system can't represent
		oldModTime := before.ModTime()
		if err := setFileTimes(localPath, &oldModTime, nil); err != nil {
			FS.Logger().Error("Error restoring modification time", "path", e.virtualPath, "error", err)
		}
		return nil, fmt.Errorf("modification time %s of %s stored as %s: %w",
			modify.UTC().Format(time.RFC3339), e.virtualPath, info.ModTime().UTC().Format(time.RFC3339), ErrUnsupported)
	}
	return &localEntry{FileInfo: info, virtualPath: e.virtualPath}, nil
}

// lock serializes the writes to a single local path
func (FS *LocalFS) lock(localPath string) (unlock func()) {
	v, _ := FS.locks.LoadOrStore(localPath, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// securePath ensures that the given path is safe to use its dont allow to go outside the virtualRoot directory
func (FS *LocalFS) securePath(pathName string) (string, error) {
	cleaned := path.Clean("/" + pathName)
	relPath, err := filepath.Rel(FS.virtualRoot, cleaned)
	if err != nil {
		return "", fmt.Errorf("error cleaning path: %w", err)
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		return "/", nil
	}
	if relPath == ".." || strings.HasPrefix(relPath, "../") {
		return "", ErrOutsideRoot
	}
	return cleaned, nil
}

// cleanPath call securePath and then returns the path relative to the root, "." for the root itself
func (FS *LocalFS) cleanPath(pathName string) (string, error) {
	pathName, err := FS.securePath(pathName)
	if err != nil {
		return "", err
	}
	if pathName == "" || pathName == "/" {
		return ".", nil
	}
	return strings.TrimPrefix(pathName, "/"), nil
}
