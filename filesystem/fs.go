// Package filesystem is the virtual file system the FTP command handlers work against.
// A backend only has to resolve paths and change timestamps, the handlers never touch
// the storage medium directly. LocalFS serves a local directory, MemoryFS keeps
// everything in memory and SFTPFS forwards to a remote SFTP server.
package filesystem

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnsupported is returned by a backend that can't persist the requested change.
	ErrUnsupported = errors.ErrUnsupported
	// ErrOutsideRoot is returned when a path would escape the served directory.
	ErrOutsideRoot = errors.New("access denied: path is outside the virtualRoot directory")
	// ErrForeignEntry is returned when an entry is passed to a backend that didn't produce it.
	ErrForeignEntry = errors.New("entry does not belong to this file system")
)

// Entry is a handle to an existing file or directory.
type Entry interface {
	// Name is the base name of the entry
	Name() string
	IsDir() bool
	Size() int64
	ModTime() time.Time
}

// SearchResult is a resolved path.
// Directory is the search path advanced to the directory holding the entry,
// so Directory.String() + FileName is the full path of the entry.
type SearchResult struct {
	Directory Path
	Entry     Entry
	FileName  string
}

// FullPath returns the absolute virtual path of the result.
func (r *SearchResult) FullPath() string {
	return r.Directory.String() + r.FileName
}

// FileSystem is the interface that every FTP storage backend implements.
// Search resolves pathText against current, absolute paths start with "/", "." and ".." work
// like they do on a unix shell. A path that doesn't exist gives a nil result and a nil error,
// errors are only for backend failures.
// SetTimestamps changes only the non nil times and returns the updated entry,
// a backend that can't store one of them returns an error wrapping ErrUnsupported.
type FileSystem interface {
	Search(ctx context.Context, current Path, pathText string) (*SearchResult, error)
	SetTimestamps(ctx context.Context, entry Entry, modify, access, create *time.Time) (Entry, error)
}
