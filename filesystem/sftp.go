package filesystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

var _ FileSystem = &SFTPFS{}

// SFTPFS serves a directory of a remote SFTP server
type SFTPFS struct {
	client  *sftp.Client
	sshConn *ssh.Client // nil when the client was handed in by the caller
	root    string      // remote directory that acts as the virtual root
	locks   sync.Map
	logger  *slog.Logger
}

type sftpEntry struct {
	os.FileInfo
	remotePath  string
	virtualPath string
}

// NewSFTPFS serves root on an already connected sftp client
func NewSFTPFS(client *sftp.Client, root string) *SFTPFS {
	if root == "" {
		root = "/"
	}
	return &SFTPFS{client: client, root: path.Clean(root)}
}

// DialSFTP connects to the SFTP server at addr and serves root
func DialSFTP(addr string, config *ssh.ClientConfig, root string) (*SFTPFS, error) {
	conn, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("error connecting to sftp server %s: %w", addr, err)
	}
	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error starting sftp session: %w", err)
	}
	s := NewSFTPFS(client, root)
	s.sshConn = conn
	return s, nil
}

// SetLogger sets the logger for the file system.
func (s *SFTPFS) SetLogger(l *slog.Logger) {
	s.logger = l
}

// Logger returns the logger for the file system.
func (s *SFTPFS) Logger() *slog.Logger {
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s.logger.With("module", "sftp-fs")
}

// Close closes the sftp session and the ssh connection if it was opened by DialSFTP
func (s *SFTPFS) Close() error {
	err := s.client.Close()
	if s.sshConn != nil {
		err = errors.Join(err, s.sshConn.Close())
	}
	return err
}

func (s *SFTPFS) remote(virtualPath string) string {
	return path.Join(s.root, virtualPath)
}

// stat returns nil info without an error when the file doesn't exist
func (s *SFTPFS) stat(remotePath string) (os.FileInfo, error) {
	info, err := s.client.Stat(remotePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting remote file info: %w", err)
	}
	return info, nil
}

// Search resolves pathText against current on the remote server
func (s *SFTPFS) Search(ctx context.Context, current Path, pathText string) (*SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, name, ok := current.Resolve(pathText)
	if !ok {
		return nil, nil
	}
	dirInfo, err := s.stat(s.remote(dir.Dir()))
	if err != nil {
		return nil, err
	}
	if dirInfo == nil || !dirInfo.IsDir() {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	virtualPath := dir.String() + name
	remotePath := s.remote(virtualPath)
	info, err := s.stat(remotePath)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}
	s.Logger().Debug("Search", "path", pathText, "remote", remotePath)
	return &SearchResult{
		Directory: dir,
		Entry:     &sftpEntry{FileInfo: info, remotePath: remotePath, virtualPath: virtualPath},
		FileName:  name,
	}, nil
}

// SetTimestamps sets the access and modification time, SFTP has no creation time and
// only stores seconds between 1970 and 2106.
// SETSTAT always carries both times so the missing one is read from the server first.
func (s *SFTPFS) SetTimestamps(ctx context.Context, entry Entry, modify, access, create *time.Time) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := entry.(*sftpEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignEntry, entry)
	}
	if create != nil {
		return nil, fmt.Errorf("setting creation time of %s: %w", e.virtualPath, ErrUnsupported)
	}
	if modify == nil && access == nil {
		return e, nil
	}
	for _, t := range []*time.Time{modify, access} {
		if err := checkTimeRange(t, minSFTPTime, maxSFTPTime); err != nil {
			return nil, fmt.Errorf("setting times of %s: %w", e.virtualPath, err)
		}
	}

	v, _ := s.locks.LoadOrStore(e.remotePath, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	cur, err := s.client.Stat(e.remotePath)
	if err != nil {
		return nil, fmt.Errorf("error getting remote file info: %w", err)
	}
	mtime := cur.ModTime()
	atime := mtime
	if st, ok := cur.Sys().(*sftp.FileStat); ok {
		atime = time.Unix(int64(st.Atime), 0)
	}
	if modify != nil {
		mtime = *modify
	}
	if access != nil {
		atime = *access
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err = s.client.Chtimes(e.remotePath, atime, mtime)
	if err != nil {
		return nil, fmt.Errorf("error changing remote file modification time: %w", err)
	}
	s.Logger().Debug("SetTimestamps", "remote", e.remotePath, "modify", mtime, "access", atime)

	info, err := s.client.Stat(e.remotePath)
	if err != nil {
		return nil, fmt.Errorf("error getting remote file info: %w", err)
	}
	return &sftpEntry{FileInfo: info, remotePath: e.remotePath, virtualPath: e.virtualPath}, nil
}
