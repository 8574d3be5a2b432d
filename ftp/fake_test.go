package ftp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/telebroad/ftpserver/filesystem"
)

type fakeEntry struct {
	name    string
	dir     bool
	modTime time.Time
}

func (e *fakeEntry) Name() string       { return e.name }
func (e *fakeEntry) IsDir() bool        { return e.dir }
func (e *fakeEntry) Size() int64        { return 0 }
func (e *fakeEntry) ModTime() time.Time { return e.modTime }

type setTimesCall struct {
	entry                  filesystem.Entry
	modify, access, create *time.Time
}

// recordingFS resolves paths like a real backend over a fixed set of entries and records
// every call the handlers make
type recordingFS struct {
	mu           sync.Mutex
	entries      map[string]*fakeEntry // full path -> entry
	searches     []string
	setTimes     []setTimesCall
	searchErr    error
	setTimesErr  error
	panicOnSet   bool
	blockOnSetCh chan struct{}
}

func newRecordingFS(paths ...string) *recordingFS {
	r := &recordingFS{entries: make(map[string]*fakeEntry)}
	for _, p := range paths {
		dir := len(p) > 1 && p[len(p)-1] == '/'
		parsed := filesystem.ParsePath(p)
		r.entries[parsed.Dir()] = &fakeEntry{name: parsed[len(parsed)-1], dir: dir}
	}
	return r
}

func (r *recordingFS) Search(ctx context.Context, current filesystem.Path, pathText string) (*filesystem.SearchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, pathText)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	dir, name, ok := current.Resolve(pathText)
	if !ok {
		return nil, nil
	}
	e, ok := r.entries[dir.String()+name]
	if !ok {
		return nil, nil
	}
	return &filesystem.SearchResult{Directory: dir, Entry: e, FileName: name}, nil
}

func (r *recordingFS) SetTimestamps(ctx context.Context, entry filesystem.Entry, modify, access, create *time.Time) (filesystem.Entry, error) {
	r.mu.Lock()
	r.setTimes = append(r.setTimes, setTimesCall{entry, modify, access, create})
	block := r.blockOnSetCh
	r.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.panicOnSet {
		panic("backend exploded")
	}
	if r.setTimesErr != nil {
		return nil, r.setTimesErr
	}
	e, ok := entry.(*fakeEntry)
	if !ok {
		return nil, errors.New("foreign entry")
	}
	if modify != nil {
		e.modTime = *modify
	}
	return e, nil
}

func (r *recordingFS) calls() (searches int, setTimes []setTimesCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.searches), append([]setTimesCall(nil), r.setTimes...)
}
