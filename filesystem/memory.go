package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"time"
)

var _ FileSystem = &MemoryFS{}

type memNode struct {
	name       string
	dir        bool
	data       []byte
	modTime    time.Time
	accessTime time.Time
	createTime time.Time
	children   map[string]*memNode
}

// MemoryEntry is a snapshot of a node of the MemoryFS
type MemoryEntry struct {
	name       string
	dir        bool
	size       int64
	modTime    time.Time
	accessTime time.Time
	createTime time.Time
	path       Path // path of the entry including its own name
}

func (e *MemoryEntry) Name() string          { return e.name }
func (e *MemoryEntry) IsDir() bool           { return e.dir }
func (e *MemoryEntry) Size() int64           { return e.size }
func (e *MemoryEntry) ModTime() time.Time    { return e.modTime }
func (e *MemoryEntry) AccessTime() time.Time { return e.accessTime }
func (e *MemoryEntry) CreateTime() time.Time { return e.createTime }

// MemoryFS is a tree kept in memory, it supports all three timestamps.
// It is safe for concurrent use.
type MemoryFS struct {
	mu   sync.RWMutex
	root *memNode
	// Now returns the time stamped on new nodes
	Now func() time.Time
}

func NewMemoryFS() *MemoryFS {
	m := &MemoryFS{Now: time.Now}
	m.root = m.newNode("", true)
	return m
}

func (m *MemoryFS) newNode(name string, dir bool) *memNode {
	now := m.Now().UTC()
	n := &memNode{name: name, dir: dir, modTime: now, accessTime: now, createTime: now}
	if dir {
		n.children = make(map[string]*memNode)
	}
	return n
}

// MkdirAll creates the directory p and all its parents
func (m *MemoryFS) MkdirAll(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.mkdirAll(ParsePath(p))
	return err
}

func (m *MemoryFS) mkdirAll(p Path) (*memNode, error) {
	node := m.root
	for i, name := range p {
		child, ok := node.children[name]
		if !ok {
			child = m.newNode(name, true)
			node.children[name] = child
		} else if !child.dir {
			return nil, fmt.Errorf("error creating directory %s: %w", p[:i+1].Dir(), fs.ErrExist)
		}
		node = child
	}
	return node, nil
}

// WriteFile creates or replaces the file p, the parent directories are created as needed
func (m *MemoryFS) WriteFile(p string, data []byte) error {
	dir, name, ok := Path{}.Resolve(p)
	if !ok {
		return fmt.Errorf("error writing file %q: %w", p, fs.ErrInvalid)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	parent, err := m.mkdirAll(dir)
	if err != nil {
		return err
	}
	if existing, ok := parent.children[name]; ok && existing.dir {
		return fmt.Errorf("error writing file %s: is a directory", dir.String()+name)
	}
	node := m.newNode(name, false)
	node.data = append([]byte(nil), data...)
	parent.children[name] = node
	return nil
}

// Stat returns the entry at the absolute path p
func (m *MemoryFS) Stat(p string) (*MemoryEntry, error) {
	full := ParsePath(p)
	m.mu.RLock()
	defer m.mu.RUnlock()
	node := m.lookup(full)
	if node == nil {
		return nil, fmt.Errorf("error getting file info %s: %w", full.Dir(), fs.ErrNotExist)
	}
	return snapshot(node, full), nil
}

// List returns the names in the directory p sorted
func (m *MemoryFS) List(p string) ([]string, error) {
	full := ParsePath(p)
	m.mu.RLock()
	defer m.mu.RUnlock()
	node := m.lookup(full)
	if node == nil || !node.dir {
		return nil, fmt.Errorf("error reading directory %s: %w", full.Dir(), fs.ErrNotExist)
	}
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryFS) lookup(p Path) *memNode {
	node := m.root
	for _, name := range p {
		if !node.dir {
			return nil
		}
		child, ok := node.children[name]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

func snapshot(n *memNode, p Path) *MemoryEntry {
	return &MemoryEntry{
		name:       n.name,
		dir:        n.dir,
		size:       int64(len(n.data)),
		modTime:    n.modTime,
		accessTime: n.accessTime,
		createTime: n.createTime,
		path:       p.Clone(),
	}
}

// Search resolves pathText against current
func (m *MemoryFS) Search(ctx context.Context, current Path, pathText string) (*SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, name, ok := current.Resolve(pathText)
	if !ok {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	parent := m.lookup(dir)
	if parent == nil || !parent.dir {
		return nil, nil
	}
	node, ok := parent.children[name]
	if !ok {
		return nil, nil
	}
	return &SearchResult{
		Directory: dir,
		Entry:     snapshot(node, append(dir.Clone(), name)),
		FileName:  name,
	}, nil
}

// SetTimestamps sets the non nil times of the entry
func (m *MemoryFS) SetTimestamps(ctx context.Context, entry Entry, modify, access, create *time.Time) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := entry.(*MemoryEntry)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignEntry, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	node := m.lookup(e.path)
	if node == nil {
		return nil, fmt.Errorf("error setting times of %s: %w", e.path.Dir(), fs.ErrNotExist)
	}
	if modify != nil {
		node.modTime = modify.UTC()
	}
	if access != nil {
		node.accessTime = access.UTC()
	}
	if create != nil {
		node.createTime = create.UTC()
	}
	return snapshot(node, e.path), nil
}
