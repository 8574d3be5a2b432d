package ftp

import (
	"log/slog"
	"sync"

	"github.com/telebroad/ftpserver/filesystem"
	"github.com/telebroad/ftpserver/users"
)

// Session is the state of one control connection.
// Commands of a session run one after the other, the mutex only keeps the
// path snapshots consistent with the writers.
type Session struct {
	id          string
	remoteAddr  string
	fs          filesystem.FileSystem
	users       users.Users // nil disables authentication
	logger      *slog.Logger
	mu          sync.Mutex
	workingDir  filesystem.Path // Current working directory
	pendingUser string          // user name of the USER command waiting for PASS
	userInfo    *users.User     // Authenticated user
	loggedIn    bool
	closing     bool // set by QUIT
}

// NewSession creates the session of a new connection.
// When u is nil every session starts logged in.
func NewSession(id string, fs filesystem.FileSystem, u users.Users) *Session {
	return &Session{
		id:         id,
		fs:         fs,
		users:      u,
		workingDir: filesystem.Path{},
		loggedIn:   u == nil,
	}
}

func (s *Session) ID() string {
	return s.id
}

// FileSystem returns the backend of the session
func (s *Session) FileSystem() filesystem.FileSystem {
	return s.fs
}

// Path returns a snapshot of the current working directory,
// later changes of the session don't affect it.
func (s *Session) Path() filesystem.Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workingDir.Clone()
}

// SetPath changes the current working directory
func (s *Session) SetPath(p filesystem.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workingDir = p.Clone()
}

// IsAuthenticated reports whether the session passed USER and PASS
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// User returns the logged in user, nil when authentication is disabled
func (s *Session) User() *users.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userInfo
}

// Closing reports whether the client asked to close the connection
func (s *Session) Closing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// SetLogger sets the logger for the session.
func (s *Session) SetLogger(l *slog.Logger) {
	s.logger = l
}

// Logger returns the logger for the session.
func (s *Session) Logger() *slog.Logger {
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s.logger.With("session", s.id)
}

// SessionManager manages all active sessions.
type SessionManager struct {
	sessions map[string]*Session // Map of active sessions
	lock     sync.RWMutex        // Protects the sessions map
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// Add adds a new session for the client.
func (manager *SessionManager) Add(id string, session *Session) {
	manager.lock.Lock()
	defer manager.lock.Unlock()
	manager.sessions[id] = session
}

// Get retrieves a session by its ID.
func (manager *SessionManager) Get(id string) (*Session, bool) {
	manager.lock.RLock()
	defer manager.lock.RUnlock()
	session, exists := manager.sessions[id]
	return session, exists
}

// Remove removes a session by its ID.
func (manager *SessionManager) Remove(id string) {
	manager.lock.Lock()
	defer manager.lock.Unlock()
	delete(manager.sessions, id)
}

// Len returns the number of active sessions.
func (manager *SessionManager) Len() int {
	manager.lock.RLock()
	defer manager.lock.RUnlock()
	return len(manager.sessions)
}
