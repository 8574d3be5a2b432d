package ftp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/telebroad/ftpserver/filesystem"
	"github.com/telebroad/ftpserver/tools"
	"github.com/telebroad/ftpserver/users"
)

// ErrServerClosed is returned by Serve after Close
var ErrServerClosed = errors.New("ftp: Server closed")

// maxCommandLine is the longest command line accepted including CRLF
const maxCommandLine = 4096

var errLineTooLong = errors.New("command line too long")

// readCommandLine reads one line of at most the buffer size of r.
// A longer line is read up to its end and dropped, errLineTooLong is returned for it.
func readCommandLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadSlice('\n')
	if !errors.Is(err, bufio.ErrBufferFull) {
		return string(line), err
	}
	for errors.Is(err, bufio.ErrBufferFull) {
		_, err = r.ReadSlice('\n')
	}
	if err != nil {
		return "", err
	}
	return "", errLineTooLong
}

type Server struct {
	// Addr optionally specifies the TCP address for the server to listen on,
	// in the form "host:port". If empty, ":21" is used.
	Addr string

	// WelcomeMessage is sent with the 220 greeting
	WelcomeMessage string

	// FsHandler is the file system every session works on
	FsHandler filesystem.FileSystem

	users          users.Users
	logger         *slog.Logger
	sessionManager *SessionManager

	ctx    context.Context
	cancel context.CancelCauseFunc

	mu       sync.Mutex
	listener net.Listener
	closed   bool
	conns    sync.WaitGroup
	nextID   atomic.Int64
}

// NewServer creates a new FTP server, u can be nil to accept every login
func NewServer(addr string, fs filesystem.FileSystem, u users.Users) (*Server, error) {
	if fs == nil {
		return nil, errors.New("file system is required")
	}
	if addr == "" {
		addr = ":21"
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	return &Server{
		Addr:           addr,
		WelcomeMessage: "Welcome to the FTP Server",
		FsHandler:      fs,
		users:          u,
		sessionManager: NewSessionManager(),
		ctx:            ctx,
		cancel:         cancel,
	}, nil
}

// SetLogger sets the logger for the server.
func (s *Server) SetLogger(l *slog.Logger) {
	s.logger = l
}

// Logger returns the logger for the server.
func (s *Server) Logger() *slog.Logger {
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s.logger.With("module", "ftp-server")
}

// Sessions returns the number of connected clients
func (s *Server) Sessions() int {
	return s.sessionManager.Len()
}

// ListenAndServe listens on Addr and serves until Close is called
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("error starting server: %w", err)
	}
	return s.Serve(listener)
}

// TryListenAndServe tries to start the FTP server if there isn't an error after a certain time it returns nil
func (s *Server) TryListenAndServe(d time.Duration) (err error) {
	errC := make(chan error, 1)

	go func() {
		err := s.ListenAndServe()
		if err != nil && !errors.Is(err, ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err = <-errC:
		return err
	case <-time.After(d):
		return nil
	}
}

// Serve accepts connections on the listener, each connection is served in its own goroutine
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		listener.Close()
		return ErrServerClosed
	}
	s.listener = listener
	s.mu.Unlock()

	s.Logger().Info("Listening", "addr", listener.Addr().String())
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.Logger().Error("Error accepting connection", "error", err)
			continue
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.ServeConn(conn)
		}()
	}
}

// Close stops the listener and closes every connection, cause is logged by the sessions
func (s *Server) Close(cause error) error {
	s.mu.Lock()
	s.closed = true
	listener := s.listener
	s.mu.Unlock()

	s.cancel(cause)
	var err error
	if listener != nil {
		err = listener.Close()
	}
	s.conns.Wait()
	return err
}

// ServeConn serves the control connection until the client quits or the server is closed.
// Commands are read and answered one at a time.
func (s *Server) ServeConn(conn net.Conn) {
	logger := s.Logger().With("remote", conn.RemoteAddr().String())
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	defer conn.Close()

	ctx, cancel := context.WithCancelCause(s.ctx)
	defer cancel(nil)
	// closing the connection unblocks the read when the server shuts down
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	sessionID := fmt.Sprintf("%s-%d", conn.RemoteAddr().String(), s.nextID.Add(1))
	session := NewSession(sessionID, s.FsHandler, s.users)
	session.remoteAddr = conn.RemoteAddr().String()
	session.SetLogger(logger)

	// Add the session to the manager
	s.sessionManager.Add(sessionID, session)
	// Remove the session when the client disconnects
	defer s.sessionManager.Remove(sessionID)

	rw := tools.NewBufLogReadWriterSize(conn, logger, maxCommandLine)
	if _, err := NewResponse(StatusServiceReadyForNewUser, s.WelcomeMessage).WriteTo(rw); err != nil {
		logger.Error("Error sending welcome message", "error", err)
		return
	}

	for {
		line, err := readCommandLine(rw.Reader)
		if errors.Is(err, errLineTooLong) {
			logger.Warn("Command line too long", "limit", maxCommandLine)
			if _, err := NewResponse(StatusSyntaxError, "Command line too long.").WriteTo(rw); err != nil {
				logger.Error("Error writing response", "error", err)
				return
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				logger.Debug("Connection closed", "cause", context.Cause(ctx))
			} else {
				logger.Error("Error reading from connection", "error", err)
			}
			return
		}
		cmd := ParseCommand(line)
		logger.Debug("Received", "command", tools.IsPrintable(tools.MaskSecrets(cmd.String())))

		resp, err := Dispatch(ctx, session, cmd)
		if err != nil {
			logger.Debug("Command canceled, closing connection", "command", cmd.Name(), "error", err)
			return
		}
		if _, err := resp.WriteTo(rw); err != nil {
			logger.Error("Error writing response", "error", err)
			return
		}
		if session.Closing() {
			return
		}
	}
}
