package ftp

import (
	"context"
	"iter"
)

// UserHandler implements the USER command
type UserHandler struct {
	anonymous
}

func (UserHandler) Names() []string {
	return []string{"USER"}
}

func (UserHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return noFeatures
}

func (UserHandler) Process(_ context.Context, s *Session, cmd Command) (Response, error) {
	if cmd.Argument == "" {
		return NewResponse(StatusSyntaxErrorInParameters, "User name not specified."), nil
	}
	s.mu.Lock()
	s.pendingUser = cmd.Argument
	s.userInfo = nil
	s.loggedIn = s.users == nil
	s.mu.Unlock()
	return NewResponse(StatusUserNameOK, "Please specify the password."), nil
}

// PassHandler implements the PASS command, it is only valid after a USER command
type PassHandler struct {
	anonymous
}

func (PassHandler) Names() []string {
	return []string{"PASS"}
}

func (PassHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return noFeatures
}

func (PassHandler) Process(_ context.Context, s *Session, cmd Command) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingUser == "" {
		return NewResponse(StatusBadSequenceOfCommands, "Login with USER first."), nil
	}
	username := s.pendingUser
	s.pendingUser = ""
	if s.users == nil {
		s.loggedIn = true
		return NewResponse(StatusUserLoggedIn, "Login successful."), nil
	}

	user, err := s.users.Find(username, cmd.Argument, s.remoteAddr)
	if err != nil {
		s.Logger().Info("Login failed", "username", username, "remote", s.remoteAddr, "error", err)
		return NewResponse(StatusNotLoggedIn, "Login incorrect."), nil
	}
	s.userInfo = user
	s.loggedIn = true
	s.Logger().Info("Login successful", "username", username, "remote", s.remoteAddr)
	return NewResponse(StatusUserLoggedIn, "Login successful."), nil
}
