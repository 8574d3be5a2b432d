package ftp

import (
	"context"
	"fmt"
	"iter"
	"strings"
)

// PwdHandler implements the PWD command, it prints the current working directory
type PwdHandler struct{}

func (PwdHandler) Names() []string {
	return []string{"PWD", "XPWD"}
}

func (PwdHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return noFeatures
}

func (PwdHandler) Process(_ context.Context, s *Session, _ Command) (Response, error) {
	dir := strings.ReplaceAll(s.Path().Dir(), `"`, `""`)
	return NewResponse(StatusPathnameCreated, fmt.Sprintf("\"%s\" is current directory", dir)), nil
}

// CwdHandler implements the CWD command, it changes the working directory
type CwdHandler struct{}

func (CwdHandler) Names() []string {
	return []string{"CWD", "XCWD"}
}

func (CwdHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return noFeatures
}

func (CwdHandler) Process(ctx context.Context, s *Session, cmd Command) (Response, error) {
	if cmd.Argument == "" {
		return NewResponse(StatusSyntaxErrorInParameters, "No directory given."), nil
	}
	currentPath := s.Path()
	requestedDir := currentPath.Join(cmd.Argument)
	if !requestedDir.IsRoot() {
		fs := s.FileSystem()
		if fs == nil {
			return Response{}, errNoFileSystem
		}
		dirInfo, err := fs.Search(ctx, currentPath, cmd.Argument)
		if err != nil {
			return Response{}, fmt.Errorf("error searching %q: %w", cmd.Argument, err)
		}
		if dirInfo == nil || dirInfo.Entry == nil || !dirInfo.Entry.IsDir() {
			return NewResponse(StatusFileUnavailable, "Directory not found."), nil
		}
	}
	s.SetPath(requestedDir)
	return NewResponse(StatusFileActionOK, fmt.Sprintf("Directory successfully changed to \"%s\"", requestedDir.Dir())), nil
}

// CdupHandler implements the CDUP command, it changes to the parent directory
type CdupHandler struct{}

func (CdupHandler) Names() []string {
	return []string{"CDUP", "XCUP"}
}

func (CdupHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return noFeatures
}

func (CdupHandler) Process(_ context.Context, s *Session, _ Command) (Response, error) {
	requestedDir := s.Path().Parent()
	s.SetPath(requestedDir)
	return NewResponse(StatusFileActionOK, fmt.Sprintf("Directory successfully changed to \"%s\"", requestedDir.Dir())), nil
}
