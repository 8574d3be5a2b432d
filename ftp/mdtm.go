package ftp

import (
	"context"
	"fmt"
	"iter"

	"github.com/telebroad/ftpserver/facts"
)

// MdtmHandler implements the MDTM command, it returns the modification time of a file
// in the same format MFMT and the listing facts use.
type MdtmHandler struct{}

func (MdtmHandler) Names() []string {
	return []string{"MDTM"}
}

func (MdtmHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return features(FeatureInfo{Name: "MDTM"})
}

func (MdtmHandler) Process(ctx context.Context, s *Session, cmd Command) (Response, error) {
	if cmd.Argument == "" {
		return NewResponse(StatusSyntaxErrorInParameters, "No file name given."), nil
	}
	fs := s.FileSystem()
	if fs == nil {
		return Response{}, errNoFileSystem
	}
	fileInfo, err := fs.Search(ctx, s.Path(), cmd.Argument)
	if err != nil {
		return Response{}, fmt.Errorf("error searching %q: %w", cmd.Argument, err)
	}
	if fileInfo == nil || fileInfo.Entry == nil {
		return NewResponse(StatusFileUnavailable, "File not found."), nil
	}
	return NewResponse(StatusFileStatus, facts.FormatTimestamp(fileInfo.Entry.ModTime())), nil
}
