package ftp

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/telebroad/ftpserver/facts"
)

// timestampZone is the zone MFMT timestamps are given in
const timestampZone = "UTC"

// MfmtHandler implements the MFMT command, it sets the modification time of a file.
//
//	MFMT 20230115120000 /docs/readme.txt
//	213 Modify=20230115120000; /docs/readme.txt
type MfmtHandler struct{}

func (MfmtHandler) Names() []string {
	return []string{"MFMT"}
}

func (MfmtHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return features(FeatureInfo{Name: "MFMT"})
}

func (MfmtHandler) Process(ctx context.Context, s *Session, cmd Command) (Response, error) {
	parts := strings.SplitN(cmd.Argument, " ", 2)
	if len(parts) != 2 {
		return NewResponse(StatusPageTypeUnknown, "Timestamp or file name missing."), nil
	}

	modificationTime, ok := facts.ParseTimestamp(parts[0], timestampZone)
	if !ok {
		return NewResponse(StatusPageTypeUnknown, "Invalid timestamp."), nil
	}

	fs := s.FileSystem()
	if fs == nil {
		return Response{}, errNoFileSystem
	}
	currentPath := s.Path()
	fileInfo, err := fs.Search(ctx, currentPath, parts[1])
	if err != nil {
		return Response{}, fmt.Errorf("error searching %q: %w", parts[1], err)
	}
	if fileInfo == nil || fileInfo.Entry == nil {
		return NewResponse(StatusFileUnavailable, "File not found."), nil
	}

	_, err = fs.SetTimestamps(ctx, fileInfo.Entry, &modificationTime, nil, nil)
	if err != nil {
		return Response{}, fmt.Errorf("error setting modification time of %q: %w", fileInfo.FullPath(), err)
	}

	fact := facts.NewModifyFact(modificationTime)
	fullName := fileInfo.Directory.String() + fileInfo.FileName
	return NewResponse(StatusFileStatus, fmt.Sprintf("%s=%s; %s", fact.Name(), fact.Value(), fullName)), nil
}
