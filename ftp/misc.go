package ftp

import (
	"context"
	"iter"
	"runtime"
	"strings"
)

// SystHandler implements the SYST command, it returns the system type
type SystHandler struct {
	anonymous
}

func (SystHandler) Names() []string {
	return []string{"SYST"}
}

func (SystHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return noFeatures
}

func (SystHandler) Process(context.Context, *Session, Command) (Response, error) {
	// Customize the response based on the operating system
	switch os := runtime.GOOS; os {
	case "windows":
		return NewResponse(StatusNameSystemType, "WINDOWS Type: L8"), nil
	case "linux", "darwin": // macOS is Unix-based
		return NewResponse(StatusNameSystemType, "UNIX Type: L8"), nil
	default:
		return NewResponse(StatusNameSystemType, "OS Type: "+os), nil
	}
}

// FeatHandler implements the FEAT command, it lists the features of all registered handlers
type FeatHandler struct {
	anonymous
}

func (FeatHandler) Names() []string {
	return []string{"FEAT"}
}

func (FeatHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return noFeatures
}

func (FeatHandler) Process(context.Context, *Session, Command) (Response, error) {
	list := SupportedFeatures()
	lines := make([]string, len(list))
	for i, f := range list {
		lines[i] = f.String()
	}
	return NewMultilineResponse(StatusSystemStatus, "Features:", lines, "End"), nil
}

// OptsHandler implements the OPTS command, only UTF8 is known
type OptsHandler struct {
	anonymous
}

func (OptsHandler) Names() []string {
	return []string{"OPTS"}
}

func (OptsHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return features(FeatureInfo{Name: "UTF8"})
}

func (OptsHandler) Process(_ context.Context, _ *Session, cmd Command) (Response, error) {
	switch strings.ToUpper(strings.TrimSpace(cmd.Argument)) {
	case "UTF8 ON", "UTF8":
		return NewResponse(StatusCommandOK, "Always in UTF8 mode."), nil
	default:
		return NewResponse(StatusSyntaxErrorInParameters, "Unknown option."), nil
	}
}

// NoopHandler implements the NOOP command, it is used to keep the connection alive
type NoopHandler struct {
	anonymous
}

func (NoopHandler) Names() []string {
	return []string{"NOOP"}
}

func (NoopHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return noFeatures
}

func (NoopHandler) Process(context.Context, *Session, Command) (Response, error) {
	return NewResponse(StatusCommandOK, "NOOP ok."), nil
}

// QuitHandler implements the QUIT command, the server closes the connection after the reply
type QuitHandler struct {
	anonymous
}

func (QuitHandler) Names() []string {
	return []string{"QUIT"}
}

func (QuitHandler) SupportedFeatures() iter.Seq[FeatureInfo] {
	return noFeatures
}

func (QuitHandler) Process(_ context.Context, s *Session, _ Command) (Response, error) {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	return NewResponse(StatusServiceClosingControlConnection, "Goodbye."), nil
}
