package ftp

import (
	"context"
	"errors"
	"runtime/debug"
)

// Dispatch routes the command to its handler and returns the reply for the client.
//
// A handler error or panic is logged and answered with 501 so the connection can be used
// for the next command. When the context is canceled the error is returned instead and no
// reply must be sent.
func Dispatch(ctx context.Context, s *Session, cmd Command) (resp Response, err error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	logger := s.Logger().With("command", cmd.Name())

	handler, ok := LookupHandler(cmd.Verb)
	if !ok {
		return NewResponse(StatusSyntaxErrorNotImplemented, "Command not implemented."), nil
	}
	if a, ok := handler.(anonymousHandler); !(ok && a.AllowAnonymous()) && !s.IsAuthenticated() {
		return NewResponse(StatusNotLoggedIn, "Please login with USER and PASS."), nil
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic", "panic", r, "stack", string(debug.Stack()))
			resp, err = internalError(), nil
		}
	}()

	resp, err = handler.Process(ctx, s, cmd)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Response{}, ctxErr
	}
	if err != nil {
		if isCanceled(err) {
			return Response{}, err
		}
		logger.Error("Failed to process command", "error", err)
		return internalError(), nil
	}
	logger.Debug("Processed command", "code", resp.Code, "status", StatusText(resp.Code))
	return resp, nil
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func internalError() Response {
	return NewResponse(StatusSyntaxErrorInParameters, "Syntax error in parameters or arguments.")
}

// errNoFileSystem is returned by the file handlers of a session without a backend
var errNoFileSystem = errors.New("session has no file system")
