// Package ftp is the control channel of the FTP server.
// Every verb is a CommandHandler registered once at start up, the dispatcher routes a
// parsed Command to it and turns whatever goes wrong into a single coded Response.
// File access goes through the filesystem.FileSystem of the session, timestamps are
// rendered with the facts package.
package ftp

// StatusCode is a type for FTP status codes
type StatusCode = int

const (
	// Success codes (2xx)
	StatusCommandOK                       StatusCode = 200 // Command okay
	StatusSystemStatus                    StatusCode = 211 // System status, or system help reply
	StatusFileStatus                      StatusCode = 213 // File status
	StatusNameSystemType                  StatusCode = 215 // NAME system type
	StatusServiceReadyForNewUser          StatusCode = 220 // Service ready for new user
	StatusServiceClosingControlConnection StatusCode = 221 // Service closing control connection
	StatusUserLoggedIn                    StatusCode = 230 // User logged in, proceed
	StatusFileActionOK                    StatusCode = 250 // Requested file action okay, completed
	StatusPathnameCreated                 StatusCode = 257 // "PATHNAME" created

	// Positive Intermediate codes (3xx)
	StatusUserNameOK StatusCode = 331 // User name okay, need password

	// Transient Negative Completion codes (4xx)
	StatusServiceNotAvailable StatusCode = 421 // Service not available, closing control connection

	// Permanent Negative Completion codes (5xx)
	StatusSyntaxError               StatusCode = 500 // Syntax error, command unrecognized
	StatusSyntaxErrorInParameters   StatusCode = 501 // Syntax error in parameters or arguments
	StatusSyntaxErrorNotImplemented StatusCode = 502 // Command not implemented
	StatusBadSequenceOfCommands     StatusCode = 503 // Bad sequence of commands
	StatusNotLoggedIn               StatusCode = 530 // Not logged in
	StatusFileUnavailable           StatusCode = 550 // Requested action not taken; File unavailable
	StatusPageTypeUnknown           StatusCode = 551 // Requested action aborted: page type unknown, MFMT uses it for bad arguments
)

var statusText = map[StatusCode]string{
	200: "StatusCommandOK",
	211: "StatusSystemStatus",
	213: "StatusFileStatus",
	215: "StatusNameSystemType",
	220: "StatusServiceReadyForNewUser",
	221: "StatusServiceClosingControlConnection",
	230: "StatusUserLoggedIn",
	250: "StatusFileActionOK",
	257: "StatusPathnameCreated",
	331: "StatusUserNameOK",
	421: "StatusServiceNotAvailable",
	500: "StatusSyntaxError",
	501: "StatusSyntaxErrorInParameters",
	502: "StatusSyntaxErrorNotImplemented",
	503: "StatusBadSequenceOfCommands",
	530: "StatusNotLoggedIn",
	550: "StatusFileUnavailable",
	551: "StatusPageTypeUnknown",
}

// StatusText returns the name of the status code, used for logging
func StatusText(code int) string {
	return statusText[code]
}
