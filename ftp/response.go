package ftp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Response is the single reply to a command.
// A response with Lines is sent as a multi-line reply, "code-Message", the lines indented by
// one space, and "code Trailer" as the last line.
type Response struct {
	Code    StatusCode
	Message string
	Lines   []string
	Trailer string
}

// NewResponse creates a single line response. The code has to be three digits.
func NewResponse(code StatusCode, message string) Response {
	if code < 100 || code > 999 {
		panic("ftp: invalid reply code " + strconv.Itoa(code))
	}
	return Response{Code: code, Message: message}
}

// NewMultilineResponse creates a multi-line response
func NewMultilineResponse(code StatusCode, message string, lines []string, trailer string) Response {
	r := NewResponse(code, message)
	r.Lines = lines
	r.Trailer = trailer
	return r
}

// String renders the response without the final line break
func (r Response) String() string {
	if len(r.Lines) == 0 {
		return fmt.Sprintf("%03d %s", r.Code, r.Message)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%03d-%s\r\n", r.Code, r.Message)
	for _, line := range r.Lines {
		fmt.Fprintf(&b, " %s\r\n", line)
	}
	fmt.Fprintf(&b, "%03d %s", r.Code, r.Trailer)
	return b.String()
}

// WriteTo writes the response to the control channel
func (r Response) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String()+"\r\n")
	return int64(n), err
}
