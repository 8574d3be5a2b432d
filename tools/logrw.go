package tools

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"strings"
)

// maxLoggedLine is the longest request line kept for logging, the rest of a longer line isn't logged
const maxLoggedLine = 4096

// LogReadWriter is a wrapper around an io.ReadWriter that logs all reads and writes to a slog.Logger.
// Reads are logged one complete line at a time so passwords sent with PASS can be masked
// even when the line arrives in several pieces.
type LogReadWriter struct {
	ReadWriter io.ReadWriter
	logger     *slog.Logger
	pending    []byte // start of a line that isn't complete yet
	skipping   bool   // the current line was too long, drop it up to the next line break
}

func (rw *LogReadWriter) Read(b []byte) (int, error) {
	n, err := rw.ReadWriter.Read(b)
	if rw.logger != nil && n > 0 { // Log only if n > 0 to avoid logging empty reads
		rw.logLines(b[:n])
	}
	return n, err
}

func (rw *LogReadWriter) logLines(data []byte) {
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			if !rw.skipping {
				rw.pending = append(rw.pending, data...)
				if len(rw.pending) > maxLoggedLine {
					rw.logger.Debug("Request", "body", MaskSecrets(string(rw.pending[:maxLoggedLine])), "truncated", true)
					rw.pending = rw.pending[:0]
					rw.skipping = true
				}
			}
			return
		}
		if !rw.skipping {
			rw.pending = append(rw.pending, data[:i+1]...)
			rw.logger.Debug("Request", "body", MaskSecrets(string(rw.pending)))
		}
		rw.pending = rw.pending[:0]
		rw.skipping = false
		data = data[i+1:]
	}
}

func (rw *LogReadWriter) Write(b []byte) (int, error) {
	if rw.logger != nil {
		rw.logger.Debug("Respond", "body", string(b))
	}
	return rw.ReadWriter.Write(b)
}

// NewLogReadWriter creates a new LogReadWriter.
func NewLogReadWriter(rw io.ReadWriter, logger *slog.Logger) *LogReadWriter {
	return &LogReadWriter{ReadWriter: rw, logger: logger}
}

type BufLogReadWriter struct {
	io.Writer
	*bufio.Reader
}

// NewBufLogReadWriter creates a new BufLogReadWriter. It wraps a LogReadWriter with a bufio.Reader
// so the control channel can be read line by line.
// the reason to divide it in 2 structs is to avoid the need to implement all the methods of bufio.ReadWriter
func NewBufLogReadWriter(rw io.ReadWriter, logger *slog.Logger) *BufLogReadWriter {
	return NewBufLogReadWriterSize(rw, logger, 4096)
}

// NewBufLogReadWriterSize is NewBufLogReadWriter with a read buffer of size bytes
func NewBufLogReadWriterSize(rw io.ReadWriter, logger *slog.Logger, size int) *BufLogReadWriter {
	rw = &LogReadWriter{ReadWriter: rw, logger: logger}

	return &BufLogReadWriter{
		Reader: bufio.NewReaderSize(rw, size),
		Writer: rw,
	}
}

// MaskSecrets hides the argument of every PASS command in text
func MaskSecrets(text string) string {
	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		if len(line) >= 5 && strings.EqualFold(line[:5], "PASS ") {
			ending := line[len(strings.TrimRight(line, "\r\n")):]
			lines[i] = line[:5] + "****" + ending
		}
	}
	return strings.Join(lines, "")
}
