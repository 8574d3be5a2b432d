//go:build !linux

package filesystem

import (
	"os"
	"time"
)

// setFileTimes falls back to os.Chtimes, a zero time leaves that time unchanged
func setFileTimes(name string, modify, access *time.Time) error {
	for _, t := range []*time.Time{modify, access} {
		if err := checkTimeRange(t, minNanoTime, maxNanoTime); err != nil {
			return &os.PathError{Op: "chtimes", Path: name, Err: err}
		}
	}
	var atime, mtime time.Time
	if access != nil {
		atime = *access
	}
	if modify != nil {
		mtime = *modify
	}
	return os.Chtimes(name, atime, mtime)
}
