//go:build linux

package filesystem

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// setFileTimes uses utimensat so a nil time is left untouched by the kernel
func setFileTimes(name string, modify, access *time.Time) error {
	ts := []unix.Timespec{
		{Nsec: unix.UTIME_OMIT},
		{Nsec: unix.UTIME_OMIT},
	}
	var err error
	if access != nil {
		if ts[0], err = unix.TimeToTimespec(*access); err != nil {
			return &os.PathError{Op: "utimensat", Path: name, Err: errors.Join(err, ErrUnsupported)}
		}
	}
	if modify != nil {
		if ts[1], err = unix.TimeToTimespec(*modify); err != nil {
			return &os.PathError{Op: "utimensat", Path: name, Err: errors.Join(err, ErrUnsupported)}
		}
	}
	err = unix.UtimesNanoAt(unix.AT_FDCWD, name, ts, 0)
	if err != nil {
		return &os.PathError{Op: "utimensat", Path: name, Err: err}
	}
	return nil
}
