package filesystem

import (
	"fmt"
	"math"
	"time"
)

var (
	// the range of time.Time.UnixNano, os.Chtimes converts through it
	minNanoTime = time.Unix(0, math.MinInt64)
	maxNanoTime = time.Unix(0, math.MaxInt64)

	// SFTP v3 sends times as unsigned 32 bit seconds
	minSFTPTime = time.Unix(0, 0)
	maxSFTPTime = time.Unix(math.MaxUint32, 0)
)

// checkTimeRange returns an error wrapping ErrUnsupported when a non nil t is outside [min, max]
func checkTimeRange(t *time.Time, min, max time.Time) error {
	if t == nil {
		return nil
	}
	if t.Before(min) || t.After(max) {
		return fmt.Errorf("time %s is out of range: %w", t.UTC().Format(time.RFC3339), ErrUnsupported)
	}
	return nil
}
