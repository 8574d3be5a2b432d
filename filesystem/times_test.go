package filesystem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckTimeRange(t *testing.T) {
	date := func(year int) *time.Time {
		d := time.Date(year, 12, 31, 23, 59, 59, 0, time.UTC)
		return &d
	}
	tests := []struct {
		name     string
		t        *time.Time
		min, max time.Time
		wantErr  bool
	}{
		{"nil", nil, minSFTPTime, maxSFTPTime, false},
		{"sftp 2023", date(2023), minSFTPTime, maxSFTPTime, false},
		{"sftp 9999", date(9999), minSFTPTime, maxSFTPTime, true},
		{"sftp 1500", date(1500), minSFTPTime, maxSFTPTime, true},
		{"nano 2023", date(2023), minNanoTime, maxNanoTime, false},
		{"nano 9999", date(9999), minNanoTime, maxNanoTime, true},
		{"nano 1500", date(1500), minNanoTime, maxNanoTime, true},
		{"nano 1700", date(1700), minNanoTime, maxNanoTime, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkTimeRange(tt.t, tt.min, tt.max)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupported)
				return
			}
			assert.NoError(t, err)
		})
	}
}
