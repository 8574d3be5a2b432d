package facts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"whole second", time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC), "20230115120000"},
		{"milliseconds", time.Date(2023, 1, 15, 12, 0, 0, 123_000_000, time.UTC), "20230115120000.123"},
		{"trailing zeros trimmed", time.Date(2023, 1, 15, 12, 0, 0, 500_000_000, time.UTC), "20230115120000.5"},
		{"below millisecond dropped", time.Date(2023, 1, 15, 12, 0, 0, 400_000, time.UTC), "20230115120000"},
		{"converted to utc", time.Date(2023, 1, 15, 14, 0, 0, 0, time.FixedZone("EET", 2*60*60)), "20230115120000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.in))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"20230115120000", time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC), true},
		{"20230115120000.1", time.Date(2023, 1, 15, 12, 0, 0, 100_000_000, time.UTC), true},
		{"20230115120000.123", time.Date(2023, 1, 15, 12, 0, 0, 123_000_000, time.UTC), true},
		{"20230115120000.1234", time.Time{}, false},
		{"20230115120000.", time.Time{}, false},
		{"20230115120000Z", time.Time{}, false},
		{"2023011512000", time.Time{}, false},
		{"20231315120000", time.Time{}, false},
		{"bogus", time.Time{}, false},
		{"", time.Time{}, false},
		{"-0230115120000", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in, "UTC")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestParseTimestamp_Zone(t *testing.T) {
	_, ok := ParseTimestamp("20230115120000", "Not/AZone")
	assert.False(t, ok)

	got, ok := ParseTimestamp("20230115120000", "UTC")
	require.True(t, ok)
	assert.Equal(t, "20230115120000", FormatTimestamp(got))
}

func TestTimestampRoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC),
		time.Date(2038, 1, 19, 3, 14, 7, 10_000_000, time.UTC),
	}
	for _, in := range instants {
		rendered := FormatTimestamp(in)
		got, ok := ParseTimestamp(rendered, "UTC")
		require.True(t, ok, rendered)
		assert.True(t, in.Equal(got), "round trip of %s gave %s", in, got)
	}
}

func TestModifyFact(t *testing.T) {
	f := NewModifyFact(time.Date(2023, 1, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "Modify", f.Name())
	assert.Equal(t, "20230115120000", f.Value())
	assert.Equal(t, "Modify=20230115120000", String(f))
}
