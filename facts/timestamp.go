package facts

import (
	"time"
)

const (
	// TimestampLayout is the fixed width YYYYMMDDHHMMSS layout of RFC 3659 time values.
	TimestampLayout = "20060102150405"

	// renderLayout adds the optional millisecond fraction, trailing zeros are dropped
	// and the dot is omitted when the instant has no sub-second part.
	renderLayout = TimestampLayout + ".999"

	maxFractionDigits = 3
)

// FormatTimestamp renders t in UTC as YYYYMMDDHHMMSS[.sss].
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(renderLayout)
}

// ParseTimestamp parses a YYYYMMDDHHMMSS[.s[s[s]]] literal in the given zone.
// It reports false instead of returning an error so callers can answer the client directly.
func ParseTimestamp(text string, zone string) (time.Time, bool) {
	if !validTimestamp(text) {
		return time.Time{}, false
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimestampLayout, text, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// validTimestamp checks the shape of the literal, time.Parse is too lenient about
// the fraction part.
func validTimestamp(text string) bool {
	if len(text) < len(TimestampLayout) {
		return false
	}
	if !allDigits(text[:len(TimestampLayout)]) {
		return false
	}
	rest := text[len(TimestampLayout):]
	if rest == "" {
		return true
	}
	if rest[0] != '.' {
		return false
	}
	fraction := rest[1:]
	return len(fraction) > 0 && len(fraction) <= maxFractionDigits && allDigits(fraction)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
