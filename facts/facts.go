// Package facts holds the named pieces of file metadata the FTP server reports,
// together with the one timestamp grammar every command renders them with.
// MFMT, MDTM and the listing facts all go through FormatTimestamp so the same
// instant is printed byte for byte the same way everywhere.
package facts

import (
	"time"
)

// Fact is a named piece of file metadata with its canonical rendered value.
type Fact interface {
	// Name of the fact as it appears on the wire, e.g. "Modify"
	Name() string
	// Value is the rendered value of the fact
	Value() string
}

// String renders the fact as "name=value".
func String(f Fact) string {
	return f.Name() + "=" + f.Value()
}

// ModifyFact is the last modification time of a file.
type ModifyFact struct {
	Time time.Time
}

// NewModifyFact creates a new modify fact for the given instant.
func NewModifyFact(t time.Time) ModifyFact {
	return ModifyFact{Time: t}
}

func (f ModifyFact) Name() string {
	return "Modify"
}

func (f ModifyFact) Value() string {
	return FormatTimestamp(f.Time)
}

var _ Fact = ModifyFact{}
