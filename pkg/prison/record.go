// Package prison builds the canonical table of prison identity and
// classification attributes for the study window, with lifecycle events
// (closures, reopenings, category changes) applied as dated overlays.
package prison

import (
	"strings"

	"github.com/gnames/gnuuid"
)

// Flags are the binary security/population classification indicators.
// Multi-category sites (a complex with both Category B and Category D
// wings, or an adult prison with a YOI side) carry several flags on a
// single record rather than split rows.
type Flags struct {
	A   bool `yaml:"a,omitempty"`
	B   bool `yaml:"b,omitempty"`
	C   bool `yaml:"c,omitempty"`
	D   bool `yaml:"d,omitempty"`
	YOI bool `yaml:"yoi,omitempty"`

	Male   bool `yaml:"male,omitempty"`
	Female bool `yaml:"female,omitempty"`
	Mixed  bool `yaml:"mixed,omitempty"`

	FemaleOpen   bool `yaml:"female_open,omitempty"`
	FemaleClosed bool `yaml:"female_closed,omitempty"`
}

// Record is one classification period of a prison. A prison whose
// classification changed mid-window has several records with abutting,
// non-overlapping periods. Identity is the name string; ID is a stable
// UUID v5 derived from the name and the period's start month, so each
// period keys its own database row.
type Record struct {
	ID    string
	Name  string
	Start Month
	End   Month
	Flags

	// IRC marks sites that operated as immigration-removal centers, not
	// prisons, during the study window. They are excluded from the built
	// table entirely.
	IRC bool

	Notes string

	// HighestCategoryMale is the highest-priority male category present,
	// priority A > B > C > D > YOI > Other.
	HighestCategoryMale string

	// HighestCategoryFemale is the highest-priority female category
	// present, priority Closed > Open > Other.
	HighestCategoryFemale string
}

// NewID derives the stable prison identifier from its name.
func NewID(name string) string {
	return gnuuid.New(name).String()
}

// RecordID derives a stable identifier for one classification period.
// A prison whose classification changed mid-window has several records,
// so the period's start month participates in the ID.
func RecordID(name string, start Month) string {
	return gnuuid.New(name + "|" + start.String()).String()
}

// ActiveAt reports whether the record's period covers the given month.
// Both boundary months are included.
func (r *Record) ActiveAt(m Month) bool {
	return !m.Before(r.Start) && !m.After(r.End)
}

// GroupKey concatenates the category-flag values present on the record.
// It is the grouping key for projection outputs, e.g. "B", "C+D",
// "C+YOI", "Female_closed".
func (r *Record) GroupKey() string {
	var parts []string
	if r.A {
		parts = append(parts, "A")
	}
	if r.B {
		parts = append(parts, "B")
	}
	if r.C {
		parts = append(parts, "C")
	}
	if r.D {
		parts = append(parts, "D")
	}
	if r.YOI {
		parts = append(parts, "YOI")
	}
	if r.FemaleOpen {
		parts = append(parts, "Female_open")
	}
	if r.FemaleClosed {
		parts = append(parts, "Female_closed")
	}
	if len(parts) == 0 {
		return "Other"
	}
	return strings.Join(parts, "+")
}

// deriveHighest fills the Highest_category columns from the flags.
func (r *Record) deriveHighest() {
	r.HighestCategoryMale = "Other"
	r.HighestCategoryFemale = "Other"

	if r.Male || r.Mixed {
		switch {
		case r.A:
			r.HighestCategoryMale = "A"
		case r.B:
			r.HighestCategoryMale = "B"
		case r.C:
			r.HighestCategoryMale = "C"
		case r.D:
			r.HighestCategoryMale = "D"
		case r.YOI:
			r.HighestCategoryMale = "YOI"
		}
	}

	if r.Female || r.Mixed {
		switch {
		case r.FemaleClosed:
			r.HighestCategoryFemale = "Closed"
		case r.FemaleOpen:
			r.HighestCategoryFemale = "Open"
		}
	}
}
