package table

import (
	"fmt"
	"strings"
)

// DType is the inferred storage class of a column.
type DType int

const (
	Integer DType = iota
	Float
	String
)

// String returns the upper-case name used in reports and Info output.
func (d DType) String() string {
	switch d {
	case Integer:
		return "INTEGER"
	case Float:
		return "FLOAT"
	case String:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// Numeric reports whether values of the type can feed numeric operations.
func (d DType) Numeric() bool {
	return d == Integer || d == Float
}

// Direction selects the ordering used by Sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending" in any
// case. An empty string means Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown sort direction %q", s)
	}
}

// Sentinel marks a missing or unparsable value produced during CSV ingestion.
const Sentinel = "NAN"

// DefaultSampleSize is how many leading data rows type inference inspects.
const DefaultSampleSize = 100

// DefaultDelimiter is the field separator of the CSV format.
const DefaultDelimiter = ','
