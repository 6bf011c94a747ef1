package table

// infer.go classifies columns as INTEGER, FLOAT or STRING.
//
// Classification is a heuristic majority vote over a bounded prefix: only
// the first min(rows, sampleSize) data rows are inspected, in row order. A
// column whose numeric values only appear after the prefix is classified
// STRING, and a single decimal value inside the prefix upgrades an integer
// column to FLOAT.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// integerPrefix matches a value that starts with an optionally signed run of
// digits, the same leniency a C-style integer parse has: "12", "-3", "3.5"
// and "7kg" all count as integer parses, "NAN" and ".5" do not.
var integerPrefix = regexp.MustCompile(`^\s*[+-]?\d`)

// numericRegex validates a strictly numeric cell: integers, decimals and
// scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// inferTypes derives one DType per column.
func inferTypes(data []string, rows, cols, sampleSize int) []DType {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	limit := min(rows, sampleSize)

	types := make([]DType, cols)
	for j := 0; j < cols; j++ {
		var intCount, floatCount, stringCount int
		for i := 0; i < limit; i++ {
			v := data[i*cols+j]
			if integerPrefix.MatchString(v) {
				intCount++
				if strings.Contains(v, ".") {
					floatCount++
				}
			} else {
				stringCount++
			}
		}
		types[j] = classify(intCount, floatCount, stringCount)
	}
	return types
}

func classify(intCount, floatCount, stringCount int) DType {
	if stringCount >= intCount {
		return String
	}
	if floatCount > 0 {
		return Float
	}
	return Integer
}

// ParseNumber parses a cell as a float64. The sentinel, empty cells and
// anything that is not a plain decimal or scientific literal are rejected;
// surrounding whitespace is ignored.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatNumber renders f with six fractional digits, the format of every
// computed cell. NaN renders as Sentinel.
func FormatNumber(f float64) string {
	if math.IsNaN(f) {
		return Sentinel
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}
