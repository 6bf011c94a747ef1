package table

import "math"

// Float64s returns every data cell as an IEEE-754 double, row-major, for
// hand-off to numeric code. Every column must be INTEGER or FLOAT. Sentinel
// cells become NaN; any other cell that does not parse fails with
// ErrTypeMismatch.
func (t *Table) Float64s() ([]float64, error) {
	for j, dt := range t.types {
		if !dt.Numeric() {
			return nil, newError("Float64s", ErrTypeMismatch, "column %q is %s", t.header[j], dt)
		}
	}
	out := make([]float64, len(t.data))
	for k, s := range t.data {
		if s == Sentinel {
			out[k] = math.NaN()
			continue
		}
		f, ok := ParseNumber(s)
		if !ok {
			return nil, newError("Float64s", ErrTypeMismatch,
				"cell (%d, %d) = %q is not a number", k/t.cols, k%t.cols, s)
		}
		out[k] = f
	}
	return out, nil
}
