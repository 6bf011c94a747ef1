package table

// stats.go computes descriptive statistics.
//
// Single-column operations (Mean, StandardDeviation, Min, Max, Quantile)
// require a one-column table of a numeric type and fail with ErrTypeMismatch
// otherwise. They use only the cells that parse as numbers; a column with no
// such cell yields NaN.
//
// Quantiles use linear interpolation between closest ranks on the ascending
// values: position p = (n-1)*q (0-indexed). An integral p selects that value,
// otherwise the two neighbours are blended by the fractional part. On
// [1..8] the quartiles are 2.75, 4.5 and 6.25.

import (
	"math"
	"strconv"
)

// statisticNames is the fixed row order of Statistics.
var statisticNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Count returns how many cells of column col hold a number. STRING columns
// report RowCount unconditionally.
func (t *Table) Count(col int) (int, error) {
	if err := t.checkColumn("Count", col); err != nil {
		return 0, err
	}
	if t.types[col] == String {
		return t.rows, nil
	}
	n := 0
	for i := 0; i < t.rows; i++ {
		if _, ok := ParseNumber(t.data[t.offset(i, col)]); ok {
			n++
		}
	}
	return n, nil
}

// numbers returns the parseable values of a single numeric column.
func (t *Table) numbers(op string) ([]float64, error) {
	if t.cols != 1 {
		return nil, newError(op, ErrTypeMismatch, "needs a single column, table has %d", t.cols)
	}
	if !t.types[0].Numeric() {
		return nil, newError(op, ErrTypeMismatch, "column %q is %s", t.header[0], t.types[0])
	}
	vals := make([]float64, 0, t.rows)
	for _, s := range t.data {
		if f, ok := ParseNumber(s); ok {
			vals = append(vals, f)
		}
	}
	return vals, nil
}

// Mean returns the arithmetic mean of a single numeric column.
func (t *Table) Mean() (float64, error) {
	vals, err := t.numbers("Mean")
	if err != nil {
		return 0, err
	}
	return mean(vals), nil
}

// StandardDeviation returns the population standard deviation
// sqrt(sum((x-mean)^2)/n) of a single numeric column.
func (t *Table) StandardDeviation() (float64, error) {
	vals, err := t.numbers("StandardDeviation")
	if err != nil {
		return 0, err
	}
	return stddev(vals), nil
}

// Min returns the smallest value of a single numeric column.
func (t *Table) Min() (float64, error) {
	vals, err := t.numbers("Min")
	if err != nil {
		return 0, err
	}
	return minimum(vals), nil
}

// Max returns the largest value of a single numeric column.
func (t *Table) Max() (float64, error) {
	vals, err := t.numbers("Max")
	if err != nil {
		return 0, err
	}
	return maximum(vals), nil
}

// Quantile returns the q-quantile (0 <= q <= 1) of a single numeric column.
func (t *Table) Quantile(q float64) (float64, error) {
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, newError("Quantile", ErrRange, "q=%v not in [0, 1]", q)
	}
	sorted, err := t.sortedNumbers("Quantile")
	if err != nil {
		return 0, err
	}
	return quantile(sorted, q), nil
}

// Quartiles returns the 25th, 50th and 75th percentiles of a single numeric
// column.
func (t *Table) Quartiles() ([3]float64, error) {
	sorted, err := t.sortedNumbers("Quartiles")
	if err != nil {
		return [3]float64{}, err
	}
	return [3]float64{
		quantile(sorted, 0.25),
		quantile(sorted, 0.5),
		quantile(sorted, 0.75),
	}, nil
}

// sortedNumbers projects the parseable rows of a single numeric column, runs
// them through the sort engine ascending and returns their values.
func (t *Table) sortedNumbers(op string) ([]float64, error) {
	if _, err := t.numbers(op); err != nil {
		return nil, err
	}
	keep := make([]int, 0, t.rows)
	for i, s := range t.data {
		if _, ok := ParseNumber(s); ok {
			keep = append(keep, i)
		}
	}
	proj := t.selectRows(keep)
	if proj.rows > 1 {
		proj.sortRows(0, 0, proj.rows-1, Ascending)
	}

	out := make([]float64, proj.rows)
	for i, s := range proj.data {
		out[i], _ = ParseNumber(s)
	}
	return out, nil
}

// Statistics describes every column. The result has one row per statistic
// (count, mean, std, min, 25%, 50%, 75%, max) and the header
// ["Statistics", feature1, ...]. STRING columns report their row count and
// Sentinel for every other statistic.
func (t *Table) Statistics() (*Table, error) {
	cols := t.cols + 1
	header := make([]string, 0, cols)
	header = append(header, "Statistics")
	header = append(header, t.header...)

	// column-major scratch, transposed into the result below
	perColumn := make([][]string, t.cols)
	for j := 0; j < t.cols; j++ {
		col := t.selectColumns([]int{j})
		summary, err := col.describe()
		if err != nil {
			return nil, err
		}
		perColumn[j] = summary
	}

	data := make([]string, 0, len(statisticNames)*cols)
	for s, name := range statisticNames {
		data = append(data, name)
		for j := 0; j < t.cols; j++ {
			data = append(data, perColumn[j][s])
		}
	}
	return t.derive(header, data, len(statisticNames), cols), nil
}

// describe renders the statistic rows for a single-column table.
func (t *Table) describe() ([]string, error) {
	count, err := t.Count(0)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(statisticNames))
	out[0] = strconv.Itoa(count)

	if !t.types[0].Numeric() {
		for s := 1; s < len(out); s++ {
			out[s] = Sentinel
		}
		return out, nil
	}

	vals, err := t.numbers("Statistics")
	if err != nil {
		return nil, err
	}
	sorted, err := t.sortedNumbers("Statistics")
	if err != nil {
		return nil, err
	}
	for s, v := range []float64{
		mean(vals),
		stddev(vals),
		minimum(vals),
		quantile(sorted, 0.25),
		quantile(sorted, 0.5),
		quantile(sorted, 0.75),
		maximum(vals),
	} {
		out[s+1] = FormatNumber(v)
	}
	return out, nil
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func stddev(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := mean(vals)
	var sq float64
	for _, v := range vals {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)))
}

func minimum(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maximum(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// quantile interpolates between closest ranks of ascending values.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	p := float64(n-1) * q
	lo := math.Floor(p)
	i := int(lo)
	if p == lo || i+1 >= n {
		return sorted[i]
	}
	return sorted[i] + (p-lo)*(sorted[i+1]-sorted[i])
}
