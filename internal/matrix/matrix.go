// Package matrix converts all-numeric tables into gonum dense matrices.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/JonMunkholm/flatframe/internal/table"
)

// ToDense copies every data cell of t into a RowCount x ColumnCount dense
// matrix. Every column must be INTEGER or FLOAT. Missing cells become NaN.
func ToDense(t *table.Table) (*mat.Dense, error) {
	if t.RowCount() == 0 || t.ColumnCount() == 0 {
		return nil, fmt.Errorf("matrix: empty table %dx%d: %w", t.RowCount(), t.ColumnCount(), table.ErrRange)
	}
	vals, err := t.Float64s()
	if err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}
	return mat.NewDense(t.RowCount(), t.ColumnCount(), vals), nil
}

// Columns projects the named columns and converts the projection.
func Columns(t *table.Table, names ...string) (*mat.Dense, error) {
	sub, err := t.SelectColumnsByName(names)
	if err != nil {
		return nil, fmt.Errorf("matrix: %w", err)
	}
	return ToDense(sub)
}

// ToTable is the inverse of ToDense: it renders m as a table with the given
// feature names, six fractional digits per cell and Sentinel for NaN.
func ToTable(m mat.Matrix, names []string) (*table.Table, error) {
	r, c := m.Dims()
	if len(names) != c {
		return nil, fmt.Errorf("matrix: %d names for %d columns: %w", len(names), c, table.ErrSchemaMismatch)
	}
	rows := make([][]string, 0, r+1)
	rows = append(rows, names)
	for i := 0; i < r; i++ {
		row := make([]string, c)
		for j := 0; j < c; j++ {
			row[j] = table.FormatNumber(m.At(i, j))
		}
		rows = append(rows, row)
	}
	return table.NewFromRows(rows)
}

// Correlation returns the Pearson correlation matrix of t's columns as a
// table whose feature names and column order match t. At least two data rows
// are needed. A column with a missing cell correlates as NaN.
func Correlation(t *table.Table) (*table.Table, error) {
	if t.RowCount() < 2 {
		return nil, fmt.Errorf("matrix: correlation needs 2 rows, have %d: %w", t.RowCount(), table.ErrRange)
	}
	d, err := ToDense(t)
	if err != nil {
		return nil, err
	}
	var c mat.SymDense
	stat.CorrelationMatrix(&c, d, nil)
	return ToTable(&c, t.FeatureNames())
}
