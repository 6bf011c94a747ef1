package table

import (
	"slices"
	"strings"
)

// RowConcat stacks b's data rows under a's. Both tables must have the same
// number of columns; a's header is kept and b's is discarded.
func RowConcat(a, b *Table) (*Table, error) {
	if a.cols != b.cols {
		return nil, newError("RowConcat", ErrSchemaMismatch,
			"column counts differ: %d vs %d", a.cols, b.cols)
	}
	data := make([]string, 0, len(a.data)+len(b.data))
	data = append(data, a.data...)
	data = append(data, b.data...)
	return a.derive(slices.Clone(a.header), data, a.rows+b.rows, a.cols), nil
}

// ColumnConcat places b's columns to the right of a's, row by row. Both
// tables must have the same number of data rows and no feature name in
// common.
func ColumnConcat(a, b *Table) (*Table, error) {
	if a.rows != b.rows {
		return nil, newError("ColumnConcat", ErrSchemaMismatch,
			"row counts differ: %d vs %d", a.rows, b.rows)
	}
	var shared []string
	for _, name := range b.header {
		if slices.Contains(a.header, name) && !slices.Contains(shared, name) {
			shared = append(shared, name)
		}
	}
	if len(shared) > 0 {
		return nil, newError("ColumnConcat", ErrNameCollision, "%s", strings.Join(shared, ", "))
	}

	cols := a.cols + b.cols
	header := make([]string, 0, cols)
	header = append(header, a.header...)
	header = append(header, b.header...)

	data := make([]string, 0, a.rows*cols)
	for i := 0; i < a.rows; i++ {
		data = append(data, a.data[a.offset(i, 0):a.offset(i, a.cols)]...)
		data = append(data, b.data[b.offset(i, 0):b.offset(i, b.cols)]...)
	}
	return a.derive(header, data, a.rows, cols), nil
}
