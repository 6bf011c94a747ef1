package table

// slice.go implements the slicing, projection and row-filter algebra. Every
// operation returns a new table with its own buffers and freshly inferred
// column types; the receiver is never modified. Row slicing never touches
// feature names: the result's header is always taken from the receiver's
// header.

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Cut returns data rows [r1, r2) and columns [c1, c2).
func (t *Table) Cut(r1, r2, c1, c2 int) (*Table, error) {
	return t.cut("Cut", r1, r2, c1, c2)
}

// RowCut returns data rows [r1, r2) with every column.
func (t *Table) RowCut(r1, r2 int) (*Table, error) {
	return t.cut("RowCut", r1, r2, 0, t.cols)
}

// ColumnCut returns columns [c1, c2) with every data row.
func (t *Table) ColumnCut(c1, c2 int) (*Table, error) {
	return t.cut("ColumnCut", 0, t.rows, c1, c2)
}

func (t *Table) cut(op string, r1, r2, c1, c2 int) (*Table, error) {
	if r1 < 0 || r2 <= r1 || r2 > t.rows {
		return nil, newError(op, ErrRange, "rows [%d, %d) with %d rows", r1, r2, t.rows)
	}
	if c1 < 0 || c2 <= c1 || c2 > t.cols {
		return nil, newError(op, ErrRange, "columns [%d, %d) with %d columns", c1, c2, t.cols)
	}

	width := c2 - c1
	header := make([]string, width)
	copy(header, t.header[c1:c2])

	data := make([]string, 0, (r2-r1)*width)
	for i := r1; i < r2; i++ {
		data = append(data, t.data[t.offset(i, c1):t.offset(i, c2)]...)
	}
	return t.derive(header, data, r2-r1, width), nil
}

// SelectColumns projects the given columns, in the given order. Indexes may
// repeat.
func (t *Table) SelectColumns(cols []int) (*Table, error) {
	for _, j := range cols {
		if err := t.checkColumn("SelectColumns", j); err != nil {
			return nil, err
		}
	}
	return t.selectColumns(cols), nil
}

// SelectColumnsByName projects columns by feature name using first-match
// lookup. Any unknown name fails the whole call with ErrNameNotFound.
func (t *Table) SelectColumnsByName(names []string) (*Table, error) {
	cols, err := t.columnIndexes("SelectColumns", names)
	if err != nil {
		return nil, err
	}
	return t.selectColumns(cols), nil
}

func (t *Table) selectColumns(cols []int) *Table {
	header := make([]string, len(cols))
	for k, j := range cols {
		header[k] = t.header[j]
	}
	data := make([]string, 0, t.rows*len(cols))
	for i := 0; i < t.rows; i++ {
		for _, j := range cols {
			data = append(data, t.data[t.offset(i, j)])
		}
	}
	return t.derive(header, data, t.rows, len(cols))
}

// SelectRows projects the given data rows, in the given order. Indexes may
// repeat. The header is kept as is.
func (t *Table) SelectRows(rows []int) (*Table, error) {
	for _, i := range rows {
		if err := t.checkRow("SelectRows", i); err != nil {
			return nil, err
		}
	}
	return t.selectRows(rows), nil
}

func (t *Table) selectRows(rows []int) *Table {
	header := make([]string, t.cols)
	copy(header, t.header)
	data := make([]string, 0, len(rows)*t.cols)
	for _, i := range rows {
		start := t.offset(i, 0)
		data = append(data, t.data[start:start+t.cols]...)
	}
	return t.derive(header, data, len(rows), t.cols)
}

// NullOrNonNull keeps every data row in which any column of nullCols holds
// Sentinel or any column of nonNullCols holds something else. A row that
// satisfies several criteria is kept once; rows stay in their original
// order.
func (t *Table) NullOrNonNull(nullCols, nonNullCols []int) (*Table, error) {
	for _, j := range nullCols {
		if err := t.checkColumn("NullOrNonNull", j); err != nil {
			return nil, err
		}
	}
	for _, j := range nonNullCols {
		if err := t.checkColumn("NullOrNonNull", j); err != nil {
			return nil, err
		}
	}

	matched := roaring.New()
	for i := 0; i < t.rows; i++ {
		for _, j := range nullCols {
			if t.data[t.offset(i, j)] == Sentinel {
				matched.Add(uint32(i))
				break
			}
		}
		if matched.Contains(uint32(i)) {
			continue
		}
		for _, j := range nonNullCols {
			if t.data[t.offset(i, j)] != Sentinel {
				matched.Add(uint32(i))
				break
			}
		}
	}

	rows := make([]int, 0, matched.GetCardinality())
	it := matched.Iterator()
	for it.HasNext() {
		rows = append(rows, int(it.Next()))
	}
	return t.selectRows(rows), nil
}

// NullOrNonNullByName is NullOrNonNull with feature names.
func (t *Table) NullOrNonNullByName(nullCols, nonNullCols []string) (*Table, error) {
	nulls, err := t.columnIndexes("NullOrNonNull", nullCols)
	if err != nil {
		return nil, err
	}
	nonNulls, err := t.columnIndexes("NullOrNonNull", nonNullCols)
	if err != nil {
		return nil, err
	}
	return t.NullOrNonNull(nulls, nonNulls)
}

// RowsWithMissing keeps every row with at least one Sentinel cell.
func (t *Table) RowsWithMissing() *Table {
	all := make([]int, t.cols)
	for j := range all {
		all[j] = j
	}
	out, _ := t.NullOrNonNull(all, nil)
	return out
}
