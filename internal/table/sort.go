package table

import (
	"cmp"
	"slices"
)

// Sort reorders every data row by the numeric value of column col.
func (t *Table) Sort(col int, dir Direction) error {
	if err := t.checkSortable("Sort", col); err != nil {
		return err
	}
	if t.rows < 2 {
		return nil
	}
	t.sortRows(col, 0, t.rows-1, dir)
	return nil
}

// SortByName is Sort with a feature name.
func (t *Table) SortByName(name string, dir Direction) error {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return err
	}
	return t.Sort(col, dir)
}

// SortRange reorders data rows start..end (inclusive) by the numeric value
// of column col, leaving rows outside the range in place.
func (t *Table) SortRange(col, start, end int, dir Direction) error {
	if err := t.checkSortable("SortRange", col); err != nil {
		return err
	}
	if start < 0 || end >= t.rows || start > end {
		return newError("SortRange", ErrRange, "rows [%d, %d] with %d rows", start, end, t.rows)
	}
	if start == end {
		return nil
	}
	t.sortRows(col, start, end, dir)
	return nil
}

func (t *Table) checkSortable(op string, col int) error {
	if err := t.checkColumn(op, col); err != nil {
		return err
	}
	if !t.types[col].Numeric() {
		return newError(op, ErrTypeMismatch, "column %q is %s", t.header[col], t.types[col])
	}
	return nil
}

// sortRows sorts a permutation of row indexes by key and then moves whole
// rows into place, so cells never separate from their row. The sort is
// stable. Keys that do not parse as numbers go last in both directions.
func (t *Table) sortRows(col, start, end int, dir Direction) {
	type keyed struct {
		row int
		key float64
		ok  bool
	}
	perm := make([]keyed, 0, end-start+1)
	for i := start; i <= end; i++ {
		k, ok := ParseNumber(t.data[t.offset(i, col)])
		perm = append(perm, keyed{row: i, key: k, ok: ok})
	}

	slices.SortStableFunc(perm, func(a, b keyed) int {
		switch {
		case !a.ok && !b.ok:
			return 0
		case !a.ok:
			return 1
		case !b.ok:
			return -1
		}
		if dir == Descending {
			return cmp.Compare(b.key, a.key)
		}
		return cmp.Compare(a.key, b.key)
	})

	region := make([]string, 0, len(perm)*t.cols)
	for _, p := range perm {
		region = append(region, t.data[t.offset(p.row, 0):t.offset(p.row, t.cols)]...)
	}
	copy(t.data[t.offset(start, 0):], region)
}
