package table

import (
	"math/rand/v2"
)

// RenameColumn overwrites the feature name of column col.
func (t *Table) RenameColumn(col int, name string) error {
	if err := t.checkColumn("RenameColumn", col); err != nil {
		return err
	}
	t.header[col] = name
	return nil
}

// UniqueCounts returns how often each distinct value occurs in column col.
// The table is not modified.
func (t *Table) UniqueCounts(col int) (map[string]int, error) {
	if err := t.checkColumn("UniqueCounts", col); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for i := 0; i < t.rows; i++ {
		counts[t.data[t.offset(i, col)]]++
	}
	return counts, nil
}

// UniqueCountsByName is UniqueCounts with a feature name.
func (t *Table) UniqueCountsByName(name string) (map[string]int, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	return t.UniqueCounts(col)
}

// Shuffle permutes the data rows in place with a Fisher-Yates pass driven by
// a PCG generator seeded with seed. Equal seeds give equal permutations.
func (t *Table) Shuffle(seed uint64) {
	t.ShuffleWith(rand.New(rand.NewPCG(seed, seed)))
}

// ShuffleWith permutes the data rows in place using rng.
func (t *Table) ShuffleWith(rng *rand.Rand) {
	rng.Shuffle(t.rows, t.swapRows)
}

func (t *Table) swapRows(a, b int) {
	if a == b {
		return
	}
	ra := t.data[t.offset(a, 0):t.offset(a, t.cols)]
	rb := t.data[t.offset(b, 0):t.offset(b, t.cols)]
	for j := range ra {
		ra[j], rb[j] = rb[j], ra[j]
	}
}

// ColumnInfo summarises one column for Info.
type ColumnInfo struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	NonNull int    `json:"nonNull"`
	Null    int    `json:"null"`
}

// Info summarises a table's shape, footprint and per-column completeness.
type Info struct {
	Rows        int          `json:"rows"`
	Columns     int          `json:"columns"`
	MemoryBytes int64        `json:"memoryBytes"`
	Fields      []ColumnInfo `json:"fields"`
}

// stringHeaderBytes approximates the per-cell overhead of a Go string.
const stringHeaderBytes = 16

// Info reports the table's dimensions, an estimate of the memory held by its
// cells and, per column, how many cells are present or missing. Numeric
// columns count a cell as missing when it does not parse as a number; STRING
// columns count Sentinel cells.
func (t *Table) Info() Info {
	info := Info{
		Rows:    t.rows,
		Columns: t.cols,
		Fields:  make([]ColumnInfo, t.cols),
	}
	for _, s := range t.header {
		info.MemoryBytes += int64(len(s) + stringHeaderBytes)
	}
	for _, s := range t.data {
		info.MemoryBytes += int64(len(s) + stringHeaderBytes)
	}

	for j := 0; j < t.cols; j++ {
		ci := ColumnInfo{Index: j, Name: t.header[j], Type: t.types[j].String()}
		for i := 0; i < t.rows; i++ {
			v := t.data[t.offset(i, j)]
			present := v != Sentinel
			if t.types[j].Numeric() {
				_, present = ParseNumber(v)
			}
			if present {
				ci.NonNull++
			} else {
				ci.Null++
			}
		}
		info.Fields[j] = ci
	}
	return info
}
