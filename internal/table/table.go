package table

import (
	"fmt"
	"slices"
)

// Table is a memory-resident, row-major grid of string cells with a named
// header and inferred per-column types.
//
// The header lives outside the cell buffer: data holds exactly
// rows*cols cells and data row r, column c is stored at r*cols+c. Cells
// reconstructs the flat header-first view when callers need it.
//
// A Table exclusively owns its buffers. Every operation that produces a new
// Table copies the cells it needs. A Table is not safe for concurrent
// mutation.
type Table struct {
	rows   int
	cols   int
	header []string
	data   []string
	types  []DType

	sampleSize int
}

// New builds a table from a flat header-first cell buffer: the first cols
// cells are the feature names, followed by rows data rows. The buffer is
// copied. Ingestion sentinels are not introduced here.
func New(cells []string, rows, cols int) (*Table, error) {
	if rows < 0 || cols < 0 {
		return nil, newError("New", ErrRange, "negative dimensions %dx%d", rows, cols)
	}
	if want := (rows + 1) * cols; len(cells) != want {
		return nil, newError("New", ErrSchemaMismatch,
			"buffer holds %d cells, %d rows x %d columns plus header needs %d", len(cells), rows, cols, want)
	}
	header := slices.Clone(cells[:cols])
	data := slices.Clone(cells[cols:])
	return build(header, data, rows, cols, DefaultSampleSize), nil
}

// NewFromRows builds a table from a header row followed by data rows.
// Every row must have the header's width.
func NewFromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, newError("NewFromRows", ErrSchemaMismatch, "no header row")
	}
	cols := len(rows[0])
	data := make([]string, 0, (len(rows)-1)*cols)
	for i, r := range rows[1:] {
		if len(r) != cols {
			return nil, newError("NewFromRows", ErrSchemaMismatch,
				"row %d has %d fields, header has %d", i, len(r), cols)
		}
		data = append(data, r...)
	}
	return build(slices.Clone(rows[0]), data, len(rows)-1, cols, DefaultSampleSize), nil
}

// Filled builds a rows x cols table where every data cell holds value.
// Feature names are F0..F{cols-1}.
func Filled(value string, rows, cols int) (*Table, error) {
	if rows < 0 || cols < 0 {
		return nil, newError("Filled", ErrRange, "negative dimensions %dx%d", rows, cols)
	}
	header := make([]string, cols)
	for j := range header {
		header[j] = fmt.Sprintf("F%d", j)
	}
	data := make([]string, rows*cols)
	for i := range data {
		data[i] = value
	}
	return build(header, data, rows, cols, DefaultSampleSize), nil
}

// build takes ownership of header and data and refreshes derived state.
func build(header, data []string, rows, cols, sampleSize int) *Table {
	t := &Table{
		rows:       rows,
		cols:       cols,
		header:     header,
		data:       data,
		sampleSize: sampleSize,
	}
	t.Refresh()
	return t
}

// derive builds a result table that inherits t's inference settings.
func (t *Table) derive(header, data []string, rows, cols int) *Table {
	return build(header, data, rows, cols, t.sampleSize)
}

// Refresh recomputes the derived column types from the current cells.
func (t *Table) Refresh() {
	t.types = inferTypes(t.data, t.rows, t.cols, t.sampleSize)
}

// RowCount returns the number of data rows (header excluded).
func (t *Table) RowCount() int { return t.rows }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return t.cols }

// FeatureNames returns a copy of the header.
func (t *Table) FeatureNames() []string { return slices.Clone(t.header) }

// ColumnTypes returns a copy of the inferred column types.
func (t *Table) ColumnTypes() []DType { return slices.Clone(t.types) }

// Cells returns the flat header-first view of the table:
// (RowCount()+1)*ColumnCount() cells, header row first.
func (t *Table) Cells() []string {
	out := make([]string, 0, len(t.header)+len(t.data))
	out = append(out, t.header...)
	return append(out, t.data...)
}

// Clone returns an independent deep copy.
func (t *Table) Clone() *Table {
	return &Table{
		rows:       t.rows,
		cols:       t.cols,
		header:     slices.Clone(t.header),
		data:       slices.Clone(t.data),
		types:      slices.Clone(t.types),
		sampleSize: t.sampleSize,
	}
}

// offset is the address of data cell (row, col) in t.data.
func (t *Table) offset(row, col int) int {
	return row*t.cols + col
}

func (t *Table) checkRow(op string, row int) error {
	if row < 0 || row >= t.rows {
		return newError(op, ErrIndexOutOfRange, "row %d not in [0, %d)", row, t.rows)
	}
	return nil
}

func (t *Table) checkColumn(op string, col int) error {
	if col < 0 || col >= t.cols {
		return newError(op, ErrIndexOutOfRange, "column %d not in [0, %d)", col, t.cols)
	}
	return nil
}

// GetAt returns the cell at data row row and column col. Row 0 is the
// first data row, not the header.
func (t *Table) GetAt(row, col int) (string, error) {
	if err := t.checkRow("GetAt", row); err != nil {
		return "", err
	}
	if err := t.checkColumn("GetAt", col); err != nil {
		return "", err
	}
	return t.data[t.offset(row, col)], nil
}

// ReplaceAt overwrites the cell at data row row and column col.
// Column types are not re-inferred; call Refresh when that matters.
func (t *Table) ReplaceAt(row, col int, value string) error {
	if err := t.checkRow("ReplaceAt", row); err != nil {
		return err
	}
	if err := t.checkColumn("ReplaceAt", col); err != nil {
		return err
	}
	t.data[t.offset(row, col)] = value
	return nil
}

// Row returns a copy of data row row.
func (t *Table) Row(row int) ([]string, error) {
	if err := t.checkRow("Row", row); err != nil {
		return nil, err
	}
	start := t.offset(row, 0)
	return slices.Clone(t.data[start : start+t.cols]), nil
}

// Column returns a copy of every data cell in column col.
func (t *Table) Column(col int) ([]string, error) {
	if err := t.checkColumn("Column", col); err != nil {
		return nil, err
	}
	return t.column(col), nil
}

func (t *Table) column(col int) []string {
	out := make([]string, t.rows)
	for i := range out {
		out[i] = t.data[t.offset(i, col)]
	}
	return out
}

// ColumnIndex returns the index of the first column named name.
func (t *Table) ColumnIndex(name string) (int, error) {
	if j := slices.Index(t.header, name); j >= 0 {
		return j, nil
	}
	return -1, newError("ColumnIndex", ErrNameNotFound, "%q", name)
}

// columnIndexes resolves every name with first-match lookup.
func (t *Table) columnIndexes(op string, names []string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j := slices.Index(t.header, name)
		if j < 0 {
			return nil, newError(op, ErrNameNotFound, "%q", name)
		}
		idx[i] = j
	}
	return idx, nil
}

// TypeOf returns the inferred type of column col.
func (t *Table) TypeOf(col int) (DType, error) {
	if err := t.checkColumn("TypeOf", col); err != nil {
		return String, err
	}
	return t.types[col], nil
}

// TypeOfName returns the inferred type of the first column named name.
func (t *Table) TypeOfName(name string) (DType, error) {
	j, err := t.ColumnIndex(name)
	if err != nil {
		return String, err
	}
	return t.types[j], nil
}
