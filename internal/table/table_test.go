package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fromRows builds a table from a header and data rows or fails the test.
func fromRows(t *testing.T, rows ...[]string) *Table {
	t.Helper()
	tbl, err := NewFromRows(rows)
	require.NoError(t, err)
	return tbl
}

// sample is a small mixed-type table used across tests.
func sample(t *testing.T) *Table {
	return fromRows(t,
		[]string{"id", "name", "score"},
		[]string{"1", "ann", "3.5"},
		[]string{"2", "bob", "1.25"},
		[]string{"3", "cy", "NAN"},
		[]string{"4", "dee", "2"},
	)
}

func assertBufferInvariant(t *testing.T, tbl *Table) {
	t.Helper()
	assert.Len(t, tbl.Cells(), (tbl.RowCount()+1)*tbl.ColumnCount())
	assert.Len(t, tbl.ColumnTypes(), tbl.ColumnCount())
	assert.Len(t, tbl.FeatureNames(), tbl.ColumnCount())
}

func TestNew(t *testing.T) {
	tbl, err := New([]string{"a", "b", "1", "x", "2", "y"}, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, 2, tbl.ColumnCount())
	assert.Equal(t, []string{"a", "b"}, tbl.FeatureNames())
	assert.Equal(t, []DType{Integer, String}, tbl.ColumnTypes())
	assertBufferInvariant(t, tbl)
}

func TestNew_BufferSizeMismatch(t *testing.T) {
	_, err := New([]string{"a", "b", "1"}, 1, 2)
	require.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = New(nil, -1, 2)
	require.ErrorIs(t, err, ErrRange)
}

func TestNew_CopiesBuffer(t *testing.T) {
	cells := []string{"a", "1"}
	tbl, err := New(cells, 1, 1)
	require.NoError(t, err)

	cells[1] = "changed"
	v, err := tbl.GetAt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestNew_NoSentinelScrubbing(t *testing.T) {
	tbl, err := New([]string{"a", ""}, 1, 1)
	require.NoError(t, err)

	v, err := tbl.GetAt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestNewFromRows_RaggedRow(t *testing.T) {
	_, err := NewFromRows([][]string{{"a", "b"}, {"1"}})
	require.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = NewFromRows(nil)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestFilled(t *testing.T) {
	tbl, err := Filled("0", 3, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"F0", "F1"}, tbl.FeatureNames())
	assert.Equal(t, []DType{Integer, Integer}, tbl.ColumnTypes())
	assertBufferInvariant(t, tbl)
	for i := 0; i < 3; i++ {
		v, err := tbl.GetAt(i, 1)
		require.NoError(t, err)
		assert.Equal(t, "0", v)
	}
}

func TestGetAt(t *testing.T) {
	tbl := sample(t)

	v, err := tbl.GetAt(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "ann", v, "row 0 is the first data row, not the header")

	tests := []struct {
		name     string
		row, col int
	}{
		{"row past end", 4, 0},
		{"negative row", -1, 0},
		{"column past end", 0, 3},
		{"negative column", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tbl.GetAt(tt.row, tt.col)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
		})
	}
}

func TestReplaceAt(t *testing.T) {
	tbl := sample(t)

	require.NoError(t, tbl.ReplaceAt(3, 2, "9.75"))
	v, err := tbl.GetAt(3, 2)
	require.NoError(t, err)
	assert.Equal(t, "9.75", v)

	assert.ErrorIs(t, tbl.ReplaceAt(4, 0, "x"), ErrIndexOutOfRange)
	assert.ErrorIs(t, tbl.ReplaceAt(0, 3, "x"), ErrIndexOutOfRange)
}

func TestRowAndColumn(t *testing.T) {
	tbl := sample(t)

	row, err := tbl.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "bob", "1.25"}, row)

	col, err := tbl.Column(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, col)

	_, err = tbl.Row(10)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = tbl.Column(10)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestColumnIndex_FirstMatch(t *testing.T) {
	tbl := fromRows(t, []string{"a", "b", "a"}, []string{"1", "2", "3"})

	j, err := tbl.ColumnIndex("a")
	require.NoError(t, err)
	assert.Equal(t, 0, j)

	_, err = tbl.ColumnIndex("zzz")
	assert.ErrorIs(t, err, ErrNameNotFound)
}

func TestTypeOf(t *testing.T) {
	tbl := sample(t)

	dt, err := tbl.TypeOf(2)
	require.NoError(t, err)
	assert.Equal(t, Float, dt)

	dt, err = tbl.TypeOfName("name")
	require.NoError(t, err)
	assert.Equal(t, String, dt)

	_, err = tbl.TypeOf(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = tbl.TypeOfName("missing")
	assert.ErrorIs(t, err, ErrNameNotFound)
}

func TestClone_Independent(t *testing.T) {
	tbl := sample(t)
	cp := tbl.Clone()

	require.NoError(t, cp.ReplaceAt(0, 0, "100"))
	require.NoError(t, cp.RenameColumn(0, "key"))

	v, _ := tbl.GetAt(0, 0)
	assert.Equal(t, "1", v)
	assert.Equal(t, "id", tbl.FeatureNames()[0])
}

func TestRefresh_AfterReplace(t *testing.T) {
	tbl := fromRows(t, []string{"v"}, []string{"1"}, []string{"2"})
	require.Equal(t, Integer, tbl.ColumnTypes()[0])

	require.NoError(t, tbl.ReplaceAt(0, 0, "1.5"))
	assert.Equal(t, Integer, tbl.ColumnTypes()[0], "types are not re-inferred implicitly")

	tbl.Refresh()
	assert.Equal(t, Float, tbl.ColumnTypes()[0])
}

func TestError_Unwrap(t *testing.T) {
	_, err := sample(t).GetAt(99, 0)

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "GetAt", te.Op)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.NotErrorIs(t, err, ErrRange)
	assert.Contains(t, err.Error(), "row 99")
}
