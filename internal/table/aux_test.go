package table

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(t *testing.T, n int) *Table {
	rows := [][]string{{"i", "sq"}}
	for i := 0; i < n; i++ {
		rows = append(rows, []string{strconv.Itoa(i), strconv.Itoa(i * i)})
	}
	return fromRows(t, rows...)
}

func TestRenameColumn(t *testing.T) {
	tbl := sample(t)

	require.NoError(t, tbl.RenameColumn(1, "who"))
	assert.Equal(t, []string{"id", "who", "score"}, tbl.FeatureNames())

	j, err := tbl.ColumnIndex("who")
	require.NoError(t, err)
	assert.Equal(t, 1, j)

	assert.ErrorIs(t, tbl.RenameColumn(3, "x"), ErrIndexOutOfRange)
}

func TestUniqueCounts(t *testing.T) {
	tbl := fromRows(t, column("a", "b", "a", Sentinel, "a")...)

	counts, err := tbl.UniqueCounts(0)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 3, "b": 1, Sentinel: 1}, counts)

	counts, err = tbl.UniqueCountsByName("v")
	require.NoError(t, err)
	assert.Len(t, counts, 3)

	_, err = tbl.UniqueCounts(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = tbl.UniqueCountsByName("w")
	assert.ErrorIs(t, err, ErrNameNotFound)
}

func TestShuffle_Deterministic(t *testing.T) {
	a := numbered(t, 50)
	b := numbered(t, 50)

	a.Shuffle(42)
	b.Shuffle(42)
	assert.Equal(t, a.Cells(), b.Cells())

	c := numbered(t, 50)
	c.Shuffle(43)
	assert.NotEqual(t, a.Cells(), c.Cells())
}

func TestShuffle_KeepsRowsIntact(t *testing.T) {
	tbl := numbered(t, 30)
	tbl.Shuffle(7)

	assert.Equal(t, []string{"i", "sq"}, tbl.FeatureNames())
	seen := make([]int, 0, 30)
	for r := 0; r < tbl.RowCount(); r++ {
		row, err := tbl.Row(r)
		require.NoError(t, err)
		i, _ := strconv.Atoi(row[0])
		sq, _ := strconv.Atoi(row[1])
		assert.Equal(t, i*i, sq, "row %d split apart", r)
		seen = append(seen, i)
	}
	slices.Sort(seen)
	for i, v := range seen {
		assert.Equal(t, i, v)
	}
}

func TestShuffleWith(t *testing.T) {
	a := numbered(t, 20)
	b := numbered(t, 20)

	a.ShuffleWith(rand.New(rand.NewPCG(1, 2)))
	b.ShuffleWith(rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, a.Cells(), b.Cells())
}

func TestInfo(t *testing.T) {
	info := sample(t).Info()

	assert.Equal(t, 4, info.Rows)
	assert.Equal(t, 3, info.Columns)
	assert.Positive(t, info.MemoryBytes)
	require.Len(t, info.Fields, 3)

	assert.Equal(t, ColumnInfo{Index: 2, Name: "score", Type: "FLOAT", NonNull: 3, Null: 1}, info.Fields[2])
	assert.Equal(t, ColumnInfo{Index: 1, Name: "name", Type: "STRING", NonNull: 4, Null: 0}, info.Fields[1])
}

func TestInfo_MemoryGrowsWithData(t *testing.T) {
	small := numbered(t, 5).Info()
	large := numbered(t, 50).Info()
	assert.Greater(t, large.MemoryBytes, small.MemoryBytes)
}
