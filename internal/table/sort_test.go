package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortable(t *testing.T) *Table {
	return fromRows(t,
		[]string{"k", "label"},
		[]string{"3", "c"},
		[]string{"1", "a"},
		[]string{"NAN", "z"},
		[]string{"2", "b"},
		[]string{"1", "a2"},
	)
}

func TestSort(t *testing.T) {
	tests := []struct {
		name   string
		dir    Direction
		keys   []string
		labels []string
	}{
		{
			"ascending stable with missing last", Ascending,
			[]string{"1", "1", "2", "3", "NAN"},
			[]string{"a", "a2", "b", "c", "z"},
		},
		{
			"descending stable with missing last", Descending,
			[]string{"3", "2", "1", "1", "NAN"},
			[]string{"c", "b", "a", "a2", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := sortable(t)
			require.Equal(t, Integer, tbl.ColumnTypes()[0])

			require.NoError(t, tbl.Sort(0, tt.dir))

			keys, _ := tbl.Column(0)
			labels, _ := tbl.Column(1)
			assert.Equal(t, tt.keys, keys)
			assert.Equal(t, tt.labels, labels, "rows stay intact")
			assert.Equal(t, []string{"k", "label"}, tbl.FeatureNames())
		})
	}
}

func TestSort_PreservesMultiset(t *testing.T) {
	tbl := sample(t)
	before, err := tbl.UniqueCounts(1)
	require.NoError(t, err)

	require.NoError(t, tbl.SortByName("score", Descending))

	after, err := tbl.UniqueCounts(1)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	col, _ := tbl.Column(1)
	assert.Equal(t, []string{"ann", "dee", "bob", "cy"}, col)
}

func TestSort_Errors(t *testing.T) {
	tbl := sample(t)

	assert.ErrorIs(t, tbl.Sort(1, Ascending), ErrTypeMismatch)
	assert.ErrorIs(t, tbl.Sort(7, Ascending), ErrIndexOutOfRange)
	assert.ErrorIs(t, tbl.SortByName("nope", Ascending), ErrNameNotFound)
}

func TestSortRange(t *testing.T) {
	tbl := sortable(t)

	require.NoError(t, tbl.SortRange(0, 0, 2, Ascending))

	labels, _ := tbl.Column(1)
	assert.Equal(t, []string{"a", "c", "z", "b", "a2"}, labels)
}

func TestSortRange_Bounds(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		wantErr    error
	}{
		{"single row is a no-op", 2, 2, nil},
		{"reversed", 3, 1, ErrRange},
		{"past end", 0, 5, ErrRange},
		{"negative start", -1, 2, ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := sortable(t)
			before := tbl.Cells()

			err := tbl.SortRange(0, tt.start, tt.end, Ascending)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, before, tbl.Cells())
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"asc", Ascending, false},
		{"ASCENDING", Ascending, false},
		{"desc", Descending, false},
		{"descending", Descending, false},
		{"sideways", Ascending, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
