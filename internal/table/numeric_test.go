package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat64s(t *testing.T) {
	tbl := fromRows(t,
		[]string{"a", "b"},
		[]string{"1", "0.5"},
		[]string{"2", Sentinel},
		[]string{"3", "1.5"},
	)

	vals, err := tbl.Float64s()
	require.NoError(t, err)
	require.Len(t, vals, 6)

	assert.Equal(t, []float64{1, 0.5, 2}, vals[:3])
	assert.True(t, math.IsNaN(vals[3]))
	assert.Equal(t, []float64{3, 1.5}, vals[4:])
}

func TestFloat64s_Errors(t *testing.T) {
	_, err := sample(t).Float64s()
	assert.ErrorIs(t, err, ErrTypeMismatch, "name is a STRING column")

	tbl := fromRows(t, column("1", "2", "3kg")...)
	require.Equal(t, Integer, tbl.ColumnTypes()[0])
	_, err = tbl.Float64s()
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), `"3kg"`)
}
