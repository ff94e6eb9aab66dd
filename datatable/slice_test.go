package datatable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSliceSource(t *testing.T) {
	ds, err := NewSliceSource(
		[]string{"id", "name", "score"},
		[][]interface{}{
			{1, "a", nil},
			{int32(2), "b", float32(1.5)},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.RowCount())
	assert.Equal(t, 3, ds.ColumnCount())

	typ, err := ds.ColumnType(0)
	require.NoError(t, err)
	assert.Equal(t, TypeInt, typ)

	typ, err = ds.ColumnType(2)
	require.NoError(t, err)
	assert.Equal(t, TypeFloat, typ, "type comes from the first non-null cell")

	v, err := ds.Cell(1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Raw)

	v, err = ds.Cell(0, 2)
	require.NoError(t, err)
	assert.True(t, v.IsNull)

	_, err = ds.Cell(2, 0)
	assert.ErrorIs(t, err, ErrInvalidRow)
	_, err = ds.Cell(0, 3)
	assert.ErrorIs(t, err, ErrInvalidColumn)
	_, err = ds.ColumnName(-1)
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestNewSliceSourceRagged(t *testing.T) {
	_, err := NewSliceSource([]string{"a", "b"}, [][]interface{}{{1}})
	assert.ErrorIs(t, err, ErrRaggedRows)
}

func TestNewFromMaps(t *testing.T) {
	ds, err := NewFromMaps([]map[string]interface{}{
		{"b": 1.0, "a": "x"},
		{"a": "y", "c": true},
	})
	require.NoError(t, err)

	names, err := ColumnNames(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	v, err := ds.Cell(1, 1)
	require.NoError(t, err)
	assert.True(t, v.IsNull, "absent key is null")

	col, err := FindColumn(ds, "c")
	require.NoError(t, err)
	assert.Equal(t, 2, col)

	_, err = FindColumn(ds, "missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestSliceSourceIndex(t *testing.T) {
	ds, err := NewSliceSource([]string{"x"}, [][]interface{}{{1}, {2}})
	require.NoError(t, err)

	v, err := IndexValue(ds, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Raw, "ordinal index by default")

	_, err = ds.WithIndex("id", []interface{}{10})
	assert.ErrorIs(t, err, ErrIndexLength)

	_, err = ds.WithIndex("id", []interface{}{10, 20})
	require.NoError(t, err)
	assert.Equal(t, "id", ds.IndexName())

	v, err = IndexValue(ds, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(20), v.Raw)
}

func TestValueHelpers(t *testing.T) {
	assert.True(t, ValueOf(nil).Missing())
	assert.True(t, ValueOf(math.NaN()).Missing())
	assert.False(t, ValueOf(0.0).Missing())

	f, ok := ValueOf(true).Float64()
	assert.True(t, ok)
	assert.Equal(t, 1.0, f)

	_, ok = ValueOf("x").Float64()
	assert.False(t, ok)

	s, ok := ValueOf("x").Text()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	assert.Equal(t, "512.3292", ValueOf(512.3292).Formatted)
	assert.Equal(t, "Float", TypeFloat.String())
}
