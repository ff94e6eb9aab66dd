// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datatable

import (
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// PandasIndexColumn is the column name pandas uses when it stores an
// unnamed row index alongside the data in Arrow or Parquet.
const PandasIndexColumn = "__index_level_0__"

// arrowColumn is one table column flattened into its chunks plus the
// cumulative row offset at which each chunk starts.
type arrowColumn struct {
	field   arrow.Field
	chunks  []arrow.Array
	offsets []int
}

// ArrowSource exposes an Arrow table as a DataSource.
// The source holds a reference on the table until Release is called.
type ArrowSource struct {
	table    arrow.Table
	columns  []arrowColumn
	index    *arrowColumn
	rows     int
	metadata Metadata
}

// ArrowOption configures an ArrowSource.
type ArrowOption func(*arrowConfig)

type arrowConfig struct {
	indexColumn string
}

// WithIndexColumn uses the named column as the row index instead of the
// ordinal position. The column is hidden from the data columns.
func WithIndexColumn(name string) ArrowOption {
	return func(c *arrowConfig) { c.indexColumn = name }
}

// NewFromArrowTable wraps table. The table is retained; call Release when done.
func NewFromArrowTable(table arrow.Table, opts ...ArrowOption) (*ArrowSource, error) {
	if table == nil {
		return nil, ErrNoDataSource
	}
	cfg := arrowConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	table.Retain()
	s := &ArrowSource{
		table:    table,
		rows:     int(table.NumRows()),
		metadata: Metadata{},
	}

	schema := table.Schema()
	if md := schema.Metadata(); md.Len() > 0 {
		for i, k := range md.Keys() {
			s.metadata[k] = md.Values()[i]
		}
	}

	for i := 0; i < int(table.NumCols()); i++ {
		col := table.Column(i)
		ac := arrowColumn{field: col.Field()}
		start := 0
		for _, chunk := range col.Data().Chunks() {
			ac.chunks = append(ac.chunks, chunk)
			ac.offsets = append(ac.offsets, start)
			start += chunk.Len()
		}
		if cfg.indexColumn != "" && ac.field.Name == cfg.indexColumn {
			idx := ac
			s.index = &idx
			continue
		}
		s.columns = append(s.columns, ac)
	}

	if cfg.indexColumn != "" && s.index == nil {
		table.Release()
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, cfg.indexColumn)
	}
	return s, nil
}

// Release drops the reference on the underlying table.
func (s *ArrowSource) Release() {
	if s.table != nil {
		s.table.Release()
		s.table = nil
	}
}

// RowCount implements DataSource.
func (s *ArrowSource) RowCount() int { return s.rows }

// ColumnCount implements DataSource.
func (s *ArrowSource) ColumnCount() int { return len(s.columns) }

// ColumnName implements DataSource.
func (s *ArrowSource) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(s.columns) {
		return "", ErrInvalidColumn
	}
	return s.columns[col].field.Name, nil
}

// ColumnType implements DataSource.
func (s *ArrowSource) ColumnType(col int) (DataType, error) {
	if col < 0 || col >= len(s.columns) {
		return TypeOther, ErrInvalidColumn
	}
	return arrowDataType(s.columns[col].field.Type), nil
}

// Cell implements DataSource.
func (s *ArrowSource) Cell(row, col int) (Value, error) {
	if row < 0 || row >= s.rows {
		return Value{}, ErrInvalidRow
	}
	if col < 0 || col >= len(s.columns) {
		return Value{}, ErrInvalidColumn
	}
	return s.columns[col].value(row), nil
}

// Row implements DataSource.
func (s *ArrowSource) Row(row int) ([]Value, error) {
	if row < 0 || row >= s.rows {
		return nil, ErrInvalidRow
	}
	values := make([]Value, len(s.columns))
	for i := range s.columns {
		values[i] = s.columns[i].value(row)
	}
	return values, nil
}

// Metadata implements DataSource. Arrow schema metadata is copied verbatim.
func (s *ArrowSource) Metadata() Metadata { return s.metadata }

// IndexName implements Indexed.
func (s *ArrowSource) IndexName() string {
	if s.index == nil || s.index.field.Name == PandasIndexColumn {
		return ""
	}
	return s.index.field.Name
}

// IndexValue implements Indexed.
func (s *ArrowSource) IndexValue(row int) (Value, error) {
	if row < 0 || row >= s.rows {
		return Value{}, ErrInvalidRow
	}
	if s.index == nil {
		return NewValue(int64(row), TypeInt), nil
	}
	return s.index.value(row), nil
}

func (c *arrowColumn) value(row int) Value {
	// offsets are ascending; find the last chunk starting at or before row
	i := sort.Search(len(c.offsets), func(i int) bool { return c.offsets[i] > row }) - 1
	return arrowValue(c.chunks[i], row-c.offsets[i])
}

// arrowDataType maps an Arrow type onto the validator's coarse DataType.
func arrowDataType(dt arrow.DataType) DataType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return TypeInt
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return TypeFloat
	case arrow.STRING, arrow.LARGE_STRING:
		return TypeString
	case arrow.BOOL:
		return TypeBool
	case arrow.TIMESTAMP:
		return TypeTimestamp
	default:
		return TypeOther
	}
}

// arrowValue returns the typed value at pos, normalised to the Raw types
// documented on Value.
func arrowValue(col arrow.Array, pos int) Value {
	dt := arrowDataType(col.DataType())
	if col.IsNull(pos) {
		return NewNullValue(dt)
	}

	switch c := col.(type) {
	case *array.String:
		return NewValue(c.Value(pos), TypeString)
	case *array.LargeString:
		return NewValue(c.Value(pos), TypeString)
	case *array.Boolean:
		return NewValue(c.Value(pos), TypeBool)
	case *array.Int8:
		return NewValue(int64(c.Value(pos)), TypeInt)
	case *array.Int16:
		return NewValue(int64(c.Value(pos)), TypeInt)
	case *array.Int32:
		return NewValue(int64(c.Value(pos)), TypeInt)
	case *array.Int64:
		return NewValue(c.Value(pos), TypeInt)
	case *array.Uint8:
		return NewValue(int64(c.Value(pos)), TypeInt)
	case *array.Uint16:
		return NewValue(int64(c.Value(pos)), TypeInt)
	case *array.Uint32:
		return NewValue(int64(c.Value(pos)), TypeInt)
	case *array.Uint64:
		return ValueOf(c.Value(pos))
	case *array.Float16:
		return NewValue(float64(c.Value(pos).Float32()), TypeFloat)
	case *array.Float32:
		return NewValue(float64(c.Value(pos)), TypeFloat)
	case *array.Float64:
		return NewValue(c.Value(pos), TypeFloat)
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return NewValue(c.Value(pos).ToTime(unit), TypeTimestamp)
	default:
		return NewValue(col.ValueStr(pos), TypeOther)
	}
}
