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
)

// SliceSource is an in-memory DataSource backed by rows of Go values.
type SliceSource struct {
	headers   []string
	types     []DataType
	rows      [][]Value
	index     []Value
	indexName string
	metadata  Metadata
}

// NewSliceSource builds a source from a header and row-major values.
// Cells may be any Go scalar; nil marks a null. Column types are taken
// from the first non-null cell of each column.
func NewSliceSource(headers []string, rows [][]interface{}) (*SliceSource, error) {
	s := &SliceSource{
		headers:  append([]string(nil), headers...),
		types:    make([]DataType, len(headers)),
		rows:     make([][]Value, len(rows)),
		metadata: Metadata{},
	}

	typed := make([]bool, len(headers))
	for r, row := range rows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("%w: row %d has %d values, header has %d", ErrRaggedRows, r, len(row), len(headers))
		}
		values := make([]Value, len(row))
		for c, raw := range row {
			v := ValueOf(raw)
			values[c] = v
			if !typed[c] && !v.IsNull {
				s.types[c] = v.Type
				typed[c] = true
			}
		}
		s.rows[r] = values
	}
	for c := range typed {
		if !typed[c] {
			s.types[c] = TypeOther
		}
	}
	return s, nil
}

// NewFromMaps builds a source from records keyed by column name, as decoded
// from a JSON array of objects. Columns are the sorted union of all keys; a
// key missing from a record yields a null cell.
func NewFromMaps(data []map[string]interface{}) (*SliceSource, error) {
	seen := make(map[string]struct{})
	var headers []string
	for _, rec := range data {
		for k := range rec {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)

	rows := make([][]interface{}, len(data))
	for i, rec := range data {
		row := make([]interface{}, len(headers))
		for c, h := range headers {
			row[c] = rec[h]
		}
		rows[i] = row
	}
	return NewSliceSource(headers, rows)
}

// WithIndex attaches explicit row labels. The index must have one entry per row.
func (s *SliceSource) WithIndex(name string, labels []interface{}) (*SliceSource, error) {
	if len(labels) != len(s.rows) {
		return nil, fmt.Errorf("%w: %d labels for %d rows", ErrIndexLength, len(labels), len(s.rows))
	}
	index := make([]Value, len(labels))
	for i, l := range labels {
		index[i] = ValueOf(l)
	}
	s.index = index
	s.indexName = name
	return s, nil
}

// RowCount implements DataSource.
func (s *SliceSource) RowCount() int { return len(s.rows) }

// ColumnCount implements DataSource.
func (s *SliceSource) ColumnCount() int { return len(s.headers) }

// ColumnName implements DataSource.
func (s *SliceSource) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(s.headers) {
		return "", ErrInvalidColumn
	}
	return s.headers[col], nil
}

// ColumnType implements DataSource.
func (s *SliceSource) ColumnType(col int) (DataType, error) {
	if col < 0 || col >= len(s.types) {
		return TypeOther, ErrInvalidColumn
	}
	return s.types[col], nil
}

// Cell implements DataSource.
func (s *SliceSource) Cell(row, col int) (Value, error) {
	if row < 0 || row >= len(s.rows) {
		return Value{}, ErrInvalidRow
	}
	if col < 0 || col >= len(s.headers) {
		return Value{}, ErrInvalidColumn
	}
	return s.rows[row][col], nil
}

// Row implements DataSource.
func (s *SliceSource) Row(row int) ([]Value, error) {
	if row < 0 || row >= len(s.rows) {
		return nil, ErrInvalidRow
	}
	return append([]Value(nil), s.rows[row]...), nil
}

// Metadata implements DataSource.
func (s *SliceSource) Metadata() Metadata { return s.metadata }

// IndexName implements Indexed.
func (s *SliceSource) IndexName() string { return s.indexName }

// IndexValue implements Indexed. Without explicit labels the ordinal
// row position is returned.
func (s *SliceSource) IndexValue(row int) (Value, error) {
	if row < 0 || row >= len(s.rows) {
		return Value{}, ErrInvalidRow
	}
	if s.index == nil {
		return NewValue(int64(row), TypeInt), nil
	}
	return s.index[row], nil
}
