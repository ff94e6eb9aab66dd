package datatable

import "fmt"

// DataSource provides read-only access to tabular data.
// Implementations must be thread-safe for concurrent reads.
// All methods should return errors rather than panic.
type DataSource interface {
	// RowCount returns the total number of rows in the data source.
	RowCount() int

	// ColumnCount returns the total number of columns in the data source.
	ColumnCount() int

	// ColumnName returns the name of the column at the given index.
	// Returns ErrInvalidColumn if col is out of range.
	ColumnName(col int) (string, error)

	// ColumnType returns the data type of the column at the given index.
	// Returns ErrInvalidColumn if col is out of range.
	ColumnType(col int) (DataType, error)

	// Cell returns the value at the specified row and column.
	// Returns ErrInvalidRow if row is out of range.
	// Returns ErrInvalidColumn if col is out of range.
	Cell(row, col int) (Value, error)

	// Row returns all values for the specified row.
	// Returns ErrInvalidRow if row is out of range.
	Row(row int) ([]Value, error)

	// Metadata returns optional metadata about the data source.
	// Returns an empty Metadata map if no metadata is available.
	Metadata() Metadata
}

// Indexed is implemented by data sources that carry explicit row labels.
// Sources that do not implement it are indexed by 0-based row position.
type Indexed interface {
	// IndexName returns the name of the index, or "" when unnamed.
	IndexName() string

	// IndexValue returns the label of the given row.
	// Returns ErrInvalidRow if row is out of range.
	IndexValue(row int) (Value, error)
}

// ColumnNames returns the header of ds in column order.
func ColumnNames(ds DataSource) ([]string, error) {
	if ds == nil {
		return nil, ErrNoDataSource
	}
	names := make([]string, ds.ColumnCount())
	for i := range names {
		name, err := ds.ColumnName(i)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}

// FindColumn returns the position of the first column called name.
func FindColumn(ds DataSource, name string) (int, error) {
	names, err := ColumnNames(ds)
	if err != nil {
		return -1, err
	}
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
}

// IndexValue returns the row label of row in ds, falling back to the
// ordinal position when ds has no explicit index.
func IndexValue(ds DataSource, row int) (Value, error) {
	if ix, ok := ds.(Indexed); ok {
		return ix.IndexValue(row)
	}
	if row < 0 || row >= ds.RowCount() {
		return Value{}, ErrInvalidRow
	}
	return NewValue(int64(row), TypeInt), nil
}
