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

// Package schema declares the expected shape of a table: per-column dtype,
// nullability, uniqueness and value checks, plus an index constraint.
package schema

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/magpierre/tableschema/check"
)

var (
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column in schema")

	// ErrInvalidSchema is returned for definition-level misconfiguration.
	ErrInvalidSchema = errors.New("invalid schema definition")
)

// StrictMode controls how columns absent from the schema are treated.
type StrictMode string

const (
	// StrictOff tolerates undeclared columns.
	StrictOff StrictMode = "false"
	// StrictOn reports every undeclared column.
	StrictOn StrictMode = "true"
	// StrictFilter ignores undeclared columns and lists them as dropped.
	StrictFilter StrictMode = "filter"
)

// ReportDuplicates selects which occurrences of a duplicated value are reported.
type ReportDuplicates string

const (
	ReportAll          ReportDuplicates = "all"
	ReportFirst        ReportDuplicates = "first"
	ReportExcludeFirst ReportDuplicates = "exclude_first"
)

// Column is the constraint set for one table column.
type Column struct {
	Name     string
	DType    DType
	Checks   []check.Check
	Nullable bool
	Unique   bool
	Coerce   bool
	Required bool
	// Regex treats Name as a pattern matched against whole column names.
	Regex       bool
	Title       string
	Description string
}

// NewColumn returns a required, non-nullable, non-unique column.
func NewColumn(name string, dtype DType, checks ...check.Check) Column {
	return Column{
		Name:     name,
		DType:    dtype,
		Checks:   checks,
		Required: true,
	}
}

// Pattern compiles the anchored name pattern of a regex column.
func (c Column) Pattern() (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + c.Name + ")$")
	if err != nil {
		return nil, fmt.Errorf("%w: column pattern %q: %v", ErrInvalidSchema, c.Name, err)
	}
	return re, nil
}

// Index is the constraint set for the row index.
type Index struct {
	Name        string
	DType       DType
	Checks      []check.Check
	Nullable    bool
	Unique      bool
	Coerce      bool
	Title       string
	Description string
}

// DataFrameSchema is the root schema. Construct it once, then treat it as
// read-only; the validator never modifies it.
type DataFrameSchema struct {
	Name    string
	Columns []Column
	Index   *Index

	// Coerce converts every column to its dtype before checking.
	Coerce bool
	Strict StrictMode
	// Ordered requires declared columns to appear in declaration order.
	Ordered bool
	// Unique lists columns whose combined values must be unique per row.
	Unique            []string
	ReportDuplicates  ReportDuplicates
	UniqueColumnNames bool
	// AddMissingColumns tolerates absent nullable columns.
	AddMissingColumns bool

	Title       string
	Description string
}

// New builds a schema with default root options and validates the definition.
func New(name string, columns ...Column) (*DataFrameSchema, error) {
	s := &DataFrameSchema{
		Name:             name,
		Columns:          columns,
		Strict:           StrictOff,
		ReportDuplicates: ReportAll,
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

// Check validates the definition itself: unique column names, known dtypes,
// valid option values and compilable name patterns.
func (s *DataFrameSchema) Check() error {
	seen := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: column with empty name", ErrInvalidSchema)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = struct{}{}

		if !c.DType.valid() {
			return fmt.Errorf("%w: column %s: %q", ErrUnknownDType, c.Name, c.DType)
		}
		if c.Regex {
			if _, err := c.Pattern(); err != nil {
				return err
			}
		}
		for i, ch := range c.Checks {
			if ch == nil {
				return fmt.Errorf("%w: column %s: check %d is nil", ErrInvalidSchema, c.Name, i)
			}
		}
	}

	if s.Index != nil {
		if !s.Index.DType.valid() {
			return fmt.Errorf("%w: index: %q", ErrUnknownDType, s.Index.DType)
		}
		for i, ch := range s.Index.Checks {
			if ch == nil {
				return fmt.Errorf("%w: index: check %d is nil", ErrInvalidSchema, i)
			}
		}
	}

	switch s.Strict {
	case StrictOff, StrictOn, StrictFilter:
	default:
		return fmt.Errorf("%w: strict %q", ErrInvalidSchema, s.Strict)
	}
	switch s.ReportDuplicates {
	case ReportAll, ReportFirst, ReportExcludeFirst:
	default:
		return fmt.Errorf("%w: report_duplicates %q", ErrInvalidSchema, s.ReportDuplicates)
	}

	for _, name := range s.Unique {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("%w: unique refers to undeclared column %s", ErrInvalidSchema, name)
		}
	}
	return nil
}

// Column returns the column declared under name.
func (s *DataFrameSchema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the declared column names in order.
func (s *DataFrameSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}
