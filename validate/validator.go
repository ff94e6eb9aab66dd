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

// Package validate checks a table against a schema and reports every
// violation it finds.
package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/magpierre/tableschema/datatable"
	"github.com/magpierre/tableschema/schema"
)

// ErrNoSchema is returned when Validate is called with a nil schema.
var ErrNoSchema = errors.New("schema is nil")

// Validator runs schemas against data sources. It holds no per-run state
// and is safe for concurrent use.
type Validator struct {
	cfg Config
}

// New creates a Validator. Zero-valued Workers and Logger take defaults.
func New(cfg Config) *Validator {
	return &Validator{cfg: cfg.normalized()}
}

// Validate checks ds against s with DefaultConfig.
func Validate(ctx context.Context, s *schema.DataFrameSchema, ds datatable.DataSource) (*Report, error) {
	return New(DefaultConfig()).Validate(ctx, s, ds)
}

// binding ties a declared column to the input columns it matched.
type binding struct {
	column    schema.Column
	names     []string
	positions []int
	missing   bool
}

// Validate checks ds against s. Violations are returned in the Report;
// the error is reserved for failures to run at all: a nil or malformed
// schema, a broken data source, or a cancelled context.
func (v *Validator) Validate(ctx context.Context, s *schema.DataFrameSchema, ds datatable.DataSource) (*Report, error) {
	if s == nil {
		return nil, ErrNoSchema
	}
	if ds == nil {
		return nil, datatable.ErrNoDataSource
	}
	if err := s.Check(); err != nil {
		return nil, err
	}

	headers, err := datatable.ColumnNames(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to read column names: %w", err)
	}

	start := time.Now()
	rows := v.cfg.rowRange(ds.RowCount())
	rep := &Report{
		RunID:  uuid.NewString(),
		Schema: s.Name,
		Rows:   len(rows),
	}
	log := v.cfg.Logger.With("run_id", rep.RunID, "schema", s.Name)
	log.Info("validation started", "rows", len(rows), "columns", len(headers))

	bindings, structural, dropped, err := plan(s, headers)
	if err != nil {
		return nil, err
	}
	rep.Dropped = dropped
	rep.add(structural...)

	if v.cfg.Lazy || rep.Valid() {
		if err := v.validateData(ctx, s, ds, bindings, rows, rep); err != nil {
			log.Warn("validation aborted", "error", err)
			return nil, err
		}
	}

	log.Info("validation finished",
		"valid", rep.Valid(),
		"violations", len(rep.Violations),
		"warnings", len(rep.Warnings),
		"elapsed", time.Since(start))
	return rep, nil
}

func (v *Validator) validateData(ctx context.Context, s *schema.DataFrameSchema, ds datatable.DataSource, bindings []binding, rows []int, rep *Report) error {
	labels := make([]datatable.Value, len(rows))
	for i, r := range rows {
		label, err := datatable.IndexValue(ds, r)
		if err != nil {
			return fmt.Errorf("failed to read index row %d: %w", r, err)
		}
		labels[i] = label
	}

	// One task per bound input column, in schema order, then the index.
	var tasks []series
	missing := make(map[int]Violation)
	for _, b := range bindings {
		if b.missing {
			missing[len(tasks)] = Violation{
				Code:        CodeMissingColumn,
				Context:     ContextColumn,
				Column:      b.column.Name,
				Row:         -1,
				Check:       "column_in_dataframe",
				CheckNumber: -1,
				Expected:    string(b.column.DType),
			}
			tasks = append(tasks, series{})
			continue
		}
		for i, pos := range b.positions {
			tasks = append(tasks, columnSeries(s, b.column, b.names[i], pos, ds))
		}
	}
	if s.Index != nil {
		tasks = append(tasks, indexSeries(s, ds))
	}

	results := make([][]Violation, len(tasks))
	run := func(ctx context.Context, i int) error {
		if mv, ok := missing[i]; ok {
			results[i] = []Violation{mv}
			return nil
		}
		v.cfg.Logger.Debug("validating series", "context", tasks[i].context, "name", tasks[i].name)
		out, err := tasks[i].validate(ctx, rows, labels, s.ReportDuplicates)
		if err != nil {
			return err
		}
		results[i] = out
		return nil
	}

	if v.cfg.Lazy {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(v.cfg.Workers)
		for i := range tasks {
			g.Go(func() error { return run(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, out := range results {
			rep.add(out...)
		}
	} else {
		for i := range tasks {
			if err := run(ctx, i); err != nil {
				return err
			}
			rep.add(results[i]...)
			if !rep.Valid() {
				return nil
			}
		}
	}

	if len(s.Unique) > 0 {
		out, err := uniqueCombination(ctx, s, ds, boundPositions(bindings), rows, labels)
		if err != nil {
			return err
		}
		rep.add(out...)
	}
	return nil
}

// plan binds declared columns to input columns and runs the structural
// checks: duplicate header names, undeclared columns and column order.
func plan(s *schema.DataFrameSchema, headers []string) ([]binding, []Violation, []string, error) {
	var structural []Violation
	schemaViolation := func(code Code, column, checkName string) Violation {
		return Violation{
			Code:        code,
			Context:     ContextSchema,
			Column:      column,
			Row:         -1,
			Value:       column,
			Check:       checkName,
			CheckNumber: -1,
		}
	}

	if s.UniqueColumnNames {
		counts := make(map[string]int, len(headers))
		for _, h := range headers {
			counts[h]++
		}
		reported := make(map[string]bool)
		for _, h := range headers {
			if counts[h] > 1 && !reported[h] {
				reported[h] = true
				structural = append(structural, schemaViolation(CodeDuplicateColumnName, h, "dataframe_column_labels_unique"))
			}
		}
	}

	bound := make([]bool, len(headers))
	bindings := make([]binding, 0, len(s.Columns))
	for _, col := range s.Columns {
		b := binding{column: col}
		if col.Regex {
			re, err := col.Pattern()
			if err != nil {
				return nil, nil, nil, err
			}
			for pos, h := range headers {
				if re.MatchString(h) {
					b.names = append(b.names, h)
					b.positions = append(b.positions, pos)
					bound[pos] = true
				}
			}
		} else {
			for pos, h := range headers {
				if h == col.Name {
					// Only the first of several same-named columns is validated.
					if len(b.positions) == 0 {
						b.names = append(b.names, h)
						b.positions = append(b.positions, pos)
					}
					bound[pos] = true
				}
			}
		}

		if len(b.positions) == 0 && col.Required && !(s.AddMissingColumns && col.Nullable) {
			b.missing = true
		}
		bindings = append(bindings, b)
	}

	var dropped []string
	for pos, h := range headers {
		if bound[pos] {
			continue
		}
		switch s.Strict {
		case schema.StrictOn:
			structural = append(structural, schemaViolation(CodeColumnNotInSchema, h, "column_in_schema"))
		case schema.StrictFilter:
			dropped = append(dropped, h)
		}
	}

	if s.Ordered {
		last := -1
		for _, b := range bindings {
			if b.column.Regex || len(b.positions) == 0 {
				continue
			}
			pos := b.positions[0]
			if pos < last {
				structural = append(structural, schemaViolation(CodeColumnOutOfOrder, b.column.Name, "column_ordered"))
				continue
			}
			last = pos
		}
	}

	return bindings, structural, dropped, nil
}

// boundPositions maps declared, non-regex column names to their bound position.
func boundPositions(bindings []binding) map[string]int {
	out := make(map[string]int, len(bindings))
	for _, b := range bindings {
		if !b.column.Regex && len(b.positions) > 0 {
			out[b.column.Name] = b.positions[0]
		}
	}
	return out
}

// uniqueCombination reports rows whose values across s.Unique repeat.
// It is skipped when any of the columns is absent; that is already reported.
func uniqueCombination(ctx context.Context, s *schema.DataFrameSchema, ds datatable.DataSource, positions map[string]int, rows []int, labels []datatable.Value) ([]Violation, error) {
	cols := make([]schema.Column, len(s.Unique))
	pos := make([]int, len(s.Unique))
	for i, name := range s.Unique {
		p, ok := positions[name]
		if !ok {
			return nil, nil
		}
		col, _ := s.Column(name)
		cols[i] = col
		pos[i] = p
	}

	dups := newDupTracker()
	keys := make([]string, len(cols))
	shown := make([]string, len(cols))
	for i, r := range rows {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for c := range cols {
			cell, err := ds.Cell(r, pos[c])
			if err != nil {
				return nil, fmt.Errorf("column %s row %d: %w", cols[c].Name, r, err)
			}
			if !cell.Missing() {
				if converted, ok := convert(cell, cols[c].DType, s.Coerce || cols[c].Coerce); ok {
					cell = converted
				}
			}
			keys[c] = valueKey(cell)
			shown[c] = cell.Formatted
		}
		dups.add(strings.Join(keys, "\x1f"), occurrence{
			row:   r,
			index: labels[i].Raw,
			value: "(" + strings.Join(shown, ", ") + ")",
		})
	}

	var out []Violation
	for _, occ := range dups.duplicates(s.ReportDuplicates) {
		out = append(out, Violation{
			Code:        CodeNotUnique,
			Context:     ContextSchema,
			Column:      strings.Join(s.Unique, ","),
			Row:         occ.row,
			Index:       occ.index,
			Value:       occ.value,
			Check:       "multiple_fields_uniqueness",
			CheckNumber: -1,
		})
	}
	return out, nil
}
