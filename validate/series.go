package validate

import (
	"context"
	"fmt"

	"github.com/magpierre/tableschema/check"
	"github.com/magpierre/tableschema/datatable"
	"github.com/magpierre/tableschema/schema"
)

// ctxCheckInterval is how many rows are validated between context checks.
const ctxCheckInterval = 1024

// series is one sequence of cells validated against one constraint set:
// a bound table column or the row index.
type series struct {
	context  Context
	name     string
	dtype    schema.DType
	nullable bool
	unique   bool
	coerce   bool
	checks   []check.Check
	cell     func(row int) (datatable.Value, error)
}

func columnSeries(s *schema.DataFrameSchema, col schema.Column, name string, pos int, ds datatable.DataSource) series {
	return series{
		context:  ContextColumn,
		name:     name,
		dtype:    col.DType,
		nullable: col.Nullable,
		unique:   col.Unique,
		coerce:   s.Coerce || col.Coerce,
		checks:   col.Checks,
		cell:     func(row int) (datatable.Value, error) { return ds.Cell(row, pos) },
	}
}

func indexSeries(s *schema.DataFrameSchema, ds datatable.DataSource) series {
	ix := s.Index
	return series{
		context:  ContextIndex,
		name:     IndexColumn,
		dtype:    ix.DType,
		nullable: ix.Nullable,
		unique:   ix.Unique,
		coerce:   s.Coerce || ix.Coerce,
		checks:   ix.Checks,
		cell:     func(row int) (datatable.Value, error) { return datatable.IndexValue(ds, row) },
	}
}

func (sr series) dtypeCheck() string {
	if sr.coerce {
		return fmt.Sprintf("coerce_dtype('%s')", sr.dtype)
	}
	return fmt.Sprintf("dtype('%s')", sr.dtype)
}

// validate runs dtype, nullability, value checks and uniqueness over rows.
// labels holds the index label of each entry of rows.
func (sr series) validate(ctx context.Context, rows []int, labels []datatable.Value, mode schema.ReportDuplicates) ([]Violation, error) {
	var out []Violation
	var dups *dupTracker
	if sr.unique {
		dups = newDupTracker()
	}

	for i, r := range rows {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cell, err := sr.cell(r)
		if err != nil {
			return nil, fmt.Errorf("%s %s row %d: %w", sr.context, sr.name, r, err)
		}
		base := Violation{
			Context:     sr.context,
			Column:      sr.name,
			Row:         r,
			Index:       labels[i].Raw,
			CheckNumber: -1,
		}

		if !cell.Missing() {
			converted, ok := convert(cell, sr.dtype, sr.coerce)
			if !ok {
				v := base
				v.Code = CodeTypeMismatch
				v.Value = cell.Raw
				v.Expected = string(sr.dtype)
				v.Check = sr.dtypeCheck()
				out = append(out, v)
				continue
			}
			cell = converted
		}

		if cell.Missing() {
			out = append(out, sr.nullViolations(base)...)
			continue
		}

		out = append(out, applyChecks(base, sr.checks, cell)...)
		if dups != nil {
			dups.add(valueKey(cell), occurrence{row: r, index: base.Index, value: cell.Raw})
		}
	}

	if dups != nil {
		for _, occ := range dups.duplicates(mode) {
			out = append(out, Violation{
				Code:        CodeNotUnique,
				Context:     sr.context,
				Column:      sr.name,
				Row:         occ.row,
				Index:       occ.index,
				Value:       occ.value,
				Check:       "field_uniqueness",
				CheckNumber: -1,
			})
		}
	}
	return out, nil
}

// nullViolations reports a missing cell: once for nullability, and once per
// check that does not ignore missing values.
func (sr series) nullViolations(base Violation) []Violation {
	var out []Violation
	if !sr.nullable {
		v := base
		v.Code = CodeNullNotAllowed
		v.Check = "not_nullable"
		out = append(out, v)
	}
	for n, ch := range sr.checks {
		if ch.Options().IgnoreNA {
			continue
		}
		v := base
		v.Code = CodeCheckFailed
		v.Check = ch.Description()
		v.CheckNumber = n
		v.Warning = ch.Options().RaiseWarning
		out = append(out, v)
	}
	return out
}

func applyChecks(base Violation, checks []check.Check, cell datatable.Value) []Violation {
	var out []Violation
	for n, ch := range checks {
		ok, err := ch.Evaluate(cell)
		if err == nil && ok {
			continue
		}

		v := base
		v.Value = cell.Raw
		v.Check = ch.Description()
		v.CheckNumber = n
		v.Warning = ch.Options().RaiseWarning

		switch {
		case err != nil:
			v.Code = CodeCheckError
			v.Detail = err.Error()
		default:
			v.Code = CodeCheckFailed
			if b, bounded := ch.(check.Bounded); bounded {
				if x, numeric := cell.Float64(); numeric {
					if bound, crossed := check.Violated(b, x); crossed {
						v.Code = CodeOutOfRange
						v.Op = bound.Op
						v.Bound = bound.Value
					}
				}
			}
		}
		out = append(out, v)
	}
	return out
}
