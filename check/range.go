package check

import (
	"fmt"

	"github.com/magpierre/tableschema/datatable"
)

// CompOp is a comparison operator used by bounded checks.
type CompOp int

const (
	OpGreaterEqual CompOp = iota
	OpLessEqual
	OpGreater
	OpLess
)

// String returns the operator symbol.
func (op CompOp) String() string {
	switch op {
	case OpGreaterEqual:
		return ">="
	case OpLessEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpLess:
		return "<"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// Bound is one side of a numeric range.
type Bound struct {
	Op    CompOp
	Value float64
}

// Satisfied reports whether x lies on the allowed side of the bound.
func (b Bound) Satisfied(x float64) bool {
	switch b.Op {
	case OpGreaterEqual:
		return x >= b.Value
	case OpLessEqual:
		return x <= b.Value
	case OpGreater:
		return x > b.Value
	case OpLess:
		return x < b.Value
	default:
		return false
	}
}

// Bounded is implemented by range checks so that a failure can be reported
// with the exact bound that was crossed.
type Bounded interface {
	Check
	Bounds() []Bound
}

type rangeCheck struct {
	builtin
	bounds []Bound
}

func (r *rangeCheck) Bounds() []Bound { return append([]Bound(nil), r.bounds...) }

// Violated returns the first bound x does not satisfy.
func Violated(b Bounded, x float64) (Bound, bool) {
	for _, bound := range b.Bounds() {
		if !bound.Satisfied(x) {
			return bound, true
		}
	}
	return Bound{}, false
}

func newRange(name string, stats map[string]interface{}, desc string, opts []Option, bounds ...Bound) *rangeCheck {
	r := &rangeCheck{bounds: bounds}
	r.builtin = builtin{
		name:  name,
		stats: stats,
		opts:  buildOptions(opts),
		desc:  desc,
		eval: func(v datatable.Value) (bool, error) {
			x, err := number(v)
			if err != nil {
				return false, err
			}
			for _, b := range bounds {
				if !b.Satisfied(x) {
					return false, nil
				}
			}
			return true, nil
		},
	}
	return r
}

// GreaterThanOrEqualTo checks value >= min.
func GreaterThanOrEqualTo(min float64, opts ...Option) Bounded {
	return newRange("greater_than_or_equal_to",
		map[string]interface{}{"min_value": min},
		"greater_than_or_equal_to("+formatFloat(min)+")",
		opts, Bound{Op: OpGreaterEqual, Value: min})
}

// LessThanOrEqualTo checks value <= max.
func LessThanOrEqualTo(max float64, opts ...Option) Bounded {
	return newRange("less_than_or_equal_to",
		map[string]interface{}{"max_value": max},
		"less_than_or_equal_to("+formatFloat(max)+")",
		opts, Bound{Op: OpLessEqual, Value: max})
}

// GreaterThan checks value > min.
func GreaterThan(min float64, opts ...Option) Bounded {
	return newRange("greater_than",
		map[string]interface{}{"min_value": min},
		"greater_than("+formatFloat(min)+")",
		opts, Bound{Op: OpGreater, Value: min})
}

// LessThan checks value < max.
func LessThan(max float64, opts ...Option) Bounded {
	return newRange("less_than",
		map[string]interface{}{"max_value": max},
		"less_than("+formatFloat(max)+")",
		opts, Bound{Op: OpLess, Value: max})
}

// InRange checks min <= value <= max, with either end optionally open.
func InRange(min, max float64, includeMin, includeMax bool, opts ...Option) Bounded {
	lo := Bound{Op: OpGreaterEqual, Value: min}
	if !includeMin {
		lo.Op = OpGreater
	}
	hi := Bound{Op: OpLessEqual, Value: max}
	if !includeMax {
		hi.Op = OpLess
	}
	return newRange("in_range",
		map[string]interface{}{
			"min_value":   min,
			"max_value":   max,
			"include_min": includeMin,
			"include_max": includeMax,
		},
		fmt.Sprintf("in_range(%s, %s)", formatFloat(min), formatFloat(max)),
		opts, lo, hi)
}
