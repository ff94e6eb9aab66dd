package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/magpierre/tableschema/check"
)

// Code identifies the rule a violation broke.
type Code string

const (
	CodeMissingColumn       Code = "missing_column"
	CodeTypeMismatch        Code = "type_mismatch"
	CodeNullNotAllowed      Code = "null_not_allowed"
	CodeOutOfRange          Code = "out_of_range"
	CodeCheckFailed         Code = "check_failed"
	CodeCheckError          Code = "check_error"
	CodeNotUnique           Code = "not_unique"
	CodeColumnNotInSchema   Code = "column_not_in_schema"
	CodeColumnOutOfOrder    Code = "column_out_of_order"
	CodeDuplicateColumnName Code = "duplicate_column_name"
)

// Sentinels matched by errors.Is against a Violation of the same code.
var (
	ErrMissingColumn       = errors.New("missing column")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrNullNotAllowed      = errors.New("null not allowed")
	ErrOutOfRange          = errors.New("value out of range")
	ErrCheckFailed         = errors.New("check failed")
	ErrCheckError          = errors.New("check could not be evaluated")
	ErrNotUnique           = errors.New("duplicate value")
	ErrColumnNotInSchema   = errors.New("column not in schema")
	ErrColumnOutOfOrder    = errors.New("column out of order")
	ErrDuplicateColumnName = errors.New("duplicate column name")
)

var sentinels = map[Code]error{
	CodeMissingColumn:       ErrMissingColumn,
	CodeTypeMismatch:        ErrTypeMismatch,
	CodeNullNotAllowed:      ErrNullNotAllowed,
	CodeOutOfRange:          ErrOutOfRange,
	CodeCheckFailed:         ErrCheckFailed,
	CodeCheckError:          ErrCheckError,
	CodeNotUnique:           ErrNotUnique,
	CodeColumnNotInSchema:   ErrColumnNotInSchema,
	CodeColumnOutOfOrder:    ErrColumnOutOfOrder,
	CodeDuplicateColumnName: ErrDuplicateColumnName,
}

// Context says which part of the schema a violation belongs to.
type Context string

const (
	ContextSchema Context = "DataFrameSchema"
	ContextColumn Context = "Column"
	ContextIndex  Context = "Index"
)

// IndexColumn is the pseudo column name used for index violations.
const IndexColumn = "index"

// Violation is a single failure of one rule against one cell or column.
type Violation struct {
	Code    Code
	Context Context
	// Column is the table column, IndexColumn for the index, or the
	// comma-joined column set for schema-wide uniqueness.
	Column string
	// Row is the 0-based row position, or -1 for column-level violations.
	Row int
	// Index is the row label (the ordinal position unless the source has an index).
	Index interface{}
	// Value is the offending cell value, nil for column-level violations.
	Value interface{}
	// Check names the failed rule.
	Check string
	// CheckNumber is the position of the check on its column, or -1.
	CheckNumber int
	// Op and Bound are the crossed bound; set only for CodeOutOfRange.
	Op    check.CompOp
	Bound float64
	// Expected is the declared dtype for type mismatches and missing columns.
	Expected string
	// Warning marks an advisory failure from a check with RaiseWarning.
	Warning bool
	// Detail carries the evaluation error for CodeCheckError.
	Detail string
}

// Error formats the violation for display.
func (v Violation) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", v.Code))
	if v.Column != "" {
		b.WriteString(" column " + v.Column)
	}
	if v.Row >= 0 {
		b.WriteString(fmt.Sprintf(" row %d", v.Row))
	}

	switch v.Code {
	case CodeMissingColumn:
		b.WriteString(": column is missing")
	case CodeTypeMismatch:
		b.WriteString(fmt.Sprintf(": %s is not %s", formatCase(v.Value), v.Expected))
	case CodeNullNotAllowed:
		b.WriteString(": null not allowed")
	case CodeOutOfRange:
		b.WriteString(fmt.Sprintf(": %s violates %s %s", formatCase(v.Value), v.Op, strconv.FormatFloat(v.Bound, 'g', -1, 64)))
	case CodeNotUnique:
		b.WriteString(fmt.Sprintf(": duplicate value %s", formatCase(v.Value)))
	case CodeCheckError:
		b.WriteString(": " + v.Detail)
	default:
		if v.Value != nil {
			b.WriteString(fmt.Sprintf(": %s", formatCase(v.Value)))
		}
	}
	if v.Check != "" {
		b.WriteString(fmt.Sprintf(" (%s)", v.Check))
	}
	if v.Warning {
		b.WriteString(" [warning]")
	}
	return b.String()
}

// Unwrap returns the sentinel for the violation's code.
func (v Violation) Unwrap() error { return sentinels[v.Code] }

// ViolationList is an error that wraps one or more violations.
type ViolationList []Violation

// Error returns a compact summary of the violations.
func (l ViolationList) Error() string {
	switch len(l) {
	case 0:
		return "no violations"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
	}
}

// Unwrap exposes the individual violations to errors.Is and errors.As.
func (l ViolationList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, v := range l {
		errs[i] = v
	}
	return errs
}

// ByCode returns the violations with the given code, in order.
func (l ViolationList) ByCode(code Code) ViolationList {
	var out ViolationList
	for _, v := range l {
		if v.Code == code {
			out = append(out, v)
		}
	}
	return out
}

// AsViolations extracts the violations from an error returned by Report.Err.
func AsViolations(err error) (ViolationList, bool) {
	if err == nil {
		return nil, false
	}
	var list ViolationList
	if errors.As(err, &list) {
		return list, true
	}
	return nil, false
}

func formatCase(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "<null>"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
