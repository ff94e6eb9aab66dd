package schema

import (
	"errors"
	"fmt"

	"github.com/magpierre/tableschema/datatable"
)

// DType is the declared type of a column or index.
type DType string

const (
	Int64   DType = "int64"
	Float64 DType = "float64"
	// Object is text, named after the pandas object dtype.
	Object DType = "object"
	String DType = "str"
	Bool   DType = "bool"
)

// ErrUnknownDType is returned when parsing an unsupported dtype name.
var ErrUnknownDType = errors.New("unknown dtype")

// ParseDType accepts the canonical names plus common aliases.
func ParseDType(s string) (DType, error) {
	switch s {
	case "int64", "int":
		return Int64, nil
	case "float64", "float":
		return Float64, nil
	case "object":
		return Object, nil
	case "str", "string":
		return String, nil
	case "bool", "boolean":
		return Bool, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDType, s)
	}
}

// IsText reports whether values of the dtype are strings.
func (d DType) IsText() bool { return d == Object || d == String }

// DataType is the datatable type a value must have to match d without coercion.
func (d DType) DataType() datatable.DataType {
	switch d {
	case Int64:
		return datatable.TypeInt
	case Float64:
		return datatable.TypeFloat
	case Bool:
		return datatable.TypeBool
	default:
		return datatable.TypeString
	}
}

func (d DType) valid() bool {
	_, err := ParseDType(string(d))
	return err == nil
}
