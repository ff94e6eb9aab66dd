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

// Package datatable provides read-only access to tabular data for validation.
package datatable

import (
	"fmt"
	"math"
	"strconv"
)

// DataType represents the type of data in a column.
type DataType int

const (
	// TypeString represents string data.
	TypeString DataType = iota
	// TypeInt represents integer data (any size).
	TypeInt
	// TypeFloat represents floating-point data (any precision).
	TypeFloat
	// TypeBool represents boolean data.
	TypeBool
	// TypeTimestamp represents timestamp data (date + time).
	TypeTimestamp
	// TypeOther represents anything the validator has no native handling for.
	TypeOther
)

// String returns the string representation of a DataType.
func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeTimestamp:
		return "Timestamp"
	case TypeOther:
		return "Other"
	default:
		return fmt.Sprintf("Unknown(%d)", dt)
	}
}

// Value is a typed container for cell values.
// Raw holds int64 for TypeInt, float64 for TypeFloat, string for TypeString
// and bool for TypeBool.
type Value struct {
	// Raw holds the underlying value.
	Raw interface{}

	// Type indicates the data type of this value.
	Type DataType

	// IsNull indicates whether this value is null/nil.
	IsNull bool

	// Formatted is a pre-formatted string representation used in reports.
	Formatted string
}

// NewValue creates a new Value from a raw value and type.
func NewValue(raw interface{}, dataType DataType) Value {
	if raw == nil {
		return NewNullValue(dataType)
	}

	return Value{
		Raw:       raw,
		Type:      dataType,
		IsNull:    false,
		Formatted: formatValue(raw, dataType),
	}
}

// NewNullValue creates a null value of the specified type.
func NewNullValue(dataType DataType) Value {
	return Value{
		Raw:       nil,
		Type:      dataType,
		IsNull:    true,
		Formatted: "",
	}
}

// ValueOf wraps a plain Go value, normalising integer and float widths so
// that Raw always holds int64, float64, string or bool for the native types.
func ValueOf(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return NewNullValue(TypeOther)
	case Value:
		return v
	case string:
		return NewValue(v, TypeString)
	case bool:
		return NewValue(v, TypeBool)
	case int:
		return NewValue(int64(v), TypeInt)
	case int8:
		return NewValue(int64(v), TypeInt)
	case int16:
		return NewValue(int64(v), TypeInt)
	case int32:
		return NewValue(int64(v), TypeInt)
	case int64:
		return NewValue(v, TypeInt)
	case uint8:
		return NewValue(int64(v), TypeInt)
	case uint16:
		return NewValue(int64(v), TypeInt)
	case uint32:
		return NewValue(int64(v), TypeInt)
	case uint64:
		if v > math.MaxInt64 {
			return NewValue(float64(v), TypeFloat)
		}
		return NewValue(int64(v), TypeInt)
	case float32:
		return NewValue(float64(v), TypeFloat)
	case float64:
		return NewValue(v, TypeFloat)
	default:
		return NewValue(v, TypeOther)
	}
}

// Missing reports whether the value counts as absent: a null, or a float NaN.
func (v Value) Missing() bool {
	if v.IsNull {
		return true
	}
	f, ok := v.Raw.(float64)
	return ok && math.IsNaN(f)
}

// Float64 returns the numeric value of an Int, Float or Bool value.
func (v Value) Float64() (float64, bool) {
	if v.IsNull {
		return 0, false
	}
	switch raw := v.Raw.(type) {
	case int64:
		return float64(raw), true
	case float64:
		return raw, true
	case bool:
		if raw {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Text returns the string held by a String value.
func (v Value) Text() (string, bool) {
	if v.IsNull {
		return "", false
	}
	s, ok := v.Raw.(string)
	return s, ok
}

// formatValue converts a raw value to a formatted string.
func formatValue(raw interface{}, dataType DataType) string {
	if raw == nil {
		return ""
	}

	switch v := raw.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	}
	return fmt.Sprintf("%v", raw)
}

// Metadata holds optional metadata about a data source.
type Metadata map[string]interface{}
