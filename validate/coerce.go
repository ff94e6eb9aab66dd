package validate

import (
	"math"
	"strconv"
	"strings"

	"github.com/magpierre/tableschema/datatable"
	"github.com/magpierre/tableschema/schema"
)

// convert returns v as a value of dtype. Without coercion the value must
// already carry the matching type. Coercion never loses information: a
// float with a fractional part does not become an int64.
func convert(v datatable.Value, dtype schema.DType, coerce bool) (datatable.Value, bool) {
	if v.Type == dtype.DataType() {
		return v, true
	}
	if !coerce {
		return v, false
	}

	switch {
	case dtype == schema.Int64:
		return toInt(v)
	case dtype == schema.Float64:
		return toFloat(v)
	case dtype == schema.Bool:
		return toBool(v)
	case dtype.IsText():
		return datatable.NewValue(v.Formatted, datatable.TypeString), true
	}
	return v, false
}

func toInt(v datatable.Value) (datatable.Value, bool) {
	switch raw := v.Raw.(type) {
	case float64:
		if raw != math.Trunc(raw) || raw < math.MinInt64 || raw >= math.MaxInt64 {
			return v, false
		}
		return datatable.NewValue(int64(raw), datatable.TypeInt), true
	case bool:
		if raw {
			return datatable.NewValue(int64(1), datatable.TypeInt), true
		}
		return datatable.NewValue(int64(0), datatable.TypeInt), true
	case string:
		s := strings.TrimSpace(raw)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return datatable.NewValue(n, datatable.TypeInt), true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if math.IsNaN(f) {
				return datatable.NewValue(f, datatable.TypeFloat), true
			}
			return toInt(datatable.NewValue(f, datatable.TypeFloat))
		}
	}
	return v, false
}

func toFloat(v datatable.Value) (datatable.Value, bool) {
	switch raw := v.Raw.(type) {
	case int64:
		return datatable.NewValue(float64(raw), datatable.TypeFloat), true
	case bool:
		if raw {
			return datatable.NewValue(1.0, datatable.TypeFloat), true
		}
		return datatable.NewValue(0.0, datatable.TypeFloat), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return datatable.NewValue(f, datatable.TypeFloat), true
		}
	}
	return v, false
}

func toBool(v datatable.Value) (datatable.Value, bool) {
	switch raw := v.Raw.(type) {
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return datatable.NewValue(b, datatable.TypeBool), true
		}
	default:
		if f, ok := v.Float64(); ok && (f == 0 || f == 1) {
			return datatable.NewValue(f == 1, datatable.TypeBool), true
		}
	}
	return v, false
}

// valueKey identifies equal values for duplicate detection.
func valueKey(v datatable.Value) string {
	switch raw := v.Raw.(type) {
	case nil:
		return "null"
	case string:
		return "s:" + raw
	case bool:
		return "b:" + strconv.FormatBool(raw)
	}
	if f, ok := v.Float64(); ok {
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "o:" + v.Formatted
}
