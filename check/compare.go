package check

import (
	"fmt"
	"strings"

	"github.com/magpierre/tableschema/datatable"
)

// valueKey normalises a value so that 1, int64(1) and 1.0 compare equal.
func valueKey(raw interface{}) string {
	v := datatable.ValueOf(raw)
	if v.IsNull {
		return "null"
	}
	switch r := v.Raw.(type) {
	case bool:
		return fmt.Sprintf("b:%t", r)
	case string:
		return "s:" + r
	}
	if f, ok := v.Float64(); ok {
		return "n:" + formatFloat(f)
	}
	return "o:" + v.Formatted
}

func keySet(values []interface{}) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[valueKey(v)] = struct{}{}
	}
	return set
}

func describeValues(values []interface{}) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// EqualTo checks value == target.
func EqualTo(target interface{}, opts ...Option) Check {
	want := valueKey(target)
	return &builtin{
		name:  "equal_to",
		stats: map[string]interface{}{"value": target},
		opts:  buildOptions(opts),
		desc:  fmt.Sprintf("equal_to(%v)", target),
		eval: func(v datatable.Value) (bool, error) {
			return valueKey(v) == want, nil
		},
	}
}

// NotEqualTo checks value != target.
func NotEqualTo(target interface{}, opts ...Option) Check {
	want := valueKey(target)
	return &builtin{
		name:  "not_equal_to",
		stats: map[string]interface{}{"value": target},
		opts:  buildOptions(opts),
		desc:  fmt.Sprintf("not_equal_to(%v)", target),
		eval: func(v datatable.Value) (bool, error) {
			return valueKey(v) != want, nil
		},
	}
}

// IsIn checks that the value is one of allowed.
func IsIn(allowed []interface{}, opts ...Option) Check {
	set := keySet(allowed)
	return &builtin{
		name:  "isin",
		stats: map[string]interface{}{"allowed_values": allowed},
		opts:  buildOptions(opts),
		desc:  "isin(" + describeValues(allowed) + ")",
		eval: func(v datatable.Value) (bool, error) {
			_, ok := set[valueKey(v)]
			return ok, nil
		},
	}
}

// NotIn checks that the value is none of forbidden.
func NotIn(forbidden []interface{}, opts ...Option) Check {
	set := keySet(forbidden)
	return &builtin{
		name:  "notin",
		stats: map[string]interface{}{"forbidden_values": forbidden},
		opts:  buildOptions(opts),
		desc:  "notin(" + describeValues(forbidden) + ")",
		eval: func(v datatable.Value) (bool, error) {
			_, ok := set[valueKey(v)]
			return !ok, nil
		},
	}
}
