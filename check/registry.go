package check

import (
	"fmt"
	"math"
	"sort"
)

type constructor func(stats map[string]interface{}, opts Options) (Check, error)

var registry = map[string]constructor{
	"greater_than_or_equal_to": func(s map[string]interface{}, o Options) (Check, error) {
		min, err := floatStat(s, "min_value")
		if err != nil {
			return nil, err
		}
		return GreaterThanOrEqualTo(min, withOptions(o)), nil
	},
	"less_than_or_equal_to": func(s map[string]interface{}, o Options) (Check, error) {
		max, err := floatStat(s, "max_value")
		if err != nil {
			return nil, err
		}
		return LessThanOrEqualTo(max, withOptions(o)), nil
	},
	"greater_than": func(s map[string]interface{}, o Options) (Check, error) {
		min, err := floatStat(s, "min_value")
		if err != nil {
			return nil, err
		}
		return GreaterThan(min, withOptions(o)), nil
	},
	"less_than": func(s map[string]interface{}, o Options) (Check, error) {
		max, err := floatStat(s, "max_value")
		if err != nil {
			return nil, err
		}
		return LessThan(max, withOptions(o)), nil
	},
	"in_range": func(s map[string]interface{}, o Options) (Check, error) {
		min, err := floatStat(s, "min_value")
		if err != nil {
			return nil, err
		}
		max, err := floatStat(s, "max_value")
		if err != nil {
			return nil, err
		}
		incMin, err := boolStat(s, "include_min", true)
		if err != nil {
			return nil, err
		}
		incMax, err := boolStat(s, "include_max", true)
		if err != nil {
			return nil, err
		}
		return InRange(min, max, incMin, incMax, withOptions(o)), nil
	},
	"equal_to": func(s map[string]interface{}, o Options) (Check, error) {
		v, ok := s["value"]
		if !ok {
			return nil, fmt.Errorf("%w: equal_to needs value", ErrInvalidStatistics)
		}
		return EqualTo(v, withOptions(o)), nil
	},
	"not_equal_to": func(s map[string]interface{}, o Options) (Check, error) {
		v, ok := s["value"]
		if !ok {
			return nil, fmt.Errorf("%w: not_equal_to needs value", ErrInvalidStatistics)
		}
		return NotEqualTo(v, withOptions(o)), nil
	},
	"isin": func(s map[string]interface{}, o Options) (Check, error) {
		vals, err := listStat(s, "allowed_values")
		if err != nil {
			return nil, err
		}
		return IsIn(vals, withOptions(o)), nil
	},
	"notin": func(s map[string]interface{}, o Options) (Check, error) {
		vals, err := listStat(s, "forbidden_values")
		if err != nil {
			return nil, err
		}
		return NotIn(vals, withOptions(o)), nil
	},
	"str_length": func(s map[string]interface{}, o Options) (Check, error) {
		min, err := optionalIntStat(s, "min_value")
		if err != nil {
			return nil, err
		}
		max, err := optionalIntStat(s, "max_value")
		if err != nil {
			return nil, err
		}
		return StrLength(min, max, withOptions(o)), nil
	},
	"str_matches": func(s map[string]interface{}, o Options) (Check, error) {
		p, err := stringStat(s, "pattern")
		if err != nil {
			return nil, err
		}
		return StrMatches(p, withOptions(o))
	},
	"str_contains": func(s map[string]interface{}, o Options) (Check, error) {
		p, err := stringStat(s, "pattern")
		if err != nil {
			return nil, err
		}
		return StrContains(p, withOptions(o))
	},
	"str_startswith": func(s map[string]interface{}, o Options) (Check, error) {
		p, err := stringStat(s, "string")
		if err != nil {
			return nil, err
		}
		return StrStartsWith(p, withOptions(o)), nil
	},
	"str_endswith": func(s map[string]interface{}, o Options) (Check, error) {
		p, err := stringStat(s, "string")
		if err != nil {
			return nil, err
		}
		return StrEndsWith(p, withOptions(o)), nil
	},
	"expr": func(s map[string]interface{}, o Options) (Check, error) {
		src, err := stringStat(s, "expr")
		if err != nil {
			return nil, err
		}
		return Expr(src, withOptions(o)), nil
	},
}

// FromStatistics rebuilds a registered check from its name and statistics,
// the form in which checks are serialized.
func FromStatistics(name string, stats map[string]interface{}, opts Options) (Check, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, name)
	}
	c, err := ctor(stats, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

// Names lists the registered check names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Serializable reports whether c can be written with FromStatistics semantics.
func Serializable(c Check) error {
	if _, ok := registry[c.Name()]; !ok || c.Statistics() == nil {
		return fmt.Errorf("%w: %s", ErrNotSerializable, c.Description())
	}
	return nil
}

// ToFloat converts decoded numeric statistics (int, int64, uint64, float64...) to float64.
func ToFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func floatStat(s map[string]interface{}, key string) (float64, error) {
	v, ok := s[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrInvalidStatistics, key)
	}
	f, ok := ToFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %T, want number", ErrInvalidStatistics, key, v)
	}
	return f, nil
}

func optionalIntStat(s map[string]interface{}, key string) (*int, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := ToFloat(v)
	if !ok || f != math.Trunc(f) {
		return nil, fmt.Errorf("%w: %s is %v, want integer", ErrInvalidStatistics, key, v)
	}
	n := int(f)
	return &n, nil
}

func boolStat(s map[string]interface{}, key string, def bool) (bool, error) {
	v, ok := s[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is %T, want bool", ErrInvalidStatistics, key, v)
	}
	return b, nil
}

func stringStat(s map[string]interface{}, key string) (string, error) {
	v, ok := s[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidStatistics, key)
	}
	return v, nil
}

func listStat(s map[string]interface{}, key string) ([]interface{}, error) {
	v, ok := s[key].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list", ErrInvalidStatistics, key)
	}
	return v, nil
}
