package check

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/magpierre/tableschema/datatable"
)

// StrLength checks the rune length of a string. A nil bound is open.
func StrLength(min, max *int, opts ...Option) Check {
	stats := map[string]interface{}{}
	lo, hi := "", ""
	if min != nil {
		stats["min_value"] = *min
		lo = fmt.Sprint(*min)
	}
	if max != nil {
		stats["max_value"] = *max
		hi = fmt.Sprint(*max)
	}
	return &builtin{
		name:  "str_length",
		stats: stats,
		opts:  buildOptions(opts),
		desc:  fmt.Sprintf("str_length(%s, %s)", lo, hi),
		eval: func(v datatable.Value) (bool, error) {
			s, err := text(v)
			if err != nil {
				return false, err
			}
			n := utf8.RuneCountInString(s)
			if min != nil && n < *min {
				return false, nil
			}
			if max != nil && n > *max {
				return false, nil
			}
			return true, nil
		},
	}
}

// StrMatches checks that the string matches pattern from its start.
func StrMatches(pattern string, opts ...Option) (Check, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: str_matches: %v", ErrInvalidStatistics, err)
	}
	return regexCheck("str_matches", pattern, re, opts), nil
}

// StrContains checks that pattern matches anywhere in the string.
func StrContains(pattern string, opts ...Option) (Check, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: str_contains: %v", ErrInvalidStatistics, err)
	}
	return regexCheck("str_contains", pattern, re, opts), nil
}

func regexCheck(name, pattern string, re *regexp.Regexp, opts []Option) Check {
	return &builtin{
		name:  name,
		stats: map[string]interface{}{"pattern": pattern},
		opts:  buildOptions(opts),
		desc:  fmt.Sprintf("%s(%q)", name, pattern),
		eval: func(v datatable.Value) (bool, error) {
			s, err := text(v)
			if err != nil {
				return false, err
			}
			return re.MatchString(s), nil
		},
	}
}

// StrStartsWith checks the string prefix.
func StrStartsWith(prefix string, opts ...Option) Check {
	return affixCheck("str_startswith", prefix, strings.HasPrefix, opts)
}

// StrEndsWith checks the string suffix.
func StrEndsWith(suffix string, opts ...Option) Check {
	return affixCheck("str_endswith", suffix, strings.HasSuffix, opts)
}

func affixCheck(name, affix string, match func(string, string) bool, opts []Option) Check {
	return &builtin{
		name:  name,
		stats: map[string]interface{}{"string": affix},
		opts:  buildOptions(opts),
		desc:  fmt.Sprintf("%s(%q)", name, affix),
		eval: func(v datatable.Value) (bool, error) {
			s, err := text(v)
			if err != nil {
				return false, err
			}
			return match(s, affix), nil
		},
	}
}
