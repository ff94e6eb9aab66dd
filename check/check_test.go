package check

import (
	"testing"

	"github.com/magpierre/tableschema/datatable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, c Check, raw interface{}) bool {
	t.Helper()
	ok, err := c.Evaluate(datatable.ValueOf(raw))
	require.NoError(t, err)
	return ok
}

func TestRangeChecks(t *testing.T) {
	tests := []struct {
		name  string
		check Check
		pass  []interface{}
		fail  []interface{}
	}{
		{"ge", GreaterThanOrEqualTo(0.42), []interface{}{0.42, 1, 80.0}, []interface{}{0.41, -1}},
		{"le", LessThanOrEqualTo(512.3292), []interface{}{512.3292, 0}, []interface{}{512.33}},
		{"gt", GreaterThan(0), []interface{}{1, 0.01}, []interface{}{0, -3}},
		{"lt", LessThan(3), []interface{}{2.9}, []interface{}{3, 4}},
		{"in_range closed", InRange(1, 3, true, true), []interface{}{1, 2, 3}, []interface{}{0, 4}},
		{"in_range open", InRange(1, 3, false, false), []interface{}{2}, []interface{}{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.pass {
				assert.True(t, eval(t, tt.check, v), "%v should pass", v)
			}
			for _, v := range tt.fail {
				assert.False(t, eval(t, tt.check, v), "%v should fail", v)
			}
		})
	}
}

func TestRangeCheckOnString(t *testing.T) {
	_, err := GreaterThanOrEqualTo(0).Evaluate(datatable.ValueOf("abc"))
	assert.ErrorIs(t, err, datatable.ErrTypeMismatch)
}

func TestViolatedBound(t *testing.T) {
	c := InRange(0, 713, true, true)
	b, ok := Violated(c, 714)
	require.True(t, ok)
	assert.Equal(t, OpLessEqual, b.Op)
	assert.Equal(t, 713.0, b.Value)

	_, ok = Violated(c, 10)
	assert.False(t, ok)

	assert.Equal(t, "<=", OpLessEqual.String())
}

func TestDescriptions(t *testing.T) {
	assert.Equal(t, "greater_than_or_equal_to(0.42)", GreaterThanOrEqualTo(0.42).Description())
	assert.Equal(t, "less_than_or_equal_to(80)", LessThanOrEqualTo(80).Description())
	assert.Equal(t, "isin([male, female])", IsIn([]interface{}{"male", "female"}).Description())
}

func TestOptions(t *testing.T) {
	c := GreaterThan(1)
	assert.Equal(t, DefaultOptions(), c.Options())

	c = GreaterThan(1, WithRaiseWarning(true), WithIgnoreNA(false))
	assert.True(t, c.Options().RaiseWarning)
	assert.False(t, c.Options().IgnoreNA)
}

func TestEqualityAndMembership(t *testing.T) {
	assert.True(t, eval(t, EqualTo(1), 1.0), "numeric equality ignores width")
	assert.False(t, eval(t, EqualTo("1"), 1))
	assert.True(t, eval(t, NotEqualTo("a"), "b"))

	sex := IsIn([]interface{}{"male", "female"})
	assert.True(t, eval(t, sex, "female"))
	assert.False(t, eval(t, sex, "unknown"))

	assert.True(t, eval(t, NotIn([]interface{}{0, 9}), 3))
	assert.False(t, eval(t, NotIn([]interface{}{0, 9}), int64(9)))
}

func TestStringChecks(t *testing.T) {
	min, max := 2, 4
	l := StrLength(&min, &max)
	assert.True(t, eval(t, l, "abc"))
	assert.False(t, eval(t, l, "a"))
	assert.False(t, eval(t, l, "abcde"))

	m, err := StrMatches(`[A-Z][a-z]+,`)
	require.NoError(t, err)
	assert.True(t, eval(t, m, "Braund, Mr. Owen Harris"))
	assert.False(t, eval(t, m, "mr Braund,"))

	c, err := StrContains(`Mrs?\.`)
	require.NoError(t, err)
	assert.True(t, eval(t, c, "Cumings, Mrs. John"))

	_, err = StrMatches("(")
	assert.ErrorIs(t, err, ErrInvalidStatistics)

	assert.True(t, eval(t, StrStartsWith("Br"), "Braund"))
	assert.True(t, eval(t, StrEndsWith("nd"), "Braund"))

	_, err = l.Evaluate(datatable.ValueOf(3))
	assert.ErrorIs(t, err, datatable.ErrTypeMismatch)
}

func TestComposite(t *testing.T) {
	and := All(GreaterThanOrEqualTo(0), LessThanOrEqualTo(1))
	assert.True(t, eval(t, and, 1))
	assert.False(t, eval(t, and, 2))

	or := Any(EqualTo(1), EqualTo(3))
	assert.True(t, eval(t, or, 3))
	assert.False(t, eval(t, or, 2))

	assert.True(t, eval(t, All(), 42))
	assert.Equal(t, "(greater_than_or_equal_to(0) AND less_than_or_equal_to(1))", and.Description())
	assert.ErrorIs(t, Serializable(and), ErrNotSerializable)
}

func TestFromStatistics(t *testing.T) {
	c, err := FromStatistics("greater_than_or_equal_to", map[string]interface{}{"min_value": 0}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "greater_than_or_equal_to(0)", c.Description())
	assert.NoError(t, Serializable(c))

	c, err = FromStatistics("in_range", map[string]interface{}{"min_value": 1, "max_value": 3.5, "include_max": false}, Options{RaiseWarning: true})
	require.NoError(t, err)
	assert.True(t, c.Options().RaiseWarning)
	assert.False(t, eval(t, c, 3.5))

	c, err = FromStatistics("str_length", map[string]interface{}{"max_value": 3.0}, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, eval(t, c, "abcd"))

	_, err = FromStatistics("nope", nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownCheck)

	_, err = FromStatistics("less_than", map[string]interface{}{"max_value": "x"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidStatistics)

	_, err = FromStatistics("isin", map[string]interface{}{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidStatistics)

	assert.Contains(t, Names(), "expr")
}

func TestStatisticsAreCopied(t *testing.T) {
	c := GreaterThan(1)
	s := c.Statistics()
	s["min_value"] = 99.0
	assert.Equal(t, 1.0, c.Statistics()["min_value"])
}
