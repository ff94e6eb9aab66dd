package check

import (
	"sync"
	"testing"

	"github.com/magpierre/tableschema/datatable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprNumeric(t *testing.T) {
	c := Expr("x >= 0 && x <= 1")
	assert.True(t, eval(t, c, 0.5))
	assert.True(t, eval(t, c, int64(1)))
	assert.False(t, eval(t, c, 2))
	assert.Equal(t, map[string]interface{}{"expr": "x >= 0 && x <= 1"}, c.Statistics())
}

func TestExprUsesPackages(t *testing.T) {
	whole := Expr("math.Mod(x, 1) == 0")
	assert.True(t, eval(t, whole, 3.0))
	assert.False(t, eval(t, whole, 3.5))

	title := Expr(`strings.Contains(x, ", ")`)
	assert.True(t, eval(t, title, "Braund, Mr. Owen Harris"))
	assert.False(t, eval(t, title, "nobody"))
}

func TestExprCompileError(t *testing.T) {
	c := Expr("x >")
	_, err := c.Evaluate(datatable.ValueOf(1))
	assert.ErrorIs(t, err, ErrInvalidExpr)

	// cached failure is returned again without recompiling
	_, err = c.Evaluate(datatable.ValueOf(2))
	assert.ErrorIs(t, err, ErrInvalidExpr)
}

func TestExprConcurrentUse(t *testing.T) {
	c := Expr("x < 100")
	var wg sync.WaitGroup
	results := make([]bool, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := c.Evaluate(datatable.ValueOf(i))
			if err == nil {
				results[i] = ok
			}
		}(i)
	}
	wg.Wait()
	for i, ok := range results {
		require.True(t, ok, "goroutine %d", i)
	}
}
