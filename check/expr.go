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

package check

import (
	"fmt"
	"io"
	"sync"

	"github.com/magpierre/tableschema/datatable"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// exprCheck evaluates a Go boolean expression over the cell value x.
// The expression is compiled lazily, once per operand type, because the
// same source may be attached to numeric or string columns.
type exprCheck struct {
	src  string
	opts Options

	mu      sync.Mutex
	numeric func(float64) bool
	str     func(string) bool
	boolean func(bool) bool
	errs    map[string]error
}

// Expr returns a check that evaluates a Go expression with the cell value
// bound to x. Numeric cells bind x as float64, strings as string and
// booleans as bool. The math and strings packages are available:
//
//	check.Expr("x >= 0 && math.Mod(x, 1) == 0")
//	check.Expr(`strings.Contains(x, ",")`)
func Expr(src string, opts ...Option) Check {
	return &exprCheck{src: src, opts: buildOptions(opts), errs: map[string]error{}}
}

func (e *exprCheck) Name() string { return "expr" }

func (e *exprCheck) Statistics() map[string]interface{} {
	return map[string]interface{}{"expr": e.src}
}

func (e *exprCheck) Options() Options { return e.opts }

func (e *exprCheck) Description() string { return fmt.Sprintf("expr(%q)", e.src) }

// Evaluate implements Check. Calls into the interpreter are serialised.
func (e *exprCheck) Evaluate(v datatable.Value) (ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("expr %q panicked: %v", e.src, r)
		}
	}()

	switch raw := v.Raw.(type) {
	case string:
		if e.str == nil {
			if e.str, err = e.compileString(); err != nil {
				return false, err
			}
		}
		return e.str(raw), nil
	case bool:
		if e.boolean == nil {
			if e.boolean, err = e.compileBool(); err != nil {
				return false, err
			}
		}
		return e.boolean(raw), nil
	}

	x, err := number(v)
	if err != nil {
		return false, err
	}
	if e.numeric == nil {
		if e.numeric, err = e.compileNumeric(); err != nil {
			return false, err
		}
	}
	return e.numeric(x), nil
}

func (e *exprCheck) compileNumeric() (func(float64) bool, error) {
	return compileExpr[func(float64) bool](e, "float64")
}

func (e *exprCheck) compileString() (func(string) bool, error) {
	return compileExpr[func(string) bool](e, "string")
}

func (e *exprCheck) compileBool() (func(bool) bool, error) {
	return compileExpr[func(bool) bool](e, "bool")
}

// compileExpr wraps the expression in a function taking x of type typ and
// extracts it from a fresh interpreter. Failures are remembered so a bad
// expression is compiled only once per type.
func compileExpr[F any](e *exprCheck, typ string) (F, error) {
	var zero F
	if err, ok := e.errs[typ]; ok {
		return zero, err
	}

	i := interp.New(interp.Options{
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	if err := i.Use(stdlib.Symbols); err != nil {
		return zero, fmt.Errorf("loading stdlib: %w", err)
	}

	wrappedCode := fmt.Sprintf(`package expr

import (
	"math"
	"strings"
)

var _ = math.Abs
var _ = strings.Contains

func Check(x %s) bool {
	return %s
}
`, typ, e.src)

	if _, err := i.Eval(wrappedCode); err != nil {
		e.errs[typ] = fmt.Errorf("%w: %q as %s: %v", ErrInvalidExpr, e.src, typ, err)
		return zero, e.errs[typ]
	}
	v, err := i.Eval("expr.Check")
	if err != nil {
		e.errs[typ] = fmt.Errorf("%w: %q: %v", ErrInvalidExpr, e.src, err)
		return zero, e.errs[typ]
	}
	fn, ok := v.Interface().(F)
	if !ok {
		e.errs[typ] = fmt.Errorf("%w: %q does not produce a %s predicate", ErrInvalidExpr, e.src, typ)
		return zero, e.errs[typ]
	}
	return fn, nil
}
