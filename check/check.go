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

// Package check provides value-level checks that a schema attaches to a
// column or an index.
package check

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/magpierre/tableschema/datatable"
)

var (
	// ErrUnknownCheck is returned when a check name has no registered constructor.
	ErrUnknownCheck = errors.New("unknown check")

	// ErrInvalidStatistics is returned when check statistics are missing or of the wrong type.
	ErrInvalidStatistics = errors.New("invalid check statistics")

	// ErrNotSerializable is returned for checks that cannot be written as name + statistics.
	ErrNotSerializable = errors.New("check is not serializable")

	// ErrInvalidExpr is returned when an expression check does not compile.
	ErrInvalidExpr = errors.New("invalid check expression")
)

// Check is a predicate over a single non-missing cell value.
//
// Evaluate is never called with a missing value; the validator applies
// Options.IgnoreNA itself. An error means the value could not be checked
// at all, which is reported separately from a failed check.
type Check interface {
	// Name is the registry name, e.g. "greater_than_or_equal_to".
	Name() string

	// Statistics are the parameters the check was built from.
	Statistics() map[string]interface{}

	// Options returns the failure handling options.
	Options() Options

	// Evaluate reports whether v passes.
	Evaluate(v datatable.Value) (bool, error)

	// Description is a short human readable form, e.g. "greater_than_or_equal_to(0.42)".
	Description() string
}

// Options control how failures of a check are treated.
type Options struct {
	// RaiseWarning makes a failure advisory instead of a hard violation.
	RaiseWarning bool
	// IgnoreNA skips missing cells instead of counting them as failures.
	IgnoreNA bool
}

// DefaultOptions returns hard failures that skip missing values.
func DefaultOptions() Options {
	return Options{RaiseWarning: false, IgnoreNA: true}
}

// Option modifies Options.
type Option func(*Options)

// WithRaiseWarning sets Options.RaiseWarning.
func WithRaiseWarning(warn bool) Option {
	return func(o *Options) { o.RaiseWarning = warn }
}

// WithIgnoreNA sets Options.IgnoreNA.
func WithIgnoreNA(ignore bool) Option {
	return func(o *Options) { o.IgnoreNA = ignore }
}

// withOptions replaces all options at once; used by the registry.
func withOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// builtin is the shared implementation behind every named check.
type builtin struct {
	name  string
	stats map[string]interface{}
	opts  Options
	desc  string
	eval  func(datatable.Value) (bool, error)
}

func (b *builtin) Name() string { return b.name }

func (b *builtin) Statistics() map[string]interface{} {
	out := make(map[string]interface{}, len(b.stats))
	for k, v := range b.stats {
		out[k] = v
	}
	return out
}

func (b *builtin) Options() Options { return b.opts }

func (b *builtin) Evaluate(v datatable.Value) (bool, error) { return b.eval(v) }

func (b *builtin) Description() string { return b.desc }

// number extracts a numeric operand or reports a type mismatch.
func number(v datatable.Value) (float64, error) {
	f, ok := v.Float64()
	if !ok {
		return 0, fmt.Errorf("%w: %s value %q is not numeric", datatable.ErrTypeMismatch, v.Type, v.Formatted)
	}
	return f, nil
}

// text extracts a string operand or reports a type mismatch.
func text(v datatable.Value) (string, error) {
	s, ok := v.Text()
	if !ok {
		return "", fmt.Errorf("%w: %s value %q is not a string", datatable.ErrTypeMismatch, v.Type, v.Formatted)
	}
	return s, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
