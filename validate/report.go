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

package validate

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Report is the outcome of one validation run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string
	// Schema is the schema name.
	Schema string
	// Rows is the number of rows that were validated.
	Rows int
	// Violations are the hard failures, in deterministic order.
	Violations ViolationList
	// Warnings are failures of checks with RaiseWarning set.
	Warnings ViolationList
	// Dropped lists undeclared columns ignored under strict "filter".
	Dropped []string
}

// Valid reports whether the table passed: no hard violations.
func (r *Report) Valid() bool { return len(r.Violations) == 0 }

// Err returns nil for a valid table, otherwise the violations as an error.
func (r *Report) Err() error {
	if r.Valid() {
		return nil
	}
	return r.Violations
}

func (r *Report) add(vs ...Violation) {
	for _, v := range vs {
		if v.Warning {
			r.Warnings = append(r.Warnings, v)
		} else {
			r.Violations = append(r.Violations, v)
		}
	}
}

// FailureCasesSchema is the Arrow schema of the record built by FailureCases.
var FailureCasesSchema = arrow.NewSchema([]arrow.Field{
	{Name: "schema_context", Type: arrow.BinaryTypes.String},
	{Name: "column", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "check", Type: arrow.BinaryTypes.String},
	{Name: "check_number", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	{Name: "failure_case", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "index", Type: arrow.BinaryTypes.String, Nullable: true},
}, nil)

// FailureCases returns the hard violations as an Arrow record, one row per
// violation. The caller owns the record and must release it. A nil
// allocator uses the Go allocator.
func (r *Report) FailureCases(mem memory.Allocator) arrow.Record {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	b := array.NewRecordBuilder(mem, FailureCasesSchema)
	defer b.Release()

	context := b.Field(0).(*array.StringBuilder)
	column := b.Field(1).(*array.StringBuilder)
	checkName := b.Field(2).(*array.StringBuilder)
	checkNumber := b.Field(3).(*array.Int64Builder)
	failure := b.Field(4).(*array.StringBuilder)
	index := b.Field(5).(*array.StringBuilder)

	for _, v := range r.Violations {
		context.Append(string(v.Context))

		if v.Column == "" {
			column.AppendNull()
		} else {
			column.Append(v.Column)
		}

		checkName.Append(v.Check)

		if v.CheckNumber < 0 {
			checkNumber.AppendNull()
		} else {
			checkNumber.Append(int64(v.CheckNumber))
		}

		switch {
		case v.Value != nil:
			failure.Append(caseText(v.Value))
		case v.Code == CodeMissingColumn:
			failure.Append(v.Column)
		default:
			failure.AppendNull()
		}

		if v.Row < 0 || v.Index == nil {
			index.AppendNull()
		} else {
			index.Append(caseText(v.Index))
		}
	}

	return b.NewRecord()
}

// caseText renders a failure case without the quoting used in messages.
func caseText(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return formatCase(v)
}
