package schema

import "github.com/magpierre/tableschema/check"

// TitanicRows is the number of rows the Titanic schema admits; the index
// must lie in [0, TitanicRows-1].
const TitanicRows = 714

// Titanic returns the schema of the Titanic passenger table. Every call
// builds a fresh value.
func Titanic() *DataFrameSchema {
	between := func(min, max float64) []check.Check {
		return []check.Check{
			check.GreaterThanOrEqualTo(min, check.WithRaiseWarning(false), check.WithIgnoreNA(true)),
			check.LessThanOrEqualTo(max, check.WithRaiseWarning(false), check.WithIgnoreNA(true)),
		}
	}

	return &DataFrameSchema{
		Columns: []Column{
			{Name: "survived", DType: Int64, Checks: between(0, 1), Required: true},
			{Name: "pclass", DType: Int64, Checks: between(1, 3), Required: true},
			{Name: "name", DType: Object, Required: true},
			{Name: "sex", DType: Object, Required: true},
			{Name: "age", DType: Float64, Checks: between(0.42, 80.0), Required: true},
			{Name: "fare", DType: Float64, Checks: between(0.0, 512.3292), Required: true},
			{Name: "sibsp", DType: Int64, Checks: between(0, 5), Required: true},
			{Name: "parch", DType: Int64, Checks: between(0, 6), Required: true},
		},
		Index: &Index{
			DType:  Int64,
			Checks: between(0, TitanicRows-1),
		},
		Coerce:            true,
		Strict:            StrictOff,
		Ordered:           false,
		ReportDuplicates:  ReportAll,
		UniqueColumnNames: false,
		AddMissingColumns: false,
	}
}
