package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpierre/tableschema/check"
)

func TestTitanicDefinition(t *testing.T) {
	s := Titanic()
	require.NoError(t, s.Check())

	assert.Equal(t,
		[]string{"survived", "pclass", "name", "sex", "age", "fare", "sibsp", "parch"},
		s.ColumnNames())
	assert.True(t, s.Coerce)
	assert.Equal(t, StrictOff, s.Strict)
	assert.Equal(t, ReportAll, s.ReportDuplicates)
	assert.False(t, s.UniqueColumnNames)

	bounds := map[string][2]float64{
		"survived": {0, 1},
		"pclass":   {1, 3},
		"age":      {0.42, 80},
		"fare":     {0, 512.3292},
		"sibsp":    {0, 5},
		"parch":    {0, 6},
	}
	for _, c := range s.Columns {
		assert.True(t, c.Required, c.Name)
		assert.False(t, c.Nullable, c.Name)
		assert.False(t, c.Unique, c.Name)

		want, ranged := bounds[c.Name]
		if !ranged {
			assert.Empty(t, c.Checks, c.Name)
			assert.Equal(t, Object, c.DType, c.Name)
			continue
		}
		require.Len(t, c.Checks, 2, c.Name)
		assert.Equal(t, "greater_than_or_equal_to", c.Checks[0].Name())
		assert.Equal(t, want[0], c.Checks[0].Statistics()["min_value"], c.Name)
		assert.Equal(t, "less_than_or_equal_to", c.Checks[1].Name())
		assert.Equal(t, want[1], c.Checks[1].Statistics()["max_value"], c.Name)
		for _, ch := range c.Checks {
			assert.Equal(t, check.Options{RaiseWarning: false, IgnoreNA: true}, ch.Options())
		}
	}

	require.NotNil(t, s.Index)
	assert.Equal(t, Int64, s.Index.DType)
	assert.False(t, s.Index.Nullable)
	require.Len(t, s.Index.Checks, 2)
	assert.Equal(t, 0.0, s.Index.Checks[0].Statistics()["min_value"])
	assert.Equal(t, 713.0, s.Index.Checks[1].Statistics()["max_value"])
}

func TestTitanicReturnsFreshValue(t *testing.T) {
	a := Titanic()
	a.Columns[0].Name = "changed"
	a.Strict = StrictOn
	b := Titanic()
	assert.Equal(t, "survived", b.Columns[0].Name)
	assert.Equal(t, StrictOff, b.Strict)
}

func TestSchemaCheck(t *testing.T) {
	_, err := New("dup", NewColumn("a", Int64), NewColumn("a", Float64))
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New("dtype", NewColumn("a", DType("complex128")))
	assert.ErrorIs(t, err, ErrUnknownDType)

	_, err = New("regex", Column{Name: "(", DType: Int64, Regex: true})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	s, err := New("ok", NewColumn("a", Int64))
	require.NoError(t, err)
	s.Unique = []string{"b"}
	assert.ErrorIs(t, s.Check(), ErrInvalidSchema)

	s.Unique = nil
	s.Strict = "sometimes"
	assert.ErrorIs(t, s.Check(), ErrInvalidSchema)

	s.Strict = StrictFilter
	s.ReportDuplicates = "last"
	assert.ErrorIs(t, s.Check(), ErrInvalidSchema)
}

func TestParseDType(t *testing.T) {
	for in, want := range map[string]DType{
		"int":     Int64,
		"float64": Float64,
		"object":  Object,
		"string":  String,
		"boolean": Bool,
	} {
		got, err := ParseDType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDType("decimal")
	assert.ErrorIs(t, err, ErrUnknownDType)

	assert.True(t, Object.IsText())
	assert.True(t, String.IsText())
	assert.False(t, Int64.IsText())
}

func TestColumnLookup(t *testing.T) {
	s := Titanic()
	c, ok := s.Column("fare")
	require.True(t, ok)
	assert.Equal(t, Float64, c.DType)

	_, ok = s.Column("cabin")
	assert.False(t, ok)
}

func TestYAMLRoundTripIsByteIdentical(t *testing.T) {
	first, err := ToYAML(Titanic())
	require.NoError(t, err)

	loaded, err := FromYAML(first)
	require.NoError(t, err)

	second, err := ToYAML(loaded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	assert.Contains(t, string(first), "schema_type: dataframe")
	assert.Contains(t, string(first), "min_value: 0.42")
	assert.Contains(t, string(first), "max_value: 512.3292")
	assert.Contains(t, string(first), "report_duplicates: all")
	assert.Contains(t, string(first), "strict: false")
}

func TestJSONRoundTripIsByteIdentical(t *testing.T) {
	first, err := ToJSON(Titanic())
	require.NoError(t, err)

	loaded, err := FromJSON(first)
	require.NoError(t, err)

	second, err := ToJSON(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, string(first), string(second))
}

func TestRoundTripPreservesConstraints(t *testing.T) {
	min := 1
	s, err := New("people",
		NewColumn("id", Int64),
		Column{Name: "name", DType: String, Unique: true, Required: true,
			Checks: []check.Check{check.StrLength(&min, nil), check.IsIn([]interface{}{"a", "b"})}},
		Column{Name: "score_.*", DType: Float64, Regex: true, Nullable: true,
			Checks: []check.Check{check.InRange(0, 1, true, false, check.WithRaiseWarning(true))}},
	)
	require.NoError(t, err)
	s.Strict = StrictFilter
	s.Ordered = true
	s.Unique = []string{"id", "name"}
	s.ReportDuplicates = ReportExcludeFirst
	s.Index = &Index{Name: "row", DType: Int64, Unique: true}

	for name, codec := range map[string]struct {
		enc func(*DataFrameSchema) ([]byte, error)
		dec func([]byte) (*DataFrameSchema, error)
	}{
		"yaml": {ToYAML, FromYAML},
		"json": {ToJSON, FromJSON},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := codec.enc(s)
			require.NoError(t, err)
			got, err := codec.dec(data)
			require.NoError(t, err)

			assert.Equal(t, StrictFilter, got.Strict)
			assert.True(t, got.Ordered)
			assert.Equal(t, []string{"id", "name"}, got.Unique)
			assert.Equal(t, ReportExcludeFirst, got.ReportDuplicates)
			require.NotNil(t, got.Index)
			assert.Equal(t, "row", got.Index.Name)
			assert.True(t, got.Index.Unique)

			score, ok := got.Column("score_.*")
			require.True(t, ok)
			assert.True(t, score.Regex)
			assert.True(t, score.Nullable)
			require.Len(t, score.Checks, 1)
			assert.True(t, score.Checks[0].Options().RaiseWarning)
			assert.Equal(t, "in_range(0, 1)", score.Checks[0].Description())

			nm, _ := got.Column("name")
			require.Len(t, nm.Checks, 2)
			assert.Equal(t, "str_length", nm.Checks[0].Name())
			assert.Equal(t, "isin", nm.Checks[1].Name())
		})
	}
}

func TestSerializeRejectsComposite(t *testing.T) {
	s, err := New("c", NewColumn("a", Int64, check.All(check.GreaterThan(0))))
	require.NoError(t, err)
	_, err = ToYAML(s)
	assert.ErrorIs(t, err, check.ErrNotSerializable)
}

func TestFromYAMLErrors(t *testing.T) {
	_, err := FromYAML([]byte("schema_type: series\ncolumns: []\n"))
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = FromYAML([]byte("schema_type: dataframe\nstrict: maybe\ncolumns: []\n"))
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = FromYAML([]byte(`schema_type: dataframe
columns:
  - name: a
    dtype: int64
    checks:
      - check: between
        statistics: {}
`))
	assert.ErrorIs(t, err, check.ErrUnknownCheck)
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"titanic.yaml", "titanic.yml", "titanic.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, Titanic()), name)

		s, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, Titanic().ColumnNames(), s.ColumnNames(), name)
	}

	assert.ErrorIs(t, Save(filepath.Join(dir, "titanic.toml"), Titanic()), ErrUnknownFormat)

	// unknown extension falls back to content sniffing
	data, err := ToJSON(Titanic())
	require.NoError(t, err)
	sniffed := filepath.Join(dir, "schema.txt")
	require.NoError(t, os.WriteFile(sniffed, data, 0o644))
	_, err = Load(sniffed)
	assert.NoError(t, err)

	require.NoError(t, os.WriteFile(sniffed, []byte("plain text"), 0o644))
	_, err = Load(sniffed)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("a.YML", nil))
	assert.Equal(t, FormatJSON, DetectFormat("a.json", nil))
	assert.Equal(t, FormatJSON, DetectFormat("a", []byte("  {\"x\":1}")))
	assert.Equal(t, FormatYAML, DetectFormat("a", []byte("schema_type: dataframe")))
	assert.Equal(t, FormatUnknown, DetectFormat("a", nil))
}
