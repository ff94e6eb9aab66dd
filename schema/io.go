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

package schema

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/magpierre/tableschema/check"
)

const (
	schemaType    = "dataframe"
	formatVersion = "1.0"
)

// document is the serialized form of a DataFrameSchema.
type document struct {
	SchemaType        string           `yaml:"schema_type" json:"schema_type"`
	Version           string           `yaml:"version" json:"version"`
	Name              string           `yaml:"name,omitempty" json:"name,omitempty"`
	Columns           []columnDoc      `yaml:"columns" json:"columns"`
	Index             *indexDoc        `yaml:"index,omitempty" json:"index,omitempty"`
	Coerce            bool             `yaml:"coerce" json:"coerce"`
	Strict            StrictMode       `yaml:"strict" json:"strict"`
	Ordered           bool             `yaml:"ordered" json:"ordered"`
	Unique            []string         `yaml:"unique,omitempty" json:"unique,omitempty"`
	ReportDuplicates  ReportDuplicates `yaml:"report_duplicates" json:"report_duplicates"`
	UniqueColumnNames bool             `yaml:"unique_column_names" json:"unique_column_names"`
	AddMissingColumns bool             `yaml:"add_missing_columns" json:"add_missing_columns"`
	Title             string           `yaml:"title,omitempty" json:"title,omitempty"`
	Description       string           `yaml:"description,omitempty" json:"description,omitempty"`
}

type columnDoc struct {
	Name        string     `yaml:"name" json:"name"`
	DType       string     `yaml:"dtype" json:"dtype"`
	Nullable    bool       `yaml:"nullable" json:"nullable"`
	Unique      bool       `yaml:"unique" json:"unique"`
	Coerce      bool       `yaml:"coerce" json:"coerce"`
	Required    bool       `yaml:"required" json:"required"`
	Regex       bool       `yaml:"regex" json:"regex"`
	Checks      []checkDoc `yaml:"checks,omitempty" json:"checks,omitempty"`
	Title       string     `yaml:"title,omitempty" json:"title,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
}

type indexDoc struct {
	Name        string     `yaml:"name,omitempty" json:"name,omitempty"`
	DType       string     `yaml:"dtype" json:"dtype"`
	Nullable    bool       `yaml:"nullable" json:"nullable"`
	Unique      bool       `yaml:"unique" json:"unique"`
	Coerce      bool       `yaml:"coerce" json:"coerce"`
	Checks      []checkDoc `yaml:"checks,omitempty" json:"checks,omitempty"`
	Title       string     `yaml:"title,omitempty" json:"title,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
}

type checkDoc struct {
	Check        string                 `yaml:"check" json:"check"`
	Statistics   map[string]interface{} `yaml:"statistics" json:"statistics"`
	RaiseWarning bool                   `yaml:"raise_warning" json:"raise_warning"`
	IgnoreNA     bool                   `yaml:"ignore_na" json:"ignore_na"`
}

// ToYAML serializes s. The output is stable: encoding the result of
// FromYAML reproduces the same bytes.
func ToYAML(s *DataFrameSchema) ([]byte, error) {
	doc, err := toDocument(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode schema YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode schema YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML parses a schema written by ToYAML.
func FromYAML(data []byte) (*DataFrameSchema, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}
	return fromDocument(doc)
}

// ToJSON serializes s as indented JSON.
func ToJSON(s *DataFrameSchema) ([]byte, error) {
	doc, err := toDocument(s)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// FromJSON parses a schema written by ToJSON.
func FromJSON(data []byte) (*DataFrameSchema, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}
	return fromDocument(doc)
}

func toDocument(s *DataFrameSchema) (document, error) {
	if err := s.Check(); err != nil {
		return document{}, err
	}
	doc := document{
		SchemaType:        schemaType,
		Version:           formatVersion,
		Name:              s.Name,
		Columns:           make([]columnDoc, 0, len(s.Columns)),
		Coerce:            s.Coerce,
		Strict:            s.Strict,
		Ordered:           s.Ordered,
		Unique:            s.Unique,
		ReportDuplicates:  s.ReportDuplicates,
		UniqueColumnNames: s.UniqueColumnNames,
		AddMissingColumns: s.AddMissingColumns,
		Title:             s.Title,
		Description:       s.Description,
	}
	for _, c := range s.Columns {
		checks, err := toCheckDocs(c.Checks)
		if err != nil {
			return document{}, fmt.Errorf("column %s: %w", c.Name, err)
		}
		doc.Columns = append(doc.Columns, columnDoc{
			Name:        c.Name,
			DType:       string(c.DType),
			Nullable:    c.Nullable,
			Unique:      c.Unique,
			Coerce:      c.Coerce,
			Required:    c.Required,
			Regex:       c.Regex,
			Checks:      checks,
			Title:       c.Title,
			Description: c.Description,
		})
	}
	if ix := s.Index; ix != nil {
		checks, err := toCheckDocs(ix.Checks)
		if err != nil {
			return document{}, fmt.Errorf("index: %w", err)
		}
		doc.Index = &indexDoc{
			Name:        ix.Name,
			DType:       string(ix.DType),
			Nullable:    ix.Nullable,
			Unique:      ix.Unique,
			Coerce:      ix.Coerce,
			Checks:      checks,
			Title:       ix.Title,
			Description: ix.Description,
		}
	}
	return doc, nil
}

func toCheckDocs(checks []check.Check) ([]checkDoc, error) {
	if len(checks) == 0 {
		return nil, nil
	}
	docs := make([]checkDoc, len(checks))
	for i, c := range checks {
		if err := check.Serializable(c); err != nil {
			return nil, err
		}
		docs[i] = checkDoc{
			Check:        c.Name(),
			Statistics:   c.Statistics(),
			RaiseWarning: c.Options().RaiseWarning,
			IgnoreNA:     c.Options().IgnoreNA,
		}
	}
	return docs, nil
}

func fromDocument(doc document) (*DataFrameSchema, error) {
	if doc.SchemaType != schemaType {
		return nil, fmt.Errorf("%w: schema_type %q", ErrInvalidSchema, doc.SchemaType)
	}
	s := &DataFrameSchema{
		Name:              doc.Name,
		Columns:           make([]Column, 0, len(doc.Columns)),
		Coerce:            doc.Coerce,
		Strict:            doc.Strict,
		Ordered:           doc.Ordered,
		Unique:            doc.Unique,
		ReportDuplicates:  doc.ReportDuplicates,
		UniqueColumnNames: doc.UniqueColumnNames,
		AddMissingColumns: doc.AddMissingColumns,
		Title:             doc.Title,
		Description:       doc.Description,
	}
	if s.Strict == "" {
		s.Strict = StrictOff
	}
	if s.ReportDuplicates == "" {
		s.ReportDuplicates = ReportAll
	}

	for _, cd := range doc.Columns {
		dtype, err := ParseDType(cd.DType)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", cd.Name, err)
		}
		checks, err := fromCheckDocs(cd.Checks)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", cd.Name, err)
		}
		s.Columns = append(s.Columns, Column{
			Name:        cd.Name,
			DType:       dtype,
			Checks:      checks,
			Nullable:    cd.Nullable,
			Unique:      cd.Unique,
			Coerce:      cd.Coerce,
			Required:    cd.Required,
			Regex:       cd.Regex,
			Title:       cd.Title,
			Description: cd.Description,
		})
	}

	if id := doc.Index; id != nil {
		dtype, err := ParseDType(id.DType)
		if err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}
		checks, err := fromCheckDocs(id.Checks)
		if err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}
		s.Index = &Index{
			Name:        id.Name,
			DType:       dtype,
			Checks:      checks,
			Nullable:    id.Nullable,
			Unique:      id.Unique,
			Coerce:      id.Coerce,
			Title:       id.Title,
			Description: id.Description,
		}
	}

	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

func fromCheckDocs(docs []checkDoc) ([]check.Check, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	checks := make([]check.Check, len(docs))
	for i, d := range docs {
		c, err := check.FromStatistics(d.Check, d.Statistics, check.Options{
			RaiseWarning: d.RaiseWarning,
			IgnoreNA:     d.IgnoreNA,
		})
		if err != nil {
			return nil, err
		}
		checks[i] = c
	}
	return checks, nil
}

// MarshalYAML writes the strict mode as a boolean, or "filter".
func (m StrictMode) MarshalYAML() (interface{}, error) {
	switch m {
	case StrictOn:
		return true, nil
	case StrictFilter:
		return string(StrictFilter), nil
	default:
		return false, nil
	}
}

// UnmarshalYAML accepts a boolean or "filter".
func (m *StrictMode) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		*m = strictFromBool(b)
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("%w: strict must be a boolean or \"filter\"", ErrInvalidSchema)
	}
	return m.set(s)
}

// MarshalJSON writes the strict mode as a boolean, or "filter".
func (m StrictMode) MarshalJSON() ([]byte, error) {
	v, _ := m.MarshalYAML()
	return json.Marshal(v)
}

// UnmarshalJSON accepts a boolean or "filter".
func (m *StrictMode) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*m = strictFromBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: strict must be a boolean or \"filter\"", ErrInvalidSchema)
	}
	return m.set(s)
}

func (m *StrictMode) set(s string) error {
	switch StrictMode(s) {
	case StrictOff, StrictOn, StrictFilter:
		*m = StrictMode(s)
		return nil
	default:
		return fmt.Errorf("%w: strict %q", ErrInvalidSchema, s)
	}
}

func strictFromBool(b bool) StrictMode {
	if b {
		return StrictOn
	}
	return StrictOff
}
