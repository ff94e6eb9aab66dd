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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned when a schema file format cannot be determined.
var ErrUnknownFormat = errors.New("unknown schema file format")

// FileFormat represents the serialization of a schema file.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatYAML
	FormatJSON
)

// DetectFormat determines the format from the extension, falling back to
// the content for unrecognised extensions.
func DetectFormat(path string, content []byte) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}

	trimmed := bytes.TrimSpace(content)
	switch {
	case len(trimmed) == 0:
		return FormatUnknown
	case trimmed[0] == '{':
		return FormatJSON
	case bytes.HasPrefix(trimmed, []byte("schema_type:")), bytes.HasPrefix(trimmed, []byte("---")):
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// Load reads a schema file written by Save.
func Load(path string) (*DataFrameSchema, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	switch DetectFormat(path, content) {
	case FormatYAML:
		return FromYAML(content)
	case FormatJSON:
		return FromJSON(content)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
	}
}

// Save writes s to path in the format implied by its extension.
func Save(path string, s *DataFrameSchema) error {
	var (
		out []byte
		err error
	)
	switch DetectFormat(path, nil) {
	case FormatYAML:
		out, err = ToYAML(s)
	case FormatJSON:
		out, err = ToJSON(s)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}
