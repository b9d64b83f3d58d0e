// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package serializer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffprofile/profilemaker/pkg/defaults"
	cnserrors "github.com/ffprofile/profilemaker/pkg/errors"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"config.json", FormatJSON},
		{"CONFIG.JSON", FormatJSON},
		{"prefs.jsonc", FormatJSONC},
		{"prefs.JSONC", FormatJSONC},
		{"config.yaml", FormatYAML},
		{"config.yml", FormatYAML},
		{"no-extension", FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFromPath(tt.path))
		})
	}
}

func TestNewReader_RejectsWriteOnlyFormats(t *testing.T) {
	for _, f := range []Format{FormatTable, "xml"} {
		_, err := NewReader(f, strings.NewReader("{}"))
		assert.Error(t, err, "format %s", f)
	}
}

func TestReader_Deserialize(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{name: "json", format: FormatJSON, input: `{"name":"test1","value":7}`},
		{name: "yaml", format: FormatYAML, input: "name: test1\nvalue: 7\n"},
		{
			name:   "jsonc with comments and trailing comma",
			format: FormatJSONC,
			input: `{
  // the submission name
  "name": "test1",
  /* block */ "value": 7,
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.format, strings.NewReader(tt.input))
			require.NoError(t, err)

			var got testConfig
			require.NoError(t, r.Deserialize(&got))
			assert.Equal(t, testConfig{Name: "test1", Value: 7}, got)
			assert.NoError(t, r.Close())
		})
	}
}

func TestReader_DeserializeErrors(t *testing.T) {
	var nilReader *Reader
	assert.Error(t, nilReader.Deserialize(&testConfig{}))
	assert.NoError(t, nilReader.Close())

	r, err := NewReader(FormatJSON, nil)
	require.NoError(t, err)
	assert.Error(t, r.Deserialize(&testConfig{}))

	r, err = NewReader(FormatJSON, strings.NewReader("{not json"))
	require.NoError(t, err)
	assert.Error(t, r.Deserialize(&testConfig{}))
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"sub.yaml":  "name: test1\nvalue: 3\n",
		"sub.json":  `{"name": "test1", "value": 3}`,
		"sub.jsonc": "{\n  // comment\n  \"name\": \"test1\",\n  \"value\": 3,\n}\n",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			got, err := FromFile[testConfig](path)
			require.NoError(t, err)
			assert.Equal(t, &testConfig{Name: "test1", Value: 3}, got)
		})
	}
}

func TestFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := FromFile[testConfig](filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
		assert.True(t, cnserrors.HasCode(err, cnserrors.ErrCodeNotFound))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := FromFile[testConfig](dir)
		require.Error(t, err)
		assert.True(t, cnserrors.HasCode(err, cnserrors.ErrCodeInvalidRequest))
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		_, err := FromFile[testConfig](path)
		require.Error(t, err)
		assert.True(t, cnserrors.HasCode(err, cnserrors.ErrCodeInvalidRequest))
	})

	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(dir, "big.yaml")
		big := strings.Repeat("#", defaults.MaxInputFileSize+1)
		require.NoError(t, os.WriteFile(path, []byte(big), 0o600))
		_, err := FromFile[testConfig](path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})
}

func TestFromFile_Strict(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "yaml", file: "c.yaml", content: "name: a\nvalu: 1\n"},
		{name: "json", file: "c.json", content: `{"name": "a", "valu": 1}`},
		{name: "jsonc", file: "c.jsonc", content: "{\n  // typo\n  \"name\": \"a\",\n  \"valu\": 1,\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			got, err := FromFile[testConfig](path)
			require.NoError(t, err)
			assert.Equal(t, "a", got.Name)

			_, err = FromFile[testConfig](path, WithStrict())
			require.Error(t, err)
			assert.True(t, cnserrors.HasCode(err, cnserrors.ErrCodeInvalidRequest))
			assert.Contains(t, err.Error(), "valu")
		})
	}
}
