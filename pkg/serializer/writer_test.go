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
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	cnserrors "github.com/ffprofile/profilemaker/pkg/errors"
)

type testConfig struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

const test1Name = "test1"

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatJSON, &buf)

	data := []testConfig{
		{Name: test1Name, Value: 123},
		{Name: "test2", Value: 456},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testConfig
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("Expected 2 items, got %d", len(result))
	}
	if result[0].Name != test1Name || result[0].Value != 123 {
		t.Errorf("Unexpected data: %+v", result[0])
	}
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatYAML, &buf)

	data := []testConfig{
		{Name: test1Name, Value: 123},
		{Name: "test2", Value: 456},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var result []testConfig
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal YAML: %v", err)
	}
	if len(result) != 2 || result[1].Name != "test2" {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	data := []any{
		testConfig{Name: test1Name, Value: 123},
		testConfig{Name: "test2", Value: 456},
	}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "FIELD") || !strings.Contains(output, "VALUE") {
		t.Error("Expected table header not found")
	}
	if !strings.Contains(output, "[0].name") || !strings.Contains(output, "[1].value") {
		t.Errorf("Expected flattened json-tag keys, got:\n%s", output)
	}
}

func TestWriter_SerializeTable_Embedded(t *testing.T) {
	type inner struct {
		Label string `json:"label"`
	}
	type outer struct {
		Key    string `json:"key"`
		Hidden string `json:"-"`
		inner
		Prefs map[string]any `json:"prefs"`
	}

	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)
	data := outer{Key: "dnt", Hidden: "secret", Prefs: map[string]any{"a.b": true}}

	if err := writer.Serialize(context.Background(), data); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "prefs.a.b") {
		t.Errorf("expected map key flattened, got:\n%s", output)
	}
	if strings.Contains(output, "secret") {
		t.Errorf("json:\"-\" field should be skipped, got:\n%s", output)
	}
}

func TestWriter_SerializeTable_EmptyData(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(FormatTable, &buf)

	if err := writer.Serialize(context.Background(), map[string]string{}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "<empty>" {
		t.Errorf("expected <empty>, got %q", buf.String())
	}
}

func TestWriter_DeterministicOutput(t *testing.T) {
	data := map[string]any{"z.last": 1, "a.first": true, "m.middle": "x"}

	for _, format := range []Format{FormatJSON, FormatYAML, FormatTable} {
		t.Run(string(format), func(t *testing.T) {
			var first, second bytes.Buffer
			if err := NewWriter(format, &first).Serialize(context.Background(), data); err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if err := NewWriter(format, &second).Serialize(context.Background(), data); err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if !bytes.Equal(first.Bytes(), second.Bytes()) {
				t.Errorf("outputs differ:\n%s\n---\n%s", first.String(), second.String())
			}
		})
	}
}

func TestWriter_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter("invalid", &buf)

	if writer.Format() != FormatJSON {
		t.Errorf("Format() = %s, want %s", writer.Format(), FormatJSON)
	}

	if err := writer.Serialize(context.Background(), testConfig{Name: "test", Value: 1}); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	var result testConfig
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to unmarshal as JSON: %v", err)
	}
}

func TestWriter_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWriter(FormatJSON, &buf).Serialize(ctx, testConfig{})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !cnserrors.HasCode(err, cnserrors.ErrCodeTimeout) {
		t.Errorf("error code = %q, want %q", cnserrors.CodeOf(err), cnserrors.ErrCodeTimeout)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestFormat_IsUnknown(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{FormatJSONC, true},
		{"xml", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := tt.format.IsUnknown(); got != tt.want {
				t.Errorf("IsUnknown() = %v, want %v", got, tt.want)
			}
		})
	}
}
