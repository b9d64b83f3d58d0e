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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/ffprofile/profilemaker/pkg/defaults"
	cnserrors "github.com/ffprofile/profilemaker/pkg/errors"
)

// FormatFromPath determines the input format from a file extension:
//   - .json → FormatJSON
//   - .jsonc → FormatJSONC
//   - .yaml, .yml → FormatYAML
//
// Unknown extensions default to FormatYAML, which also accepts plain JSON.
// Matching is case-insensitive.
func FormatFromPath(filePath string) Format {
	lowerPath := strings.ToLower(filePath)
	switch {
	case strings.HasSuffix(lowerPath, ".jsonc"):
		return FormatJSONC
	case strings.HasSuffix(lowerPath, ".json"):
		return FormatJSON
	case strings.HasSuffix(lowerPath, ".yaml"), strings.HasSuffix(lowerPath, ".yml"):
		return FormatYAML
	default:
		slog.Debug("unknown file extension, defaulting to YAML", "filePath", filePath)
		return FormatYAML
	}
}

// readable reports whether f can be deserialized.
func (f Format) readable() bool {
	switch f {
	case FormatJSON, FormatJSONC, FormatYAML:
		return true
	default:
		return false
	}
}

// Reader deserializes structured data from an io.Reader.
// Close must be called when the reader was created from a file.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
	strict bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithStrict makes Deserialize fail on fields the target type does not declare.
func WithStrict() ReaderOption {
	return func(r *Reader) {
		r.strict = true
	}
}

// NewReader creates a Reader for format over input. If input implements
// io.Closer it is closed by Reader.Close.
func NewReader(format Format, input io.Reader, opts ...ReaderOption) (*Reader, error) {
	if !format.readable() {
		return nil, fmt.Errorf("format %q does not support deserialization", format)
	}

	r := &Reader{
		format: format,
		input:  input,
	}
	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewFileReader opens filePath for reading in the given format.
// Files larger than defaults.MaxInputFileSize are rejected.
func NewFileReader(format Format, filePath string, opts ...ReaderOption) (*Reader, error) {
	if !format.readable() {
		return nil, fmt.Errorf("format %q does not support deserialization", format)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeNotFound, fmt.Sprintf("cannot read %s", filePath), err)
	}
	if info.IsDir() {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, fmt.Sprintf("%s is a directory", filePath))
	}
	if info.Size() > defaults.MaxInputFileSize {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "input file too large",
			map[string]any{"path": filePath, "size": info.Size(), "max": defaults.MaxInputFileSize})
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &Reader{
		format: format,
		input:  file,
		closer: file,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewFileReaderAuto is NewFileReader with the format taken from the extension.
func NewFileReaderAuto(filePath string) (*Reader, error) {
	return NewFileReader(FormatFromPath(filePath), filePath)
}

// Deserialize decodes the input into v, which must be a pointer.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}
	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		dec := json.NewDecoder(r.input)
		if r.strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil

	case FormatJSONC:
		data, err := io.ReadAll(r.input)
		if err != nil {
			return fmt.Errorf("failed to read JSONC: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		if r.strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSONC: %w", err)
		}
		return nil

	case FormatYAML:
		dec := yaml.NewDecoder(r.input)
		dec.KnownFields(r.strict)
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases the underlying file, if any. Safe to call more than once.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// FromFile loads and deserializes the file at path into a new T, detecting
// the format from the extension.
//
//	sub, err := serializer.FromFile[SubmissionFile]("prefs.yaml")
func FromFile[T any](path string, opts ...ReaderOption) (*T, error) {
	fileFormat := FormatFromPath(path)
	slog.Debug("determined file format",
		slog.String("path", path),
		slog.String("format", string(fileFormat)),
	)

	reader, err := NewFileReader(fileFormat, path, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			slog.Warn("failed to close reader", "error", closeErr)
		}
	}()

	var out T
	if err := reader.Deserialize(&out); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("failed to deserialize %s", path), err)
	}

	slog.Debug("loaded object from file", slog.String("path", path))
	return &out, nil
}
