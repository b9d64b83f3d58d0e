// Package serializer reads caller input and writes profilemaker documents.
//
// # Output formats
//
//   - json: indented JSON
//   - yaml: two-space indented YAML
//   - table: flattened FIELD/VALUE table for terminals (write-only)
//
// Map keys are sorted by every format, so equal documents serialize to
// identical bytes.
//
//	w := serializer.NewStdoutWriter(serializer.FormatYAML)
//	if err := w.Serialize(ctx, profile); err != nil {
//	    return err
//	}
//
// # Input formats
//
// The format of a file is taken from its extension: .json, .jsonc (JSON with
// comments and trailing commas) or .yaml/.yml. Files are size-limited.
//
//	sub, err := serializer.FromFile[SubmissionFile]("prefs.jsonc")
package serializer
