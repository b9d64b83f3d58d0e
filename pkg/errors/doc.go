// Package errors provides structured error types for programmatic error
// handling across profilemaker.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeInvalidRequest,
//	    "submission rejected",
//	    verr,
//	    map[string]any{
//	        "group": "privacy",
//	        "keys":  []string{"referer"},
//	    },
//	)
package errors
