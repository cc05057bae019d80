// Package errors provides structured error types for the glint-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, want/got kind names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseFill, errors.KindTypeMismatch).
//		Path("items", "2").
//		Want("Int32").
//		Got("String").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.StaleHandle(errors.PhaseFill, id)
//	err := errors.NotAList("Int32")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
