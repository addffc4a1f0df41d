package errors

import (
	stderrors "errors"
	"fmt"
)

// Loader error kinds. Callers distinguish failure modes with errors.Is:
//
//	count, err := loader.Load(ctx, pool, opts)
//	if errors.Is(err, errors.ErrSourceNotFound) {
//	    // bad path, nothing was written
//	}
var (
	// ErrSourceNotFound indicates the input file is missing or not readable
	// as a vector geometry source.
	ErrSourceNotFound = stderrors.New("source not found")

	// ErrSchemaMismatch indicates the source lacks a usable geometry or
	// required attribute columns.
	ErrSchemaMismatch = stderrors.New("schema mismatch")

	// ErrWriteFailure indicates the destination write (table creation or
	// bulk insert) could not complete.
	ErrWriteFailure = stderrors.New("write failure")
)

// SourceNotFoundf wraps ErrSourceNotFound with context.
func SourceNotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrSourceNotFound)
}

// SchemaMismatchf wraps ErrSchemaMismatch with context.
func SchemaMismatchf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrSchemaMismatch)
}

// WriteFailuref wraps ErrWriteFailure with context.
func WriteFailuref(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrWriteFailure)
}
