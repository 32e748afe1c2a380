package convert

import "errors"

// Sentinel errors for conversion failures.
var (
	ErrConverterNotFound = errors.New("converter executable not found")
	ErrConversionFailed  = errors.New("conversion failed")
	ErrConversionTimeout = errors.New("conversion timed out")
)
