package analyses

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrMissingInput = errors.New("missing input")
	ErrExtraction   = errors.New("text extraction failed")
)

const (
	ErrorCodeValidation = "validation_error"
	ErrorCodeExtraction = "extraction_error"
	ErrorCodeNotFound   = "not_found"
	ErrorCodeTooLarge   = "payload_too_large"
	ErrorCodeInternal   = "internal_error"
)
