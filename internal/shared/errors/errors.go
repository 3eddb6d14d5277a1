package errors

import "errors"

var (
	ErrMissingAllCategory = errors.New("catalog must define the \"all\" category")
	ErrEmptyCategory      = errors.New("catalog category has no feed urls")
	ErrInvalidPageSize    = errors.New("page_size must be greater than zero")
	ErrMissingHTTPPort    = errors.New("http_port is required")
	ErrUnexpectedStatus   = errors.New("unexpected status code")
)
