package posting

import "errors"

var (
	ErrNotFound     = errors.New("posting: not found")
	ErrForbidden    = errors.New("posting: forbidden")
	ErrInvalidInput = errors.New("posting: invalid input")
)
