package auth

import "errors"

// ErrUnauthenticated is surfaced when an operation requires an identity and
// none was resolved for the request.
var ErrUnauthenticated = errors.New("auth: unauthenticated")
