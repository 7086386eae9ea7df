// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal masks unexpected failures in API responses.
var ErrInternal = errors.New("A server error occurred.")
