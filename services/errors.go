package services

import "errors"

// ErrValidation marks request data the caller can fix. Controllers map it
// to a 400 response.
var ErrValidation = errors.New("validation failed")
