package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. unknown event type, date_to before date_from, offer not valid for type).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrMutationRejected wraps any failure of a store add/update/delete.
// The originating controller recovers from it locally by rolling back.
var ErrMutationRejected = errors.New("mutation rejected")

// ErrLoadFailed wraps a failure of the initial data load.
var ErrLoadFailed = errors.New("load failed")
