package models

import "errors"

// Domain errors shared by the resource clients and the handlers.
// Clients return errors that match these through errors.Is; handlers decide
// what to show.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrValidation      = errors.New("validation failed")
	ErrNetwork         = errors.New("backend unreachable")
	ErrAlreadyPolling  = errors.New("view is already polling")
)
