package errors

import (
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrEmptySession    = errors.New("missing session token")
	ErrInvalidSession  = errors.New("invalid session token")
	ErrUnknownSortKey  = errors.New("unknown sort key")
	ErrUpstream        = errors.New("upstream request failed")
	ErrLineNotFound    = errors.New("product is not in the cart")
)
