package catalog

import "errors"

var (
	ErrNotFound         = errors.New("not_found")
	ErrInvalidDirection = errors.New("invalid_direction")
	ErrNoConnection     = errors.New("no_connection")
)
