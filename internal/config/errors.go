package config

import "errors"

// Validation errors. Returned wrapped with the offending key.
var (
	// ErrInvalidGrid indicates a non-positive grid dimension.
	ErrInvalidGrid = errors.New("config: invalid grid size")

	// ErrInvalidRange indicates a min/max pair with min above max or a
	// range outside its allowed interval.
	ErrInvalidRange = errors.New("config: invalid range")

	// ErrInvalidParameter indicates a single value outside its valid domain.
	ErrInvalidParameter = errors.New("config: invalid parameter")
)
