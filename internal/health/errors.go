package health

import "errors"

var (
	// ErrInvalidTokenLimit is returned when the token limit is not positive.
	ErrInvalidTokenLimit = errors.New("token limit must be positive")

	// ErrInvalidBudget is returned for negative allocations or a buffer
	// percentage outside [0,1].
	ErrInvalidBudget = errors.New("invalid budget")
)
