package strategy

import "errors"

// Error sentinel values
var (
	// ErrUnknownStrategy indicates a strategy name GetStrategy does not know
	ErrUnknownStrategy = errors.New("unknown path strategy")
)
