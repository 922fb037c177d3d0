package types

import "errors"

// Domain errors for type validation
var (
	ErrInvalidKind = errors.New("invalid definition kind")
	ErrInvalidLine = errors.New("line number must be >= 1")
)
