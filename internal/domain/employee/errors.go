package employee

import "errors"

var (
	ErrInvalidRegime = errors.New("invalid compensation regime")
)
