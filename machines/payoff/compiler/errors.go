package compiler

import "errors"

var (
	ErrContentNil         = errors.New("payoff content is nil")
	ErrExecCreationFailed = errors.New("unable to create payoff executable")
	ErrValidationFailed   = errors.New("payoff script validation error")
	ErrUnsupported        = errors.New("unsupported construct")
)
