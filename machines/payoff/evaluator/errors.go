package evaluator

import "errors"

var (
	ErrNoExecutableUnit   = errors.New("executable unit is nil")
	ErrInvalidByteCode    = errors.New("bytecode is not a payoff script")
	ErrInvalidMarketValue = errors.New("invalid market value")
)
