package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robbyt/go-payoffscript/machines/payoff/node"
)

var (
	ErrUnbound         = errors.New("unbound identifier")
	ErrDomain          = errors.New("domain error")
	ErrMalformed       = node.ErrMalformed
	ErrInvalidSettings = errors.New("invalid settings")
	ErrScopeUnderflow  = errors.New("cannot pop the base scope")
	ErrNonFiniteSpot   = errors.New("spot value is not finite")
	ErrNilScript       = errors.New("script is nil")
	ErrNilEnvironment  = errors.New("environment is nil")
)

// MalformedNodeError is returned when a node violates its kind's arity
// contract. It is a tree-builder bug and aborts the run.
type MalformedNodeError = node.MalformedError

// UnboundIdentifierError is returned when a SPOT or VAR node names an
// identifier with no binding.
type UnboundIdentifierError struct {
	Node   *node.Node
	Name   string
	Market bool
}

func (e *UnboundIdentifierError) Error() string {
	where := "variable"
	if e.Market {
		where = "spot"
	}
	return fmt.Sprintf("%s: %s %q", ErrUnbound, where, e.Name)
}

func (e *UnboundIdentifierError) Unwrap() error {
	return ErrUnbound
}

// DomainError is returned under the fail policy when an operation is outside
// its mathematical domain.
type DomainError struct {
	Node     *node.Node
	Kind     node.Kind
	Operands []float64
	Reason   string
}

func (e *DomainError) Error() string {
	ops := make([]string, len(e.Operands))
	for i, v := range e.Operands {
		ops[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%s in %s(%s): %s", ErrDomain, e.Kind, strings.Join(ops, ", "), e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}
