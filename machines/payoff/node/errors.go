package node

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed   = errors.New("malformed node")
	ErrUnknownKind = errors.New("unknown node kind")
)

// MalformedError reports a node whose shape does not match its kind. It
// indicates a bug in whatever built the tree.
type MalformedError struct {
	Node   *Node
	Kind   Kind
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrMalformed, e.Kind, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

func malformed(n *Node, k Kind, format string, args ...any) *MalformedError {
	return &MalformedError{Node: n, Kind: k, Reason: fmt.Sprintf(format, args...)}
}
