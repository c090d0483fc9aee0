package engine

import "github.com/robbyt/go-payoffscript/execution/data"

// EvaluatorResponse is the outcome of one evaluation.
type EvaluatorResponse interface {
	// Type of the object.
	Type() data.Types

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() any

	// GetScriptExeID returns the ID of the script that generated the object.
	GetScriptExeID() string

	// GetExecTime returns the time it took to execute the script
	GetExecTime() string
}
