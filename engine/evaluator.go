package engine

import (
	"context"
)

// Evaluator runs a compiled script against the data carried by ctx.
type Evaluator interface {
	// Eval evaluates the pre-compiled script with data from the context.
	// Compilation happens once, when the evaluator is built; Eval is the
	// cheap per-path step and is safe for concurrent use.
	Eval(ctx context.Context) (EvaluatorResponse, error)
}
