package payoffscript

import (
	"context"
	"fmt"

	"github.com/robbyt/go-payoffscript/engine"
	"github.com/robbyt/go-payoffscript/execution/script"
)

// EvaluatorWrapper wraps a machine-specific evaluator and stores the ExecutableUnit.
// It implements both the Evaluator and EvalDataPreparer interfaces.
type EvaluatorWrapper struct {
	delegate engine.Evaluator
	execUnit *script.ExecutableUnit
}

// NewEvaluatorWrapper creates a new evaluator wrapper
func NewEvaluatorWrapper(
	delegateEvaluator engine.Evaluator,
	execUnit *script.ExecutableUnit,
) *EvaluatorWrapper {
	return &EvaluatorWrapper{
		delegate: delegateEvaluator,
		execUnit: execUnit,
	}
}

func (e *EvaluatorWrapper) String() string {
	return fmt.Sprintf("payoffscript.EvaluatorWrapper{%v}", e.delegate)
}

// Eval delegates to the wrapped evaluator.
func (e *EvaluatorWrapper) Eval(ctx context.Context) (engine.EvaluatorResponse, error) {
	return e.delegate.Eval(ctx)
}

// PrepareContext uses the delegate when it can prepare data itself, and the
// executable unit's data provider otherwise.
func (e *EvaluatorWrapper) PrepareContext(
	ctx context.Context,
	data ...any,
) (context.Context, error) {
	if preparer, ok := e.delegate.(engine.EvalDataPreparer); ok {
		return preparer.PrepareContext(ctx, data...)
	}

	if e.execUnit == nil || e.execUnit.GetDataProvider() == nil {
		return ctx, fmt.Errorf("no data provider available")
	}
	return e.execUnit.GetDataProvider().AddDataToContext(ctx, data...)
}

// GetExecutableUnit returns the stored ExecutableUnit
func (e *EvaluatorWrapper) GetExecutableUnit() *script.ExecutableUnit {
	return e.execUnit
}
