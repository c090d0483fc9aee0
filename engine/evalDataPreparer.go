package engine

import (
	"context"
)

// EvalDataPreparer prepares data for script evaluation by enriching a context.
// This interface supports separating data preparation from evaluation, enabling
// distributed architectures where these steps can occur on different systems.
type EvalDataPreparer interface {
	// PrepareContext enriches a context with data for script evaluation,
	// storing it through the ExecutableUnit's DataProvider.
	//
	// Example:
	//  ctx, err := evaluator.PrepareContext(ctx, map[string]float64{"S": 101.5})
	//  if err != nil {
	//      return err
	//  }
	//  result, err := evaluator.Eval(ctx)
	PrepareContext(ctx context.Context, data ...any) (context.Context, error)
}

// EvaluatorWithPrep combines the Evaluator and EvalDataPreparer interfaces,
// providing a unified API for data preparation and script evaluation.
type EvaluatorWithPrep interface {
	Evaluator
	EvalDataPreparer
}
