package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrNoEvaluator is returned by RunBatch for a package without an evaluator.
var ErrNoEvaluator = errors.New("execution package has no evaluator")

// RunBatch evaluates the package's script once per input, with at most limit
// evaluations in flight (limit <= 0 means no limit). Each input is the data
// list handed to PrepareContext, typically one market scenario or path.
//
// Responses are returned in input order. The first failure cancels the
// evaluations still pending and is returned with its input index.
func RunBatch(
	ctx context.Context,
	pkg ExecutionPackage,
	inputs [][]any,
	limit int,
) ([]EvaluatorResponse, error) {
	if pkg == nil || pkg.GetEvaluator() == nil {
		return nil, ErrNoEvaluator
	}
	evaluator := pkg.GetEvaluator()
	timeout := pkg.GetEvalTimeout()

	responses := make([]EvaluatorResponse, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, input := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			evalCtx := gctx
			if timeout > 0 {
				var cancel context.CancelFunc
				evalCtx, cancel = context.WithTimeout(gctx, timeout)
				defer cancel()
			}

			evalCtx, err := evaluator.PrepareContext(evalCtx, input...)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			resp, err := evaluator.Eval(evalCtx)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}
