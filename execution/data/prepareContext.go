package data

import (
	"context"
	"fmt"
	"log/slog"
)

// PrepareContextHelper is a utility function that implements the common logic for
// preparing a context with evaluation data, shared by every evaluator.
//
// The partial context is returned together with any error, as it may hold
// some usable data.
func PrepareContextHelper(
	ctx context.Context,
	logger *slog.Logger,
	provider Provider,
	d ...any,
) (context.Context, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if provider == nil {
		logger.WarnContext(ctx, "no data provider available for context preparation")
		return ctx, fmt.Errorf("no data provider available")
	}

	enrichedCtx, err := provider.AddDataToContext(ctx, d...)
	if err != nil {
		logger.ErrorContext(ctx, "failed to prepare context", "error", err)
		return enrichedCtx, fmt.Errorf("failed to prepare context: %w", err)
	}
	return enrichedCtx, nil
}
