package data

import (
	"context"
)

// Getter retrieves evaluation data from a context.
type Getter interface {
	GetData(ctx context.Context) (map[string]any, error)
}

// Setter enriches a context with evaluation data.
type Setter interface {
	// AddDataToContext stores data in the context for a later Eval. Accepted
	// items are map[string]any (merged at the top level) and
	// map[string]float64 (merged into the constants.Market map).
	AddDataToContext(ctx context.Context, data ...any) (context.Context, error)
}

// Provider is the data source of an ExecutableUnit.
type Provider interface {
	Getter
	Setter
}
