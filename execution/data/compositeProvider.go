package data

import (
	"context"
	"errors"
	"fmt"
)

// CompositeProvider combines multiple providers, with later providers
// overriding values from earlier ones in the chain.
type CompositeProvider struct {
	providers []Provider
}

// NewCompositeProvider creates a provider that queries given providers in order.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{
		providers: providers,
	}
}

// GetData retrieves data from all providers and deep-merges it, so a runtime
// market map adds to (and overrides single spots of) a static one.
// Returns error on first provider failure.
func (p *CompositeProvider) GetData(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)
	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		d, err := provider.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}
		mergeInto(result, deepCopy(d))
	}
	return result, nil
}

// AddDataToContext offers the data to every provider in the chain.
// StaticProvider refusals are ignored as long as some other provider
// accepted the data.
func (p *CompositeProvider) AddDataToContext(ctx context.Context, data ...any) (context.Context, error) {
	finalCtx := ctx
	var errs, staticErrs []error
	runtime := 0

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		_, isStatic := provider.(*StaticProvider)
		if !isStatic {
			runtime++
		}

		nextCtx, err := provider.AddDataToContext(finalCtx, data...)
		if err != nil {
			if isStatic && errors.Is(err, ErrStaticProviderNoRuntimeUpdates) {
				staticErrs = append(staticErrs, fmt.Errorf("error from provider %d: %w", i, err))
				continue
			}
			errs = append(errs, fmt.Errorf("error from provider %d: %w", i, err))
			// Keep the partial context, as ContextProvider does.
			finalCtx = nextCtx
			continue
		}
		finalCtx = nextCtx
	}

	if runtime == 0 && len(staticErrs) > 0 {
		return ctx, errors.Join(staticErrs...)
	}
	return finalCtx, errors.Join(errs...)
}
