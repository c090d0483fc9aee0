package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/robbyt/go-payoffscript/execution/constants"
)

// ContextProvider retrieves and stores data in the context using a specified key.
type ContextProvider struct {
	contextKey constants.ContextKey
}

// NewContextProvider creates a new ContextProvider with the given context key.
func NewContextProvider(contextKey constants.ContextKey) *ContextProvider {
	return &ContextProvider{
		contextKey: contextKey,
	}
}

// GetData extracts data from the context using the configured context key.
func (p *ContextProvider) GetData(ctx context.Context) (map[string]any, error) {
	if p.contextKey == "" {
		return nil, fmt.Errorf("context key is empty")
	}

	value := ctx.Value(p.contextKey)
	if value == nil {
		return make(map[string]any), nil
	}

	d, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid input data type: expected map[string]any, got %T", value)
	}
	return d, nil
}

// AddDataToContext merges the provided items into any data already stored
// under the context key. Later values override earlier ones for duplicate
// keys, and nested maps are merged recursively. Every item is processed even
// when some fail; the returned context always holds whatever was accepted.
//
// Example:
//
//	provider := NewContextProvider(constants.EvalData)
//	ctx, err := provider.AddDataToContext(ctx,
//	    map[string]float64{"S": 101.5},
//	    map[string]any{"notional": 1e6},
//	)
func (p *ContextProvider) AddDataToContext(ctx context.Context, data ...any) (context.Context, error) {
	if p.contextKey == "" {
		return ctx, fmt.Errorf("context key is empty")
	}

	var errz []error
	toStore := make(map[string]any)
	if existing, ok := ctx.Value(p.contextKey).(map[string]any); ok {
		toStore = deepCopy(existing)
	}

	for _, item := range data {
		switch v := item.(type) {
		case nil:
			continue
		case map[string]float64:
			market := make(map[string]any, len(v))
			for name, value := range v {
				if name == "" {
					errz = append(errz, fmt.Errorf("empty spot names are not allowed"))
					continue
				}
				market[name] = value
			}
			mergeInto(toStore, map[string]any{constants.Market: market})
		case map[string]any:
			if err := checkKeys(v); err != nil {
				errz = append(errz, err)
				continue
			}
			mergeInto(toStore, deepCopy(v))
		default:
			errz = append(errz, fmt.Errorf("unsupported data type for ContextProvider: %T", item))
		}
	}

	return context.WithValue(ctx, p.contextKey, toStore), errors.Join(errz...)
}

func checkKeys(m map[string]any) error {
	for k, v := range m {
		if k == "" {
			return fmt.Errorf("empty keys are not allowed")
		}
		switch nested := v.(type) {
		case map[string]any:
			if err := checkKeys(nested); err != nil {
				return fmt.Errorf("key '%s': %w", k, err)
			}
		case map[string]float64:
			if _, empty := nested[""]; empty {
				return fmt.Errorf("key '%s': empty keys are not allowed", k)
			}
		}
	}
	return nil
}

// mergeInto merges src into dst. Nested maps merge recursively; any other
// value replaces the existing one. Both maps must already be deepCopy
// output, so nested maps are all map[string]any.
func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		if srcMap, ok := v.(map[string]any); ok {
			if dstMap, ok := dst[k].(map[string]any); ok {
				mergeInto(dstMap, srcMap)
				continue
			}
		}
		dst[k] = v
	}
}
