package data

import (
	"context"
	"errors"
	"maps"
)

// ErrStaticProviderNoRuntimeUpdates is returned when runtime data is added to a StaticProvider.
var ErrStaticProviderNoRuntimeUpdates = errors.New("static provider does not accept runtime data")

// StaticProvider returns a fixed map of data, set when the evaluator is built.
// Typical use is a set of spot values or script parameters shared by every run.
type StaticProvider struct {
	data map[string]any
}

// NewStaticProvider creates a StaticProvider. The map is copied.
func NewStaticProvider(data map[string]any) *StaticProvider {
	if data == nil {
		return &StaticProvider{data: make(map[string]any)}
	}
	return &StaticProvider{data: deepCopy(data)}
}

// GetData returns a copy of the static data, regardless of the context.
func (p *StaticProvider) GetData(_ context.Context) (map[string]any, error) {
	return deepCopy(p.data), nil
}

// AddDataToContext always fails: static data is fixed at creation time.
func (p *StaticProvider) AddDataToContext(ctx context.Context, _ ...any) (context.Context, error) {
	return ctx, ErrStaticProviderNoRuntimeUpdates
}

// deepCopy copies m and its nested maps. A nested map[string]float64 becomes
// a map[string]any, so every nested map merges the same way.
func deepCopy(m map[string]any) map[string]any {
	out := maps.Clone(m)
	for k, v := range out {
		switch nested := v.(type) {
		case map[string]any:
			out[k] = deepCopy(nested)
		case map[string]float64:
			converted := make(map[string]any, len(nested))
			for name, f := range nested {
				converted[name] = f
			}
			out[k] = converted
		}
	}
	return out
}
