package evaluator

import (
	"fmt"
	"math"

	"github.com/robbyt/go-payoffscript/execution/constants"
)

// marketFromData builds the spot map a run reads. Numeric top-level entries
// are spots, and so is every entry of the nested constants.Market map, which
// wins over a top-level entry with the same name. Other top-level values
// (strings, parameter maps) are not market data and are skipped.
func marketFromData(d map[string]any) (map[string]float64, error) {
	market := make(map[string]float64, len(d))
	for name, v := range d {
		if name == constants.Market {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: spot %q is %v", ErrInvalidMarketValue, name, f)
		}
		market[name] = f
	}

	nested, ok := d[constants.Market]
	if !ok || nested == nil {
		return market, nil
	}
	switch m := nested.(type) {
	case map[string]float64:
		for name, f := range m {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("%w: spot %q is %v", ErrInvalidMarketValue, name, f)
			}
			market[name] = f
		}
	case map[string]any:
		for name, v := range m {
			f, ok := toFloat(v)
			if !ok {
				return nil, fmt.Errorf("%w: spot %q has type %T", ErrInvalidMarketValue, name, v)
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("%w: spot %q is %v", ErrInvalidMarketValue, name, f)
			}
			market[name] = f
		}
	default:
		return nil, fmt.Errorf("%w: %s must be a map, got %T", ErrInvalidMarketValue, constants.Market, nested)
	}
	return market, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
