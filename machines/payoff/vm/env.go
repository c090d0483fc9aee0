package vm

import (
	"fmt"
	"maps"
	"math"
	"strings"
)

// InternalPrefix marks compiler temporaries. Variables whose names start with
// it are hidden from Result.Vars.
const InternalPrefix = "$"

// Environment holds the market values read by SPOT nodes and a stack of
// variable scopes read by VAR nodes. It belongs to a single run at a time and
// is not safe for concurrent use.
type Environment struct {
	market map[string]float64
	scopes []map[string]float64
}

// NewEnvironment copies market into a new Environment with one base scope.
func NewEnvironment(market map[string]float64) (*Environment, error) {
	env := &Environment{
		market: make(map[string]float64, len(market)),
		scopes: []map[string]float64{make(map[string]float64)},
	}
	for name, v := range market {
		if err := env.SetSpot(name, v); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// SetSpot seeds or replaces a market value.
func (e *Environment) SetSpot(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s=%v", ErrNonFiniteSpot, name, v)
	}
	e.market[name] = v
	return nil
}

// Spot returns the market value bound to name.
func (e *Environment) Spot(name string) (float64, bool) {
	v, ok := e.market[name]
	return v, ok
}

// Market returns a copy of the market values.
func (e *Environment) Market() map[string]float64 {
	return maps.Clone(e.market)
}

// Bind introduces or overwrites name in the innermost scope.
func (e *Environment) Bind(name string, v float64) {
	e.scopes[len(e.scopes)-1][name] = v
}

// Lookup searches the scopes from innermost to outermost.
func (e *Environment) Lookup(name string) (float64, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i][name]; ok {
			return v, true
		}
	}
	return 0, false
}

func (e *Environment) PushScope() {
	e.scopes = append(e.scopes, make(map[string]float64))
}

// PopScope discards the innermost scope and its bindings.
func (e *Environment) PopScope() error {
	if len(e.scopes) == 1 {
		return ErrScopeUnderflow
	}
	e.scopes[len(e.scopes)-1] = nil
	e.scopes = e.scopes[:len(e.scopes)-1]
	return nil
}

// Depth returns the number of scopes, including the base scope.
func (e *Environment) Depth() int {
	return len(e.scopes)
}

// Vars flattens the scopes into one map, inner bindings winning.
func (e *Environment) Vars() map[string]float64 {
	out := make(map[string]float64)
	for _, scope := range e.scopes {
		maps.Copy(out, scope)
	}
	return out
}

func (e *Environment) visibleVars() map[string]float64 {
	out := e.Vars()
	maps.DeleteFunc(out, func(name string, _ float64) bool {
		return strings.HasPrefix(name, InternalPrefix)
	})
	return out
}
