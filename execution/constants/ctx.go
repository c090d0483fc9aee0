// Description: This file contains constants used for accessing values from context objects.
package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// EvalData is the key used to store evaluation data in the context
	EvalData ContextKey = "eval_data"

	// Market is a key within the EvalData map, not a context key. It holds
	// the nested map of spot values read by SPOT nodes.
	Market = "market"
)
