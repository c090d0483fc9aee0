package types

// Type identifies the machine an executable targets.
type Type string

const (
	// Payoff is the payoff-tree evaluation machine.
	Payoff Type = "payoff"
)
