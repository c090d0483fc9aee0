package payoff

import (
	"github.com/robbyt/go-payoffscript/machines/payoff/compiler"
	"github.com/robbyt/go-payoffscript/machines/payoff/evaluator"
)

type (
	BytecodeEvaluator = evaluator.BytecodeEvaluator
	Response          = evaluator.Response
	Compiler          = compiler.Compiler
)

var (
	NewBytecodeEvaluator  = evaluator.NewBytecodeEvaluator
	WithSettings          = evaluator.WithSettings
	WithMetricsRegisterer = evaluator.WithMetricsRegisterer
)
