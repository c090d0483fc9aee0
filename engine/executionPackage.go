package engine

import (
	"fmt"
	"time"

	"github.com/robbyt/go-payoffscript/execution/script"
)

// ExecutionPackage bundles an evaluator with its unit and a per-evaluation timeout.
type ExecutionPackage interface {
	// GetEvaluator returns the evaluator for this script
	GetEvaluator() EvaluatorWithPrep

	// GetExecutableUnit returns the executable unit for this script
	GetExecutableUnit() *script.ExecutableUnit

	// GetEvalTimeout returns the timeout for one evaluation; 0 means none.
	GetEvalTimeout() time.Duration
}

type executionPackage struct {
	evaluator   EvaluatorWithPrep
	unit        *script.ExecutableUnit
	evalTimeout time.Duration
}

// NewExecutionPackage creates a new ExecutionPackage.
func NewExecutionPackage(
	evaluator EvaluatorWithPrep,
	unit *script.ExecutableUnit,
	evalTimeout time.Duration,
) *executionPackage {
	return &executionPackage{
		evaluator:   evaluator,
		unit:        unit,
		evalTimeout: evalTimeout,
	}
}

func (sc *executionPackage) String() string {
	return fmt.Sprintf("engine.ExecutionPackage{Evaluator: %v, ExecutableUnit: %v, Timeout: %s}",
		sc.evaluator, sc.unit, sc.evalTimeout)
}

// GetEvaluator returns a evaluator that can run the associated executable unit
func (sc *executionPackage) GetEvaluator() EvaluatorWithPrep {
	return sc.evaluator
}

// GetExecutableUnit returns an executable unit (bytecode, source)
func (sc *executionPackage) GetExecutableUnit() *script.ExecutableUnit {
	return sc.unit
}

// GetEvalTimeout returns the timeout for this script
func (sc *executionPackage) GetEvalTimeout() time.Duration {
	return sc.evalTimeout
}
