// Package payoff wires the payoff compiler and evaluator into the
// compile-once, run-many evaluator stack.
package payoff

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-payoffscript/execution/constants"
	"github.com/robbyt/go-payoffscript/execution/data"
	"github.com/robbyt/go-payoffscript/execution/script"
	"github.com/robbyt/go-payoffscript/execution/script/loader"
	"github.com/robbyt/go-payoffscript/machines/payoff/compiler"
	"github.com/robbyt/go-payoffscript/machines/payoff/evaluator"
)

// FromPayoffLoader creates a payoff evaluator that reads its market from
// the context only (ContextProvider).
//
// Returns an evaluator, which implements the engine.EvaluatorWithPrep interface.
func FromPayoffLoader(
	logHandler slog.Handler,
	ldr loader.Loader,
	opts ...evaluator.Option,
) (*evaluator.BytecodeEvaluator, error) {
	return NewEvaluator(
		logHandler,
		ldr,
		data.NewContextProvider(constants.EvalData),
		opts...,
	)
}

// FromPayoffLoaderWithData creates a payoff evaluator with static data, such
// as fixed spots or contract parameters, merged under each run's context data.
func FromPayoffLoaderWithData(
	logHandler slog.Handler,
	ldr loader.Loader,
	staticData map[string]any,
	opts ...evaluator.Option,
) (*evaluator.BytecodeEvaluator, error) {
	provider := data.NewCompositeProvider(
		data.NewStaticProvider(staticData),
		data.NewContextProvider(constants.EvalData),
	)
	return NewEvaluator(logHandler, ldr, provider, opts...)
}

// NewCompiler creates a new payoff compiler. Returns a compiler, which
// implements the script.Compiler interface.
func NewCompiler(opts ...compiler.FunctionalOption) (*compiler.Compiler, error) {
	return compiler.NewCompiler(opts...)
}

// NewEvaluator compiles the script from ldr and returns an evaluator ready
// for execution. The loader's source URL becomes the unit ID.
func NewEvaluator(
	logHandler slog.Handler,
	ldr loader.Loader,
	dataProvider data.Provider,
	opts ...evaluator.Option,
) (*evaluator.BytecodeEvaluator, error) {
	execUnit, err := NewExecutableUnit(logHandler, ldr, dataProvider)
	if err != nil {
		return nil, err
	}
	return evaluator.NewBytecodeEvaluator(logHandler, execUnit, opts...)
}

// NewExecutableUnit compiles the script from ldr into a unit bound to
// dataProvider. compOpts are applied after the log handler option.
func NewExecutableUnit(
	logHandler slog.Handler,
	ldr loader.Loader,
	dataProvider data.Provider,
	compOpts ...compiler.FunctionalOption,
) (*script.ExecutableUnit, error) {
	if ldr == nil {
		return nil, fmt.Errorf("loader is nil")
	}

	if logHandler != nil {
		compOpts = append([]compiler.FunctionalOption{compiler.WithLogHandler(logHandler)}, compOpts...)
	}
	comp, err := NewCompiler(compOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create payoff compiler: %w", err)
	}

	execUnitID := ""
	if sourceURL := ldr.GetSourceURL(); sourceURL != nil {
		execUnitID = sourceURL.String()
	}
	return script.NewExecutableUnit(logHandler, execUnitID, ldr, comp, dataProvider)
}
