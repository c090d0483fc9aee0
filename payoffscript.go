// Package payoffscript compiles payoff scripts once and evaluates them
// against many markets.
package payoffscript

import (
	"io"

	"github.com/robbyt/go-payoffscript/engine"
	"github.com/robbyt/go-payoffscript/execution/script/loader"
	"github.com/robbyt/go-payoffscript/machines/payoff"
	"github.com/robbyt/go-payoffscript/machines/payoff/compiler"
	"github.com/robbyt/go-payoffscript/machines/payoff/evaluator"
	"github.com/robbyt/go-payoffscript/options"
)

// NewPayoffEvaluator creates a new evaluator for payoff scripts. A loader
// option is required.
func NewPayoffEvaluator(opts ...options.Option) (engine.EvaluatorWithPrep, error) {
	pkg, err := NewPayoffPackage(opts...)
	if err != nil {
		return nil, err
	}
	return pkg.GetEvaluator(), nil
}

// NewPayoffPackage compiles the configured script and bundles the evaluator,
// its executable unit and the per-evaluation timeout for engine.RunBatch.
func NewPayoffPackage(opts ...options.Option) (engine.ExecutionPackage, error) {
	cfg, err := options.New(opts...)
	if err != nil {
		return nil, err
	}

	wrapper, err := createEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	return engine.NewExecutionPackage(wrapper, wrapper.GetExecutableUnit(), cfg.GetEvalTimeout()), nil
}

func createEvaluator(cfg *options.Config) (*EvaluatorWrapper, error) {
	var compOpts []compiler.FunctionalOption
	if !cfg.Optimize() {
		compOpts = append(compOpts, compiler.WithoutOptimization())
	}
	execUnit, err := payoff.NewExecutableUnit(
		cfg.GetHandler(),
		cfg.GetLoader(),
		cfg.GetDataProvider(),
		compOpts...,
	)
	if err != nil {
		return nil, err
	}

	evalOpts := []evaluator.Option{evaluator.WithSettings(cfg.GetSettings())}
	if reg := cfg.GetRegisterer(); reg != nil {
		evalOpts = append(evalOpts, evaluator.WithMetricsRegisterer(reg))
	}
	be, err := evaluator.NewBytecodeEvaluator(cfg.GetHandler(), execUnit, evalOpts...)
	if err != nil {
		return nil, err
	}

	return NewEvaluatorWrapper(be, execUnit), nil
}

// FromPayoffString creates a payoff evaluator from a script string
func FromPayoffString(content string, opts ...options.Option) (engine.EvaluatorWithPrep, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return NewPayoffEvaluator(append([]options.Option{options.WithLoader(l)}, opts...)...)
}

// FromPayoffStringWithData creates a payoff evaluator whose static data,
// such as strikes or fixed spots, sits under each run's context data.
func FromPayoffStringWithData(
	content string,
	staticData map[string]any,
	opts ...options.Option,
) (engine.EvaluatorWithPrep, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	allOpts := []options.Option{options.WithLoader(l), options.WithStaticData(staticData)}
	return NewPayoffEvaluator(append(allOpts, opts...)...)
}

// FromPayoffReader creates a payoff evaluator from a reader, such as an
// open script file. sourceName identifies the script in logs and unit IDs.
func FromPayoffReader(
	r io.Reader,
	sourceName string,
	opts ...options.Option,
) (engine.EvaluatorWithPrep, error) {
	l, err := loader.NewFromIoReader(r, sourceName)
	if err != nil {
		return nil, err
	}
	return NewPayoffEvaluator(append([]options.Option{options.WithLoader(l)}, opts...)...)
}
