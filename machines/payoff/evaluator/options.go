package evaluator

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/robbyt/go-payoffscript/machines/payoff/vm"
)

// Option configures a BytecodeEvaluator.
type Option func(*BytecodeEvaluator) error

// WithSettings sets the numeric policy of the evaluator's machine. An unset
// kernel, policy or depth bound takes its default; a zero tolerance or
// bandwidth is kept and means exact comparisons and steps.
func WithSettings(settings vm.Settings) Option {
	return func(be *BytecodeEvaluator) error {
		be.settings = settings.WithDefaults()
		return nil
	}
}

// WithMetricsRegisterer enables Prometheus metrics on reg.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(be *BytecodeEvaluator) error {
		if reg == nil {
			return fmt.Errorf("metrics registerer cannot be nil")
		}
		be.registerer = reg
		return nil
	}
}

func (be *BytecodeEvaluator) applyDefaults() {
	be.settings = vm.DefaultSettings()
}

func (be *BytecodeEvaluator) validate() error {
	if be.execUnit == nil {
		return ErrNoExecutableUnit
	}
	if err := be.settings.Validate(); err != nil {
		return err
	}
	return nil
}
