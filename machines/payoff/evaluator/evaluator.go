package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/robbyt/go-payoffscript/engine"
	"github.com/robbyt/go-payoffscript/execution/data"
	"github.com/robbyt/go-payoffscript/execution/script"
	"github.com/robbyt/go-payoffscript/internal/helpers"
	"github.com/robbyt/go-payoffscript/machines/payoff/vm"
)

// BytecodeEvaluator runs the compiled payoff script of one ExecutableUnit.
// Market values come from the unit's data provider on every Eval, so one
// evaluator serves any number of paths, concurrently.
type BytecodeEvaluator struct {
	execUnit   *script.ExecutableUnit
	settings   vm.Settings
	machine    *vm.Machine
	registerer prometheus.Registerer
	metrics    *metrics

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewBytecodeEvaluator creates an evaluator for execUnit.
func NewBytecodeEvaluator(
	handler slog.Handler,
	execUnit *script.ExecutableUnit,
	opts ...Option,
) (*BytecodeEvaluator, error) {
	handler, logger := helpers.SetupLogger(handler, "payoff", "BytecodeEvaluator")

	be := &BytecodeEvaluator{
		execUnit:   execUnit,
		logHandler: handler,
		logger:     logger,
	}
	be.applyDefaults()

	for _, opt := range opts {
		if err := opt(be); err != nil {
			return nil, fmt.Errorf("error applying evaluator option: %w", err)
		}
	}
	if err := be.validate(); err != nil {
		return nil, fmt.Errorf("invalid evaluator configuration: %w", err)
	}

	machine, err := vm.New(be.settings, handler)
	if err != nil {
		return nil, err
	}
	be.machine = machine

	if be.registerer != nil {
		m, err := newMetrics(be.registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		be.metrics = m
	}
	return be, nil
}

func (be *BytecodeEvaluator) String() string {
	return "payoff.BytecodeEvaluator"
}

// Settings returns the numeric policy the evaluator runs under.
func (be *BytecodeEvaluator) Settings() vm.Settings {
	return be.settings
}

func (be *BytecodeEvaluator) loadScript() (*vm.Script, error) {
	content := be.execUnit.GetContent()
	if content == nil {
		return nil, fmt.Errorf("%w: no content", ErrInvalidByteCode)
	}
	s, ok := content.GetByteCode().(*vm.Script)
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidByteCode, content.GetByteCode())
	}
	return s, nil
}

func (be *BytecodeEvaluator) loadMarket(ctx context.Context) (map[string]float64, error) {
	provider := be.execUnit.GetDataProvider()
	if provider == nil {
		return map[string]float64{}, nil
	}
	d, err := provider.GetData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get data from provider: %w", err)
	}
	return marketFromData(d)
}

// Eval runs the script once against the market found in ctx.
func (be *BytecodeEvaluator) Eval(ctx context.Context) (_ engine.EvaluatorResponse, err error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := be.logger.With("exeID", be.execUnit.GetID(), "runID", runID)

	payments := 0
	defer func() {
		be.metrics.observe(outcomeOf(err), time.Since(start), payments)
	}()

	s, err := be.loadScript()
	if err != nil {
		logger.ErrorContext(ctx, "cannot run executable unit", "error", err)
		return nil, err
	}

	market, err := be.loadMarket(ctx)
	if err != nil {
		logger.WarnContext(ctx, "invalid market data", "error", err)
		return nil, err
	}

	result, err := be.machine.Run(ctx, s, market)
	if err != nil {
		logger.WarnContext(ctx, "payoff evaluation failed", "error", err)
		return nil, fmt.Errorf("payoff evaluation failed: %w", err)
	}
	payments = len(result.Payments)

	elapsed := time.Since(start)
	logger.DebugContext(ctx, "payoff evaluation completed",
		"value", result.Value,
		"payments", payments,
		"substitutions", result.DomainSubstitutions,
		"execTime", elapsed,
	)
	return newEvalResult(result, elapsed, be.execUnit.GetID(), runID), nil
}

// PrepareContext stores market data and parameters in ctx through the
// unit's data provider.
func (be *BytecodeEvaluator) PrepareContext(ctx context.Context, d ...any) (context.Context, error) {
	return data.PrepareContextHelper(ctx, be.logger, be.execUnit.GetDataProvider(), d...)
}
