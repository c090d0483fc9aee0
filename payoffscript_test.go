package payoffscript_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	payoffscript "github.com/robbyt/go-payoffscript"
	"github.com/robbyt/go-payoffscript/engine"
	"github.com/robbyt/go-payoffscript/execution/constants"
	"github.com/robbyt/go-payoffscript/execution/script/loader"
	"github.com/robbyt/go-payoffscript/machines/mocks"
	"github.com/robbyt/go-payoffscript/machines/payoff/evaluator"
	"github.com/robbyt/go-payoffscript/machines/payoff/vm"
	"github.com/robbyt/go-payoffscript/options"
)

const callSpread = `
lower = 100
upper = 120
pays(max(S - lower, 0), "long")
pays(-max(S - upper, 0), "short")
`

func quietLogs() options.Option {
	return options.WithLogHandler(slog.NewTextHandler(io.Discard, nil))
}

func evalWith(t *testing.T, ev engine.EvaluatorWithPrep, d ...any) *evaluator.Response {
	t.Helper()
	ctx, err := ev.PrepareContext(context.Background(), d...)
	require.NoError(t, err)
	resp, err := ev.Eval(ctx)
	require.NoError(t, err)
	r, ok := resp.(*evaluator.Response)
	require.True(t, ok, "unexpected response type %T", resp)
	return r
}

func TestFromPayoffString(t *testing.T) {
	t.Parallel()

	ev, err := payoffscript.FromPayoffString(callSpread, quietLogs())
	require.NoError(t, err)

	tests := []struct {
		spot  float64
		long  float64
		short float64
	}{
		{90, 0, 0},
		{110, 10, 0},
		{130, 30, -10},
	}
	for _, tt := range tests {
		r := evalWith(t, ev, map[string]float64{"S": tt.spot})
		res := r.GetResult()
		assert.Equal(t, []vm.Payment{
			{Name: "long", Amount: tt.long},
			{Name: "short", Amount: tt.short},
		}, res.Payments, "S=%v", tt.spot)
		assert.NotEmpty(t, r.GetRunID())
		assert.NotEmpty(t, r.GetScriptExeID())
	}
}

func TestFromPayoffString_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty script", func(t *testing.T) {
		_, err := payoffscript.FromPayoffString("", quietLogs())
		require.ErrorIs(t, err, loader.ErrScriptNotAvailable)
	})

	t.Run("unsupported construct", func(t *testing.T) {
		_, err := payoffscript.FromPayoffString("def f():\n    pass\n", quietLogs())
		require.Error(t, err)
	})

	t.Run("bad option", func(t *testing.T) {
		_, err := payoffscript.FromPayoffString("pays(S)", options.WithLoader(nil))
		require.ErrorIs(t, err, options.ErrNilOption)
	})

	t.Run("missing spot at run time", func(t *testing.T) {
		ev, err := payoffscript.FromPayoffString("pays(S)", quietLogs())
		require.NoError(t, err)
		_, err = ev.Eval(context.Background())
		require.ErrorIs(t, err, vm.ErrUnbound)
	})
}

func TestFromPayoffStringWithData(t *testing.T) {
	t.Parallel()

	ev, err := payoffscript.FromPayoffStringWithData(
		`pays(notional * max(S - K, 0), "call")`,
		map[string]any{"K": 100.0, "notional": 2},
		quietLogs(),
	)
	require.NoError(t, err)

	r := evalWith(t, ev, map[string]float64{"S": 125})
	assert.InDelta(t, 50.0, r.GetResult().Value, 1e-12)

	t.Run("context market overrides static spots", func(t *testing.T) {
		r := evalWith(t, ev, map[string]float64{"S": 125, "K": 120})
		assert.InDelta(t, 10.0, r.GetResult().Value, 1e-12)
	})
}

func TestFromPayoffStringWithData_TypedStaticMarket(t *testing.T) {
	t.Parallel()

	ev, err := payoffscript.FromPayoffStringWithData(
		`pays(S - K, "call")`,
		map[string]any{constants.Market: map[string]float64{"K": 100}},
		quietLogs(),
	)
	require.NoError(t, err)

	r := evalWith(t, ev, map[string]float64{"S": 120})
	assert.InDelta(t, 20.0, r.GetResult().Value, 1e-12)
	assert.Equal(t, []vm.Payment{{Name: "call", Amount: 20}}, r.GetResult().Payments)
}

func TestFromPayoffReader(t *testing.T) {
	t.Parallel()

	ev, err := payoffscript.FromPayoffReader(strings.NewReader(callSpread), "spread.star", quietLogs())
	require.NoError(t, err)

	wrapper, ok := ev.(*payoffscript.EvaluatorWrapper)
	require.True(t, ok)
	unit := wrapper.GetExecutableUnit()
	require.NotNil(t, unit)
	assert.Contains(t, unit.GetID(), "spread.star")
	assert.Equal(t, callSpread, unit.GetContent().GetSource())

	_, err = payoffscript.FromPayoffReader(nil, "x", quietLogs())
	require.ErrorIs(t, err, loader.ErrScriptNotAvailable)
}

func TestNewPayoffEvaluator_Options(t *testing.T) {
	t.Parallel()

	t.Run("missing loader", func(t *testing.T) {
		_, err := payoffscript.NewPayoffEvaluator(quietLogs())
		require.ErrorIs(t, err, options.ErrNoLoader)
	})

	t.Run("sentinel settings", func(t *testing.T) {
		ldr, err := loader.NewFromString("pays(log(S))")
		require.NoError(t, err)
		ev, err := payoffscript.NewPayoffEvaluator(
			options.WithLoader(ldr),
			options.WithSettingsYAML(strings.NewReader("domain_policy: sentinel\nsentinel: -7\n")),
			quietLogs(),
		)
		require.NoError(t, err)

		r := evalWith(t, ev, map[string]float64{"S": -1})
		assert.Equal(t, -7.0, r.GetResult().Value)
		assert.Equal(t, 1, r.GetResult().DomainSubstitutions)
	})

	t.Run("optimized and plain agree", func(t *testing.T) {
		optimized, err := payoffscript.FromPayoffString(callSpread, quietLogs())
		require.NoError(t, err)
		plain, err := payoffscript.FromPayoffString(callSpread, quietLogs(), options.WithoutOptimization())
		require.NoError(t, err)

		for _, s := range []float64{50, 100, 115, 120, 200} {
			market := map[string]float64{"S": s}
			a := evalWith(t, optimized, market).GetResult()
			b := evalWith(t, plain, market).GetResult()
			assert.Equal(t, b.Payments, a.Payments, "S=%v", s)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		ev, err := payoffscript.FromPayoffString(callSpread, quietLogs(), options.WithMetricsRegisterer(reg))
		require.NoError(t, err)

		evalWith(t, ev, map[string]float64{"S": 110})
		_, err = ev.Eval(context.Background())
		require.Error(t, err)

		// two outcome series plus the payments counter and the histogram
		assert.Equal(t, 4, testutil.CollectAndCount(reg,
			"payoff_evaluations_total",
			"payoff_payments_total",
			"payoff_evaluation_duration_seconds",
		))
	})
}

func TestNewPayoffPackage_RunBatch(t *testing.T) {
	t.Parallel()

	ldr, err := loader.NewFromString(callSpread)
	require.NoError(t, err)
	pkg, err := payoffscript.NewPayoffPackage(
		options.WithLoader(ldr),
		options.WithEvalTimeout(time.Second),
		quietLogs(),
	)
	require.NoError(t, err)
	assert.Equal(t, time.Second, pkg.GetEvalTimeout())
	require.NotNil(t, pkg.GetExecutableUnit())

	spots := []float64{90, 105, 110, 125, 140}
	inputs := make([][]any, len(spots))
	for i, s := range spots {
		inputs[i] = []any{map[string]float64{"S": s}}
	}

	responses, err := engine.RunBatch(context.Background(), pkg, inputs, 2)
	require.NoError(t, err)
	require.Len(t, responses, len(spots))

	want := []float64{0, 5, 10, 20, 20}
	for i, resp := range responses {
		r, ok := resp.(*evaluator.Response)
		require.True(t, ok)
		var total float64
		for _, p := range r.GetResult().Payments {
			total += p.Amount
		}
		assert.InDelta(t, want[i], total, 1e-12, "S=%v", spots[i])
	}
}

func TestEvaluatorWrapper(t *testing.T) {
	t.Parallel()

	t.Run("eval delegates", func(t *testing.T) {
		delegate := &mocks.Evaluator{}
		resp := &mocks.EvaluatorResponse{}
		delegate.On("Eval", mock.Anything).Return(resp, nil)

		w := payoffscript.NewEvaluatorWrapper(delegate, nil)
		got, err := w.Eval(context.Background())
		require.NoError(t, err)
		assert.Same(t, resp, got)
		delegate.AssertExpectations(t)
	})

	t.Run("eval error", func(t *testing.T) {
		delegate := &mocks.Evaluator{}
		delegate.On("Eval", mock.Anything).Return(nil, errors.New("boom"))

		w := payoffscript.NewEvaluatorWrapper(delegate, nil)
		_, err := w.Eval(context.Background())
		require.EqualError(t, err, "boom")
	})

	t.Run("prepare delegates", func(t *testing.T) {
		delegate := &mocks.Evaluator{}
		ctx := context.Background()
		prepared := context.WithValue(ctx, struct{}{}, "x")
		input := map[string]float64{"S": 1}
		delegate.On("PrepareContext", ctx, []any{input}).Return(prepared, nil)

		w := payoffscript.NewEvaluatorWrapper(delegate, nil)
		got, err := w.PrepareContext(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, prepared, got)
		delegate.AssertExpectations(t)
	})

	t.Run("prepare without provider", func(t *testing.T) {
		w := payoffscript.NewEvaluatorWrapper(evalOnly{}, nil)
		_, err := w.PrepareContext(context.Background(), map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no data provider available")
	})

	t.Run("string", func(t *testing.T) {
		w := payoffscript.NewEvaluatorWrapper(evalOnly{}, nil)
		assert.Contains(t, w.String(), "EvaluatorWrapper")
	})
}

// evalOnly implements engine.Evaluator without PrepareContext.
type evalOnly struct{}

func (evalOnly) Eval(context.Context) (engine.EvaluatorResponse, error) {
	return nil, nil
}

