// Package mocks provides testify mocks of the engine interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-payoffscript/engine"
	"github.com/robbyt/go-payoffscript/execution/data"
)

// Evaluator is a mock implementation of engine.EvaluatorWithPrep for testing purposes.
type Evaluator struct {
	mock.Mock
}

// Eval is a mock implementation of the Eval method.
func (m *Evaluator) Eval(ctx context.Context) (engine.EvaluatorResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(engine.EvaluatorResponse)
	return resp, args.Error(1)
}

// PrepareContext is a mock implementation of the PrepareContext method.
func (m *Evaluator) PrepareContext(ctx context.Context, d ...any) (context.Context, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(context.Context), args.Error(1)
}

// EvaluatorResponse is a mock implementation of engine.EvaluatorResponse.
type EvaluatorResponse struct {
	mock.Mock
}

func (m *EvaluatorResponse) Type() data.Types {
	args := m.Called()
	return args.Get(0).(data.Types)
}

func (m *EvaluatorResponse) Inspect() string {
	args := m.Called()
	return args.String(0)
}

func (m *EvaluatorResponse) Interface() any {
	args := m.Called()
	return args.Get(0)
}

func (m *EvaluatorResponse) GetScriptExeID() string {
	args := m.Called()
	return args.String(0)
}

func (m *EvaluatorResponse) GetExecTime() string {
	args := m.Called()
	return args.String(0)
}
