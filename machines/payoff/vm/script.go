package vm

import (
	"context"
	"fmt"
	"strings"

	"github.com/robbyt/go-payoffscript/machines/payoff/node"
)

// Script is an ordered list of validated statements. Like its nodes, a Script
// is immutable and may be run from many goroutines at once.
type Script struct {
	statements []*node.Node
}

// NewScript validates every statement and returns the Script.
func NewScript(statements ...*node.Node) (*Script, error) {
	for i, stmt := range statements {
		if err := node.Validate(stmt); err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
	}
	stmts := make([]*node.Node, len(statements))
	copy(stmts, statements)
	return &Script{statements: stmts}, nil
}

// Statements returns a copy of the statement list.
func (s *Script) Statements() []*node.Node {
	out := make([]*node.Node, len(s.statements))
	copy(out, s.statements)
	return out
}

func (s *Script) Len() int {
	return len(s.statements)
}

// String prints one statement per line.
func (s *Script) String() string {
	lines := make([]string, len(s.statements))
	for i, stmt := range s.statements {
		lines[i] = stmt.String()
	}
	return strings.Join(lines, "\n")
}

// Result is the outcome of one run.
type Result struct {
	// Value is the value of the last statement, or 0 for an empty script.
	Value    float64
	Payments []Payment
	// Vars holds the final variable bindings, without compiler temporaries.
	Vars map[string]float64
	// DomainSubstitutions counts sentinel substitutions under PolicySentinel.
	DomainSubstitutions int
}

// Totals sums the payments per identifier.
func (r Result) Totals() map[string]float64 {
	out := make(map[string]float64)
	for _, p := range r.Payments {
		out[p.Name] += p.Amount
	}
	return out
}

// Run evaluates s against a fresh Environment seeded with market.
func (m *Machine) Run(ctx context.Context, s *Script, market map[string]float64) (Result, error) {
	env, err := NewEnvironment(market)
	if err != nil {
		return Result{}, err
	}
	return m.RunEnv(ctx, s, env)
}

// RunEnv evaluates s against env inside a new scope that is discarded on
// return, so env can be reused across runs without leaking variables.
// The context is checked between statements.
func (m *Machine) RunEnv(ctx context.Context, s *Script, env *Environment) (Result, error) {
	if s == nil {
		return Result{}, ErrNilScript
	}
	if env == nil {
		return Result{}, ErrNilEnvironment
	}

	env.PushScope()
	defer func() { _ = env.PopScope() }()

	r := &run{m: m, env: env, payments: NewPaymentLog()}
	var last float64
	for i, stmt := range s.statements {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("run stopped before statement %d: %w", i, err)
		}
		v, err := r.eval(stmt)
		if err != nil {
			return Result{}, err
		}
		last = v
	}

	return Result{
		Value:               last,
		Payments:            r.payments.Entries(),
		Vars:                env.visibleVars(),
		DomainSubstitutions: r.substitutions,
	}, nil
}
